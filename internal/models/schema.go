package models

// ContentType is an object schema read from an OpenAPI document: the schema
// name becomes the content name and its property names the fields.
type ContentType struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []string `json:"fields" yaml:"fields"`
}

// ImportResult reports what an import did to each content type it found.
type ImportResult struct {
	Created []Content `json:"created" yaml:"created"`
	Updated []Content `json:"updated" yaml:"updated"`
	Skipped []string  `json:"skipped" yaml:"skipped"`
}
