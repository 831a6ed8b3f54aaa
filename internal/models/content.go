package models

import "time"

type Content struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Fields    []string  `json:"fields" yaml:"fields"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// FieldMutation is the outcome of a persisted change to a content's field list.
type FieldMutation struct {
	ContentID    int64    `json:"content_id" yaml:"content_id"`
	RowsAffected int64    `json:"rows_affected" yaml:"rows_affected"`
	Fields       []string `json:"fields" yaml:"fields"`
}
