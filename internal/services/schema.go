package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dimitrije/cms-api/internal/models"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Conflict resolutions for importing a content type whose name is taken.
const (
	ResolutionSkip  = "skip"
	ResolutionMerge = "merge"
	ResolutionFail  = "fail"
)

type contentStore interface {
	GetByName(ctx context.Context, name string) (*models.Content, error)
	CreateWithFields(ctx context.Context, name string, fields []string) (*models.Content, error)
	ReplaceFields(ctx context.Context, name string, fields []string) (*models.FieldMutation, error)
}

// SchemaService turns the object schemas of an OpenAPI document into contents.
type SchemaService struct {
	contents contentStore
}

func NewSchemaService(contents contentStore) *SchemaService {
	return &SchemaService{contents: contents}
}

func ValidResolution(resolution string) bool {
	switch resolution {
	case ResolutionSkip, ResolutionMerge, ResolutionFail:
		return true
	}
	return false
}

func invalidDocument(err error) *Error {
	return &Error{Kind: KindInvalid, Code: "INVALID_SCHEMA", Message: "invalid openapi document: " + err.Error()}
}

// ParseOpenAPI parses OpenAPI content (auto-detects JSON/YAML)
func (s *SchemaService) ParseOpenAPI(content []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(content)
	if err != nil {
		var yamlData any
		if yamlErr := yaml.Unmarshal(content, &yamlData); yamlErr != nil {
			return nil, invalidDocument(err)
		}
		jsonContent, jsonErr := json.Marshal(yamlData)
		if jsonErr != nil {
			return nil, invalidDocument(jsonErr)
		}
		doc, err = loader.LoadFromData(jsonContent)
		if err != nil {
			return nil, invalidDocument(err)
		}
	}

	return doc, nil
}

// ContentTypes lists the object schemas under components, ordered by name.
// Fields are the property names in sorted order.
func (s *SchemaService) ContentTypes(doc *openapi3.T) []models.ContentType {
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return []models.ContentType{}
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	types := make([]models.ContentType, 0, len(names))
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil || !isObject(ref.Value) {
			continue
		}

		fields := make([]string, 0, len(ref.Value.Properties))
		for prop := range ref.Value.Properties {
			fields = append(fields, prop)
		}
		sort.Strings(fields)

		types = append(types, models.ContentType{Name: name, Fields: fields})
	}
	return types
}

func isObject(schema *openapi3.Schema) bool {
	if schema.Type == nil || len(schema.Type.Slice()) == 0 {
		return len(schema.Properties) > 0
	}
	return schema.Type.Slice()[0] == "object"
}

// Import creates a content for every object schema in the document. Names
// that are already taken are left alone (skip), get the missing fields
// appended (merge), or abort the whole import before any write (fail).
func (s *SchemaService) Import(ctx context.Context, content []byte, resolution string) (*models.ImportResult, error) {
	if resolution == "" {
		resolution = ResolutionSkip
	}
	if !ValidResolution(resolution) {
		return nil, &Error{Kind: KindInvalid, Code: "INVALID_RESOLUTION", Message: "resolution must be one of: skip, merge, fail"}
	}

	doc, err := s.ParseOpenAPI(content)
	if err != nil {
		return nil, err
	}

	types := s.ContentTypes(doc)
	if len(types) == 0 {
		return nil, ErrNoContentTypes
	}

	existing := make(map[string]*models.Content, len(types))
	for _, ct := range types {
		found, err := s.contents.GetByName(ctx, ct.Name)
		if err != nil {
			if errors.Is(err, ErrContentNotFound) {
				continue
			}
			return nil, err
		}
		if resolution == ResolutionFail {
			return nil, &Error{Kind: KindConflict, Code: ErrContentExists.Code, Message: fmt.Sprintf("content %q already exists", ct.Name)}
		}
		existing[ct.Name] = found
	}

	result := &models.ImportResult{
		Created: []models.Content{},
		Updated: []models.Content{},
		Skipped: []string{},
	}

	for _, ct := range types {
		current, ok := existing[ct.Name]
		switch {
		case !ok:
			created, err := s.create(ctx, ct)
			if err != nil {
				return nil, err
			}
			result.Created = append(result.Created, *created)

		case resolution == ResolutionMerge:
			merged := mergeFields(current.Fields, ct.Fields)
			if len(merged) == len(current.Fields) {
				result.Skipped = append(result.Skipped, ct.Name)
				continue
			}
			mutation, err := s.contents.ReplaceFields(ctx, ct.Name, merged)
			if err != nil {
				return nil, err
			}
			updated := *current
			updated.Fields = mutation.Fields
			result.Updated = append(result.Updated, updated)

		default:
			result.Skipped = append(result.Skipped, ct.Name)
		}
	}

	return result, nil
}

func (s *SchemaService) create(ctx context.Context, ct models.ContentType) (*models.Content, error) {
	return s.contents.CreateWithFields(ctx, ct.Name, ct.Fields)
}

// mergeFields appends the entries of incoming missing from current, keeping
// the order of both.
func mergeFields(current, incoming []string) []string {
	merged := make([]string, len(current), len(current)+len(incoming))
	copy(merged, current)
	for _, f := range incoming {
		if !containsField(merged, f) {
			merged = append(merged, f)
		}
	}
	return merged
}
