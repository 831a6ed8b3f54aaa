package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dimitrije/cms-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogDocYAML = `
openapi: 3.0.3
info:
  title: Blog
  version: 1.0.0
paths: {}
components:
  schemas:
    Post:
      type: object
      properties:
        title:
          type: string
        body:
          type: string
        author:
          type: string
    Tag:
      properties:
        label:
          type: string
    Status:
      type: string
      enum: [draft, published]
`

const blogDocJSON = `{
  "openapi": "3.0.3",
  "info": {"title": "Blog", "version": "1.0.0"},
  "paths": {},
  "components": {"schemas": {"Post": {"type": "object", "properties": {"title": {"type": "string"}}}}}
}`

// memoryContents is a content store keyed by name.
type memoryContents struct {
	byName       map[string]*models.Content
	nextID       int64
	failWith     error
	replaceCalls int
}

func newMemoryContents(seed ...models.Content) *memoryContents {
	m := &memoryContents{byName: map[string]*models.Content{}}
	for i := range seed {
		c := seed[i]
		m.nextID++
		c.ID = m.nextID
		m.byName[c.Name] = &c
	}
	return m
}

func (m *memoryContents) GetByName(_ context.Context, name string) (*models.Content, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.byName[name]
	if !ok {
		return nil, ErrContentNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memoryContents) CreateWithFields(_ context.Context, name string, fields []string) (*models.Content, error) {
	if _, ok := m.byName[name]; ok {
		return nil, ErrContentExists
	}
	m.nextID++
	c := &models.Content{ID: m.nextID, Name: name, Fields: append([]string{}, fields...)}
	m.byName[name] = c
	cp := *c
	return &cp, nil
}

func (m *memoryContents) ReplaceFields(_ context.Context, name string, fields []string) (*models.FieldMutation, error) {
	m.replaceCalls++
	c, ok := m.byName[name]
	if !ok {
		return nil, ErrContentNotFound
	}
	c.Fields = append([]string(nil), fields...)
	return &models.FieldMutation{ContentID: c.ID, RowsAffected: 1, Fields: c.Fields}, nil
}

func TestSchemaService_ParseOpenAPI(t *testing.T) {
	svc := NewSchemaService(newMemoryContents())

	for name, doc := range map[string]string{"yaml": blogDocYAML, "json": blogDocJSON} {
		t.Run(name, func(t *testing.T) {
			parsed, err := svc.ParseOpenAPI([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, "Blog", parsed.Info.Title)
		})
	}
}

func TestSchemaService_ParseOpenAPI_Invalid(t *testing.T) {
	svc := NewSchemaService(newMemoryContents())

	_, err := svc.ParseOpenAPI([]byte("{not: [valid"))

	var svcErr *Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, KindInvalid, svcErr.Kind)
	assert.Equal(t, "INVALID_SCHEMA", svcErr.Code)
}

func TestSchemaService_ContentTypes(t *testing.T) {
	svc := NewSchemaService(newMemoryContents())

	doc, err := svc.ParseOpenAPI([]byte(blogDocYAML))
	require.NoError(t, err)

	types := svc.ContentTypes(doc)

	assert.Equal(t, []models.ContentType{
		{Name: "Post", Fields: []string{"author", "body", "title"}},
		{Name: "Tag", Fields: []string{"label"}},
	}, types)
}

func TestSchemaService_Import_CreatesContents(t *testing.T) {
	store := newMemoryContents()
	svc := NewSchemaService(store)

	result, err := svc.Import(context.Background(), []byte(blogDocYAML), "")

	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	assert.Equal(t, "Post", result.Created[0].Name)
	assert.Equal(t, []string{"author", "body", "title"}, result.Created[0].Fields)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, []string{"label"}, store.byName["Tag"].Fields)
	assert.Zero(t, store.replaceCalls, "new contents are written with their fields in one step")
}

func TestSchemaService_Import_SkipExisting(t *testing.T) {
	store := newMemoryContents(models.Content{Name: "Post", Fields: []string{"title"}})
	svc := NewSchemaService(store)

	result, err := svc.Import(context.Background(), []byte(blogDocYAML), ResolutionSkip)

	require.NoError(t, err)
	assert.Equal(t, []string{"Post"}, result.Skipped)
	require.Len(t, result.Created, 1)
	assert.Equal(t, "Tag", result.Created[0].Name)
	assert.Equal(t, []string{"title"}, store.byName["Post"].Fields)
}

func TestSchemaService_Import_MergeAppendsMissingFields(t *testing.T) {
	store := newMemoryContents(models.Content{Name: "Post", Fields: []string{"title", "slug"}})
	svc := NewSchemaService(store)

	result, err := svc.Import(context.Background(), []byte(blogDocYAML), ResolutionMerge)

	require.NoError(t, err)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, []string{"title", "slug", "author", "body"}, result.Updated[0].Fields)
	assert.Equal(t, []string{"title", "slug", "author", "body"}, store.byName["Post"].Fields)
}

func TestSchemaService_Import_MergeNothingNew(t *testing.T) {
	store := newMemoryContents(models.Content{Name: "Post", Fields: []string{"title"}})
	svc := NewSchemaService(store)

	result, err := svc.Import(context.Background(), []byte(blogDocJSON), ResolutionMerge)

	require.NoError(t, err)
	assert.Equal(t, []string{"Post"}, result.Skipped)
	assert.Empty(t, result.Updated)
}

func TestSchemaService_Import_FailWritesNothing(t *testing.T) {
	store := newMemoryContents(models.Content{Name: "Tag"})
	svc := NewSchemaService(store)

	_, err := svc.Import(context.Background(), []byte(blogDocYAML), ResolutionFail)

	var svcErr *Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, KindConflict, svcErr.Kind)
	assert.Contains(t, svcErr.Message, `"Tag"`)
	_, created := store.byName["Post"]
	assert.False(t, created)
}

func TestSchemaService_Import_InvalidResolution(t *testing.T) {
	svc := NewSchemaService(newMemoryContents())

	_, err := svc.Import(context.Background(), []byte(blogDocYAML), "overwrite")

	var svcErr *Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "INVALID_RESOLUTION", svcErr.Code)
}

func TestSchemaService_Import_NoObjectSchemas(t *testing.T) {
	svc := NewSchemaService(newMemoryContents())

	doc := `{"openapi": "3.0.3", "info": {"title": "x", "version": "1"}, "paths": {}}`
	_, err := svc.Import(context.Background(), []byte(doc), "")

	assert.ErrorIs(t, err, ErrNoContentTypes)
}

func TestSchemaService_Import_StoreError(t *testing.T) {
	store := newMemoryContents()
	store.failWith = errors.New("connection refused")
	svc := NewSchemaService(store)

	_, err := svc.Import(context.Background(), []byte(blogDocYAML), "")

	assert.EqualError(t, err, "connection refused")
}

func TestMergeFields(t *testing.T) {
	current := []string{"a", "b"}

	merged := mergeFields(current, []string{"b", "c", "a", "d"})

	assert.Equal(t, []string{"a", "b", "c", "d"}, merged)
	assert.Equal(t, []string{"a", "b"}, current)
}
