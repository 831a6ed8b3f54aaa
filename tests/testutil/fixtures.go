package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dimitrije/cms-api/internal/database"
	"github.com/dimitrije/cms-api/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateContent inserts a content row directly, bypassing the name check so
// tests can seed duplicate names.
func (f *Fixtures) CreateContent(t *testing.T, opts ...ContentOption) *models.Content {
	t.Helper()
	f.counter++

	content := &models.Content{
		Name:   fmt.Sprintf("content-%d", f.counter),
		Fields: []string{},
	}

	for _, opt := range opts {
		opt(content)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO contents (name, fields)
		VALUES ($1, $2)
		RETURNING id, name, fields, created_at, updated_at
	`, content.Name, content.Fields).Scan(
		&content.ID, &content.Name, &content.Fields,
		&content.CreatedAt, &content.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create content: %v", err)
	}

	return content
}

// ContentOption configures a test content
type ContentOption func(*models.Content)

// WithContentName sets the content name
func WithContentName(name string) ContentOption {
	return func(c *models.Content) {
		c.Name = name
	}
}

// WithFields sets the initial field list
func WithFields(fields ...string) ContentOption {
	return func(c *models.Content) {
		c.Fields = fields
	}
}

// CreateCollection creates a test collection attached to a content
func (f *Fixtures) CreateCollection(t *testing.T, content *models.Content, opts ...CollectionOption) *models.Collection {
	t.Helper()
	f.counter++

	col := &models.Collection{
		ContentID: content.ID,
		Entry:     json.RawMessage(`{}`),
	}

	for _, opt := range opts {
		opt(col)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (content_id, name, entry)
		VALUES ($1, $2, $3)
		RETURNING id, content_id, name, entry, created_at, updated_at
	`, col.ContentID, col.Name, col.Entry).Scan(
		&col.ID, &col.ContentID, &col.Name,
		&col.Entry, &col.CreatedAt, &col.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}

	return col
}

// CollectionOption configures a test collection
type CollectionOption func(*models.Collection)

// WithCollectionName sets the collection name
func WithCollectionName(name string) CollectionOption {
	return func(c *models.Collection) {
		c.Name = &name
	}
}

// WithEntry sets the collection entry
func WithEntry(entry json.RawMessage) CollectionOption {
	return func(c *models.Collection) {
		c.Entry = entry
	}
}
