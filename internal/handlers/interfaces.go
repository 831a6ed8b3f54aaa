package handlers

import (
	"context"
	"encoding/json"

	"github.com/dimitrije/cms-api/internal/models"
	"github.com/dimitrije/cms-api/internal/sse"
)

// ContentServiceInterface defines the methods used by handlers from ContentService
type ContentServiceInterface interface {
	GetAll(ctx context.Context) ([]models.Content, error)
	GetByName(ctx context.Context, name string) (*models.Content, error)
	Create(ctx context.Context, name string) (*models.Content, error)
	Rename(ctx context.Context, name, newName string) (*models.Content, error)
	AddField(ctx context.Context, name, value string) (*models.FieldMutation, error)
	RemoveField(ctx context.Context, name, value string) (*models.FieldMutation, error)
	RenameField(ctx context.Context, name, oldValue, newValue string) (*models.FieldMutation, error)
	ReplaceFields(ctx context.Context, name string, fields []string) (*models.FieldMutation, error)
}

// CollectionServiceInterface defines the methods used by handlers from CollectionService
type CollectionServiceInterface interface {
	Create(ctx context.Context, contentID int64, entry json.RawMessage, name *string) (*models.Collection, error)
	GetByContentID(ctx context.Context, contentID int64) ([]models.Collection, error)
	UpdateEntry(ctx context.Context, id int64, entry json.RawMessage) (*models.Collection, error)
	Delete(ctx context.Context, id int64) (*models.Collection, error)
}

// SchemaServiceInterface defines the methods used by handlers from SchemaService
type SchemaServiceInterface interface {
	Import(ctx context.Context, content []byte, resolution string) (*models.ImportResult, error)
}

// HubInterface defines the methods used by handlers from the SSE Hub
type HubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	BroadcastContent(eventType string, contentID int64, name string, fields []string)
	BroadcastCollection(eventType string, contentID, collectionID int64)
}

// Pinger is satisfied by *database.DB
type Pinger interface {
	Ping(ctx context.Context) error
}
