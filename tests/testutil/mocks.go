package testutil

import (
	"context"
	"encoding/json"

	"github.com/dimitrije/cms-api/internal/models"
	"github.com/dimitrije/cms-api/internal/sse"
	"github.com/stretchr/testify/mock"
)

// MockContentService mocks the ContentService
type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) GetAll(ctx context.Context) ([]models.Content, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Content), args.Error(1)
}

func (m *MockContentService) GetByName(ctx context.Context, name string) (*models.Content, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) Create(ctx context.Context, name string) (*models.Content, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) Rename(ctx context.Context, name, newName string) (*models.Content, error) {
	args := m.Called(ctx, name, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentService) AddField(ctx context.Context, name, value string) (*models.FieldMutation, error) {
	args := m.Called(ctx, name, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FieldMutation), args.Error(1)
}

func (m *MockContentService) RemoveField(ctx context.Context, name, value string) (*models.FieldMutation, error) {
	args := m.Called(ctx, name, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FieldMutation), args.Error(1)
}

func (m *MockContentService) RenameField(ctx context.Context, name, oldValue, newValue string) (*models.FieldMutation, error) {
	args := m.Called(ctx, name, oldValue, newValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FieldMutation), args.Error(1)
}

func (m *MockContentService) ReplaceFields(ctx context.Context, name string, fields []string) (*models.FieldMutation, error) {
	args := m.Called(ctx, name, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FieldMutation), args.Error(1)
}

// MockCollectionService mocks the CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) Create(ctx context.Context, contentID int64, entry json.RawMessage, name *string) (*models.Collection, error) {
	args := m.Called(ctx, contentID, entry, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) GetByContentID(ctx context.Context, contentID int64) ([]models.Collection, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCollectionService) UpdateEntry(ctx context.Context, id int64, entry json.RawMessage) (*models.Collection, error) {
	args := m.Called(ctx, id, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) UpdateEntryByName(ctx context.Context, name string, entry json.RawMessage) (*models.Collection, error) {
	args := m.Called(ctx, name, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) Delete(ctx context.Context, id int64) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

// MockSchemaService mocks the SchemaService
type MockSchemaService struct {
	mock.Mock
}

func (m *MockSchemaService) Import(ctx context.Context, content []byte, resolution string) (*models.ImportResult, error) {
	args := m.Called(ctx, content, resolution)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportResult), args.Error(1)
}

// MockHub mocks the SSE hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) BroadcastContent(eventType string, contentID int64, name string, fields []string) {
	m.Called(eventType, contentID, name, fields)
}

func (m *MockHub) BroadcastCollection(eventType string, contentID, collectionID int64) {
	m.Called(eventType, contentID, collectionID)
}

// MockTokenValidator mocks the token introspection client
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) Validate(ctx context.Context, authorization string) error {
	args := m.Called(ctx, authorization)
	return args.Error(0)
}

// MockPinger mocks the database health check
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
