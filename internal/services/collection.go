package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dimitrije/cms-api/internal/database"
	"github.com/dimitrije/cms-api/internal/models"
	"github.com/jackc/pgx/v5"
)

type CollectionService struct {
	db *database.DB
}

func NewCollectionService(db *database.DB) *CollectionService {
	return &CollectionService{db: db}
}

func scanCollection(row pgx.Row) (*models.Collection, error) {
	var collection models.Collection
	if err := row.Scan(
		&collection.ID, &collection.ContentID, &collection.Name,
		&collection.Entry, &collection.CreatedAt, &collection.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &collection, nil
}

func (s *CollectionService) Create(ctx context.Context, contentID int64, entry json.RawMessage, name *string) (*models.Collection, error) {
	if len(entry) == 0 {
		entry = json.RawMessage("null")
	}

	collection, err := scanCollection(s.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (content_id, name, entry)
		VALUES ($1, $2, $3)
		RETURNING id, content_id, name, entry, created_at, updated_at
	`, contentID, name, entry))
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return collection, nil
}

func (s *CollectionService) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	collection, err := scanCollection(s.db.Pool.QueryRow(ctx, `
		SELECT id, content_id, name, entry, created_at, updated_at
		FROM collections WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return collection, nil
}

// GetByContentID never reports a missing content; it returns an empty list.
func (s *CollectionService) GetByContentID(ctx context.Context, contentID int64) ([]models.Collection, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, content_id, name, entry, created_at, updated_at
		FROM collections WHERE content_id = $1
		ORDER BY id
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	collections := make([]models.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, *c)
	}
	return collections, rows.Err()
}

// UpdateEntry replaces the entry of the collection with the given id.
func (s *CollectionService) UpdateEntry(ctx context.Context, id int64, entry json.RawMessage) (*models.Collection, error) {
	if len(entry) == 0 {
		entry = json.RawMessage("null")
	}

	collection, err := scanCollection(s.db.Pool.QueryRow(ctx, `
		UPDATE collections SET entry = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, content_id, name, entry, created_at, updated_at
	`, entry, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}
	return collection, nil
}

// UpdateEntryByName is the name-keyed variant of UpdateEntry. When several
// collections share a name the oldest one is updated.
func (s *CollectionService) UpdateEntryByName(ctx context.Context, name string, entry json.RawMessage) (*models.Collection, error) {
	if len(entry) == 0 {
		entry = json.RawMessage("null")
	}

	collection, err := scanCollection(s.db.Pool.QueryRow(ctx, `
		UPDATE collections SET entry = $1, updated_at = NOW()
		WHERE id = (SELECT id FROM collections WHERE name = $2 ORDER BY id LIMIT 1)
		RETURNING id, content_id, name, entry, created_at, updated_at
	`, entry, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}
	return collection, nil
}

// Delete removes the collection and returns it as it was before deletion.
func (s *CollectionService) Delete(ctx context.Context, id int64) (*models.Collection, error) {
	collection, err := scanCollection(s.db.Pool.QueryRow(ctx, `
		DELETE FROM collections WHERE id = $1
		RETURNING id, content_id, name, entry, created_at, updated_at
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to delete collection: %w", err)
	}
	return collection, nil
}
