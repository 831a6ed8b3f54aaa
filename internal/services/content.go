package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/cms-api/internal/database"
	"github.com/dimitrije/cms-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpRename  = "rename"
	OpReplace = "replace"
)

var fieldMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cms_field_mutations_total",
		Help: "Field list mutations by operation and outcome.",
	},
	[]string{"op", "result"},
)

// ContentService owns the contents table. Field mutations are
// read-modify-write over the whole fields column without locking, so two
// concurrent writers on one content race and the last write wins.
type ContentService struct {
	db *database.DB
}

func NewContentService(db *database.DB) *ContentService {
	return &ContentService{db: db}
}

func scanContent(row pgx.Row) (*models.Content, error) {
	var content models.Content
	if err := row.Scan(
		&content.ID, &content.Name, &content.Fields,
		&content.CreatedAt, &content.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if content.Fields == nil {
		content.Fields = []string{}
	}
	return &content, nil
}

func (s *ContentService) GetAll(ctx context.Context) ([]models.Content, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, fields, created_at, updated_at
		FROM contents
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	contents := make([]models.Content, 0)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, *content)
	}
	return contents, rows.Err()
}

// GetByName returns the oldest content with the given name.
func (s *ContentService) GetByName(ctx context.Context, name string) (*models.Content, error) {
	content, err := scanContent(s.db.Pool.QueryRow(ctx, `
		SELECT id, name, fields, created_at, updated_at
		FROM contents WHERE name = $1
		ORDER BY id LIMIT 1
	`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return content, nil
}

func (s *ContentService) nameTaken(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contents WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check content name: %w", err)
	}
	return exists, nil
}

func (s *ContentService) Create(ctx context.Context, name string) (*models.Content, error) {
	return s.CreateWithFields(ctx, name, nil)
}

// CreateWithFields inserts the content and its initial field list in one
// statement, so a failure never leaves an empty content behind.
func (s *ContentService) CreateWithFields(ctx context.Context, name string, fields []string) (*models.Content, error) {
	if err := checkUnique(fields); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrContentExists
	}

	initial := make([]string, len(fields))
	copy(initial, fields)

	content, err := scanContent(s.db.Pool.QueryRow(ctx, `
		INSERT INTO contents (name, fields)
		VALUES ($1, $2)
		RETURNING id, name, fields, created_at, updated_at
	`, name, initial))
	if err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}
	return content, nil
}

func (s *ContentService) Rename(ctx context.Context, name, newName string) (*models.Content, error) {
	content, err := s.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if newName == content.Name {
		return content, nil
	}

	taken, err := s.nameTaken(ctx, newName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrContentExists
	}

	updated, err := scanContent(s.db.Pool.QueryRow(ctx, `
		UPDATE contents SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, fields, created_at, updated_at
	`, newName, content.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to rename content: %w", err)
	}
	return updated, nil
}

func (s *ContentService) AddField(ctx context.Context, name, value string) (*models.FieldMutation, error) {
	return s.mutateFields(ctx, OpAdd, name, func(fields []string) ([]string, error) {
		return appendField(fields, value)
	})
}

func (s *ContentService) RemoveField(ctx context.Context, name, value string) (*models.FieldMutation, error) {
	return s.mutateFields(ctx, OpRemove, name, func(fields []string) ([]string, error) {
		return removeField(fields, value)
	})
}

func (s *ContentService) RenameField(ctx context.Context, name, oldValue, newValue string) (*models.FieldMutation, error) {
	return s.mutateFields(ctx, OpRename, name, func(fields []string) ([]string, error) {
		return renameField(fields, oldValue, newValue)
	})
}

func (s *ContentService) ReplaceFields(ctx context.Context, name string, fields []string) (*models.FieldMutation, error) {
	return s.mutateFields(ctx, OpReplace, name, func([]string) ([]string, error) {
		if err := checkUnique(fields); err != nil {
			return nil, err
		}
		out := make([]string, len(fields))
		copy(out, fields)
		return out, nil
	})
}

// mutateFields looks the content up, computes the new list with fn and writes
// it back in one statement. A rejected change never reaches the store.
func (s *ContentService) mutateFields(ctx context.Context, op, name string, fn func([]string) ([]string, error)) (*models.FieldMutation, error) {
	content, err := s.GetByName(ctx, name)
	if err != nil {
		fieldMutationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
		return nil, err
	}

	fields, err := fn(content.Fields)
	if err != nil {
		fieldMutationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
		return nil, err
	}

	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE contents SET fields = $1, updated_at = NOW()
		WHERE id = $2
	`, fields, content.ID)
	if err != nil {
		fieldMutationsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("failed to update fields: %w", err)
	}

	fieldMutationsTotal.WithLabelValues(op, "ok").Inc()
	return &models.FieldMutation{
		ContentID:    content.ID,
		RowsAffected: tag.RowsAffected(),
		Fields:       fields,
	}, nil
}

func resultLabel(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case KindNotFound:
			return "not_found"
		case KindConflict:
			return "conflict"
		}
	}
	return "error"
}
