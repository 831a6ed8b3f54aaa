package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS contents (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		fields TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// No foreign key on content_id: entries survive their content.
	`CREATE TABLE IF NOT EXISTS collections (
		id SERIAL PRIMARY KEY,
		content_id INTEGER NOT NULL,
		name VARCHAR(255),
		entry JSONB NOT NULL DEFAULT 'null',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_contents_name ON contents(name)`,
	`CREATE INDEX IF NOT EXISTS idx_collections_content_id ON collections(content_id)`,
	`CREATE INDEX IF NOT EXISTS idx_collections_name ON collections(name)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
