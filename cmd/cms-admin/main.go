package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dimitrije/cms-api/internal/cli"
	"github.com/dimitrije/cms-api/internal/config"
	"github.com/dimitrije/cms-api/internal/database"
	"github.com/dimitrije/cms-api/internal/services"
)

func open(ctx context.Context) (*cli.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	contents := services.NewContentService(db)
	return &cli.Backend{
		Contents:    contents,
		Collections: services.NewCollectionService(db),
		Schemas:     services.NewSchemaService(contents),
		Migrate:     db.Migrate,
		Close:       db.Close,
	}, nil
}

func main() {
	if err := cli.NewRootCommand(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
