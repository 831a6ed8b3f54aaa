package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dimitrije/cms-api/internal/models"
	"github.com/spf13/cobra"
)

// ContentService is the part of services.ContentService the CLI drives.
type ContentService interface {
	GetAll(ctx context.Context) ([]models.Content, error)
	GetByName(ctx context.Context, name string) (*models.Content, error)
	Create(ctx context.Context, name string) (*models.Content, error)
	Rename(ctx context.Context, name, newName string) (*models.Content, error)
	AddField(ctx context.Context, name, value string) (*models.FieldMutation, error)
	RemoveField(ctx context.Context, name, value string) (*models.FieldMutation, error)
	RenameField(ctx context.Context, name, oldValue, newValue string) (*models.FieldMutation, error)
}

// CollectionService is the part of services.CollectionService the CLI drives.
type CollectionService interface {
	GetByContentID(ctx context.Context, contentID int64) ([]models.Collection, error)
	UpdateEntryByName(ctx context.Context, name string, entry json.RawMessage) (*models.Collection, error)
}

type SchemaImporter interface {
	Import(ctx context.Context, content []byte, resolution string) (*models.ImportResult, error)
}

// Backend is what a command runs against. Close releases it.
type Backend struct {
	Contents    ContentService
	Collections CollectionService
	Schemas     SchemaImporter
	Migrate     func(ctx context.Context) error
	Close       func()
}

// Opener connects a Backend lazily so --help works without a database.
type Opener func(ctx context.Context) (*Backend, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string
	open   Opener
}

var ValidFormats = []string{"text", "json", "yaml"}

func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "cms-admin",
		Short: "Administer contents and their fields",
		Long:  "Operator tool for the CMS store: list, create, export and import contents, edit their field lists and update collection entries.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(newContentsCommand(opts))
	cmd.AddCommand(newFieldsCommand(opts))
	cmd.AddCommand(newCollectionsCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withBackend opens the backend, runs fn and closes it.
func (o *RootOptions) withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *Backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := o.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if b.Close != nil {
		defer b.Close()
	}
	return fn(ctx, b)
}

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the contents and collections tables if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				if err := b.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}
