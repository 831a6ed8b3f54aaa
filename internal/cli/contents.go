package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dimitrije/cms-api/internal/models"
	"github.com/dimitrije/cms-api/internal/services"
	"github.com/spf13/cobra"
)

func newContentsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contents",
		Short: "Manage contents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				contents, err := b.Contents.GetAll(ctx)
				if err != nil {
					return err
				}
				return writeContents(cmd.OutOrStdout(), opts.Format, contents)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a content with no fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				content, err := b.Contents.Create(ctx, args[0])
				if err != nil {
					return err
				}
				return writeContents(cmd.OutOrStdout(), opts.Format, []models.Content{*content})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				content, err := b.Contents.Rename(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return writeContents(cmd.OutOrStdout(), opts.Format, []models.Content{*content})
			})
		},
	})

	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))

	return cmd
}

// newExportCommand dumps contents as JSON or YAML, all of them or the named ones.
func newExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [name...]",
		Short: "Export contents as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			format := opts.Format
			if format == "text" {
				format = "yaml"
			}

			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				var contents []models.Content
				if len(args) == 0 {
					all, err := b.Contents.GetAll(ctx)
					if err != nil {
						return err
					}
					contents = all
				} else {
					for _, name := range args {
						content, err := b.Contents.GetByName(ctx, name)
						if err != nil {
							return fmt.Errorf("%s: %w", name, err)
						}
						contents = append(contents, *content)
					}
				}
				return encode(cmd.OutOrStdout(), format, contents)
			})
		},
	}
}

func newImportCommand(opts *RootOptions) *cobra.Command {
	var resolution string

	cmd := &cobra.Command{
		Use:   "import <openapi-file>",
		Short: "Create contents from the object schemas of an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !services.ValidResolution(resolution) {
				return fmt.Errorf("invalid resolution %q: must be one of skip, merge, fail", resolution)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				result, err := b.Schemas.Import(ctx, data, resolution)
				if err != nil {
					return err
				}
				return writeImport(cmd.OutOrStdout(), opts.Format, result)
			})
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", services.ResolutionSkip, "what to do with existing contents (skip|merge|fail)")

	return cmd
}
