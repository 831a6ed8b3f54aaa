package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// nonEmptyArg rejects an empty positional argument, matching the 400 the
// HTTP API returns for an empty field.
func nonEmptyArg(i int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if i < len(args) && args[i] == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func newFieldsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Edit the field list of a content",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <content> <field>",
		Short: "Append a field",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), nonEmptyArg(1, "field")),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				m, err := b.Contents.AddField(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return writeMutation(cmd.OutOrStdout(), opts.Format, args[0], m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <content> <field>",
		Short: "Remove a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				m, err := b.Contents.RemoveField(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return writeMutation(cmd.OutOrStdout(), opts.Format, args[0], m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <content> <old> <new>",
		Short: "Rename a field in place",
		Args:  cobra.MatchAll(cobra.ExactArgs(3), nonEmptyArg(2, "new field")),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				m, err := b.Contents.RenameField(ctx, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return writeMutation(cmd.OutOrStdout(), opts.Format, args[0], m)
			})
		},
	})

	return cmd
}
