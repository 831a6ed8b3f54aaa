package cli

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

func newCollectionsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Inspect and update collection entries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <content>",
		Short: "List the entries attached to a content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				content, err := b.Contents.GetByName(ctx, args[0])
				if err != nil {
					return err
				}
				collections, err := b.Collections.GetByContentID(ctx, content.ID)
				if err != nil {
					return err
				}
				return writeCollections(cmd.OutOrStdout(), opts.Format, collections)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update-by-name <name> <entry-json>",
		Short: "Replace the entry of the oldest collection with the given name",
		Args: cobra.MatchAll(cobra.ExactArgs(2), func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(args[1])) {
				return errors.New("entry must be valid JSON")
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				collection, err := b.Collections.UpdateEntryByName(ctx, args[0], json.RawMessage(args[1]))
				if err != nil {
					return err
				}
				return writeCollection(cmd.OutOrStdout(), opts.Format, collection)
			})
		},
	})

	return cmd
}
