package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/rank-admin-cli/internal/adapters/render/usertable"
	"github.com/bnema/rank-admin-cli/internal/domain"
)

func newThumbnailsCmd(app *app) *cobra.Command {
	var (
		page, limit int
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "thumbnails",
		Short: "Browse the thumbnail training gallery",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			var listing domain.ThumbnailsPage
			err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching thumbnails...", func(ctx context.Context) error {
				var fetchErr error
				listing, fetchErr = app.thumbnails.List(ctx, page, limit)
				return fetchErr
			})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, listing)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), usertable.Thumbnails(listing))
			return err
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
