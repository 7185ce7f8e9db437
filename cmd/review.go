package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	reviewadapter "github.com/bnema/rank-admin-cli/internal/adapters/render/review"
	"github.com/bnema/rank-admin-cli/internal/domain"
)

func newReviewCmd(app *app) *cobra.Command {
	var (
		limit int
		order string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review channel rankings interactively",
		Long:  "Opens the interactive review session: score the current channel with 0-5, skip with s, refresh the feed with r, quit with q. The queue refills itself from the paginated feed as it drains.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			if cmd.Flags().Changed("limit") {
				app.cfg.Set(reviewLimitKey, limit)
			}
			if cmd.Flags().Changed("order") {
				if !domain.BatchOrder(order).Valid() {
					return fmt.Errorf("unsupported order %q", order)
				}
				app.cfg.Set(reviewOrderKey, order)
			}

			return reviewadapter.Run(cmd.Context(), app.newReviewService(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultPageSize, "Feed page size")
	cmd.Flags().StringVar(&order, "order", string(domain.OrderSubscribersDesc), "Feed order (subscribers_desc, recent_activity, none)")

	return cmd
}

// newScoreCmd is the one-shot alternative to the interactive session: score a
// known channel directly.
func newScoreCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <channel-id> <score>",
		Short: "Score one channel directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			score, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse score %q: %w", args[1], err)
			}
			if err := domain.ValidateScore(score); err != nil {
				return err
			}

			rank, err := app.rank.SubmitScore(cmd.Context(), domain.ChannelID(args[0]), score)
			if err != nil {
				return err
			}

			app.rank.InvalidateFeed()

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Scored channel %s: %d\n", rank.ChannelID, rank.Score)
			return err
		},
	}

	return cmd
}
