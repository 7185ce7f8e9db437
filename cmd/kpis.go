package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	kpisadapter "github.com/bnema/rank-admin-cli/internal/adapters/render/kpis"
	"github.com/bnema/rank-admin-cli/internal/domain"
)

func newKpisCmd(app *app) *cobra.Command {
	var (
		windowDays int
		bucket     string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "kpis",
		Short: "Show user KPIs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			activeBucket := domain.ActiveBucket(bucket)
			if bucket != "" && !activeBucket.Valid() {
				return fmt.Errorf("unsupported active bucket %q (use dau, wau, or mau)", bucket)
			}

			var kpis domain.UsersKpis
			err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching KPIs...", func(ctx context.Context) error {
				var fetchErr error
				kpis, fetchErr = app.users.Kpis(ctx, domain.KpisParams{
					WindowDays:   windowDays,
					ActiveBucket: activeBucket,
				})
				return fetchErr
			})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, kpis)
			}

			rendered, err := app.kpisRenderer(kpis, kpisadapter.RenderOptions{
				WindowDays:   windowDays,
				ActiveBucket: activeBucket,
			})
			if err != nil {
				return fmt.Errorf("render kpis: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&windowDays, "window-days", 30, "Comparison window in days")
	cmd.Flags().StringVar(&bucket, "active-bucket", "mau", "Active-user bucket (dau, wau, mau)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
