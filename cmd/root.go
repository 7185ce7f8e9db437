package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ra",
		Short:         "Rank Admin CLI (ra): manage users and review channel rankings",
		Long:          "ra (Rank Admin CLI) drives the admin backend from the terminal: sign in, manage user accounts, inspect KPIs, browse the thumbnail training gallery, and review channel rankings.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newRegisterCmd(app),
		newWhoamiCmd(app),
		newUsersCmd(app),
		newKpisCmd(app),
		newReviewCmd(app),
		newScoreCmd(app),
		newThumbnailsCmd(app),
	)

	return rootCmd
}
