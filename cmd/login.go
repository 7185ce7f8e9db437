package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/rank-admin-cli/internal/adapters/render/usertable"
)

func newLoginCmd(app *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolvedPassword, err := resolvePassword(cmd, password)
			if err != nil {
				return err
			}

			credential, err := app.auth.Login(cmd.Context(), email, resolvedPassword)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			name := email
			if credential.User != nil && credential.User.Name != "" {
				name = credential.User.Name
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newRegisterCmd(app *app) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolvedPassword, err := resolvePassword(cmd, password)
			if err != nil {
				return err
			}

			if _, err := app.auth.Register(cmd.Context(), email, resolvedPassword, name); err != nil {
				return fmt.Errorf("register: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (read from stdin when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.auth.Restore(cmd.Context()); err != nil {
				return err
			}

			// Local state is cleared even when the revoke call fails; the
			// server error is only worth a warning.
			if err := app.auth.Logout(cmd.Context()); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: server-side logout failed: %v\n", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			user, err := app.apiClient.Me(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, user)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), usertable.UserDetail(user))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func resolvePassword(cmd *cobra.Command, password string) (string, error) {
	if password != "" {
		return password, nil
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}

	trimmed := strings.TrimRight(line, "\r\n")
	if trimmed == "" {
		return "", fmt.Errorf("password is required")
	}
	return trimmed, nil
}
