package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/rank-admin-cli/internal/adapters/api"
	"github.com/bnema/rank-admin-cli/internal/adapters/render/usertable"
	"github.com/bnema/rank-admin-cli/internal/domain"
)

func newUsersCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(
		newUsersListCmd(app),
		newUsersGetCmd(app),
		newUsersCreateCmd(app),
		newUsersUpdateCmd(app),
		newUsersDeleteCmd(app),
	)

	return cmd
}

func newUsersListCmd(app *app) *cobra.Command {
	var (
		page, limit int
		query, role string
		status      string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			var listing domain.Pagination[domain.User]
			err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching users...", func(ctx context.Context) error {
				var fetchErr error
				listing, fetchErr = app.users.List(ctx, domain.ListUsersParams{
					Page:   page,
					Limit:  limit,
					Query:  query,
					Role:   domain.UserRole(role),
					Status: domain.UserStatusFilter(status),
				})
				return fetchErr
			})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, listing)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), usertable.Users(listing))
			return err
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().StringVar(&query, "query", "", "Search by name or email")
	cmd.Flags().StringVar(&role, "role", "", "Filter by role (SUPERADMIN, ADMIN, USER)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active, inactive, invited)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newUsersGetCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <user-id>",
		Short: "Show one user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			user, err := app.users.Get(cmd.Context(), domain.UserID(args[0]))
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

func newUsersCreateCmd(app *app) *cobra.Command {
	var (
		name, email, password string
		roles                 []string
		notes                 string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			user, err := app.users.Create(cmd.Context(), api.CreateUserParams{
				Name:     name,
				Email:    email,
				Password: password,
				Roles:    toRoles(roles),
				Notes:    notes,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Email, user.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "Roles to grant (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "Admin notes")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUsersUpdateCmd(app *app) *cobra.Command {
	var (
		name, email, password string
		roles                 []string
		notes                 string
		active                bool
	)

	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			// Only flags the operator actually set become part of the PATCH.
			var params api.UpdateUserParams
			if cmd.Flags().Changed("name") {
				params.Name = &name
			}
			if cmd.Flags().Changed("email") {
				params.Email = &email
			}
			if cmd.Flags().Changed("password") {
				params.Password = &password
			}
			if cmd.Flags().Changed("role") {
				params.Roles = toRoles(roles)
			}
			if cmd.Flags().Changed("active") {
				params.IsActive = &active
			}
			if cmd.Flags().Changed("notes") {
				params.Notes = &notes
			}

			user, err := app.users.Update(cmd.Context(), domain.UserID(args[0]), params)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated user %s\n", user.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "Replace roles (repeatable)")
	cmd.Flags().BoolVar(&active, "active", true, "Activate or deactivate the account")
	cmd.Flags().StringVar(&notes, "notes", "", "Admin notes")

	return cmd
}

func newUsersDeleteCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			if !yes {
				return fmt.Errorf("refusing to delete user %s without --yes", args[0])
			}

			if err := app.users.Delete(cmd.Context(), domain.UserID(args[0])); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")

	return cmd
}

func toRoles(names []string) []domain.UserRole {
	if len(names) == 0 {
		return nil
	}

	roles := make([]domain.UserRole, 0, len(names))
	for _, name := range names {
		roles = append(roles, domain.UserRole(name))
	}
	return roles
}
