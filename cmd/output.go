package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNotSignedIn = errors.New("not signed in: run `ra login --email you@example.com` first")

func printJSON(cmd *cobra.Command, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return err
}

// requireSession loads the persisted session into memory. Commands that talk
// to admin endpoints call this first so an expired-but-refreshable session
// still works via the 401 retry path.
func requireSession(cmd *cobra.Command, app *app) error {
	if err := app.auth.Restore(cmd.Context()); err != nil {
		return err
	}
	if app.auth.Token() == "" {
		return errNotSignedIn
	}
	return nil
}
