package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/client"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and remove the stored token",
		Long:  "Revokes the session on the server and removes the stored access token from the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runLogout(ctx context.Context, out, errOut io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cfg.Session.loggedIn() {
		fmt.Fprintln(out, "Not logged in.")
		return nil
	}

	if err := client.New(getServerURL(), cfg.Session.AccessToken).Logout(ctx); err != nil {
		fmt.Fprintf(errOut, "warning: revoking session: %v\n", err)
	}

	if err := updateConfig(func(c *CLIConfig) { c.Session = Session{} }); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "✓ Logged out.")
	return nil
}
