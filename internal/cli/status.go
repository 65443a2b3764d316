package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the server and checks if the stored access token is valid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runStatus(ctx context.Context, out io.Writer) error {
	serverURL := getServerURL()
	token := getToken()

	fmt.Fprintf(out, "Server:  %s\n", serverURL)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c := client.New(serverURL, token)
	if _, err := c.Health(ctx); err != nil {
		fmt.Fprintf(out, "Status:  ✗ cannot reach server (%v)\n", err)
		return nil
	}

	if token == "" {
		fmt.Fprintln(out, "Status:  ✓ connected, not logged in")
		fmt.Fprintln(out, "\nRun 'lt login' to authenticate.")
		return nil
	}

	me, err := c.Me(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Status:  ✓ connected and authenticated as %s\n", me.Email)
	case client.StatusCode(err) == http.StatusUnauthorized:
		fmt.Fprintln(out, "Status:  ✗ token expired or revoked")
		fmt.Fprintln(out, "\nRun 'lt login' to re-authenticate.")
	default:
		fmt.Fprintf(out, "Status:  ✗ unexpected response (%v)\n", err)
	}

	return nil
}
