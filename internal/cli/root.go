// Package cli defines the cobra command tree for lt.
package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/client"
	"github.com/evcraddock/litetravel/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

var errNotLoggedIn = errors.New("not logged in (run 'lt login' first)")

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lt",
		Short:         "Plan day-by-day trips",
		Long:          "LiteTravel builds day-by-day travel itineraries. Edit a working trip locally, search places, save plans to disk or to your account, and analyze travel notes via the API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path for serve (default: ~/.litetravel/litetravel.db)")

	root.AddCommand(
		newServeCmd(),
		newRegisterCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newVersionCmd(),
		newTripCmd(),
		newDayCmd(),
		newNodeCmd(),
		newPlanCmd(),
		newFavCmd(),
		newSearchCmd(),
		newCitiesCmd(),
		newAnalyzeCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or fallback path.
func openDB(fallback string) (*sql.DB, error) {
	path := flagDB
	if path == "" {
		path = fallback
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the LiteTravel API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getToken())
}

// authedClient returns a client carrying the stored token, or
// errNotLoggedIn when there is none.
func authedClient() (*client.Client, error) {
	token := getToken()
	if token == "" {
		return nil, errNotLoggedIn
	}
	return client.New(getServerURL(), token), nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
