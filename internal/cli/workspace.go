package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/geo"
	"github.com/evcraddock/litetravel/internal/localplan"
	"github.com/evcraddock/litetravel/internal/maps"
	"github.com/evcraddock/litetravel/internal/trip"
)

// workspace is the loaded working trip with its store and active-day
// tracker attached.
type workspace struct {
	path   string
	store  *trip.Store
	active *trip.ActiveDay
}

func openWorkspace() (*workspace, error) {
	path, err := localplan.DefaultWorkspacePath()
	if err != nil {
		return nil, err
	}
	ws, err := localplan.LoadWorkspace(path, time.Now())
	if err != nil {
		return nil, err
	}
	store := trip.Restore(ws.State)
	return &workspace{
		path:   path,
		store:  store,
		active: trip.TrackActiveDay(store, ws.ActiveDay),
	}, nil
}

func (w *workspace) save() error {
	defer w.active.Close()
	return localplan.SaveWorkspace(w.path, localplan.Workspace{
		State:     w.store.State(),
		ActiveDay: w.active.Get(),
	})
}

// mutateWorkspace loads the working trip, applies one store operation and
// saves it. A result other than Applied is reported as a notice on stderr,
// not as an error, and nothing is written.
func mutateWorkspace(cmd *cobra.Command, apply func(*workspace) (trip.Result, error)) (*workspace, trip.Result, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, 0, err
	}

	r, err := apply(ws)
	if err != nil {
		ws.active.Close()
		return nil, r, err
	}
	if !r.Changed() {
		ws.active.Close()
		fmt.Fprintf(cmd.ErrOrStderr(), "notice: nothing changed: %s\n", r)
		return ws, r, nil
	}
	if err := ws.save(); err != nil {
		return nil, r, err
	}
	return ws, r, nil
}

// reportTrip prints the workspace after an applied change.
func reportTrip(out io.Writer, ws *workspace, r trip.Result, msg string) error {
	if !r.Changed() {
		return nil
	}
	if isJSON() {
		return printJSON(out, localplan.Workspace{State: ws.store.State(), ActiveDay: ws.active.Get()})
	}
	fmt.Fprintln(out, msg)
	return nil
}

func parseDayArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid day %q (must be a positive number)", s)
	}
	return n, nil
}

func parseIndexArg(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q (must be 0 or greater)", name, s)
	}
	return n, nil
}

func parseLocationFlag(name, s string) (*geo.Location, error) {
	if s == "" {
		return nil, nil
	}
	loc, err := maps.ParseLocation(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &loc, nil
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return nil
}

func validateTime(s string) error {
	if _, err := time.Parse("15:04", s); err != nil || len(s) != len("15:04") {
		return fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return nil
}
