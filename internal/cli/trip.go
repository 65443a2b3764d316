package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/geo"
	"github.com/evcraddock/litetravel/internal/localplan"
	"github.com/evcraddock/litetravel/internal/maps"
	"github.com/evcraddock/litetravel/internal/trip"
)

func newTripCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Show and edit the working trip",
		Long:  "The working trip lives in ~/.config/lt/trip.json. A demo trip is created the first time it is used.",
	}
	cmd.AddCommand(
		newTripShowCmd(),
		newTripNewCmd(),
		newTripMetaCmd(),
		newTripConfirmCityCmd(),
		newTripHighlightCmd(),
		newTripResetCmd(),
		newTripRouteCmd(),
	)
	return cmd
}

func newTripShowCmd() *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the working trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			if day > 0 {
				if _, ok := ws.store.Day(day); !ok {
					ws.active.Close()
					return fmt.Errorf("day %d does not exist", day)
				}
				ws.active.Select(day)
			}
			if err := ws.save(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, localplan.Workspace{State: ws.store.State(), ActiveDay: ws.active.Get()})
			}
			printTrip(out, ws.store.State(), ws.active.Get())
			return nil
		},
	}
	cmd.Flags().IntVar(&day, "day", 0, "select this day as the active day")
	return cmd
}

func newTripNewCmd() *cobra.Command {
	var (
		city  string
		start string
		days  int
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Replace the working trip with an empty one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			if start != "" {
				if err := validateDate(start); err != nil {
					return err
				}
			}
			c := emptyTrip(city, start, days)
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				ws.active.Select(1)
				return ws.store.SetTrip(c), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, fmt.Sprintf("✓ New %d-day trip to %s", days, dash(city)))
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "destination city")
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 1, "number of days")
	return cmd
}

// emptyTrip builds a trip of n empty days. Dates are filled in when start
// is set.
func emptyTrip(city, start string, n int) trip.Content {
	c := trip.Content{Meta: trip.TripMeta{City: city}}
	var first time.Time
	if start != "" {
		first, _ = time.Parse(time.DateOnly, start)
	}
	for i := range n {
		d := trip.DayPlan{DayIndex: i + 1, Nodes: []trip.PlanNode{}}
		if start != "" {
			d.Date = first.AddDate(0, 0, i).Format(time.DateOnly)
		}
		c.Days = append(c.Days, d)
	}
	if start != "" {
		c.Meta.Dates = [2]string{c.Days[0].Date, c.Days[n-1].Date}
	}
	return c
}

func newTripMetaCmd() *cobra.Command {
	var city, start, end, center string

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Change the trip's city, dates or map centre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch trip.MetaPatch
			flags := cmd.Flags()
			if flags.Changed("city") {
				patch.City = &city
			}
			if flags.Changed("start") || flags.Changed("end") {
				for _, d := range []string{start, end} {
					if d != "" {
						if err := validateDate(d); err != nil {
							return err
						}
					}
				}
				patch.Dates = &[2]string{start, end}
			}
			loc, err := parseLocationFlag("center", center)
			if err != nil {
				return err
			}
			patch.Center = loc
			if patch.City == nil && patch.Dates == nil && patch.Center == nil {
				return fmt.Errorf("nothing to change (use --city, --start/--end or --center)")
			}

			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				if patch.Dates != nil {
					cur := ws.store.Content().Meta.Dates
					if !flags.Changed("start") {
						patch.Dates[0] = cur[0]
					}
					if !flags.Changed("end") {
						patch.Dates[1] = cur[1]
					}
				}
				return ws.store.SetMeta(patch), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, "✓ Trip updated")
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "destination city")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&center, "center", "", "map centre as lng,lat")
	return cmd
}

func newTripConfirmCityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm-city <city>",
		Short: "Record the city you committed to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				return ws.store.SetConfirmedCity(args[0]), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, "✓ Confirmed city: "+args[0])
		},
	}
}

func newTripHighlightCmd() *cobra.Command {
	var clearIt bool

	cmd := &cobra.Command{
		Use:   "highlight [lng,lat] [name]",
		Short: "Highlight a location on the map, or clear it",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var h *trip.Highlight
			if !clearIt {
				if len(args) == 0 {
					return fmt.Errorf("a location is required unless --clear is set")
				}
				loc, err := maps.ParseLocation(args[0])
				if err != nil {
					return err
				}
				h = &trip.Highlight{Location: loc}
				if len(args) == 2 {
					h.Name = args[1]
				}
			}
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				return ws.store.SetHighlightedLocation(h), nil
			})
			if err != nil {
				return err
			}
			msg := "✓ Highlight cleared"
			if h != nil {
				msg = "✓ Highlighted " + h.Location.String()
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, msg)
		},
	}
	cmd.Flags().BoolVar(&clearIt, "clear", false, "clear the highlight")
	return cmd
}

func newTripResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the working trip with the demo trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				return ws.store.SetTrip(trip.DemoContent(time.Now())), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, "✓ Trip reset to the demo trip")
		},
	}
}

func newTripRouteCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "route <day>",
		Short: "Fill in travel between consecutive stops of a day",
		Long:  "Looks up the route from each stop to the next one via the API server and stores distance and duration on the stop.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayArg(args[0])
			if err != nil {
				return err
			}
			if !geo.ValidCommuteMode(mode) {
				return fmt.Errorf("invalid --mode %q (want taxi or transit)", mode)
			}
			routed := 0
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				d, ok := ws.store.Day(day)
				if !ok {
					return trip.NoDay, nil
				}
				n, err := routeDay(cmd.Context(), ws.store, d, geo.CommuteMode(mode))
				routed = n
				if err != nil {
					return trip.Applied, err
				}
				if n == 0 {
					return trip.BadIndex, nil
				}
				return trip.Applied, nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, fmt.Sprintf("✓ Routed %d legs on day %d", routed, day))
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(geo.CommuteTaxi), "commute mode (taxi|transit)")
	return cmd
}

// routeDay stores the route to the next stop on every stop of d except
// the last and returns how many legs were filled in.
func routeDay(ctx context.Context, store *trip.Store, d trip.DayPlan, mode geo.CommuteMode) (int, error) {
	c := newAPIClient()
	n := 0
	for i := 0; i+1 < len(d.Nodes); i++ {
		from, to := d.Nodes[i], d.Nodes[i+1]
		route, err := c.Route(ctx, from.Location, to.Location)
		if err != nil {
			return n, fmt.Errorf("routing %s → %s: %w", from.Name, to.Name, err)
		}
		if store.UpdateNode(from.ID, trip.NodePatch{ToNextCommute: route.Commute(mode)}).Changed() {
			n++
		}
	}
	return n, nil
}
