package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/geo"
	"github.com/evcraddock/litetravel/internal/trip"
)

func newNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add, move, edit and remove stops",
	}
	cmd.AddCommand(
		newNodeAddCmd(),
		newNodeMvCmd(),
		newNodeReorderCmd(),
		newNodeUpdateCmd(),
		newNodeRmCmd(),
	)
	return cmd
}

// nodeFlags are the editable node fields shared by add and update.
type nodeFlags struct {
	typ   string
	name  string
	at    string
	cost  float64
	notes string
	time  string

	clearCost    bool
	clearCommute bool
}

func (f *nodeFlags) bind(cmd *cobra.Command, withIdentity bool) {
	if withIdentity {
		cmd.Flags().StringVar(&f.typ, "type", "", "stop type (spot|hotel|dining)")
		cmd.Flags().StringVar(&f.name, "name", "", "stop name")
	}
	cmd.Flags().StringVar(&f.at, "at", "", "location as lng,lat")
	cmd.Flags().Float64Var(&f.cost, "cost", 0, "cost")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes")
	cmd.Flags().StringVar(&f.time, "time", "", "time of day (HH:MM)")
}

// patch builds a NodePatch from the flags that were set on cmd.
func (f *nodeFlags) patch(cmd *cobra.Command) (trip.NodePatch, error) {
	var p trip.NodePatch
	flags := cmd.Flags()
	if flags.Changed("type") {
		if !trip.ValidNodeType(f.typ) {
			return p, fmt.Errorf("invalid type %q (want spot, hotel or dining)", f.typ)
		}
		t := trip.NodeType(f.typ)
		p.Type = &t
	}
	if flags.Changed("name") {
		if f.name == "" {
			return p, fmt.Errorf("name must not be empty")
		}
		p.Name = &f.name
	}
	loc, err := parseLocationFlag("at", f.at)
	if err != nil {
		return p, err
	}
	p.Location = loc
	if flags.Changed("cost") {
		if f.cost < 0 {
			return p, fmt.Errorf("cost must not be negative")
		}
		p.Cost = &f.cost
	}
	if flags.Changed("notes") {
		p.Notes = &f.notes
	}
	if flags.Changed("time") {
		if err := validateTime(f.time); err != nil {
			return p, err
		}
		p.Time = &f.time
	}
	if f.clearCost && p.Cost != nil {
		return p, fmt.Errorf("--cost and --clear-cost are mutually exclusive")
	}
	p.ClearCost = f.clearCost
	p.ClearCommute = f.clearCommute
	return p, nil
}

func newNodeAddCmd() *cobra.Command {
	var f nodeFlags

	cmd := &cobra.Command{
		Use:   "add <day> <spot|hotel|dining> <name>",
		Short: "Append a stop to a day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayArg(args[0])
			if err != nil {
				return err
			}
			if !trip.ValidNodeType(args[1]) {
				return fmt.Errorf("invalid type %q (want spot, hotel or dining)", args[1])
			}
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}

			typ := trip.NodeType(args[1])
			node := trip.PlanNode{ID: trip.NewNodeID(typ), Type: typ, Name: args[2]}
			if p.Location != nil {
				node.Location = *p.Location
			}
			node.Cost = p.Cost
			if p.Notes != nil {
				node.Notes = *p.Notes
			}
			if p.Time != nil {
				node.Time = *p.Time
			}

			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				if node.Location == (geo.Location{}) {
					if c, ok := ws.store.Content().Center(); ok {
						node.Location = c
					}
				}
				return ws.store.AddNode(day, node), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, fmt.Sprintf("✓ Added %s to day %d [%s]", node.Name, day, node.ID))
		},
	}
	f.bind(cmd, false)
	return cmd
}

func newNodeMvCmd() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "mv <node-id> <to-day>",
		Short: "Move a stop to another day",
		Long:  "Moves a stop to another day, at --index or appended to the end. The target day must exist.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			toDay, err := parseDayArg(args[1])
			if err != nil {
				return err
			}
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				fromDay, _, ok := ws.store.FindNode(args[0])
				if !ok {
					return trip.NoNode, nil
				}
				return ws.store.MoveNode(fromDay, toDay, args[0], index), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, fmt.Sprintf("✓ Moved %s to day %d", args[0], toDay))
		},
	}
	cmd.Flags().IntVar(&index, "index", -1, "position in the target day (default: append)")
	return cmd
}

func newNodeReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <day> <from-index> <to-index>",
		Short: "Move a stop within its day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayArg(args[0])
			if err != nil {
				return err
			}
			from, err := parseIndexArg("from-index", args[1])
			if err != nil {
				return err
			}
			to, err := parseIndexArg("to-index", args[2])
			if err != nil {
				return err
			}
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				return ws.store.ReorderNodes(day, from, to), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, fmt.Sprintf("✓ Day %d: moved stop %d to %d", day, from, to))
		},
	}
}

func newNodeUpdateCmd() *cobra.Command {
	var f nodeFlags

	cmd := &cobra.Command{
		Use:   "update <node-id>",
		Short: "Change fields of a stop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}
			if p == (trip.NodePatch{}) {
				return fmt.Errorf("nothing to change (use --name, --type, --at, --cost, --notes, --time, --clear-cost or --clear-commute)")
			}
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				return ws.store.UpdateNode(args[0], p), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, "✓ Updated "+args[0])
		},
	}
	f.bind(cmd, true)
	cmd.Flags().BoolVar(&f.clearCost, "clear-cost", false, "remove the cost")
	cmd.Flags().BoolVar(&f.clearCommute, "clear-commute", false, "remove the commute to the next stop")
	return cmd
}

func newNodeRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <node-id>",
		Short: "Remove a stop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				day, _, ok := ws.store.FindNode(args[0])
				if !ok {
					return trip.NoNode, nil
				}
				return ws.store.RemoveNode(day, args[0]), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, "✓ Removed "+args[0])
		},
	}
}
