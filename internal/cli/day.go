package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/trip"
)

func newDayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Add, remove and date days of the working trip",
	}
	cmd.AddCommand(newDayAddCmd(), newDayRmCmd(), newDayDateCmd())
	return cmd
}

func newDayAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Append an empty day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var idx int
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				idx = ws.store.AddDay()
				return trip.Applied, nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, fmt.Sprintf("✓ Added day %d", idx))
		},
	}
}

func newDayRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <day>",
		Short: "Remove a day; later days are renumbered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayArg(args[0])
			if err != nil {
				return err
			}
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				return ws.store.RemoveDay(day), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, fmt.Sprintf("✓ Removed day %d", day))
		},
	}
}

func newDayDateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "date <day> <YYYY-MM-DD>",
		Short: "Set the date of a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayArg(args[0])
			if err != nil {
				return err
			}
			if err := validateDate(args[1]); err != nil {
				return err
			}
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				return ws.store.SetDayDate(day, args[1]), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, fmt.Sprintf("✓ Day %d is %s", day, args[1]))
		},
	}
}
