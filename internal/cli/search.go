package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/maps"
)

func newSearchCmd() *cobra.Command {
	var city, near string
	var radius float64

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search places via the API server",
		Long:  "Searches points of interest. The city defaults to the working trip's confirmed city.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := parseLocationFlag("near", near)
			if err != nil {
				return err
			}
			if radius <= 0 {
				return fmt.Errorf("--radius must be positive")
			}
			var bounds *maps.Bounds
			if center != nil {
				bounds = &maps.Bounds{Center: *center, Radius: radius}
			}

			if !cmd.Flags().Changed("city") {
				if ws, err := openWorkspace(); err == nil {
					city = ws.store.State().ConfirmedCity
					ws.active.Close()
				}
			}

			places, err := newAPIClient().SearchPlaces(cmd.Context(), args[0], city, bounds)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), places)
			}
			return printPlaces(cmd.OutOrStdout(), places)
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "city to search in")
	cmd.Flags().StringVar(&near, "near", "", "restrict to a circle around lng,lat")
	cmd.Flags().Float64Var(&radius, "radius", 5000, "search radius in metres, used with --near")
	return cmd
}

func newCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities <keyword>",
		Short: "Look up cities and districts by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			areas, err := newAPIClient().SearchCities(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), areas)
			}
			return printAreas(cmd.OutOrStdout(), areas)
		},
	}
}
