package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/favorite"
	"github.com/evcraddock/litetravel/internal/geo"
	"github.com/evcraddock/litetravel/internal/trip"
)

func newFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite places",
		Long: "Favorites are stored in your account when you are logged in. " +
			"With --local, or when not logged in, they are kept in the working trip.",
	}
	cmd.AddCommand(newFavAddCmd(), newFavListCmd(), newFavRmCmd())
	return cmd
}

// useLocalFavorites reports whether favorites go to the working trip
// instead of the account.
func useLocalFavorites(local bool) bool {
	return local || getToken() == ""
}

func newFavAddCmd() *cobra.Command {
	var at, address string
	var local bool

	cmd := &cobra.Command{
		Use:   "add <spot|hotel|dining> <name>",
		Short: "Save a place",
		Long:  "Saves a place. Without --at the place is pinned to the working trip's map centre.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !trip.ValidNodeType(args[0]) {
				return fmt.Errorf("invalid type %q (want spot, hotel or dining)", args[0])
			}
			typ := trip.NodeType(args[0])
			loc, err := parseLocationFlag("at", at)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if useLocalFavorites(local) {
				var item trip.FavoriteItem
				_, _, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
					in := trip.FavoriteInput{Name: args[1], Type: typ, Address: address}
					in.Location = locationOrCenter(loc, ws.store)
					item = ws.store.AddFavorite(in)
					return trip.Applied, nil
				})
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(out, item)
				}
				fmt.Fprintf(out, "✓ Saved %s locally [%s]\n", item.Name, item.ID)
				return nil
			}

			c, err := authedClient()
			if err != nil {
				return err
			}
			if loc == nil {
				ws, err := openWorkspace()
				if err != nil {
					return err
				}
				center := locationOrCenter(nil, ws.store)
				ws.active.Close()
				loc = &center
			}
			in := favorite.Input{Type: typ, Name: args[1], Location: *loc}
			if address != "" {
				in.Address = &address
			}
			if err := in.Validate(); err != nil {
				return err
			}
			f, err := c.AddFavorite(cmd.Context(), in)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(out, f)
			}
			fmt.Fprintf(out, "✓ Saved %s [%s]\n", f.Name, f.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "location as lng,lat")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	cmd.Flags().BoolVar(&local, "local", false, "save to the working trip instead of your account")
	return cmd
}

// locationOrCenter returns loc, or the trip's map centre when loc is nil.
func locationOrCenter(loc *geo.Location, store *trip.Store) geo.Location {
	if loc != nil {
		return *loc
	}
	c, _ := store.Content().Center()
	return c
}

func newFavListCmd() *cobra.Command {
	var typ string
	var local bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List favorite places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if typ != "" && !trip.ValidNodeType(typ) {
				return fmt.Errorf("invalid --type %q (want spot, hotel or dining)", typ)
			}
			out := cmd.OutOrStdout()

			if useLocalFavorites(local) {
				ws, err := openWorkspace()
				if err != nil {
					return err
				}
				defer ws.active.Close()
				items := ws.store.Favorites()
				if typ != "" {
					filtered := items[:0]
					for _, f := range items {
						if string(f.Type) == typ {
							filtered = append(filtered, f)
						}
					}
					items = filtered
				}
				if isJSON() {
					return printJSON(out, items)
				}
				return printLocalFavorites(out, items)
			}

			c, err := authedClient()
			if err != nil {
				return err
			}
			favs, err := c.ListFavorites(cmd.Context(), trip.NodeType(typ))
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(out, favs)
			}
			return printFavoriteTable(out, favs)
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "only list this type (spot|hotel|dining)")
	cmd.Flags().BoolVar(&local, "local", false, "list the working trip's favorites")
	return cmd
}

func newFavRmCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a favorite place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if useLocalFavorites(local) {
				_, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
					return ws.store.RemoveFavorite(args[0]), nil
				})
				if err != nil || !r.Changed() {
					return err
				}
			} else {
				c, err := authedClient()
				if err != nil {
					return err
				}
				if err := c.DeleteFavorite(cmd.Context(), args[0]); err != nil {
					return err
				}
			}
			if isJSON() {
				return printJSON(out, map[string]any{"id": args[0], "deleted": true})
			}
			fmt.Fprintf(out, "✓ Removed favorite %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "remove from the working trip")
	return cmd
}
