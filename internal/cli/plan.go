package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/localplan"
	"github.com/evcraddock/litetravel/internal/plan"
	"github.com/evcraddock/litetravel/internal/trip"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Save and load plans locally or to your account",
		Long: "save, load and local keep plans on this machine, one per city. " +
			"list, show, push, pull and rm work with plans stored in your account and require 'lt login'.",
	}
	cmd.AddCommand(
		newPlanSaveCmd(),
		newPlanLoadCmd(),
		newPlanLocalCmd(),
		newPlanListCmd(),
		newPlanShowCmd(),
		newPlanPushCmd(),
		newPlanPullCmd(),
		newPlanRmCmd(),
	)
	return cmd
}

func localPlans() (*localplan.Store, error) {
	dir, err := localplan.DefaultDir()
	if err != nil {
		return nil, err
	}
	return localplan.NewStore(dir), nil
}

func newPlanSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the working trip locally under its city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := localPlans()
			if err != nil {
				return err
			}
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.active.Close()

			content := ws.store.Content()
			if err := plans.Save(content); err != nil {
				if errors.Is(err, localplan.ErrEmptyCity) {
					return fmt.Errorf("the trip has no city (set one with 'lt trip meta --city')")
				}
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]string{"key": localplan.Key(content.Meta.City)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s locally\n", content.Meta.City)
			return nil
		},
	}
}

func newPlanLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <city>",
		Short: "Replace the working trip with a locally saved one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := localPlans()
			if err != nil {
				return err
			}
			content, err := plans.Load(args[0])
			if errors.Is(err, localplan.ErrNotFound) {
				return fmt.Errorf("no local plan for %s", args[0])
			}
			if err != nil {
				return err
			}
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				return ws.store.SetTrip(content), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, "✓ Loaded "+args[0])
		},
	}
}

func newPlanLocalCmd() *cobra.Command {
	var remove string

	cmd := &cobra.Command{
		Use:   "local",
		Short: "List locally saved plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := localPlans()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if remove != "" {
				if err := plans.Delete(remove); err != nil {
					if errors.Is(err, localplan.ErrNotFound) {
						return fmt.Errorf("no local plan for %s", remove)
					}
					return err
				}
				fmt.Fprintf(out, "✓ Deleted local plan %s\n", remove)
				return nil
			}

			cities, err := plans.List()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(out, cities)
			}
			if len(cities) == 0 {
				fmt.Fprintln(out, "No local plans.")
				return nil
			}
			fmt.Fprintln(out, strings.Join(cities, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVar(&remove, "delete", "", "delete the local plan for this city")
	return cmd
}

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans saved to your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			plans, err := c.ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), plans)
			}
			return printPlanTable(cmd.OutOrStdout(), plans)
		},
	}
}

func newPlanShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a plan saved to your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			p, err := c.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, p)
			}
			fmt.Fprintf(out, "%s  [%s]\n", p.Title, p.ID)
			if p.Description != nil {
				fmt.Fprintf(out, "%s\n", *p.Description)
			}
			fmt.Fprintln(out)
			printTrip(out, trip.State{Meta: p.Content.Meta, Days: p.Content.Days}, 0)
			return nil
		},
	}
}

func newPlanPushCmd() *cobra.Command {
	var id, title, description string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload the working trip to your account",
		Long:  "Creates a new plan from the working trip, or replaces the content of an existing plan with --id.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.active.Close()
			content := ws.store.Content()

			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}

			var p *plan.Plan
			if id != "" {
				u := plan.Update{Content: &content, Description: desc}
				if title != "" {
					u.Title = &title
				}
				p, err = c.UpdatePlan(cmd.Context(), id, u)
			} else {
				if title == "" {
					title = defaultPlanTitle(content)
				}
				p, err = c.CreatePlan(cmd.Context(), plan.Input{Title: title, Description: desc, Content: content})
			}
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), p.Summary())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Pushed %q [%s]\n", p.Title, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "update this existing plan instead of creating one")
	cmd.Flags().StringVar(&title, "title", "", "plan title (default: city and dates)")
	cmd.Flags().StringVar(&description, "description", "", "plan description")
	return cmd
}

// defaultPlanTitle names a plan after its city and start date.
func defaultPlanTitle(c trip.Content) string {
	title := c.Meta.City
	if title == "" {
		title = "Trip"
	}
	if c.Meta.Dates[0] != "" {
		title += " " + c.Meta.Dates[0]
	}
	return title
}

func newPlanPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <id>",
		Short: "Replace the working trip with a plan from your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			p, err := c.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ws, r, err := mutateWorkspace(cmd, func(ws *workspace) (trip.Result, error) {
				return ws.store.SetTrip(p.Content), nil
			})
			if err != nil {
				return err
			}
			return reportTrip(cmd.OutOrStdout(), ws, r, fmt.Sprintf("✓ Pulled %q", p.Title))
		},
	}
}

func newPlanRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a plan from your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient()
			if err != nil {
				return err
			}
			if err := c.DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]any{"id": args[0], "deleted": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted plan %s\n", args[0])
			return nil
		},
	}
}
