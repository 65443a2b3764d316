package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/litetravel/internal/analyze"
	"github.com/evcraddock/litetravel/internal/favorite"
	"github.com/evcraddock/litetravel/internal/maps"
	"github.com/evcraddock/litetravel/internal/plan"
	"github.com/evcraddock/litetravel/internal/trip"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTrip prints the whole itinerary. The active day is marked with *.
func printTrip(w io.Writer, st trip.State, activeDay int) {
	city := st.Meta.City
	if city == "" {
		city = "(no city)"
	}
	fmt.Fprintf(w, "%s  %s → %s\n", city, dash(st.Meta.Dates[0]), dash(st.Meta.Dates[1]))
	if st.ConfirmedCity != "" && st.ConfirmedCity != st.Meta.City {
		fmt.Fprintf(w, "  Confirmed city: %s\n", st.ConfirmedCity)
	}
	if h := st.HighlightedLocation; h != nil {
		fmt.Fprintf(w, "  Highlight: %s (%s)\n", h.Name, h.Location)
	}

	for _, d := range st.Days {
		marker := " "
		if d.DayIndex == activeDay {
			marker = "*"
		}
		fmt.Fprintf(w, "\n%s Day %d  %s\n", marker, d.DayIndex, d.Date)
		if len(d.Nodes) == 0 {
			fmt.Fprintln(w, "    (no stops)")
			continue
		}
		for i, n := range d.Nodes {
			fmt.Fprintf(w, "    %d. %-5s %-6s %s", i, dash(n.Time), n.Type, n.Name)
			if n.Cost != nil {
				fmt.Fprintf(w, "  ¥%s", formatCost(*n.Cost))
			}
			fmt.Fprintf(w, "  [%s]\n", n.ID)
			if n.Notes != "" {
				fmt.Fprintf(w, "         %s\n", n.Notes)
			}
			if c := n.ToNextCommute; c != nil && i < len(d.Nodes)-1 {
				fmt.Fprintf(w, "         ↓ %s %s, %s\n", c.Mode, c.DistanceText, c.DurationText)
			}
		}
	}

	if len(st.Favorites) > 0 {
		fmt.Fprintf(w, "\nFavorites: %d (see 'lt fav list --local')\n", len(st.Favorites))
	}
}

// printLocalFavorites prints the workspace's favorites as a table.
func printLocalFavorites(w io.Writer, items []trip.FavoriteItem) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No favorites.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tNAME\tLOCATION")
	for _, f := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Type, truncate(f.Name, 30), f.Location)
	}
	return tw.Flush()
}

// printFavoriteTable prints account favorites as a table.
func printFavoriteTable(w io.Writer, favs []*favorite.Favorite) error {
	if len(favs) == 0 {
		fmt.Fprintln(w, "No favorites.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tNAME\tADDRESS")
	for _, f := range favs {
		addr := "-"
		if f.Address != nil {
			addr = truncate(*f.Address, 30)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Type, truncate(f.Name, 30), addr)
	}
	return tw.Flush()
}

// printPlanTable prints saved plan summaries as a table.
func printPlanTable(w io.Writer, plans []plan.Summary) error {
	if len(plans) == 0 {
		fmt.Fprintln(w, "No plans found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCITY\tDATES\tDAYS\tUPDATED")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s → %s\t%d\t%s\n",
			p.ID, truncate(p.Title, 30), dash(p.City), dash(p.Dates[0]), dash(p.Dates[1]),
			p.DaysCount, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	fmt.Fprintf(w, "\nTotal: %d plans\n", len(plans))
	return nil
}

// printPlaces prints place search hits.
func printPlaces(w io.Writer, places []maps.Place) error {
	if len(places) == 0 {
		fmt.Fprintln(w, "No places found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLOCATION\tADDRESS")
	for _, p := range places {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", truncate(p.Name, 30), p.Location, dash(p.Address))
	}
	return tw.Flush()
}

// printAreas prints administrative areas.
func printAreas(w io.Writer, areas []maps.Area) error {
	if len(areas) == 0 {
		fmt.Fprintln(w, "No cities found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLEVEL\tADCODE\tCENTER")
	for _, a := range areas {
		name := a.Name
		if a.FullName != "" {
			name = a.FullName
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, a.Level, a.Adcode, a.Location)
	}
	return tw.Flush()
}

// printAnalysis prints one analysis result.
func printAnalysis(w io.Writer, r analyze.Result) {
	fmt.Fprintf(w, "[%s] %s\n", r.NoteID, r.Source)
	if r.Error != "" {
		fmt.Fprintf(w, "  ✗ %s\n", r.Error)
		return
	}
	fmt.Fprintf(w, "  Sentiment: %s (%g/5)  Intent: %s  Quality: %g/5\n",
		r.Sentiment, r.SentimentScore, r.UserIntent, r.QualityScore)
	if r.Summary != "" {
		fmt.Fprintf(w, "  Summary:   %s\n", r.Summary)
	}
	if len(r.Keywords) > 0 {
		fmt.Fprintf(w, "  Keywords:  %s\n", strings.Join(r.Keywords, ", "))
	}
	if len(r.Places) > 0 {
		fmt.Fprintf(w, "  Places:    %s\n", strings.Join(r.Places, ", "))
	}
	if r.PriceInfo != "" {
		fmt.Fprintf(w, "  Price:     %s\n", r.PriceInfo)
	}
	for _, tip := range r.Tips {
		fmt.Fprintf(w, "  • %s\n", tip)
	}
	if r.IsAd {
		fmt.Fprintln(w, "  (looks like an advertisement)")
	}
}

func formatCost(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
