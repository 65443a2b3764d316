package trip

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/evcraddock/litetravel/internal/geo"
)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Normalize prepares loaded content for the store: a trip with no days
// gets one empty day, days without an index are numbered by position and
// nil node lists become empty.
func Normalize(c Content) Content {
	out := c.Clone()
	if len(out.Days) == 0 {
		out.Days = []DayPlan{{DayIndex: 1, Nodes: []PlanNode{}}}
		return out
	}
	for i := range out.Days {
		if out.Days[i].DayIndex <= 0 {
			out.Days[i].DayIndex = i + 1
		}
		if out.Days[i].Nodes == nil {
			out.Days[i].Nodes = []PlanNode{}
		}
	}
	return out
}

// Validate checks that uploaded content is structurally consistent. It
// returns every problem found, joined.
func (c Content) Validate() error {
	var errs []error

	for i, d := range c.Meta.Dates {
		if d != "" && !validDate(d) {
			errs = append(errs, fmt.Errorf("meta.dates[%d]: %q is not YYYY-MM-DD", i, d))
		}
	}

	seenDay := make(map[int]bool)
	seenNode := make(map[string]bool)
	for _, day := range c.Days {
		if day.DayIndex <= 0 {
			errs = append(errs, fmt.Errorf("day_index %d must be positive", day.DayIndex))
		} else if seenDay[day.DayIndex] {
			errs = append(errs, fmt.Errorf("day_index %d is duplicated", day.DayIndex))
		}
		seenDay[day.DayIndex] = true

		if day.Date != "" && !validDate(day.Date) {
			errs = append(errs, fmt.Errorf("day %d: date %q is not YYYY-MM-DD", day.DayIndex, day.Date))
		}

		for _, n := range day.Nodes {
			if n.ID == "" {
				errs = append(errs, fmt.Errorf("day %d: node %q has no id", day.DayIndex, n.Name))
				continue
			}
			if seenNode[n.ID] {
				errs = append(errs, fmt.Errorf("node id %q is duplicated", n.ID))
			}
			seenNode[n.ID] = true

			if !ValidNodeType(string(n.Type)) {
				errs = append(errs, fmt.Errorf("node %s: unknown type %q", n.ID, n.Type))
			}
			if n.Cost != nil && *n.Cost < 0 {
				errs = append(errs, fmt.Errorf("node %s: cost must not be negative", n.ID))
			}
			if n.Time != "" && !timeOfDay.MatchString(n.Time) {
				errs = append(errs, fmt.Errorf("node %s: time %q is not HH:MM", n.ID, n.Time))
			}
			if n.ToNextCommute != nil && !geo.ValidCommuteMode(string(n.ToNextCommute.Mode)) {
				errs = append(errs, fmt.Errorf("node %s: unknown commute mode %q", n.ID, n.ToNextCommute.Mode))
			}
		}
	}

	return errors.Join(errs...)
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
