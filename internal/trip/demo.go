package trip

import (
	"time"

	"github.com/evcraddock/litetravel/internal/geo"
)

// DemoContent is the starter trip used when no workspace exists yet.
func DemoContent(now time.Time) Content {
	today := now.Format(dateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(dateLayout)
	center := geo.Location{Lat: 28.228209, Lng: 112.938814}

	return Content{
		Meta: TripMeta{
			City:   "长沙",
			Dates:  [2]string{today, tomorrow},
			Center: &center,
		},
		Days: []DayPlan{
			{
				DayIndex: 1,
				Date:     today,
				Nodes: []PlanNode{
					{
						ID:       "spot-yuelu",
						Type:     NodeSpot,
						Name:     "岳麓山",
						Location: geo.Location{Lat: 28.182, Lng: 112.945},
						Time:     "09:00",
						ToNextCommute: &geo.Commute{
							DistanceText: "5.2 km",
							DurationText: "20 min",
							Mode:         geo.CommuteTaxi,
						},
					},
					{
						ID:       "dining-pozi",
						Type:     NodeDining,
						Name:     "坡子街",
						Location: geo.Location{Lat: 28.194, Lng: 112.973},
						Time:     "12:00",
					},
				},
			},
			{
				DayIndex: 2,
				Date:     tomorrow,
				Nodes: []PlanNode{
					{
						ID:       "spot-orange",
						Type:     NodeSpot,
						Name:     "橘子洲",
						Location: geo.Location{Lat: 28.203, Lng: 112.967},
						Time:     "10:00",
					},
				},
			},
		},
	}
}
