// Package trip provides the itinerary domain model and the trip store,
// the single source of truth for a day-by-day travel plan.
package trip

import "github.com/evcraddock/litetravel/internal/geo"

// NodeType is the kind of stop a node represents.
type NodeType string

const (
	NodeSpot   NodeType = "spot"
	NodeHotel  NodeType = "hotel"
	NodeDining NodeType = "dining"
)

// NodeTypes lists every node type in display order.
var NodeTypes = []NodeType{NodeSpot, NodeHotel, NodeDining}

// ValidNodeType returns true if s is a known node type.
func ValidNodeType(s string) bool {
	switch NodeType(s) {
	case NodeSpot, NodeHotel, NodeDining:
		return true
	}
	return false
}

// PlanNode is a single stop within a day.
// ToNextCommute describes travel to the node's positional successor and is
// not recomputed when order changes; treat it as advisory.
type PlanNode struct {
	ID            string       `json:"id"`
	Type          NodeType     `json:"type"`
	Name          string       `json:"name"`
	Location      geo.Location `json:"location"`
	Cost          *float64     `json:"cost,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	Time          string       `json:"time,omitempty"`
	ToNextCommute *geo.Commute `json:"to_next_commute,omitempty"`
}

func (n PlanNode) clone() PlanNode {
	c := n
	if n.Cost != nil {
		v := *n.Cost
		c.Cost = &v
	}
	if n.ToNextCommute != nil {
		v := *n.ToNextCommute
		c.ToNextCommute = &v
	}
	return c
}

// NodePatch holds the fields UpdateNode merges into a node.
// Nil fields are left untouched. Notes and Time are cleared by setting
// them to "". ClearCost and ClearCommute drop the optional fields and
// win over Cost and ToNextCommute.
type NodePatch struct {
	Type          *NodeType
	Name          *string
	Location      *geo.Location
	Cost          *float64
	Notes         *string
	Time          *string
	ToNextCommute *geo.Commute

	ClearCost    bool
	ClearCommute bool
}

func (p NodePatch) apply(n *PlanNode) {
	if p.Type != nil {
		n.Type = *p.Type
	}
	if p.Name != nil {
		n.Name = *p.Name
	}
	if p.Location != nil {
		n.Location = *p.Location
	}
	if p.Cost != nil {
		v := *p.Cost
		n.Cost = &v
	}
	if p.Notes != nil {
		n.Notes = *p.Notes
	}
	if p.Time != nil {
		n.Time = *p.Time
	}
	if p.ToNextCommute != nil {
		v := *p.ToNextCommute
		n.ToNextCommute = &v
	}
	if p.ClearCost {
		n.Cost = nil
	}
	if p.ClearCommute {
		n.ToNextCommute = nil
	}
}

// DayPlan is the ordered list of stops for one day. DayIndex is 1-based
// and positional: removing a day renumbers the ones after it.
type DayPlan struct {
	DayIndex int        `json:"day_index"`
	Date     string     `json:"date,omitempty"`
	Nodes    []PlanNode `json:"nodes"`
}

func (d DayPlan) clone() DayPlan {
	c := d
	c.Nodes = make([]PlanNode, len(d.Nodes))
	for i, n := range d.Nodes {
		c.Nodes[i] = n.clone()
	}
	return c
}

// TripMeta describes the destination and date range of a trip.
type TripMeta struct {
	City   string        `json:"city"`
	Dates  [2]string     `json:"dates"`
	Center *geo.Location `json:"center,omitempty"`
}

func (m TripMeta) clone() TripMeta {
	c := m
	if m.Center != nil {
		v := *m.Center
		c.Center = &v
	}
	return c
}

// MetaPatch is a shallow merge into TripMeta. Nil fields are untouched.
type MetaPatch struct {
	City   *string
	Dates  *[2]string
	Center *geo.Location
}

// Content is the persisted shape of a trip: {meta, days}.
type Content struct {
	Meta TripMeta  `json:"meta"`
	Days []DayPlan `json:"days"`
}

// Clone returns a deep copy of c.
func (c Content) Clone() Content {
	out := Content{Meta: c.Meta.clone(), Days: make([]DayPlan, len(c.Days))}
	for i, d := range c.Days {
		out.Days[i] = d.clone()
	}
	return out
}

// FavoriteItem is a place saved for later, independent of any day.
type FavoriteItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Location geo.Location `json:"location"`
	Type     NodeType     `json:"type"`
	Address  string       `json:"address,omitempty"`
	AddedAt  int64        `json:"addedAt"`
}

// FavoriteInput is what callers provide to AddFavorite; the store assigns
// the id and timestamp.
type FavoriteInput struct {
	Name     string
	Location geo.Location
	Type     NodeType
	Address  string
}

// Highlight is a transient pointer to a location being inspected on the map.
type Highlight struct {
	Location geo.Location `json:"location"`
	Name     string       `json:"name"`
}

// State is a full snapshot of the store.
type State struct {
	Meta                TripMeta       `json:"meta"`
	Days                []DayPlan      `json:"days"`
	Favorites           []FavoriteItem `json:"favorites"`
	SidebarWidth        int            `json:"sidebarWidth"`
	IsResizingSidebar   bool           `json:"isResizingSidebar"`
	ConfirmedCity       string         `json:"confirmedCity,omitempty"`
	HighlightedLocation *Highlight     `json:"highlightedLocation,omitempty"`
}

// Content returns the persisted part of the snapshot.
func (s State) Content() Content {
	return Content{Meta: s.Meta, Days: s.Days}.Clone()
}
