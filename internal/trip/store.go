package trip

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/litetravel/internal/geo"
)

const (
	DefaultSidebarWidth = 360
	MinSidebarWidth     = 280
	MaxSidebarWidth     = 520

	dateLayout = "2006-01-02"
)

// Op names the mutation that produced a Change.
type Op string

const (
	OpAddNode        Op = "add_node"
	OpReorderNodes   Op = "reorder_nodes"
	OpMoveNode       Op = "move_node"
	OpUpdateNode     Op = "update_node"
	OpRemoveNode     Op = "remove_node"
	OpAddDay         Op = "add_day"
	OpSetDayDate     Op = "set_day_date"
	OpRemoveDay      Op = "remove_day"
	OpSetMeta        Op = "set_meta"
	OpSetTrip        Op = "set_trip"
	OpSidebarWidth   Op = "sidebar_width"
	OpResizing       Op = "resizing"
	OpConfirmedCity  Op = "confirmed_city"
	OpHighlight      Op = "highlight"
	OpAddFavorite    Op = "add_favorite"
	OpRemoveFavorite Op = "remove_favorite"
)

// Change is delivered to subscribers after a mutation is applied.
type Change struct {
	Op    Op
	State State
}

// Store holds a trip and serializes every mutation to it.
// The zero value is not usable; construct with NewStore.
type Store struct {
	mu sync.Mutex

	meta          TripMeta
	days          []DayPlan
	favorites     []FavoriteItem
	sidebarWidth  int
	resizing      bool
	confirmedCity string
	highlight     *Highlight

	listeners map[int]func(Change)
	nextID    int

	// Notifications are delivered in ticket order.
	notifyMu  sync.Mutex
	notifyCnd *sync.Cond
	issued    uint64
	delivered uint64

	now func() time.Time
}

// NewStore creates a store seeded with c. The content is normalized the
// same way SetTrip does.
func NewStore(c Content) *Store {
	n := Normalize(c)
	s := &Store{
		meta:          n.Meta,
		days:          n.Days,
		sidebarWidth:  DefaultSidebarWidth,
		confirmedCity: n.Meta.City,
		listeners:     make(map[int]func(Change)),
		now:           time.Now,
	}
	s.notifyCnd = sync.NewCond(&s.notifyMu)
	return s
}

// Restore creates a store from a full snapshot, including favorites and
// view state.
func Restore(s State) *Store {
	st := NewStore(Content{Meta: s.Meta, Days: s.Days})
	st.favorites = cloneFavorites(s.Favorites)
	if s.SidebarWidth != 0 {
		st.sidebarWidth = clampWidth(s.SidebarWidth)
	}
	st.resizing = s.IsResizingSidebar
	st.confirmedCity = s.ConfirmedCity
	if s.HighlightedLocation != nil {
		h := *s.HighlightedLocation
		st.highlight = &h
	}
	return st
}

// Subscribe registers fn to be called after every applied mutation.
// Listeners run synchronously on the mutating goroutine after the store
// lock is released, and see changes in the order they were applied.
// A listener may read the store but must not mutate it.
// The returned func removes the listener.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// mutate runs fn under the lock and notifies listeners if it applied.
func (s *Store) mutate(op Op, fn func() Result) Result {
	s.mu.Lock()
	r := fn()
	if !r.Changed() {
		s.mu.Unlock()
		return r
	}
	snap := s.snapshot()
	listeners := make([]func(Change), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	ticket := s.issued
	s.issued++
	s.mu.Unlock()

	s.notify(ticket, listeners, Change{Op: op, State: snap})
	return r
}

// notify waits for every earlier ticket to be delivered, then calls the
// listeners with c.
func (s *Store) notify(ticket uint64, listeners []func(Change), c Change) {
	s.notifyMu.Lock()
	for s.delivered != ticket {
		s.notifyCnd.Wait()
	}
	s.notifyMu.Unlock()

	defer func() {
		s.notifyMu.Lock()
		s.delivered++
		s.notifyCnd.Broadcast()
		s.notifyMu.Unlock()
	}()
	for _, l := range listeners {
		l(c)
	}
}

func (s *Store) dayPos(dayIndex int) int {
	for i := range s.days {
		if s.days[i].DayIndex == dayIndex {
			return i
		}
	}
	return -1
}

// AddNode appends node to the end of the day with the given index.
// Node ids are not checked for uniqueness.
func (s *Store) AddNode(dayIndex int, node PlanNode) Result {
	r := s.mutate(OpAddNode, func() Result {
		p := s.dayPos(dayIndex)
		if p < 0 {
			return NoDay
		}
		s.days[p].Nodes = append(s.days[p].Nodes, node.clone())
		return Applied
	})
	if r == NoDay {
		slog.Warn("add node to missing day", "day_index", dayIndex, "node_id", node.ID)
	}
	return r
}

// ReorderNodes moves the node at oldIndex to newIndex within one day,
// shifting the nodes in between.
func (s *Store) ReorderNodes(dayIndex, oldIndex, newIndex int) Result {
	return s.mutate(OpReorderNodes, func() Result {
		p := s.dayPos(dayIndex)
		if p < 0 {
			return NoDay
		}
		nodes := s.days[p].Nodes
		if oldIndex < 0 || oldIndex >= len(nodes) || newIndex < 0 || newIndex >= len(nodes) {
			return BadIndex
		}
		if oldIndex == newIndex {
			return Unchanged
		}
		n := nodes[oldIndex]
		nodes = append(nodes[:oldIndex], nodes[oldIndex+1:]...)
		nodes = insertNode(nodes, newIndex, n)
		s.days[p].Nodes = nodes
		return Applied
	})
}

// MoveNode removes nodeID from one day and inserts it into another at
// toIndex. A negative or out-of-range toIndex appends. Both days must
// exist and the node must be in the source day, otherwise nothing changes.
func (s *Store) MoveNode(fromDay, toDay int, nodeID string, toIndex int) Result {
	return s.mutate(OpMoveNode, func() Result {
		from := s.dayPos(fromDay)
		to := s.dayPos(toDay)
		if from < 0 || to < 0 {
			return NoDay
		}
		src := s.days[from].Nodes
		at := -1
		for i := range src {
			if src[i].ID == nodeID {
				at = i
				break
			}
		}
		if at < 0 {
			return NoNode
		}
		n := src[at]
		s.days[from].Nodes = append(src[:at:at], src[at+1:]...)

		dst := s.days[to].Nodes
		if toIndex < 0 || toIndex > len(dst) {
			toIndex = len(dst)
		}
		s.days[to].Nodes = insertNode(dst, toIndex, n)
		return Applied
	})
}

// UpdateNode merges patch into the node with the given id, searching all days.
func (s *Store) UpdateNode(nodeID string, patch NodePatch) Result {
	return s.mutate(OpUpdateNode, func() Result {
		for d := range s.days {
			for i := range s.days[d].Nodes {
				if s.days[d].Nodes[i].ID == nodeID {
					patch.apply(&s.days[d].Nodes[i])
					return Applied
				}
			}
		}
		return NoNode
	})
}

// RemoveNode removes nodeID from the given day only.
func (s *Store) RemoveNode(dayIndex int, nodeID string) Result {
	return s.mutate(OpRemoveNode, func() Result {
		p := s.dayPos(dayIndex)
		if p < 0 {
			return NoDay
		}
		nodes := s.days[p].Nodes
		for i := range nodes {
			if nodes[i].ID == nodeID {
				s.days[p].Nodes = append(nodes[:i:i], nodes[i+1:]...)
				return Applied
			}
		}
		return NoNode
	})
}

// AddDay appends an empty day and returns its index. The date follows the
// last day's date when that day has a parseable one.
func (s *Store) AddDay() int {
	var idx int
	s.mutate(OpAddDay, func() Result {
		maxIdx := 0
		for _, d := range s.days {
			maxIdx = max(maxIdx, d.DayIndex)
		}
		idx = maxIdx + 1
		day := DayPlan{DayIndex: idx, Nodes: []PlanNode{}}
		if len(s.days) > 0 {
			if last := s.days[len(s.days)-1].Date; last != "" {
				if t, err := time.Parse(dateLayout, last); err == nil {
					day.Date = t.AddDate(0, 0, 1).Format(dateLayout)
				}
			}
		}
		s.days = append(s.days, day)
		return Applied
	})
	return idx
}

// SetDayDate sets the date of the matching day.
func (s *Store) SetDayDate(dayIndex int, date string) Result {
	return s.mutate(OpSetDayDate, func() Result {
		p := s.dayPos(dayIndex)
		if p < 0 {
			return NoDay
		}
		s.days[p].Date = date
		return Applied
	})
}

// RemoveDay deletes a day and renumbers the rest 1..N in their existing
// order. The last remaining day cannot be removed.
func (s *Store) RemoveDay(dayIndex int) Result {
	return s.mutate(OpRemoveDay, func() Result {
		if len(s.days) <= 1 {
			return KeepLastDay
		}
		p := s.dayPos(dayIndex)
		if p < 0 {
			return NoDay
		}
		s.days = append(s.days[:p:p], s.days[p+1:]...)
		for i := range s.days {
			s.days[i].DayIndex = i + 1
		}
		return Applied
	})
}

// SetMeta shallow-merges patch into the trip meta.
func (s *Store) SetMeta(patch MetaPatch) Result {
	return s.mutate(OpSetMeta, func() Result {
		if patch.City != nil {
			s.meta.City = *patch.City
		}
		if patch.Dates != nil {
			s.meta.Dates = *patch.Dates
		}
		if patch.Center != nil {
			c := *patch.Center
			s.meta.Center = &c
		}
		return Applied
	})
}

// SetTrip replaces meta and days wholesale. The confirmed city follows the
// new meta, the highlight and resize flag are cleared and the sidebar goes
// back to its default width. Favorites are kept.
func (s *Store) SetTrip(c Content) Result {
	n := Normalize(c)
	return s.mutate(OpSetTrip, func() Result {
		s.meta = n.Meta
		s.days = n.Days
		s.confirmedCity = n.Meta.City
		s.highlight = nil
		s.resizing = false
		s.sidebarWidth = DefaultSidebarWidth
		return Applied
	})
}

// SetSidebarWidth clamps px to the allowed range and stores it.
func (s *Store) SetSidebarWidth(px int) Result {
	return s.mutate(OpSidebarWidth, func() Result {
		s.sidebarWidth = clampWidth(px)
		return Applied
	})
}

// SetResizingSidebar records whether a sidebar drag is in progress.
func (s *Store) SetResizingSidebar(on bool) Result {
	return s.mutate(OpResizing, func() Result {
		s.resizing = on
		return Applied
	})
}

// SetConfirmedCity records the city the user committed to.
func (s *Store) SetConfirmedCity(city string) Result {
	return s.mutate(OpConfirmedCity, func() Result {
		s.confirmedCity = city
		return Applied
	})
}

// SetHighlightedLocation sets or, with nil, clears the highlighted location.
func (s *Store) SetHighlightedLocation(h *Highlight) Result {
	return s.mutate(OpHighlight, func() Result {
		if h == nil {
			s.highlight = nil
			return Applied
		}
		v := *h
		s.highlight = &v
		return Applied
	})
}

// AddFavorite stores in with a fresh id and timestamp and returns the
// stored item. No de-duplication is done.
func (s *Store) AddFavorite(in FavoriteInput) FavoriteItem {
	var item FavoriteItem
	s.mutate(OpAddFavorite, func() Result {
		item = FavoriteItem{
			ID:       "fav-" + uuid.NewString(),
			Name:     in.Name,
			Location: in.Location,
			Type:     in.Type,
			Address:  in.Address,
			AddedAt:  s.now().UnixMilli(),
		}
		s.favorites = append(s.favorites, item)
		return Applied
	})
	return item
}

// RemoveFavorite deletes the favorite with the given id.
func (s *Store) RemoveFavorite(id string) Result {
	return s.mutate(OpRemoveFavorite, func() Result {
		for i := range s.favorites {
			if s.favorites[i].ID == id {
				s.favorites = append(s.favorites[:i:i], s.favorites[i+1:]...)
				return Applied
			}
		}
		return NoNode
	})
}

// Content returns a copy of {meta, days}.
func (s *Store) Content() Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Content{Meta: s.meta, Days: s.days}.Clone()
}

// State returns a copy of the full store state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Day returns a copy of the day with the given index.
func (s *Store) Day(dayIndex int) (DayPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.dayPos(dayIndex)
	if p < 0 {
		return DayPlan{}, false
	}
	return s.days[p].clone(), true
}

// FindNode returns the day index and a copy of the node with the given id.
func (s *Store) FindNode(nodeID string) (int, PlanNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.days {
		for _, n := range d.Nodes {
			if n.ID == nodeID {
				return d.DayIndex, n.clone(), true
			}
		}
	}
	return 0, PlanNode{}, false
}

// Favorites returns a copy of the favorites.
func (s *Store) Favorites() []FavoriteItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneFavorites(s.favorites)
}

func (s *Store) snapshot() State {
	c := Content{Meta: s.meta, Days: s.days}.Clone()
	st := State{
		Meta:              c.Meta,
		Days:              c.Days,
		Favorites:         cloneFavorites(s.favorites),
		SidebarWidth:      s.sidebarWidth,
		IsResizingSidebar: s.resizing,
		ConfirmedCity:     s.confirmedCity,
	}
	if s.highlight != nil {
		h := *s.highlight
		st.HighlightedLocation = &h
	}
	return st
}

// NewNodeID returns an id suitable for a freshly created node.
func NewNodeID(t NodeType) string {
	return fmt.Sprintf("%s-%s", t, uuid.NewString()[:8])
}

func insertNode(nodes []PlanNode, at int, n PlanNode) []PlanNode {
	nodes = append(nodes, PlanNode{})
	copy(nodes[at+1:], nodes[at:])
	nodes[at] = n
	return nodes
}

func clampWidth(px int) int {
	return min(max(px, MinSidebarWidth), MaxSidebarWidth)
}

func cloneFavorites(in []FavoriteItem) []FavoriteItem {
	out := make([]FavoriteItem, len(in))
	copy(out, in)
	return out
}

// Center returns the meta center, or the first node's location, or false
// when the trip has neither.
func (c Content) Center() (geo.Location, bool) {
	if c.Meta.Center != nil {
		return *c.Meta.Center, true
	}
	for _, d := range c.Days {
		if len(d.Nodes) > 0 {
			return d.Nodes[0].Location, true
		}
	}
	return geo.Location{}, false
}
