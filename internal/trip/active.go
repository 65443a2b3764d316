package trip

import "sync"

// ResolveActiveDay returns current if a day with that index exists,
// otherwise the first day's index. It returns 0 for an empty list.
func ResolveActiveDay(days []DayPlan, current int) int {
	if len(days) == 0 {
		return 0
	}
	for _, d := range days {
		if d.DayIndex == current {
			return current
		}
	}
	return days[0].DayIndex
}

// ActiveDay tracks the selected day of a store. After every change it
// re-checks the selection and falls back to the first day when the
// selected index no longer exists.
type ActiveDay struct {
	mu      sync.Mutex
	current int
	stop    func()
}

// TrackActiveDay starts tracking store with initial as the selection.
func TrackActiveDay(store *Store, initial int) *ActiveDay {
	a := &ActiveDay{current: ResolveActiveDay(store.Content().Days, initial)}
	a.stop = store.Subscribe(func(c Change) {
		a.mu.Lock()
		a.current = ResolveActiveDay(c.State.Days, a.current)
		a.mu.Unlock()
	})
	return a
}

// Get returns the selected day index.
func (a *ActiveDay) Get() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Select changes the selection. It is not checked until the next change.
func (a *ActiveDay) Select(dayIndex int) {
	a.mu.Lock()
	a.current = dayIndex
	a.mu.Unlock()
}

// Close stops tracking.
func (a *ActiveDay) Close() {
	a.stop()
}
