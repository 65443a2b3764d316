package trip

// Result reports the outcome of a store mutation. Anything other than
// Applied means state was left untouched.
type Result uint8

const (
	Applied Result = iota
	NoDay
	NoNode
	BadIndex
	KeepLastDay
	Unchanged
)

// Changed returns true if the mutation was applied.
func (r Result) Changed() bool {
	return r == Applied
}

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case NoDay:
		return "day not found"
	case NoNode:
		return "node not found"
	case BadIndex:
		return "index out of range"
	case KeepLastDay:
		return "cannot remove the last day"
	case Unchanged:
		return "already in place"
	}
	return "unknown"
}
