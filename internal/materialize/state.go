package materialize

// State tracks a build invocation through its phases
type State int

const (
	StateIdle State = iota
	StateSorting
	StateCreatingPass
	StateReferencePass
	StateCommitted
	StateFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSorting:
		return "sorting"
	case StateCreatingPass:
		return "creating"
	case StateReferencePass:
		return "referencing"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
