package pool

// State is the lifecycle of a pool lookup.
type State int

const (
	StateLoading State = iota
	StateNotExists
	StateExists
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateNotExists:
		return "not_exists"
	case StateExists:
		return "exists"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
