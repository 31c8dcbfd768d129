package load

import "fmt"

// State is the phase a BenchmarkRunner is in. A run moves forward through
// the states in declaration order; Failed is entered from any phase and is final.
type State int32

const (
	Configuring State = iota
	CreatingSchema
	Dispatching
	Running
	Draining
	Done
	Failed
)

var stateNames = [...]string{
	Configuring:    "configuring",
	CreatingSchema: "creating-schema",
	Dispatching:    "dispatching",
	Running:        "running",
	Draining:       "draining",
	Done:           "done",
	Failed:         "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
