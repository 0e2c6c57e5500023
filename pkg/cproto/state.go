package cproto

import "github.com/pkg/errors"

// State is the destroy-lifecycle state of a tracked container, per §4.G.6's diagram:
//
//	[Live] --destroy(killed)--> [Destroying] --runtime.kill done-->
//	[AwaitingReap] --exit_status_future resolves--> [Terminated]
type State string

const (
	// Live is the state of a container from the moment launch installs its record
	// until a destroy is requested.
	Live State = "LIVE"
	// Destroying is set as soon as destroy begins, before runtime.kill completes.
	Destroying State = "DESTROYING"
	// AwaitingReap is entered once runtime.kill has completed successfully and the
	// Core is waiting on exit_status_future to resolve.
	AwaitingReap State = "AWAITING_REAP"
	// Terminated is the terminal state; the record is erased upon entering it.
	Terminated State = "TERMINATED"
)

var validTransitions = map[State]map[State]bool{
	Live:         {Destroying: true},
	Destroying:   {AwaitingReap: true},
	AwaitingReap: {Terminated: true},
	Terminated:   {},
}

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}

// CheckTransition reports whether moving from s to next is a legal transition.
func (s State) CheckTransition(next State) error {
	if !validTransitions[s][next] {
		return errors.Errorf("cannot transition from %s to %s", s, next)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed := State(text)
	if _, ok := validTransitions[parsed]; !ok {
		return errors.Errorf("invalid container state: %s", text)
	}
	*s = parsed
	return nil
}
