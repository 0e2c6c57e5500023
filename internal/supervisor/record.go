package supervisor

import (
	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

// containerRecord is the per-live-container state the actor owns, per the data model:
// it exists from the moment launch installs it until Termination is published, at
// which point it is erased.
type containerRecord struct {
	id   cproto.ID
	name string

	terminationPromise *future.Promise[mesosproto.Termination]
	termination        *future.Future[mesosproto.Termination]

	// exitStatus is nil until a pid is known to reap. Once set, it fires at most
	// once and its completion triggers an implicit destroy.
	exitStatus *future.Future[*int]

	resources mesosproto.Resources

	state cproto.State
}

// newRecord installs a fresh record for id, with its termination promise ready but
// unresolved.
func newRecord(id cproto.ID) *containerRecord {
	promise, fut := future.New[mesosproto.Termination]()
	return &containerRecord{
		id:                 id,
		name:               cproto.Name(id),
		terminationPromise: promise,
		termination:        fut,
		state:              cproto.Live,
	}
}

// destroying reports whether rec has left the Live state, i.e. whether a destroy has
// already been requested.
func (rec *containerRecord) destroying() bool {
	return rec.state != cproto.Live
}

// advance transitions rec to next, panicking if the transition is illegal — a bug in
// the actor's own state machine, not a condition callers can hit externally.
func (rec *containerRecord) advance(next cproto.State) {
	if err := rec.state.CheckTransition(next); err != nil {
		panic(err)
	}
	rec.state = next
}

// install registers rec under id, returning false if a record already exists.
func (s *Supervisor) install(id cproto.ID) (*containerRecord, bool) {
	if _, exists := s.containers[id]; exists {
		return nil, false
	}
	rec := newRecord(id)
	s.containers[id] = rec
	return rec, true
}

// erase removes id's record, per invariant 5: after Termination is published the
// record no longer exists and wait fails unknown-container.
func (s *Supervisor) erase(id cproto.ID) {
	delete(s.containers, id)
}
