package supervisor

import (
	"context"

	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

// Destroy tears down id per the state machine in §4.G.6: Live -> Destroying ->
// AwaitingReap -> Terminated. It is idempotent and always eventually resolves the
// container's termination promise, never the caller's own future — Destroy itself
// has no result to report beyond what wait will observe.
func (s *Supervisor) Destroy(id cproto.ID, killed bool) {
	s.enqueue(func() {
		s.destroy(id, killed)
	})
}

// destroy must only run on the actor goroutine.
func (s *Supervisor) destroy(id cproto.ID, killed bool) {
	rec, ok := s.containers[id]
	if !ok {
		s.log.Warnf("destroy requested for unknown container %s", id)
		return
	}
	if rec.destroying() {
		return
	}
	rec.advance(cproto.Destroying)
	name := rec.name

	s.defer_(func() error {
		return s.runtime.Kill(context.Background(), name, true)
	}, func(err error) {
		rec, ok := s.containers[id]
		if !ok {
			return
		}
		if err != nil {
			// Not a modeled transition: a failed kill leaves the container fully live
			// again so a later destroy can retry the runtime.kill step.
			rec.state = cproto.Live
			rec.terminationPromise.Fail(
				errFailedDestroy(name, err),
			)
			return
		}
		rec.advance(cproto.AwaitingReap)
		s.awaitReap(id, killed)
	})
}

// awaitReap arranges for the final termination step to run once the tracked pid's exit
// status resolves, substituting an already-resolved "absent status" future if launch
// never got far enough to install one.
func (s *Supervisor) awaitReap(id cproto.ID, killed bool) {
	rec, ok := s.containers[id]
	if !ok {
		return
	}
	exitStatus := rec.exitStatus
	if exitStatus == nil {
		exitStatus = future.Resolved[*int](nil)
	}

	s.wg.Go(func(ctx context.Context) {
		status, _ := exitStatus.Wait(ctx)
		s.enqueue(func() {
			s.finishDestroy(id, killed, status)
		})
	})
}

func (s *Supervisor) finishDestroy(id cproto.ID, killed bool, status *int) {
	rec, ok := s.containers[id]
	if !ok {
		return
	}

	message := "Docker process terminated"
	if killed {
		message = "Docker task killed"
	}
	term := mesosproto.Termination{Killed: killed, Status: status, Message: message}

	rec.advance(cproto.Terminated)
	rec.terminationPromise.Resolve(term)
	s.erase(id)

	if err := s.events.Publish(context.Background(), term); err != nil {
		s.log.WithError(err).Warnf("publishing termination event for %s", id)
	}
}

func errFailedDestroy(name string, cause error) error {
	return &destroyError{name: name, cause: cause}
}

type destroyError struct {
	name  string
	cause error
}

func (e *destroyError) Error() string {
	return "failed to destroy container " + e.name + ": " + e.cause.Error()
}

func (e *destroyError) Unwrap() error { return e.cause }
