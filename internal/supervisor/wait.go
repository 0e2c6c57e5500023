package supervisor

import (
	"context"
	"fmt"

	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

// Wait returns the future that resolves with id's Termination once it is fully torn
// down, or fails with ErrUnknownContainer if id has no record (including if it was
// already erased after a prior Termination).
func (s *Supervisor) Wait(id cproto.ID) *future.Future[mesosproto.Termination] {
	promise, result := future.New[mesosproto.Termination]()

	s.enqueue(func() {
		rec, ok := s.containers[id]
		if !ok {
			promise.Fail(fmt.Errorf("wait %s: %w", id, ErrUnknownContainer))
			return
		}
		s.wg.Go(func(ctx context.Context) {
			term, err := rec.termination.Wait(ctx)
			if err != nil {
				promise.Fail(err)
				return
			}
			promise.Resolve(term)
		})
	})

	return result
}
