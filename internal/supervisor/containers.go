package supervisor

import (
	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/set"
)

// Containers returns the set of ids with an installed record.
func (s *Supervisor) Containers() *future.Future[set.Set[cproto.ID]] {
	promise, result := future.New[set.Set[cproto.ID]]()

	s.enqueue(func() {
		ids := set.New[cproto.ID]()
		for id := range s.containers {
			ids.Insert(id)
		}
		promise.Resolve(ids)
	})

	return result
}
