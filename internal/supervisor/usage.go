package supervisor

import (
	"context"
	"fmt"

	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

// Usage samples id's live resource consumption, merged with its last-known allocation,
// per §4.G.4.
func (s *Supervisor) Usage(id cproto.ID) *future.Future[mesosproto.ResourceStatistics] {
	promise, result := future.New[mesosproto.ResourceStatistics]()

	s.enqueue(func() {
		if !s.sampler.Supported() {
			promise.Fail(fmt.Errorf("usage %s: %w", id, ErrUnsupported))
			return
		}
		rec, ok := s.containers[id]
		if !ok {
			promise.Fail(fmt.Errorf("usage %s: %w", id, ErrUnknownContainer))
			return
		}
		if rec.destroying() {
			promise.Fail(fmt.Errorf("usage %s: %w", id, ErrBeingRemoved))
			return
		}

		name := rec.name
		resources := rec.resources

		deferValue(s, func() (mesosproto.ResourceStatistics, error) {
			info, err := s.runtime.Inspect(context.Background(), name)
			if err != nil {
				return mesosproto.ResourceStatistics{}, err
			}
			if !info.Running || info.Pid == 0 {
				return mesosproto.ResourceStatistics{}, fmt.Errorf(
					"usage %s: container has no running pid", id)
			}
			stats, err := s.sampler.Sample(info.Pid, true)
			if err != nil {
				return mesosproto.ResourceStatistics{}, err
			}
			stats.CpusLimit = resources.Cpus
			stats.MemLimitBytes = resources.MemBytes
			return *stats, nil
		}, func(stats mesosproto.ResourceStatistics, err error) {
			if err != nil {
				promise.Fail(err)
				return
			}
			promise.Resolve(stats)
		})
	})

	return result
}
