package supervisor

import (
	"context"
	"fmt"

	"github.com/oldmantaiter/mesos/pkg/cgroups"
	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

// Update applies a new resource allocation to id, per §4.G.3. It is idempotent toward
// unknown containers (a warning, not a failure) and a no-op on non-Linux or when
// neither cpus nor mem is set.
func (s *Supervisor) Update(id cproto.ID, resources mesosproto.Resources) *future.Future[struct{}] {
	promise, result := future.New[struct{}]()

	s.enqueue(func() {
		rec, ok := s.containers[id]
		if !ok {
			s.log.Warnf("update requested for unknown container %s", id)
			promise.Resolve(struct{}{})
			return
		}
		rec.resources = resources

		if !s.controller.Supported() {
			promise.Resolve(struct{}{})
			return
		}
		if resources.Cpus == nil && resources.MemBytes == nil {
			promise.Resolve(struct{}{})
			return
		}

		name := rec.name
		deferValue(s, func() (int, error) {
			info, err := s.runtime.Inspect(context.Background(), name)
			if err != nil {
				return 0, err
			}
			if !info.Running || info.Pid == 0 {
				return 0, nil
			}
			return info.Pid, nil
		}, func(pid int, err error) {
			if err != nil {
				promise.Fail(fmt.Errorf("update %s: inspecting: %w", id, err))
				return
			}
			if pid == 0 {
				promise.Resolve(struct{}{})
				return
			}
			s.applyResourceLimits(id, pid, resources, promise)
		})
	})

	return result
}

func (s *Supervisor) applyResourceLimits(
	id cproto.ID, pid int, resources mesosproto.Resources, promise *future.Promise[struct{}],
) {
	s.defer_(func() error {
		if resources.Cpus != nil {
			cgroup, found, err := s.controller.CPUCgroup(pid)
			if err != nil {
				return fmt.Errorf("locating cpu cgroup for %s: %w", id, err)
			}
			if found {
				shares := cgroups.CPUShares(*resources.Cpus)
				if err := s.controller.WriteCPUShares(cgroup, shares); err != nil {
					return fmt.Errorf("writing cpu.shares for %s: %w", id, err)
				}
			}
		}

		if resources.MemBytes != nil {
			cgroup, found, err := s.controller.MemoryCgroup(pid)
			if err != nil {
				return fmt.Errorf("locating memory cgroup for %s: %w", id, err)
			}
			if found {
				limit := cgroups.MemoryLimit(*resources.MemBytes)
				if err := s.controller.WriteMemorySoftLimit(cgroup, limit); err != nil {
					return fmt.Errorf("writing memory.soft_limit_in_bytes for %s: %w", id, err)
				}

				current, err := s.controller.ReadMemoryHardLimit(cgroup)
				if err != nil {
					return fmt.Errorf("reading memory.limit_in_bytes for %s: %w", id, err)
				}
				if limit > current {
					if err := s.controller.WriteMemoryHardLimit(cgroup, limit); err != nil {
						return fmt.Errorf("writing memory.limit_in_bytes for %s: %w", id, err)
					}
				}
			}
		}

		return nil
	}, func(err error) {
		if err != nil {
			promise.Fail(err)
			return
		}
		promise.Resolve(struct{}{})
	})
}
