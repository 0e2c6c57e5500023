package supervisor

import (
	"context"
	"fmt"

	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
	"github.com/oldmantaiter/mesos/pkg/runtime"
)

// Recover reconstructs in-memory state from a persisted snapshot at startup, then
// sweeps every runtime container carrying the reserved prefix that it did not end up
// tracking, per §4.G.7. state may be nil, in which case only the orphan sweep runs.
func (s *Supervisor) Recover(state *mesosproto.SlaveState) *future.Future[struct{}] {
	promise, result := future.New[struct{}]()

	s.enqueue(func() {
		seenPids := make(map[int]cproto.ID)

		for _, fw := range frameworksOf(state) {
			for _, ex := range fw.Executors {
				if ex.Info == nil || ex.LatestRunID == "" {
					continue
				}
				run, ok := ex.Runs[ex.LatestRunID]
				if !ok || run.ID != ex.LatestRunID {
					continue
				}
				containerID := cproto.ID(run.ID)

				if ex.ForkedPid == nil {
					// No pid was ever recorded; the source installs nothing here, so a
					// later wait on this id fails unknown-container.
					continue
				}
				if ex.Completed {
					continue
				}

				if existing, dup := seenPids[*ex.ForkedPid]; dup {
					promise.Fail(fmt.Errorf(
						"recover: %w: pid %d claimed by both %s and %s",
						ErrDuplicatePid, *ex.ForkedPid, existing, containerID))
					return
				}
				seenPids[*ex.ForkedPid] = containerID

				rec, installed := s.install(containerID)
				if !installed {
					continue
				}
				rec.resources = ex.Info.Resources
				rec.exitStatus = s.reaper.Reap(*ex.ForkedPid)
				s.armReapedCallback(containerID, rec.exitStatus)
			}
		}

		s.sweepOrphans(promise)
	})

	return result
}

// frameworksOf defends against a nil snapshot: recover is valid to call with no prior
// state (a fresh node), in which case only the orphan sweep does anything.
func frameworksOf(state *mesosproto.SlaveState) map[string]*mesosproto.FrameworkState {
	if state == nil {
		return nil
	}
	return state.Frameworks
}

func (s *Supervisor) sweepOrphans(promise *future.Promise[struct{}]) {
	deferValue(s, func() ([]runtime.Info, error) {
		return s.runtime.Ps(context.Background(), true, cproto.Prefix)
	}, func(containers []runtime.Info, err error) {
		if err != nil {
			promise.Fail(fmt.Errorf("recover: listing containers: %w", err))
			return
		}

		for _, info := range containers {
			id, ok := cproto.ParseID(info.Name)
			if !ok {
				continue
			}
			if _, tracked := s.containers[id]; tracked {
				continue
			}
			name := info.Name
			s.defer_(func() error {
				return s.runtime.Kill(context.Background(), name, true)
			}, func(err error) {
				if err != nil {
					s.log.WithError(err).Warnf("failed to kill orphan container %s", name)
				}
			})
		}

		promise.Resolve(struct{}{})
	})
}
