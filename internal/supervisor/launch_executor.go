package supervisor

import (
	"context"
	"fmt"

	"github.com/oldmantaiter/mesos/pkg/checkpoint"
	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

// Launch starts id as an executor-mode container: the container itself runs
// executorInfo's command directly, with no stub process fronting it. Per §4.G.1 it
// resolves false (not an error) when executorInfo's command is not container-eligible,
// so the caller knows to run it outside the supervisor entirely.
func (s *Supervisor) Launch(
	id cproto.ID,
	executorInfo *mesosproto.ExecutorInfo,
	directory, user, slaveID, slavePid string,
	doCheckpoint bool,
) *future.Future[bool] {
	promise, result := future.New[bool]()

	s.enqueue(func() {
		image, ok := executorInfo.Command.Container.ParseImage()
		if !ok {
			promise.Resolve(false)
			return
		}

		rec, installed := s.install(id)
		if !installed {
			promise.Fail(fmt.Errorf("launch %s: %w", id, ErrAlreadyStarted))
			return
		}
		rec.resources = executorInfo.Resources

		name := rec.name
		env := mergeEnv(executorInfo.Command.Environment)

		s.defer_(func() error {
			return s.runtime.Run(context.Background(), image, executorInfo.Command, name,
				executorInfo.Resources, env)
		}, func(err error) {
			if err != nil {
				s.failLaunch(id, promise, fmt.Errorf("running container %s: %w", name, err))
				return
			}
			s.launchExecutorInspect(id, promise, executorInfo, directory, slaveID, doCheckpoint)
		})
	})

	return result
}

func (s *Supervisor) launchExecutorInspect(
	id cproto.ID,
	promise *future.Promise[bool],
	executorInfo *mesosproto.ExecutorInfo,
	directory, slaveID string,
	doCheckpoint bool,
) {
	rec, ok := s.containers[id]
	if !ok || rec.destroying() {
		return
	}
	name := rec.name

	deferValue(s, func() (int, error) {
		info, err := s.runtime.Inspect(context.Background(), name)
		if err != nil {
			return 0, err
		}
		if !info.Running || info.Pid == 0 {
			return 0, fmt.Errorf("inspecting container %s: no pid reported", name)
		}
		if doCheckpoint {
			path := checkpoint.Path(s.opts.MetaRoot, slaveID, executorInfo.FrameworkID,
				executorInfo.ExecutorID, string(id))
			if err := s.checkpoint(path, info.Pid); err != nil {
				return 0, fmt.Errorf("checkpointing pid for %s: %w", id, err)
			}
		}
		return info.Pid, nil
	}, func(pid int, err error) {
		if err != nil {
			s.failLaunch(id, promise, err)
			return
		}
		rec, ok := s.containers[id]
		if !ok || rec.destroying() {
			return
		}
		rec.exitStatus = s.reaper.Reap(pid)
		s.armReapedCallback(id, rec.exitStatus)
		promise.Resolve(true)
	})
}

// failLaunch triggers the destroy(id, killed=false) the design requires on any launch
// failure and propagates the original error to the caller's future.
func (s *Supervisor) failLaunch(id cproto.ID, promise *future.Promise[bool], cause error) {
	s.destroy(id, false)
	promise.Fail(cause)
}

// armReapedCallback attaches the reaped-to-destroy continuation every launch path
// (executor-mode, task-mode, and recovery) installs identically.
func (s *Supervisor) armReapedCallback(id cproto.ID, exitStatus *future.Future[*int]) {
	s.wg.Go(func(ctx context.Context) {
		_, _ = exitStatus.Wait(ctx)
		s.enqueue(func() {
			s.destroy(id, false)
		})
	})
}

func mergeEnv(commandEnv map[string]string) map[string]string {
	merged := make(map[string]string, len(commandEnv))
	for k, v := range commandEnv {
		merged[k] = v
	}
	return merged
}
