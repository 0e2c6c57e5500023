package supervisor

import (
	"context"
	"fmt"

	"github.com/oldmantaiter/mesos/pkg/checkpoint"
	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

// RuntimeCommand is the runtime CLI path passed to every spawned stub executor so its
// override can shell out to `runtime wait NAME`. It is set once at construction time by
// the caller that also built the Runtime adapter.
var RuntimeCommand = "docker"

// LaunchTask starts id as a task-mode container: a stub executor is forked locally to
// front the container, per §4.G.2, so that the stub's exit status mirrors the
// container's even though no framework-supplied executor runs inside it.
func (s *Supervisor) LaunchTask(
	id cproto.ID,
	taskInfo *mesosproto.TaskInfo,
	executorInfo *mesosproto.ExecutorInfo,
	directory, user, slaveID, slavePid string,
	doCheckpoint bool,
) *future.Future[bool] {
	promise, result := future.New[bool]()

	s.enqueue(func() {
		image, ok := taskInfo.Command.Container.ParseImage()
		if !ok {
			promise.Resolve(false)
			return
		}

		rec, installed := s.install(id)
		if !installed {
			promise.Fail(fmt.Errorf("launch %s: %w", id, ErrAlreadyStarted))
			return
		}
		rec.resources = taskInfo.Resources
		name := rec.name

		s.defer_(func() error {
			return s.runtime.Run(context.Background(), image, taskInfo.Command, name,
				taskInfo.Resources, nil)
		}, func(err error) {
			if err != nil {
				s.failLaunch(id, promise, fmt.Errorf("running container %s: %w", name, err))
				return
			}
			s.spawnStub(id, promise, executorInfo, name, directory, slaveID, doCheckpoint)
		})
	})

	return result
}

func (s *Supervisor) spawnStub(
	id cproto.ID,
	promise *future.Promise[bool],
	executorInfo *mesosproto.ExecutorInfo,
	containerName, directory, slaveID string,
	doCheckpoint bool,
) {
	if _, ok := s.containers[id]; !ok {
		return
	}

	spec := StubExecutorSpec{
		ExecutorCommand: append([]string{}, executorInfo.Command.Value),
		RuntimeCommand:  RuntimeCommand,
		ContainerName:   containerName,
		Directory:       directory,
		Env:             envSlice(executorInfo.Command.Environment),
	}
	if len(executorInfo.Command.Arguments) > 0 {
		spec.ExecutorCommand = append(spec.ExecutorCommand, executorInfo.Command.Arguments...)
	}

	deferValue(s, func() (StubProcess, error) {
		return s.spawner.Spawn(spec)
	}, func(proc StubProcess, err error) {
		if err != nil {
			s.failLaunch(id, promise, fmt.Errorf("spawning stub executor for %s: %w", id, err))
			return
		}
		s.checkpointStub(id, promise, proc, executorInfo, slaveID, doCheckpoint)
	})
}

func (s *Supervisor) checkpointStub(
	id cproto.ID,
	promise *future.Promise[bool],
	proc StubProcess,
	executorInfo *mesosproto.ExecutorInfo,
	slaveID string,
	doCheckpoint bool,
) {
	if _, ok := s.containers[id]; !ok {
		_ = proc.Abort()
		return
	}

	s.defer_(func() error {
		if !doCheckpoint {
			return nil
		}
		path := checkpoint.Path(s.opts.MetaRoot, slaveID, executorInfo.FrameworkID,
			executorInfo.ExecutorID, string(id))
		if err := s.checkpoint(path, proc.Pid()); err != nil {
			_ = proc.Abort()
			return fmt.Errorf("checkpointing stub pid for %s: %w", id, err)
		}
		return nil
	}, func(err error) {
		if err != nil {
			s.failLaunch(id, promise, err)
			return
		}
		s.releaseStub(id, promise, proc)
	})
}

func (s *Supervisor) releaseStub(id cproto.ID, promise *future.Promise[bool], proc StubProcess) {
	if _, ok := s.containers[id]; !ok {
		_ = proc.Abort()
		return
	}

	s.defer_(func() error {
		return proc.ReleaseStartGate()
	}, func(err error) {
		if err != nil {
			s.failLaunch(id, promise, fmt.Errorf("releasing start gate for %s: %w", id, err))
			return
		}
		rec, ok := s.containers[id]
		if !ok || rec.destroying() {
			return
		}
		rec.exitStatus = s.reaper.Reap(proc.Pid())
		s.armReapedCallback(id, rec.exitStatus)
		promise.Resolve(true)
	})
}

func envSlice(env map[string]string) []string {
	slice := make([]string, 0, len(env))
	for k, v := range env {
		slice = append(slice, k+"="+v)
	}
	return slice
}
