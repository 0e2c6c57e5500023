//go:build unix

// Package reaper implements the pid reaper binding: given a pid, a future that resolves
// exactly once with the process's exit status, or none if the process's exit could not
// be observed directly (because it was never our child).
package reaper

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/ptrs"
)

// pollInterval governs how often a non-child pid's liveness is polled when we cannot
// wait4 on it directly (stub-executor children are always our own children and never
// take this path; executor-mode containers, whose root pid belongs to the runtime
// daemon's process tree, do).
var pollInterval = 250 * time.Millisecond

// Reaper reaps child processes and polls unrelated pids for exit, handing each caller
// exactly one resolution per pid via Reap.
type Reaper struct{}

// New returns a ready Reaper.
func New() *Reaper {
	return &Reaper{}
}

// Reap returns a future that resolves, exactly once, with the exit status of pid (or
// nil if the exit could not be observed). It is safe to call concurrently for distinct
// pids.
func (*Reaper) Reap(pid int) *future.Future[*int] {
	p, f := future.New[*int]()
	go reap(p, pid)
	return f
}

func reap(p *future.Promise[*int], pid int) {
	var status unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &status, 0, nil)
		switch err {
		case nil:
			p.Resolve(ptrs.IntPtr(status.ExitStatus()))
			return
		case unix.EINTR:
			continue
		case unix.ECHILD:
			// pid is not our child (e.g. the root process of a runtime-managed
			// container); fall back to polling for its disappearance. We cannot
			// observe its real exit status this way.
			pollUntilGone(p, pid)
			return
		default:
			// Unexpected error; nothing more we can do but report "none" so
			// callers aren't stuck waiting forever.
			p.Resolve(nil)
			return
		}
	}
}

func pollUntilGone(p *future.Promise[*int], pid int) {
	for {
		if err := unix.Kill(pid, 0); err != nil {
			p.Resolve(nil)
			return
		}
		time.Sleep(pollInterval)
	}
}
