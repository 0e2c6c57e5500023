//go:build unix

package reaper

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oldmantaiter/mesos/pkg/future"
)

func TestReapChildResolvesExitCode(t *testing.T) {
	cmd := exec.Command("/bin/sh", "-c", "exit 7")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid

	// Don't let the stdlib's own Wait race us for the child.
	r := New()
	f := r.Reap(pid)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	status, err := f.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, status)
	require.Equal(t, 7, *status)
}

func TestPollUntilGoneResolvesNoneOnceProcessExits(t *testing.T) {
	orig := pollInterval
	pollInterval = 5 * time.Millisecond
	defer func() { pollInterval = orig }()

	cmd := exec.Command("/bin/sh", "-c", "exit 0")
	require.NoError(t, cmd.Run()) // already reaped; pid is now free to not exist.
	pid := cmd.Process.Pid

	p, f := future.New[*int]()
	go pollUntilGone(p, pid)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	status, err := f.Wait(ctx)
	require.NoError(t, err)
	require.Nil(t, status)
}
