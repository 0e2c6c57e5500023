package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathIsDeterministic(t *testing.T) {
	a := Path("/var/lib/mesos", "slave1", "fw1", "exec1", "C1")
	b := Path("/var/lib/mesos", "slave1", "fw1", "exec1", "C1")
	require.Equal(t, a, b)
	require.Equal(t, "/var/lib/mesos/slaves/slave1/frameworks/fw1/executors/exec1/runs/C1/pid", a)
}

func TestWritePidCreatesParentsAndRoundTrips(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "nested", "dirs", "pid")

	require.NoError(t, WritePid(path, 4242))

	pid, err := ReadPid(path)
	require.NoError(t, err)
	require.Equal(t, 4242, pid)
}

func TestWritePidOverwritesAtomically(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pid")

	require.NoError(t, WritePid(path, 1))
	require.NoError(t, WritePid(path, 2))

	pid, err := ReadPid(path)
	require.NoError(t, err)
	require.Equal(t, 2, pid)

	entries, err := filepathGlobTemp(root)
	require.NoError(t, err)
	require.Empty(t, entries, "no leftover temp files after rename")
}

func filepathGlobTemp(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, ".*.tmp"))
}
