// Package checkpoint durably records the forked pid of each executor under a
// deterministic path keyed by slave/framework/executor/container, so that the reaper
// can be reattached to it after an agent restart.
package checkpoint

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Path derives the checkpoint file location for one (slave, framework, executor,
// container) tuple, rooted at metaRoot. The scheme is opaque to the supervisor but must
// be stable across agent restarts.
func Path(metaRoot, slaveID, frameworkID, executorID, containerID string) string {
	return filepath.Join(metaRoot, "slaves", slaveID, "frameworks", frameworkID,
		"executors", executorID, "runs", containerID, "pid")
}

// WritePid checkpoints pid to path, creating parent directories as needed and writing
// atomically via a temp-file-then-rename so a reader never observes a partial write.
func WritePid(path string, pid int) error {
	return Write(path, []byte(strconv.Itoa(pid)))
}

// Write atomically checkpoints content to path.
func Write(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating checkpoint directory %s", dir)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrapf(err, "creating temp checkpoint file %s", tmp)
	}
	defer func() {
		_ = os.Remove(tmp) // no-op if the rename below already succeeded.
	}()

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "writing temp checkpoint file %s", tmp)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "syncing temp checkpoint file %s", tmp)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing temp checkpoint file %s", tmp)
	}

	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "renaming checkpoint file into place at %s", path)
	}
	return nil
}

// ReadPid reads back a pid previously written with WritePid.
func ReadPid(path string) (int, error) {
	bs, err := os.ReadFile(path) // #nosec G304 -- path is derived internally, not user input.
	if err != nil {
		return 0, errors.Wrapf(err, "reading checkpoint file %s", path)
	}
	pid, err := strconv.Atoi(string(bs))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing checkpointed pid in %s", path)
	}
	return pid, nil
}
