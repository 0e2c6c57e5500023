//go:build linux

package cgroups

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// linuxController locates cgroup hierarchies by parsing /proc/self/mountinfo, caching
// the result for the process lifetime as the contract requires, and then locates a
// pid's cgroup within a hierarchy by parsing /proc/<pid>/cgroup.
type linuxController struct {
	mu           sync.Mutex
	hierarchy    map[string]string
	hierarchyErr map[string]error
}

// New returns the Linux Resource Controller.
func New() Controller {
	return &linuxController{
		hierarchy:    make(map[string]string),
		hierarchyErr: make(map[string]error),
	}
}

// Supported is always true on Linux.
func (c *linuxController) Supported() bool { return true }

// Hierarchy locates the mount point of the given subsystem (e.g. "cpu", "memory"),
// caching the result for the process lifetime.
func (c *linuxController) Hierarchy(subsystem string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path, ok := c.hierarchy[subsystem]; ok {
		return path, true, nil
	}
	if err, ok := c.hierarchyErr[subsystem]; ok {
		return "", false, err
	}

	path, found, err := findCgroupMountPoint(subsystem)
	if err != nil {
		c.hierarchyErr[subsystem] = err
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	c.hierarchy[subsystem] = path
	return path, true, nil
}

func findCgroupMountPoint(subsystem string) (string, bool, error) {
	f, err := os.Open("/proc/self/mountinfo")
	if err != nil {
		return "", false, errors.Wrap(err, "opening /proc/self/mountinfo")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 {
			continue
		}
		// The superblock options, where subsystem names live for the cgroup v1
		// mount, are the final whitespace-separated field.
		opts := strings.Split(fields[len(fields)-1], ",")
		for _, opt := range opts {
			if opt == subsystem {
				return fields[4], true, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, errors.Wrap(err, "scanning /proc/self/mountinfo")
	}
	return "", false, nil
}

// CPUCgroup locates the cpu cgroup governing pid.
func (c *linuxController) CPUCgroup(pid int) (string, bool, error) {
	return pidCgroup(pid, "cpu")
}

// MemoryCgroup locates the memory cgroup governing pid.
func (c *linuxController) MemoryCgroup(pid int) (string, bool, error) {
	return pidCgroup(pid, "memory")
}

// pidCgroup parses /proc/<pid>/cgroup for the relative cgroup path of the named
// subsystem.
func pidCgroup(pid int, subsystem string) (string, bool, error) {
	path := filepath.Join("/proc", strconv.Itoa(pid), "cgroup")
	f, err := os.Open(path) // #nosec G304 -- path is built from an internal pid.
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		// Each line: hierarchy-ID:subsystems:cgroup-path
		fields := strings.SplitN(scanner.Text(), ":", 3)
		if len(fields) != 3 {
			continue
		}
		for _, s := range strings.Split(fields[1], ",") {
			if s == subsystem {
				return fields[2], true, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, errors.Wrapf(err, "scanning %s", path)
	}
	return "", false, nil
}

// WriteCPUShares writes cpu.shares for the given cpu cgroup path.
func (c *linuxController) WriteCPUShares(cgroup string, shares int64) error {
	path, found, err := c.Hierarchy("cpu")
	if err != nil {
		return err
	}
	if !found {
		return errors.New("cpu cgroup hierarchy not mounted")
	}
	return writeControlFile(filepath.Join(path, cgroup, "cpu.shares"), strconv.FormatInt(shares, 10))
}

// WriteMemorySoftLimit writes memory.soft_limit_in_bytes for the given memory cgroup
// path.
func (c *linuxController) WriteMemorySoftLimit(cgroup string, bytes uint64) error {
	return c.writeMemoryControlFile(cgroup, "memory.soft_limit_in_bytes", bytes)
}

// ReadMemoryHardLimit reads the current memory.limit_in_bytes.
func (c *linuxController) ReadMemoryHardLimit(cgroup string) (uint64, error) {
	path, found, err := c.Hierarchy("memory")
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errors.New("memory cgroup hierarchy not mounted")
	}
	bs, err := os.ReadFile(filepath.Join(path, cgroup, "memory.limit_in_bytes")) // #nosec G304
	if err != nil {
		return 0, errors.Wrap(err, "reading memory.limit_in_bytes")
	}
	limit, err := strconv.ParseUint(strings.TrimSpace(string(bs)), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parsing memory.limit_in_bytes")
	}
	return limit, nil
}

// WriteMemoryHardLimit writes memory.limit_in_bytes for the given memory cgroup path.
func (c *linuxController) WriteMemoryHardLimit(cgroup string, bytes uint64) error {
	return c.writeMemoryControlFile(cgroup, "memory.limit_in_bytes", bytes)
}

func (c *linuxController) writeMemoryControlFile(cgroup, file string, bytes uint64) error {
	path, found, err := c.Hierarchy("memory")
	if err != nil {
		return err
	}
	if !found {
		return errors.New("memory cgroup hierarchy not mounted")
	}
	return writeControlFile(filepath.Join(path, cgroup, file), strconv.FormatUint(bytes, 10))
}

func writeControlFile(path, value string) error {
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil { // #nosec G306
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
