//go:build linux

package usage

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/oldmantaiter/mesos/pkg/cgroups"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

const clockTicksPerSecond = 100

type linuxSampler struct {
	controller cgroups.Controller
}

// New returns the Linux Usage Sampler, backed by the same cgroup hierarchy the
// Resource Controller writes limits into.
func New() Sampler {
	return &linuxSampler{controller: cgroups.New()}
}

// Supported is always true on Linux.
func (s *linuxSampler) Supported() bool { return true }

// Sample reads cpuacct.usage and memory.usage_in_bytes for rootPid's cgroup when recursive
// is true (the normal case, aggregating every process the container has forked into the
// same cgroup), or falls back to /proc/<pid>/stat for just rootPid otherwise.
func (s *linuxSampler) Sample(rootPid int, recursive bool) (*mesosproto.ResourceStatistics, error) {
	if !recursive {
		return sampleProc(rootPid)
	}

	stats := &mesosproto.ResourceStatistics{}

	cpuPath, found, err := s.controller.CPUCgroup(rootPid)
	if err != nil {
		return nil, errors.Wrap(err, "locating cpu cgroup")
	}
	if found {
		cpuTime, err := s.readCPUAcctUsage(cpuPath)
		if err != nil {
			return nil, err
		}
		stats.CPUTime = cpuTime
	}

	memPath, found, err := s.controller.MemoryCgroup(rootPid)
	if err != nil {
		return nil, errors.Wrap(err, "locating memory cgroup")
	}
	if found {
		rss, err := s.readMemoryUsage(memPath)
		if err != nil {
			return nil, err
		}
		stats.MemRSSBytes = rss
	}

	return stats, nil
}

func (s *linuxSampler) readCPUAcctUsage(cgroup string) (float64, error) {
	hierarchy, found, err := hierarchyFor(s.controller, "cpuacct", "cpu")
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	bs, err := os.ReadFile(filepath.Join(hierarchy, cgroup, "cpuacct.usage")) // #nosec G304
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "reading cpuacct.usage")
	}
	nanos, err := strconv.ParseUint(strings.TrimSpace(string(bs)), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parsing cpuacct.usage")
	}
	return float64(nanos) / 1e9, nil
}

func (s *linuxSampler) readMemoryUsage(cgroup string) (uint64, error) {
	hierarchy, found, err := hierarchyFor(s.controller, "memory", "")
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	bs, err := os.ReadFile(filepath.Join(hierarchy, cgroup, "memory.usage_in_bytes")) // #nosec G304
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "reading memory.usage_in_bytes")
	}
	usage, err := strconv.ParseUint(strings.TrimSpace(string(bs)), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parsing memory.usage_in_bytes")
	}
	return usage, nil
}

// sampleProc reads a single process's own cpu time and resident set size directly from
// procfs, used when the caller does not want cgroup-aggregate accounting.
func sampleProc(pid int) (*mesosproto.ResourceStatistics, error) {
	statPath := filepath.Join("/proc", strconv.Itoa(pid), "stat")
	bs, err := os.ReadFile(statPath) // #nosec G304
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", statPath)
	}
	// Fields after the parenthesized comm are space-separated; utime is field 14,
	// stime is field 15 (1-indexed), both in clock ticks.
	end := strings.LastIndexByte(string(bs), ')')
	if end < 0 {
		return nil, errors.Errorf("malformed %s", statPath)
	}
	fields := strings.Fields(string(bs)[end+1:])
	if len(fields) < 13 {
		return nil, errors.Errorf("malformed %s", statPath)
	}
	utime, err := strconv.ParseUint(fields[11], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing utime in %s", statPath)
	}
	stime, err := strconv.ParseUint(fields[12], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing stime in %s", statPath)
	}

	statusPath := filepath.Join("/proc", strconv.Itoa(pid), "status")
	rss, err := readVMRSS(statusPath)
	if err != nil {
		return nil, err
	}

	return &mesosproto.ResourceStatistics{
		CPUTime:     float64(utime+stime) / clockTicksPerSecond,
		MemRSSBytes: rss,
	}, nil
}

func readVMRSS(path string) (uint64, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return 0, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parsing VmRSS in %s", path)
		}
		return kb * 1024, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.Wrapf(err, "scanning %s", path)
	}
	return 0, nil
}

// hierarchyFor locates a cgroup v1 mount for subsystem, falling back to fallback (for
// cpu and cpuacct, which are frequently co-mounted as a single "cpu,cpuacct" hierarchy).
// fallback of "" disables the fallback.
func hierarchyFor(controller cgroups.Controller, subsystem, fallback string) (string, bool, error) {
	path, found, err := controller.Hierarchy(subsystem)
	if err != nil {
		return "", false, err
	}
	if found {
		return path, true, nil
	}
	if fallback == "" {
		return "", false, nil
	}
	return controller.Hierarchy(fallback)
}
