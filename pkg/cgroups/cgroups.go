// Package cgroups implements the Resource Controller: locating the cpu and memory
// cgroups that govern a pid, and reading/writing the control files that enforce cpu
// shares and memory soft/hard limits. It is platform-gated per the supervisor's design
// notes — New returns a working Controller only on Linux; elsewhere it returns one
// whose methods fail with an explicit "unsupported platform" error, and callers
// (internal/supervisor's update/usage) are expected to short-circuit around it rather
// than rely on the error for control flow.
package cgroups

import "github.com/docker/go-units"

// The constants the original Mesos Docker containerizer uses when translating a
// Resources allocation into cgroup control values.
const (
	// CPUSharesPerCPU is the number of cpu.shares units that represent one full CPU.
	CPUSharesPerCPU = 1024
	// MinCPUShares is the minimum cpu.shares value the kernel will honor meaningfully.
	MinCPUShares = 10
	// MinMemoryBytes is the minimum memory limit ever written, regardless of a
	// smaller configured allocation.
	MinMemoryBytes = uint64(32 * units.MiB)
)

// Controller is the Resource Controller contract (§4.E): locate cpu/memory cgroups for
// a pid, and read/write the control files that constrain it.
type Controller interface {
	// Supported reports whether cgroup enforcement is available on this platform at
	// all. It is false on every non-Linux build; callers should branch on it rather
	// than on the error returned by the other methods, per the platform-gating
	// design note.
	Supported() bool
	// Hierarchy locates the mount point of the given subsystem (e.g. "cpu",
	// "cpuacct", "memory"), caching the result for the process lifetime.
	Hierarchy(subsystem string) (path string, found bool, err error)
	// CPUCgroup locates the cpu cgroup governing pid. found is false if pid has no
	// discoverable cpu cgroup (e.g. it has already exited).
	CPUCgroup(pid int) (cgroup string, found bool, err error)
	// MemoryCgroup locates the memory cgroup governing pid.
	MemoryCgroup(pid int) (cgroup string, found bool, err error)

	// WriteCPUShares writes cpu.shares for the given cpu cgroup.
	WriteCPUShares(cgroup string, shares int64) error
	// WriteMemorySoftLimit writes memory.soft_limit_in_bytes for the given memory
	// cgroup.
	WriteMemorySoftLimit(cgroup string, bytes uint64) error
	// ReadMemoryHardLimit reads the current memory.limit_in_bytes.
	ReadMemoryHardLimit(cgroup string) (uint64, error)
	// WriteMemoryHardLimit writes memory.limit_in_bytes for the given memory cgroup.
	WriteMemoryHardLimit(cgroup string, bytes uint64) error
}

// CPUShares computes the cpu.shares value for a given cpu allocation, per §4.G.3:
// shares = max(CPU_SHARES_PER_CPU × cpus, MIN_CPU_SHARES).
func CPUShares(cpus float64) int64 {
	shares := int64(CPUSharesPerCPU * cpus)
	if shares < MinCPUShares {
		return MinCPUShares
	}
	return shares
}

// MemoryLimit computes the memory limit to write for a given byte allocation, per
// §4.G.3: limit = max(mem, MIN_MEMORY).
func MemoryLimit(bytes uint64) uint64 {
	if bytes < MinMemoryBytes {
		return MinMemoryBytes
	}
	return bytes
}
