// Package usage implements the Usage Sampler: given a root pid, it produces a
// point-in-time ResourceStatistics snapshot of cpu time and resident memory. It is
// platform-gated the same way pkg/cgroups is — Sample only works on Linux, where the
// accounting files of the same cgroups that pkg/cgroups writes limits into are read.
package usage

import "github.com/oldmantaiter/mesos/pkg/mesosproto"

// Sampler produces a ResourceStatistics snapshot for a pid's cgroup.
type Sampler interface {
	// Supported reports whether usage sampling is available on this platform.
	Supported() bool
	// Sample reads cpu and memory accounting for rootPid. When recursive is true,
	// the sample includes all processes in rootPid's cgroup, not just rootPid
	// itself — the case that matters for containers, whose root pid typically forks
	// children that do the real work.
	Sample(rootPid int, recursive bool) (*mesosproto.ResourceStatistics, error)
}
