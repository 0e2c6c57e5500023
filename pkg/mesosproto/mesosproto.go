// Package mesosproto carries the plain-struct domain messages the Supervisor Core
// consumes and produces: the recovered slave state snapshot, the executor/task
// descriptions launch is given, and the resource and statistics types threaded through
// update and usage, for the agent/framework-coordinator boundary this subsystem sits on.
package mesosproto

// DockerImageSentinel prefixes a ContainerInfo.Image value that selects this
// supervisor. Anything else causes launch to resolve false without side effects.
const DockerImageSentinel = "docker:///"

// ContainerInfo carries the container block of a CommandInfo. A command is
// container-eligible iff Image is DockerImageSentinel followed by a non-empty image name.
type ContainerInfo struct {
	Image string
}

// ParseImage returns the real image name with the DockerImageSentinel stripped, and
// whether this command is container-eligible at all.
func (c *ContainerInfo) ParseImage() (string, bool) {
	if c == nil || len(c.Image) <= len(DockerImageSentinel) {
		return "", false
	}
	if c.Image[:len(DockerImageSentinel)] != DockerImageSentinel {
		return "", false
	}
	return c.Image[len(DockerImageSentinel):], true
}

// CommandInfo describes a command to run, optionally inside a container.
type CommandInfo struct {
	Container   *ContainerInfo
	Value       string
	Arguments   []string
	Environment map[string]string
	Shell       bool
}

// Resources describes a cpu/memory allocation. Either field may be unset (nil) when the
// caller did not specify a value for that resource.
type Resources struct {
	Cpus *float64
	// MemBytes is the memory allocation in bytes.
	MemBytes *uint64
}

// ExecutorInfo describes a framework-supplied executor: a long-lived process that hosts
// one or more tasks.
type ExecutorInfo struct {
	ExecutorID  string
	FrameworkID string
	Command     CommandInfo
	Resources   Resources
}

// TaskInfo describes a single unit of work launched in task-mode, fronted by a stub
// executor.
type TaskInfo struct {
	TaskID    string
	Command   CommandInfo
	Resources Resources
}

// Termination is the value resolved on a container's wait future once it is fully torn
// down.
type Termination struct {
	// Killed is true iff destruction was caller-initiated; false if observed via the
	// reaper.
	Killed bool
	// Status is the tracked pid's exit code, if one was ever observed.
	Status *int
	Message string
}

// ResourceStatistics is a point-in-time usage snapshot for a running container, merged
// with its configured limits.
type ResourceStatistics struct {
	CPUTime      float64
	MemRSSBytes  uint64
	CpusLimit    *float64
	MemLimitBytes *uint64
}

// RunState describes one recorded execution of an executor or task.
type RunState struct {
	ID ID
}

// ID is a loosely-typed alias over the recovery snapshot's container identity, distinct
// from cproto.ID so this package carries no dependency on it; the supervisor converts
// between the two when walking a SlaveState.
type ID = string

// ExecutorState is the recovered, on-disk state of one executor as the node agent last
// knew it.
type ExecutorState struct {
	// Info is nil if the executor's info could not be recovered.
	Info *ExecutorInfo
	// LatestRunID names the entry in Runs that is this executor's current run, or "" if
	// it has none.
	LatestRunID ID
	Runs        map[ID]*RunState
	// ForkedPid is the pid the agent forked for this executor's container on a previous
	// run, or nil if none was ever recorded.
	ForkedPid *int
	// Completed is true if this executor's latest run had already finished before the
	// snapshot was taken.
	Completed bool
}

// FrameworkState groups the executors the node agent was running on behalf of one
// framework.
type FrameworkState struct {
	FrameworkID string
	Executors   map[string]*ExecutorState
}

// SlaveState is the recovery snapshot recover(state) consumes: everything the node
// agent persisted about its frameworks and their executors before the last restart.
type SlaveState struct {
	SlaveID    string
	Frameworks map[string]*FrameworkState
}
