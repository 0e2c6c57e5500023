package supervisor

import (
	"context"
	"sync"

	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
	"github.com/oldmantaiter/mesos/pkg/runtime"
)

// fakeRuntime is an in-memory stand-in for the runtime client, letting tests script
// exactly what Run/Kill/Inspect/Ps return without spawning real containers.
type fakeRuntime struct {
	mu sync.Mutex

	runErr  error
	killErr error
	psErr   error

	running map[string]int // name -> pid
	nextPid int

	killed []string
	extra  []runtime.Info // orphans reported by Ps beyond what's tracked here
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{running: make(map[string]int), nextPid: 100}
}

func (f *fakeRuntime) Run(_ context.Context, _ string, _ mesosproto.CommandInfo, name string,
	_ mesosproto.Resources, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runErr != nil {
		return f.runErr
	}
	f.nextPid++
	f.running[name] = f.nextPid
	return nil
}

func (f *fakeRuntime) Kill(_ context.Context, name string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killed = append(f.killed, name)
	if f.killErr != nil {
		return f.killErr
	}
	delete(f.running, name)
	return nil
}

func (f *fakeRuntime) Inspect(_ context.Context, name string) (*runtime.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pid, ok := f.running[name]
	if !ok {
		return &runtime.Info{Name: name}, nil
	}
	return &runtime.Info{Name: name, Pid: pid, Running: true}, nil
}

func (f *fakeRuntime) Ps(_ context.Context, _ bool, _ string) ([]runtime.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.psErr != nil {
		return nil, f.psErr
	}
	out := append([]runtime.Info{}, f.extra...)
	for name, pid := range f.running {
		out = append(out, runtime.Info{Name: name, Pid: pid, Running: true})
	}
	return out, nil
}

func (f *fakeRuntime) wasKilled(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.killed {
		if n == name {
			return true
		}
	}
	return false
}

// fakeReaper hands back manually-resolvable futures instead of watching real pids.
type fakeReaper struct {
	mu       sync.Mutex
	promises map[int]*future.Promise[*int]
}

func newFakeReaper() *fakeReaper {
	return &fakeReaper{promises: make(map[int]*future.Promise[*int])}
}

func (r *fakeReaper) Reap(pid int) *future.Future[*int] {
	r.mu.Lock()
	defer r.mu.Unlock()
	promise, fut := future.New[*int]()
	r.promises[pid] = promise
	return fut
}

func (r *fakeReaper) resolve(pid int, status *int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.promises[pid]; ok {
		p.Resolve(status)
	}
}

func fakeCheckpointer(calls *[]string) Checkpointer {
	var mu sync.Mutex
	return func(path string, pid int) error {
		mu.Lock()
		defer mu.Unlock()
		*calls = append(*calls, path)
		return nil
	}
}

// fakeController stubs the cgroups.Controller contract as unsupported by default; tests
// that need Linux-only Update behavior override supported/found/limits directly and
// read back the write* slices to assert what was actually written.
type fakeController struct {
	mu sync.Mutex

	supported bool

	cpuFound, memFound bool
	cgroup             string
	cgroupErr          error

	currentHardLimit uint64
	readHardLimitErr error

	cpuShareWrites  []int64
	softLimitWrites []uint64
	hardLimitWrites []uint64
}

func (c *fakeController) Supported() bool { return c.supported }
func (c *fakeController) Hierarchy(string) (string, bool, error) {
	return "", false, nil
}

func (c *fakeController) CPUCgroup(int) (string, bool, error) {
	return c.cgroup, c.cpuFound, c.cgroupErr
}

func (c *fakeController) MemoryCgroup(int) (string, bool, error) {
	return c.cgroup, c.memFound, c.cgroupErr
}

func (c *fakeController) WriteCPUShares(_ string, shares int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cpuShareWrites = append(c.cpuShareWrites, shares)
	return nil
}

func (c *fakeController) WriteMemorySoftLimit(_ string, limit uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.softLimitWrites = append(c.softLimitWrites, limit)
	return nil
}

func (c *fakeController) ReadMemoryHardLimit(string) (uint64, error) {
	return c.currentHardLimit, c.readHardLimitErr
}

func (c *fakeController) WriteMemoryHardLimit(_ string, limit uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hardLimitWrites = append(c.hardLimitWrites, limit)
	return nil
}

func (c *fakeController) softLimitsWritten() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint64{}, c.softLimitWrites...)
}

func (c *fakeController) hardLimitsWritten() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint64{}, c.hardLimitWrites...)
}

// fakeSampler stubs usage.Sampler as unsupported by default.
type fakeSampler struct {
	supported bool
	stats     mesosproto.ResourceStatistics
	err       error
}

func (s *fakeSampler) Supported() bool { return s.supported }
func (s *fakeSampler) Sample(int, bool) (*mesosproto.ResourceStatistics, error) {
	if s.err != nil {
		return nil, s.err
	}
	stats := s.stats
	return &stats, nil
}

// fakeSpawner stubs the task-mode stub-executor seam.
type fakeSpawner struct {
	mu   sync.Mutex
	next *fakeStubProcess
	err  error
}

func (s *fakeSpawner) Spawn(StubExecutorSpec) (StubProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.next, nil
}

type fakeStubProcess struct {
	mu         sync.Mutex
	pid        int
	released   bool
	aborted    bool
	releaseErr error
}

func (p *fakeStubProcess) Pid() int { return p.pid }
func (p *fakeStubProcess) ReleaseStartGate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = true
	return p.releaseErr
}
func (p *fakeStubProcess) Abort() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.aborted = true
	return nil
}

func newTestSupervisor(rt Runtime, reaper Reaper, ckpt Checkpointer,
	ctrl *fakeController, sampler *fakeSampler, spawner Spawner) *Supervisor {
	return New(Options{MetaRoot: "/meta"}, rt, reaper, ckpt, ctrl, sampler, spawner)
}
