// Package supervisor implements the Supervisor Core: the single-threaded,
// event-serialized actor that owns all container state and orchestrates the runtime
// adapter, reaper, checkpointer, and resource controller into launch, update, usage,
// wait, destroy, recover, and containers.
package supervisor

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/oldmantaiter/mesos/pkg/cgroups"
	"github.com/oldmantaiter/mesos/pkg/cproto"
	"github.com/oldmantaiter/mesos/pkg/events"
	"github.com/oldmantaiter/mesos/pkg/future"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
	"github.com/oldmantaiter/mesos/pkg/runtime"
	"github.com/oldmantaiter/mesos/pkg/syncx/waitgroupx"
	"github.com/oldmantaiter/mesos/pkg/usage"
)

// Runtime is the subset of the runtime adapter the Core drives.
type Runtime interface {
	Run(ctx context.Context, image string, cmd mesosproto.CommandInfo, name string,
		resources mesosproto.Resources, env map[string]string) error
	Kill(ctx context.Context, name string, force bool) error
	Inspect(ctx context.Context, name string) (*runtime.Info, error)
	Ps(ctx context.Context, all bool, prefix string) ([]runtime.Info, error)
}

// Reaper is the subset of the pid reaper the Core drives.
type Reaper interface {
	Reap(pid int) *future.Future[*int]
}

// Checkpointer durably records a forked pid at a deterministic path. It is a function
// type rather than an interface since pkg/checkpoint exposes free functions, not a
// stateful client.
type Checkpointer func(path string, pid int) error

// Spawner starts the stub executor process fronting a task-mode container. It is a
// narrow seam over os/exec so tests can substitute a fake without actually forking.
type Spawner interface {
	Spawn(spec StubExecutorSpec) (StubProcess, error)
}

// StubProcess is a running (or already-released) stub executor child.
type StubProcess interface {
	Pid() int
	// ReleaseStartGate writes the single synchronization byte that lets the stub
	// proceed past its start gate.
	ReleaseStartGate() error
	// Abort closes the child's stdin without releasing the start gate, causing it to
	// exit without ever running the runtime wait command.
	Abort() error
}

// Options carries the process-wide configuration the Core needs but does not own:
// the meta-root checkpoint directory. The naming prefix is the constant cproto.Prefix,
// not an option. CLI parsing,
// logging setup, and every other ambient concern live in cmd/mesos-executor and
// internal/options, not here.
type Options struct {
	MetaRoot string
}

// Supervisor is the Supervisor Core actor.
type Supervisor struct {
	opts       Options
	runtime    Runtime
	reaper     Reaper
	checkpoint Checkpointer
	controller cgroups.Controller
	sampler    usage.Sampler
	spawner    Spawner
	events     events.Publisher[mesosproto.Termination]

	log   *log.Entry
	inbox *inbox
	wg    waitgroupx.Group

	containers map[cproto.ID]*containerRecord
}

// New constructs a Supervisor Core. Run must be called (typically in its own
// goroutine) before any public method's future will ever resolve.
func New(
	opts Options,
	rt Runtime,
	reaper Reaper,
	checkpoint Checkpointer,
	controller cgroups.Controller,
	sampler usage.Sampler,
	spawner Spawner,
) *Supervisor {
	return &Supervisor{
		opts:       opts,
		runtime:    rt,
		reaper:     reaper,
		checkpoint: checkpoint,
		controller: controller,
		sampler:    sampler,
		spawner:    spawner,
		events:     events.NilPublisher[mesosproto.Termination]{},
		log:        log.WithField("component", "supervisor"),
		inbox:      newInbox(),
		wg:         waitgroupx.WithContext(context.Background()),
		containers: make(map[cproto.ID]*containerRecord),
	}
}

// SetEventPublisher replaces the default no-op Termination publisher. It must be called
// before Run starts processing events; it is not safe to call concurrently with Run.
func (s *Supervisor) SetEventPublisher(p events.Publisher[mesosproto.Termination]) {
	s.events = p
}

// Run drains the actor's inbox until ctx is canceled. It must run on its own
// goroutine; every public method is safe to call concurrently with Run and with each
// other, since all state mutation happens here.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		fn, err := s.inbox.get(ctx)
		if err != nil {
			s.wg.Cancel()
			s.wg.Wait()
			return
		}
		fn()
	}
}

// enqueue schedules fn to run on the actor goroutine. Called both by public methods
// (to perform their synchronous prefix) and by async continuations (to re-enter the
// actor after an external suspension).
func (s *Supervisor) enqueue(fn func()) {
	s.inbox.put(fn)
}

// defer_ runs fn on its own goroutine and, once it completes, re-enters the actor with
// cont — the pattern every suspension point in the design notes requires: no callback
// from an external async source may touch Core state directly.
func (s *Supervisor) defer_(fn func() error, cont func(error)) {
	s.wg.Go(func(_ context.Context) {
		err := fn()
		s.enqueue(func() { cont(err) })
	})
}

// deferValue is defer_ for suspension points that also produce a value. It cannot be a
// method because Go methods may not take type parameters.
func deferValue[T any](s *Supervisor, fn func() (T, error), cont func(T, error)) {
	s.wg.Go(func(_ context.Context) {
		val, err := fn()
		s.enqueue(func() { cont(val, err) })
	})
}
