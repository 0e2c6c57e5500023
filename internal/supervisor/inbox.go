package supervisor

import (
	"context"

	"github.com/oldmantaiter/mesos/pkg/syncx/queue"
)

// inbox is the actor's single event queue: every public operation's synchronous prefix
// and every deferred async continuation is a func() put onto it, drained strictly in
// order by Run.
type inbox struct {
	q *queue.Queue[func()]
}

func newInbox() *inbox {
	return &inbox{q: queue.New[func()]()}
}

func (b *inbox) put(fn func()) {
	b.q.Put(fn)
}

func (b *inbox) get(ctx context.Context) (func(), error) {
	return b.q.GetWithContext(ctx)
}
