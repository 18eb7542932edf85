// Package notify holds the login screen's transient status banner: at most one
// error or success message, cleared automatically after a fixed lifetime.
//
// Setting a message always replaces the previous one and restarts the
// countdown, so only the most recent message can expire. Subscribers observe
// every change, including the automatic clear.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a message stays visible when no TTL is configured.
const DefaultTTL = 7 * time.Second

type Kind int

const (
	KindNone Kind = iota
	KindError
	KindSuccess
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindSuccess:
		return "success"
	default:
		return "none"
	}
}

// Notification is the banner state. The zero value means nothing is shown.
type Notification struct {
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

func (n Notification) IsZero() bool { return n.Kind == KindNone }

// Stopper cancels a scheduled call. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// Clock abstracts the wall clock so tests can drive expiry by hand.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) }

type Option func(*Notifier)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(n *Notifier) { n.clock = c }
}

type Notifier struct {
	mu          sync.Mutex
	ttl         time.Duration
	clock       Clock
	current     Notification
	pending     Stopper
	generation  uint64
	subscribers map[int]func(Notification)
	nextID      int
	closed      bool

	// queue holds committed changes not yet delivered. At most one goroutine
	// drains it at a time so subscribers see changes in commit order.
	queue      []delivery
	delivering bool
}

type delivery struct {
	subs []func(Notification)
	v    Notification
}

// New returns a Notifier whose messages live for ttl (DefaultTTL if ttl <= 0).
func New(ttl time.Duration, opts ...Option) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	n := &Notifier{
		ttl:         ttl,
		clock:       systemClock{},
		subscribers: make(map[int]func(Notification)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) TTL() time.Duration { return n.ttl }

// Current returns the notification being shown.
func (n *Notifier) Current() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// SetError shows msg as an error, replacing any message.
func (n *Notifier) SetError(msg string) { n.set(KindError, msg) }

// SetSuccess shows msg as a success, replacing any message.
func (n *Notifier) SetSuccess(msg string) { n.set(KindSuccess, msg) }

func (n *Notifier) set(kind Kind, msg string) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}

	n.generation++
	gen := n.generation
	n.stopPendingLocked()

	n.current = Notification{Kind: kind, Message: msg, CreatedAt: n.clock.Now()}
	n.pending = n.clock.AfterFunc(n.ttl, func() { n.expire(gen) })

	drain := n.enqueueLocked(n.current)
	n.mu.Unlock()

	if drain {
		n.drain()
	}
}

// Clear hides the current message and cancels its countdown.
func (n *Notifier) Clear() {
	n.mu.Lock()
	n.generation++
	n.stopPendingLocked()

	if n.current.IsZero() {
		n.mu.Unlock()
		return
	}
	n.current = Notification{}
	drain := n.enqueueLocked(Notification{})
	n.mu.Unlock()

	if drain {
		n.drain()
	}
}

// expire is the scheduled clear. It is a no-op unless gen still identifies
// the message being shown, which also makes a repeated firing harmless.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.generation || n.current.IsZero() {
		n.mu.Unlock()
		return
	}
	n.current = Notification{}
	n.pending = nil
	drain := n.enqueueLocked(Notification{})
	n.mu.Unlock()

	if drain {
		n.drain()
	}
}

// Subscribe registers fn for every change and returns a function removing it.
// fn runs outside the Notifier lock, normally on the goroutine that caused the
// change. If another goroutine is still delivering an earlier change, the new
// one is queued behind it and delivered by that goroutine, so every subscriber
// sees changes in the order they were made and the last value it receives is
// Current(). fn may call back into the Notifier.
func (n *Notifier) Subscribe(fn func(Notification)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subscribers[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subscribers, id)
	}
}

// Close cancels the pending clear and drops all subscribers. Later Set calls
// are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	n.generation++
	n.stopPendingLocked()
	n.subscribers = make(map[int]func(Notification))
	n.queue = nil
}

func (n *Notifier) stopPendingLocked() {
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
}

func (n *Notifier) subscribersLocked() []func(Notification) {
	subs := make([]func(Notification), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

// enqueueLocked records v for delivery and reports whether the caller must
// drain the queue.
func (n *Notifier) enqueueLocked(v Notification) bool {
	n.queue = append(n.queue, delivery{subs: n.subscribersLocked(), v: v})
	if n.delivering {
		return false
	}
	n.delivering = true
	return true
}

func (n *Notifier) drain() {
	for {
		n.mu.Lock()
		if len(n.queue) == 0 {
			n.delivering = false
			n.mu.Unlock()
			return
		}
		d := n.queue[0]
		n.queue = n.queue[1:]
		n.mu.Unlock()

		publish(d.subs, d.v)
	}
}

func publish(subs []func(Notification), v Notification) {
	for _, fn := range subs {
		fn(v)
	}
}
