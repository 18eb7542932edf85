package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock records scheduled calls; tests fire them explicitly.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every live timer that became due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.at.After(c.now) {
			t.stopped = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[len(c.timers)-1]
}

func TestNew_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, New(0).TTL())
	assert.Equal(t, 3*time.Second, New(3*time.Second).TTL())
}

func TestSetError_ShowsMessage(t *testing.T) {
	clk := newFakeClock()
	n := New(7*time.Second, WithClock(clk))

	n.SetError("Please fill out all the fields")

	got := n.Current()
	assert.Equal(t, KindError, got.Kind)
	assert.Equal(t, "Please fill out all the fields", got.Message)
	assert.Equal(t, clk.Now(), got.CreatedAt)
}

func TestAutoClear_AfterTTL(t *testing.T) {
	clk := newFakeClock()
	n := New(7*time.Second, WithClock(clk))

	n.SetSuccess("sent")
	clk.Advance(6 * time.Second)
	assert.Equal(t, KindSuccess, n.Current().Kind)

	clk.Advance(time.Second)
	assert.True(t, n.Current().IsZero())
}

func TestSuccessReplacesError_AndRestartsCountdown(t *testing.T) {
	clk := newFakeClock()
	n := New(7*time.Second, WithClock(clk))

	n.SetError("bad")
	clk.Advance(5 * time.Second)
	n.SetSuccess("good")

	got := n.Current()
	require.Equal(t, KindSuccess, got.Kind)
	assert.Equal(t, "good", got.Message)

	// 7s after the error, but only 2s after the success.
	clk.Advance(2 * time.Second)
	assert.Equal(t, "good", n.Current().Message)

	clk.Advance(5 * time.Second)
	assert.True(t, n.Current().IsZero())
}

func TestExpire_FiringTwiceIsNoop(t *testing.T) {
	clk := newFakeClock()
	n := New(7*time.Second, WithClock(clk))

	var events []Notification
	n.Subscribe(func(v Notification) { events = append(events, v) })

	n.SetError("bad")
	timer := clk.last()

	timer.fn()
	timer.fn()

	assert.True(t, n.Current().IsZero())
	require.Len(t, events, 2)
	assert.Equal(t, KindError, events[0].Kind)
	assert.True(t, events[1].IsZero())
}

func TestStaleTimerDoesNotClearNewerMessage(t *testing.T) {
	clk := newFakeClock()
	n := New(7*time.Second, WithClock(clk))

	n.SetError("first")
	stale := clk.last()
	n.SetError("second")

	assert.True(t, stale.stopped)
	stale.fn()

	assert.Equal(t, "second", n.Current().Message)
}

func TestClear_CancelsCountdown(t *testing.T) {
	clk := newFakeClock()
	n := New(7*time.Second, WithClock(clk))

	var events int
	n.Subscribe(func(Notification) { events++ })

	n.SetError("bad")
	timer := clk.last()
	n.Clear()

	assert.True(t, n.Current().IsZero())
	assert.True(t, timer.stopped)
	assert.Equal(t, 2, events)

	n.Clear()
	assert.Equal(t, 2, events, "clearing an empty banner publishes nothing")
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	n := New(time.Hour)

	var got []string
	unsubscribe := n.Subscribe(func(v Notification) { got = append(got, v.Message) })

	n.SetSuccess("one")
	unsubscribe()
	n.SetSuccess("two")

	assert.Equal(t, []string{"one"}, got)
}

func TestSubscriberMayReadCurrent(t *testing.T) {
	n := New(time.Hour)

	var seen Notification
	n.Subscribe(func(Notification) { seen = n.Current() })
	n.SetError("x")

	assert.Equal(t, "x", seen.Message)
}

func TestDelivery_ClearBlockedInSubscriberDoesNotOutliveNewerMessage(t *testing.T) {
	clk := newFakeClock()
	n := New(7*time.Second, WithClock(clk))

	n.SetError("A")

	blocked := make(chan struct{})
	release := make(chan struct{})
	var (
		mu   sync.Mutex
		seen []Notification
	)
	n.Subscribe(func(v Notification) {
		if v.IsZero() {
			close(blocked)
			<-release
		}
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	expired := make(chan struct{})
	go func() {
		defer close(expired)
		clk.Advance(7 * time.Second)
	}()
	<-blocked

	// The clear is committed but still being delivered.
	n.SetSuccess("B")
	close(release)
	<-expired

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsZero())
	assert.Equal(t, KindSuccess, seen[1].Kind)
	assert.Equal(t, "B", seen[1].Message)
	assert.Equal(t, n.Current(), seen[len(seen)-1])
}

func TestDelivery_SubscriberMaySetFromCallback(t *testing.T) {
	n := New(time.Hour)

	var got []string
	n.Subscribe(func(v Notification) {
		got = append(got, v.Message)
		if v.Kind == KindError {
			n.SetSuccess("recovered")
		}
	})
	n.SetError("bad")

	assert.Equal(t, []string{"bad", "recovered"}, got)
	assert.Equal(t, "recovered", n.Current().Message)
}

func TestClose_IgnoresLaterMessages(t *testing.T) {
	clk := newFakeClock()
	n := New(7*time.Second, WithClock(clk))

	n.SetError("bad")
	timer := clk.last()
	n.Close()
	assert.True(t, timer.stopped)

	n.SetSuccess("late")
	assert.Equal(t, "bad", n.Current().Message)
}

func TestSystemClock_ClearsForReal(t *testing.T) {
	n := New(20 * time.Millisecond)
	n.SetError("bad")

	require.Eventually(t, func() bool { return n.Current().IsZero() }, time.Second, 5*time.Millisecond)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "error", KindError.String())
	assert.Equal(t, "success", KindSuccess.String())
}
