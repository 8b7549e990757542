package render

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTerm mimics termbox: Interrupt is an unbuffered send that only a
// blocked poll can take.
type fakeTerm struct {
	events     chan termbox.Event
	interrupts chan struct{}
	woken      atomic.Int32
}

func newFakeTerm() *fakeTerm {
	return &fakeTerm{
		events:     make(chan termbox.Event),
		interrupts: make(chan struct{}),
	}
}

func (f *fakeTerm) poll() termbox.Event {
	select {
	case ev := <-f.events:
		return ev
	case <-f.interrupts:
		return termbox.Event{Type: termbox.EventInterrupt}
	}
}

func (f *fakeTerm) interrupt() {
	f.woken.Add(1)
	f.interrupts <- struct{}{}
}

func stopWithin(t *testing.T, p *Pump, within time.Duration) error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- p.Stop() }()
	select {
	case err := <-errCh:
		return err
	case <-time.After(within):
		t.Fatalf("pump did not stop within %s", within)
		return nil
	}
}

func TestPump_ForwardsEvents(t *testing.T) {
	term := newFakeTerm()
	p := startPump(term.poll, term.interrupt, 1)

	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'd'}
	select {
	case ev := <-p.Events():
		assert.Equal(t, 'd', ev.Ch)
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}

	assert.NoError(t, stopWithin(t, p, time.Second))
	assert.NoError(t, p.Err())
}

func TestPump_StopWhileEventUnread(t *testing.T) {
	term := newFakeTerm()
	p := startPump(term.poll, term.interrupt, 0)

	// Nobody reads Events: the pump is parked on the send when Stop arrives.
	term.events <- termbox.Event{Type: termbox.EventResize}

	assert.NoError(t, stopWithin(t, p, time.Second))
	assert.Equal(t, int32(1), term.woken.Load())
}

func TestPump_StopIsIdempotent(t *testing.T) {
	term := newFakeTerm()
	p := startPump(term.poll, term.interrupt, 0)

	require.NoError(t, stopWithin(t, p, time.Second))
	require.NoError(t, stopWithin(t, p, time.Second))
	assert.Equal(t, int32(1), term.woken.Load())
}

func TestPump_InterruptWithoutStopIsIgnored(t *testing.T) {
	term := newFakeTerm()
	p := startPump(term.poll, term.interrupt, 1)

	term.interrupt()
	term.events <- termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowUp}

	select {
	case ev := <-p.Events():
		assert.Equal(t, termbox.KeyArrowUp, ev.Key)
	case <-time.After(time.Second):
		t.Fatal("pump exited on a stray interrupt")
	}
	require.NoError(t, stopWithin(t, p, time.Second))
}

func TestPump_TerminalErrorEndsPump(t *testing.T) {
	term := newFakeTerm()
	p := startPump(term.poll, term.interrupt, 0)
	boom := errors.New("tty gone")

	term.events <- termbox.Event{Type: termbox.EventError, Err: boom}

	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("pump still running after terminal error")
	}
	assert.ErrorIs(t, p.Err(), boom)

	// Already exited: Stop must not wait on an interrupt nobody will take.
	assert.ErrorIs(t, stopWithin(t, p, time.Second), boom)
	assert.Equal(t, int32(0), term.woken.Load())
}
