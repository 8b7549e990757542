package render

import (
	"fmt"
	"sync"

	"github.com/DoyleJ11/grid-duel/internal/engine"
	"github.com/nsf/termbox-go"
)

var keyDirections = map[termbox.Key]engine.Direction{
	termbox.KeyArrowLeft:  engine.DirLeft,
	termbox.KeyArrowRight: engine.DirRight,
	termbox.KeyArrowUp:    engine.DirUp,
	termbox.KeyArrowDown:  engine.DirDown,
}

var runeDirections = map[rune]engine.Direction{
	'a': engine.DirLeft, 'A': engine.DirLeft,
	'd': engine.DirRight, 'D': engine.DirRight,
	'w': engine.DirUp, 'W': engine.DirUp,
	's': engine.DirDown, 'S': engine.DirDown,
}

// Direction maps arrow keys and WASD; anything else is not a move.
func Direction(ev termbox.Event) (engine.Direction, bool) {
	if ev.Type != termbox.EventKey {
		return "", false
	}
	if ev.Ch != 0 {
		dir, ok := runeDirections[ev.Ch]
		return dir, ok
	}
	dir, ok := keyDirections[ev.Key]
	return dir, ok
}

func IsQuit(ev termbox.Event) bool {
	if ev.Type != termbox.EventKey {
		return false
	}
	return ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' || ev.Ch == 'Q'
}

// Pump forwards terminal events on a channel. termbox.Interrupt blocks until
// a PollEvent call takes it, so the pump only exits from inside PollEvent
// (interrupt after Stop, or a terminal error) and never abandons a poll.
type Pump struct {
	poll      func() termbox.Event
	interrupt func()

	out  chan termbox.Event
	stop chan struct{}
	done chan struct{}
	err  error

	stopOnce sync.Once
}

// StartPump starts polling the terminal. The screen must already be open.
func StartPump(buffer int) *Pump {
	return startPump(termbox.PollEvent, termbox.Interrupt, buffer)
}

func startPump(poll func() termbox.Event, interrupt func(), buffer int) *Pump {
	p := &Pump{
		poll:      poll,
		interrupt: interrupt,
		out:       make(chan termbox.Event, buffer),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Pump) Events() <-chan termbox.Event { return p.out }

// Done is closed once the pump has exited; Err then reports why.
func (p *Pump) Done() <-chan struct{} { return p.done }

func (p *Pump) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

func (p *Pump) run() {
	defer close(p.done)
	for {
		ev := p.poll()
		switch ev.Type {
		case termbox.EventInterrupt:
			if p.stopping() {
				return
			}
			continue
		case termbox.EventError:
			p.err = fmt.Errorf("terminal input: %w", ev.Err)
			return
		}

		select {
		case p.out <- ev:
		case <-p.stop:
			// dropped; the next poll takes the interrupt
		}
	}
}

func (p *Pump) stopping() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

// Stop wakes the pump, waits for it to exit and returns its terminal error.
// Safe to call more than once.
func (p *Pump) Stop() error {
	p.stopOnce.Do(func() {
		close(p.stop)
		select {
		case <-p.done:
			return
		default:
		}
		// If the pump dies of a terminal error instead, this send is never
		// taken; the goroutine is parked until the process exits.
		go p.interrupt()
	})
	<-p.done
	return p.err
}
