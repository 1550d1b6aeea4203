package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/nbrumont/fly/internal/input"
	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/keymap"
	"github.com/nbrumont/fly/internal/input/report"
)

// DefaultHistory is the number of recent outputs shown.
const DefaultHistory = 12

// Host is the keyboard the viewer shows and drives.
type Host interface {
	input.StatusProvider

	// Keymap returns the keymap in use.
	Keymap() *keymap.Keymap
}

// Options configures a Viewer.
type Options struct {
	// Next receives every frame after the viewer has recorded it.
	Next report.Sink

	// History is the number of recent outputs kept. Zero uses
	// DefaultHistory.
	History int
}

// Viewer is an interactive terminal view of the keyboard. It is a
// report.Sink and an input.Hook: frames and decisions it receives are
// listed under the keymap, and each one schedules a redraw.
type Viewer struct {
	screen  tcell.Screen
	next    report.Sink
	history int

	mu     sync.Mutex
	recent []string

	// Owned by the Run goroutine.
	held   map[key.Position]bool
	pinned int
}

// New creates a viewer drawing on screen. The screen is initialized by Run.
func New(screen tcell.Screen, opts Options) *Viewer {
	if opts.History <= 0 {
		opts.History = DefaultHistory
	}
	return &Viewer{
		screen:  screen,
		next:    opts.Next,
		history: opts.History,
		held:    make(map[key.Position]bool),
		pinned:  -1,
	}
}

// Send implements report.Sink.
func (v *Viewer) Send(f report.Frame) error {
	v.record(f.String())
	if v.next != nil {
		return v.next.Send(f)
	}
	return nil
}

// PreKeyEvent implements input.Hook.
func (v *Viewer) PreKeyEvent(*key.Event, *input.Context) bool {
	return false
}

// PostKeyEvent implements input.Hook.
func (v *Viewer) PostKeyEvent(*key.Event, *input.Context) {
	v.redraw()
}

// Resolved implements input.Hook.
func (v *Viewer) Resolved(res *input.Resolution, _ *input.Context) {
	v.record(res.String())
}

// Recent returns the recent outputs, oldest first.
func (v *Viewer) Recent() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.recent...)
}

func (v *Viewer) record(line string) {
	v.mu.Lock()
	v.recent = append(v.recent, line)
	if n := len(v.recent) - v.history; n > 0 {
		v.recent = append(v.recent[:0], v.recent[n:]...)
	}
	v.mu.Unlock()
	v.redraw()
}

// redraw wakes the Run loop. It runs under the handler lock, so it must
// never block.
func (v *Viewer) redraw() {
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run shows host and sends a key event to events for every bound terminal
// key, until Esc or Ctrl-C is pressed or ctx is done. Keys still held down
// are released before Run returns.
func (v *Viewer) Run(ctx context.Context, host Host, events chan<- key.Event) error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer v.screen.Fini()
	v.screen.HideCursor()

	screenEvents := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go v.screen.ChannelEvents(screenEvents, quit)
	defer close(quit)
	defer v.releaseHeld(ctx, events)

	v.draw(host)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-screenEvents:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
			case *tcell.EventKey:
				if v.handleKey(ctx, ev, host, events) {
					return nil
				}
			}
			v.draw(host)
		}
	}
}

// handleKey acts on one terminal key and reports whether to quit.
func (v *Viewer) handleKey(ctx context.Context, ev *tcell.EventKey, host Host, events chan<- key.Event) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft, tcell.KeyUp:
		v.shiftLayer(host, -1)
	case tcell.KeyRight, tcell.KeyDown:
		v.shiftLayer(host, 1)
	case tcell.KeyTab:
		v.pinned = -1
	case tcell.KeyRune:
		if pos, hold, ok := Position(ev.Rune()); ok {
			v.strike(ctx, pos, hold, events)
		}
	}
	return false
}

// strike taps pos, or toggles it down or up for a hold. Any key typed while
// held is released.
func (v *Viewer) strike(ctx context.Context, pos key.Position, hold bool, events chan<- key.Event) {
	var out []key.Event
	switch {
	case v.held[pos]:
		delete(v.held, pos)
		out = []key.Event{{Pos: pos}}
	case hold:
		v.held[pos] = true
		out = []key.Event{{Pos: pos, Pressed: true}}
	default:
		out = []key.Event{{Pos: pos, Pressed: true}, {Pos: pos}}
	}

	for _, ev := range out {
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (v *Viewer) releaseHeld(ctx context.Context, events chan<- key.Event) {
	for pos := range v.held {
		delete(v.held, pos)
		select {
		case events <- key.Event{Pos: pos}:
		case <-ctx.Done():
			return
		}
	}
}

func (v *Viewer) shiftLayer(host Host, delta int) {
	n := host.Keymap().LayerCount()
	v.pinned = ((v.shown(host)+delta)%n + n) % n
}

// shown returns the layer on screen: the pinned one, or the highest active
// layer.
func (v *Viewer) shown(host Host) int {
	if v.pinned >= 0 && v.pinned < host.Keymap().LayerCount() {
		return v.pinned
	}
	l := host.Layers().Highest()
	if l >= host.Keymap().LayerCount() {
		return 0
	}
	return l
}
