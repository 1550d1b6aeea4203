package input

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/keymap"
	"github.com/nbrumont/fly/internal/input/tapdance"
	"github.com/nbrumont/fly/internal/input/tapping"
)

// Handler errors.
var (
	ErrClosed       = errors.New("input handler closed")
	ErrBadPosition  = errors.New("key position out of range")
	ErrUnboundDance = errors.New("keymap uses an undefined tap dance")
)

// Config configures the input handler.
type Config struct {
	// TappingTerm is the term for keys without a built-in override.
	// Default: 250ms
	TappingTerm time.Duration

	// MinTerm and MaxTerm clamp every term the policy returns.
	// Zero disables the bound.
	MinTerm time.Duration
	MaxTerm time.Duration

	// Logger receives gesture logs. Nil discards them.
	Logger logrus.FieldLogger

	// OnBootloader is called when the bootloader key is pressed.
	OnBootloader func()
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TappingTerm: tapping.DefaultTerm,
		MinTerm:     10 * time.Millisecond,
		MaxTerm:     time.Second,
	}
}

// Handler is the keyboard host. It turns physical key transitions into
// register/unregister calls on an output, deciding dual-role keys and
// driving tap-dance gestures through their finish and reset handlers.
//
// Time only advances through event timestamps and Tick, so a Handler is
// fully deterministic. Hooks run with the handler lock held and must not
// call back into the handler.
type Handler struct {
	mu sync.Mutex

	config  Config
	log     logrus.FieldLogger
	keymap  *keymap.Keymap
	dances  *tapdance.Set
	out     tapdance.Output
	term    tapping.TermFunc
	hooks   *HookManager
	metrics *Metrics
	newID   func() string

	layers    keymap.LayerMask
	held      map[key.Position]*heldKey
	undecided []key.Position
	windows   map[key.Keycode]*danceWindow
	now       time.Time
	closed    bool
}

// NewHandler creates a handler for a keymap. Every tap dance the keymap
// uses must be defined in dances.
func NewHandler(config Config, km *keymap.Keymap, dances *tapdance.Set, out tapdance.Output) (*Handler, error) {
	if err := km.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keymap %q: %w", km.Name, err)
	}
	if dances == nil {
		dances, _ = tapdance.NewSet()
	}
	for _, code := range km.Dances() {
		if _, ok := dances.Lookup(code); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnboundDance, code)
		}
	}

	log := config.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Handler{
		config:  config,
		log:     log.WithField("component", "input"),
		keymap:  km,
		dances:  dances,
		out:     out,
		term:    tapping.NewPolicy(config.TappingTerm).Func(),
		hooks:   NewHookManager(),
		metrics: NewMetrics(),
		newID:   uuid.NewString,
		held:    make(map[key.Position]*heldKey),
		windows: make(map[key.Keycode]*danceWindow),
	}, nil
}

// SetTermFunc replaces the timing policy. Terms are still clamped.
func (h *Handler) SetTermFunc(fn tapping.TermFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.term = fn
}

// HandleKeyEvent processes a key press or release.
func (h *Handler) HandleKeyEvent(event key.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if int(event.Pos) >= keymap.KeyCount {
		return fmt.Errorf("%w: %d", ErrBadPosition, event.Pos)
	}

	start := time.Now()
	h.advance(event.Time)

	// Run pre-hooks
	if h.hooks.RunPreKeyEvent(&event, h.context()) {
		h.metrics.RecordHookConsumption()
		return nil
	}

	if event.Pressed {
		h.press(event)
	} else {
		h.release(event)
	}

	h.hooks.RunPostKeyEvent(&event, h.context())
	h.metrics.RecordKeyEvent(time.Since(start))
	return nil
}

// Tick advances time to now, closing any tapping terms that have elapsed.
func (h *Handler) Tick(now time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	h.advance(now)
	return nil
}

// Deadline returns the earliest time at which a pending decision expires.
func (h *Handler) Deadline() (time.Time, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, ok := h.nextDue(time.Time{}, false)
	return d.at, ok
}

// advance processes every expiry at or before now, oldest first.
func (h *Handler) advance(now time.Time) {
	if now.Before(h.now) {
		now = h.now
	}
	h.now = now

	for {
		d, ok := h.nextDue(now, true)
		if !ok {
			return
		}
		if d.window != nil {
			h.log.WithFields(logrus.Fields{
				"gesture": d.window.id,
				"key":     d.window.code.String(),
			}).Debug("tap dance term elapsed")
			h.finishDance(d.window, d.at)
			continue
		}
		h.metrics.RecordTermExpiry()
		h.hold(d.pos, d.at)
	}
}

type due struct {
	at     time.Time
	pos    key.Position
	window *danceWindow
}

// nextDue finds the earliest pending deadline. With bounded set, only
// deadlines at or before now are considered.
func (h *Handler) nextDue(now time.Time, bounded bool) (due, bool) {
	var best due
	found := false

	consider := func(d due) {
		if bounded && d.at.After(now) {
			return
		}
		if !found || d.at.Before(best.at) || (d.at.Equal(best.at) && d.pos < best.pos) {
			best = d
			found = true
		}
	}

	for _, pos := range h.undecided {
		consider(due{at: h.held[pos].deadline, pos: pos})
	}
	for _, w := range h.windows {
		if !w.finished {
			consider(due{at: w.deadline, pos: w.pos, window: w})
		}
	}
	return best, found
}

func (h *Handler) press(ev key.Event) {
	if _, ok := h.held[ev.Pos]; ok {
		// A press without a release; release it first.
		h.release(key.NewRelease(ev.Pos, ev.Time))
	}

	first := h.keymap.Resolve(h.layers, ev.Pos)
	h.interruptDances(first, ev.Time)
	h.decideUndecided(ev.Time)

	code := h.keymap.Resolve(h.layers, ev.Pos)
	hk := &heldKey{pos: ev.Pos, code: code, pressedAt: ev.Time}
	h.held[ev.Pos] = hk

	switch {
	case code.IsTapDance():
		hk.kind = heldDance
		h.pressDance(code, ev)
	case code.IsDualRole():
		hk.kind = heldUndecided
		hk.deadline = ev.Time.Add(h.termFor(code, &key.Record{Event: ev}))
		h.undecided = append(h.undecided, ev.Pos)
	case code == key.KeyBoot:
		hk.kind = heldInert
		h.log.WithField("key", code.String()).Info("bootloader requested")
		if h.config.OnBootloader != nil {
			h.config.OnBootloader()
		}
		h.resolved(Resolution{Kind: ResolveBoot, Pos: ev.Pos, Code: code})
	case code == key.KeyNo || code == key.KeyTransparent:
		hk.kind = heldInert
	default:
		hk.kind = heldBasic
		h.out.RegisterCode(code)
		h.resolved(Resolution{Kind: ResolvePress, Pos: ev.Pos, Code: code})
	}
}

func (h *Handler) release(ev key.Event) {
	hk, ok := h.held[ev.Pos]
	if !ok {
		return
	}
	delete(h.held, ev.Pos)

	switch hk.kind {
	case heldBasic:
		h.out.UnregisterCode(hk.code)
	case heldUndecided:
		h.removeUndecided(ev.Pos)
		h.out.TapCode(hk.code.Basic())
		h.resolved(Resolution{
			Kind:    ResolveTap,
			Pos:     ev.Pos,
			Code:    hk.code,
			Latency: ev.Time.Sub(hk.pressedAt),
		})
	case heldModTap:
		for _, m := range hk.code.Mods().Split() {
			h.out.UnregisterCode(key.ModifierKeycode(m))
		}
	case heldLayer:
		h.layers = h.layers.Off(hk.code.Layer())
	case heldDance:
		w, ok := h.windows[hk.code]
		if !ok {
			return
		}
		w.pressed = false
		if w.finished {
			h.resetDance(w)
			return
		}
		w.deadline = ev.Time.Add(h.termFor(w.code, w.record(ev)))
	}
}

// hold decides an undecided dual-role key as held.
func (h *Handler) hold(pos key.Position, at time.Time) {
	hk, ok := h.held[pos]
	if !ok || hk.kind != heldUndecided {
		return
	}
	h.removeUndecided(pos)

	if hk.code.IsModTap() {
		hk.kind = heldModTap
		for _, m := range hk.code.Mods().Split() {
			h.out.RegisterCode(key.ModifierKeycode(m))
		}
	} else {
		hk.kind = heldLayer
		h.layers = h.layers.On(hk.code.Layer())
	}

	h.resolved(Resolution{
		Kind:    ResolveHold,
		Pos:     pos,
		Code:    hk.code,
		Latency: at.Sub(hk.pressedAt),
	})
}

// decideUndecided holds every undecided key, in press order.
func (h *Handler) decideUndecided(at time.Time) {
	pending := append([]key.Position(nil), h.undecided...)
	for _, pos := range pending {
		h.hold(pos, at)
	}
}

func (h *Handler) removeUndecided(pos key.Position) {
	for i, p := range h.undecided {
		if p == pos {
			h.undecided = append(h.undecided[:i], h.undecided[i+1:]...)
			return
		}
	}
}

func (h *Handler) pressDance(code key.Keycode, ev key.Event) {
	w, ok := h.windows[code]
	if ok && w.finished {
		// The same dance is on another key that is still held.
		h.resetDance(w)
		ok = false
	}
	if !ok {
		w = &danceWindow{
			code:      code,
			id:        h.newID(),
			startedAt: ev.Time,
		}
		h.windows[code] = w
	}

	w.pos = ev.Pos
	w.count++
	w.pressed = true
	w.deadline = ev.Time.Add(h.termFor(code, w.record(ev)))

	h.log.WithFields(logrus.Fields{
		"gesture": w.id,
		"key":     code.String(),
		"count":   w.count,
	}).Debug("tap dance press")
}

// interruptDances finishes every open gesture except the one for code.
func (h *Handler) interruptDances(code key.Keycode, at time.Time) {
	var open []*danceWindow
	for c, w := range h.windows {
		if c != code && !w.finished {
			open = append(open, w)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		return open[i].startedAt.Before(open[j].startedAt) ||
			(open[i].startedAt.Equal(open[j].startedAt) && open[i].code < open[j].code)
	})

	for _, w := range open {
		w.interrupted = true
		h.metrics.RecordInterrupt()
		h.finishDance(w, at)
	}
}

func (h *Handler) finishDance(w *danceWindow, at time.Time) {
	fields := logrus.Fields{
		"gesture":     w.id,
		"key":         w.code.String(),
		"count":       w.count,
		"interrupted": w.interrupted,
		"pressed":     w.pressed,
	}

	outcome, err := h.dances.Finished(w.code, w.state(), h.out)
	if err != nil {
		h.log.WithFields(fields).WithError(err).Warn("tap dance finish failed")
		delete(h.windows, w.code)
		return
	}
	w.finished = true

	h.log.WithFields(fields).WithField("outcome", outcome.String()).Info("tap dance finished")
	h.resolved(Resolution{
		Kind:        ResolveDance,
		Pos:         w.pos,
		Code:        w.code,
		Outcome:     outcome,
		Count:       w.count,
		Interrupted: w.interrupted,
		Gesture:     w.id,
		Latency:     at.Sub(w.startedAt),
	})

	if !w.pressed {
		h.resetDance(w)
	}
}

func (h *Handler) resetDance(w *danceWindow) {
	delete(h.windows, w.code)
	outcome, err := h.dances.Reset(w.code, h.out)
	if err != nil {
		h.log.WithField("gesture", w.id).WithError(err).Warn("tap dance reset failed")
		return
	}
	h.log.WithFields(logrus.Fields{
		"gesture": w.id,
		"key":     w.code.String(),
		"outcome": outcome.String(),
	}).Debug("tap dance reset")
}

// termFor returns the clamped tapping term for code.
func (h *Handler) termFor(code key.Keycode, rec *key.Record) time.Duration {
	d := h.term(code, rec)
	if h.config.MinTerm > 0 && d < h.config.MinTerm {
		d = h.config.MinTerm
	}
	if h.config.MaxTerm > 0 && d > h.config.MaxTerm {
		d = h.config.MaxTerm
	}
	return d
}

// Term returns the clamped tapping term the handler uses for code.
func (h *Handler) Term(code key.Keycode) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.termFor(code, nil)
}

func (h *Handler) resolved(res Resolution) {
	h.metrics.RecordResolution(res)
	h.hooks.RunResolved(&res, h.context())
}

func (h *Handler) context() *Context {
	open := 0
	for _, w := range h.windows {
		if !w.finished {
			open++
		}
	}
	return &Context{
		Layers:     h.layers,
		Now:        h.now,
		Held:       len(h.held),
		Undecided:  len(h.undecided),
		OpenDances: open,
	}
}

// Context returns a snapshot of the handler state.
func (h *Handler) Context() *Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.context()
}

// Layers returns the active layers.
func (h *Handler) Layers() keymap.LayerMask {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.layers
}

// Keymap returns the keymap in use.
func (h *Handler) Keymap() *keymap.Keymap {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.keymap
}

// SetKeymap swaps the keymap. Keys already held keep the keycode they were
// pressed with.
func (h *Handler) SetKeymap(km *keymap.Keymap) error {
	if err := km.Validate(); err != nil {
		return fmt.Errorf("invalid keymap %q: %w", km.Name, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, code := range km.Dances() {
		if _, ok := h.dances.Lookup(code); !ok {
			return fmt.Errorf("%w: %s", ErrUnboundDance, code)
		}
	}
	h.keymap = km
	h.log.WithField("keymap", km.Name).Info("keymap loaded")
	return nil
}

// Hooks returns the hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// Metrics returns the metrics tracker.
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// ReleaseAll releases every held key at time at, in position order, and
// closes any open gestures.
func (h *Handler) ReleaseAll(at time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	h.releaseAll(at)
	return nil
}

func (h *Handler) releaseAll(at time.Time) {
	h.advance(at)

	positions := make([]key.Position, 0, len(h.held))
	for pos := range h.held {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

	for _, pos := range positions {
		h.release(key.NewRelease(pos, h.now))
	}

	for len(h.windows) > 0 {
		d, ok := h.nextDue(time.Time{}, false)
		if !ok || d.window == nil {
			break
		}
		h.finishDance(d.window, h.now)
	}
}

// Close releases everything and stops the handler.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.releaseAll(h.now)
	h.closed = true
}

// IsClosed returns true if the handler has been closed.
func (h *Handler) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
