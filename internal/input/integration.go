package input

import (
	"context"
	"sync"
	"time"

	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/keymap"
	"github.com/nbrumont/fly/internal/input/report"
	"github.com/nbrumont/fly/internal/input/tapdance"
)

// StatusProvider provides status information for the UI.
type StatusProvider interface {
	// Layers returns the active layers.
	Layers() keymap.LayerMask

	// Pending returns the number of keys still waiting for a decision.
	Pending() int

	// Report returns the HID state the host currently sees.
	Report() report.Frame
}

// System runs a Handler against a wall clock and a HID sink. It owns the
// reporter that turns register calls into reports.
type System struct {
	mu sync.RWMutex

	handler  *Handler
	reporter *report.Reporter
	config   SystemConfig
	clock    func() time.Time

	closed bool
}

// SystemConfig configures the input system.
type SystemConfig struct {
	// Handler configuration
	Handler Config

	// Metrics enabled
	EnableMetrics bool

	// Hooks enabled
	EnableHooks bool

	// LatencyThreshold is the processing time above which HealthCheck
	// reports a problem.
	LatencyThreshold time.Duration
}

// DefaultSystemConfig returns sensible defaults for the input system.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Handler:          DefaultConfig(),
		EnableMetrics:    true,
		EnableHooks:      true,
		LatencyThreshold: 5 * time.Millisecond,
	}
}

// NewSystem creates a system that sends reports for km to sink.
func NewSystem(config SystemConfig, km *keymap.Keymap, dances *tapdance.Set, sink report.Sink) (*System, error) {
	reporter := report.NewReporter(sink)
	handler, err := NewHandler(config.Handler, km, dances, reporter)
	if err != nil {
		return nil, err
	}

	handler.Metrics().SetEnabled(config.EnableMetrics)
	handler.Hooks().SetEnabled(config.EnableHooks)

	return &System{
		handler:  handler,
		reporter: reporter,
		config:   config,
		clock:    time.Now,
	}, nil
}

// HandleKeyEvent processes a key event. A zero event time is replaced with
// the current time.
func (s *System) HandleKeyEvent(event key.Event) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.mu.RUnlock()

	if event.Time.IsZero() {
		event.Time = s.clock()
	}
	return s.handler.HandleKeyEvent(event)
}

// Offer tries to queue event on ch without blocking. Events that do not fit
// are counted as dropped.
func (s *System) Offer(ch chan<- key.Event, event key.Event) bool {
	select {
	case ch <- event:
		return true
	default:
		s.handler.Metrics().RecordDroppedEvent()
		return false
	}
}

// Run processes events until ctx is done or events is closed, firing
// tapping terms as they expire. Held keys are released on exit.
func (s *System) Run(ctx context.Context, events <-chan key.Event) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	defer func() {
		_ = s.handler.ReleaseAll(s.clock())
	}()

	for {
		s.arm(timer)

		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.HandleKeyEvent(event); err != nil {
				return err
			}

		case <-timer.C:
			if err := s.handler.Tick(s.clock()); err != nil {
				return err
			}
		}
	}
}

// arm points timer at the handler's next deadline.
func (s *System) arm(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	if deadline, ok := s.handler.Deadline(); ok {
		wait := deadline.Sub(s.clock())
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}

// Handler returns the underlying input handler.
func (s *System) Handler() *Handler {
	return s.handler
}

// Reporter returns the HID reporter.
func (s *System) Reporter() *report.Reporter {
	return s.reporter
}

// Hooks returns the hook manager.
func (s *System) Hooks() *HookManager {
	return s.handler.Hooks()
}

// Metrics returns the metrics tracker.
func (s *System) Metrics() *Metrics {
	return s.handler.Metrics()
}

// Layers implements StatusProvider.
func (s *System) Layers() keymap.LayerMask {
	return s.handler.Layers()
}

// Pending implements StatusProvider.
func (s *System) Pending() int {
	ctx := s.handler.Context()
	return ctx.Undecided + ctx.OpenDances
}

// Report implements StatusProvider.
func (s *System) Report() report.Frame {
	return s.reporter.State()
}

// HealthCheck returns the current health status of the input system.
func (s *System) HealthCheck() HealthStatus {
	return s.handler.Metrics().HealthCheck(s.config.LatencyThreshold)
}

// Close releases every key and shuts down the system.
func (s *System) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	_ = s.handler.ReleaseAll(s.clock())
	s.handler.Close()
}

// IsClosed returns true if the system has been closed.
func (s *System) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
