package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks application-level counters. Per-key timing lives in the
// input system's own metrics.
type Metrics struct {
	// Keymap reloads
	reloadCount   atomic.Uint64
	reloadFailed  atomic.Uint64
	reloadTotalNs atomic.Int64
	reloadMaxNs   atomic.Int64

	// HID output
	framesSent atomic.Uint64
	sinkErrors atomic.Uint64

	// Run loop
	runs atomic.Uint64

	startTime atomic.Int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.startTime.Store(time.Now().UnixNano())
	return m
}

// RecordReload records a keymap reload attempt.
func (m *Metrics) RecordReload(duration time.Duration, err error) {
	if err != nil {
		m.reloadFailed.Add(1)
		return
	}

	ns := duration.Nanoseconds()
	m.reloadCount.Add(1)
	m.reloadTotalNs.Add(ns)

	for {
		old := m.reloadMaxNs.Load()
		if ns <= old || m.reloadMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordFrame records a report delivered to the sink.
func (m *Metrics) RecordFrame(err error) {
	if err != nil {
		m.sinkErrors.Add(1)
		return
	}
	m.framesSent.Add(1)
}

// RecordRun records the start of a run loop.
func (m *Metrics) RecordRun() {
	m.runs.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	reloads := m.reloadCount.Load()

	var avgReloadNs int64
	if reloads > 0 {
		avgReloadNs = m.reloadTotalNs.Load() / int64(reloads)
	}

	return MetricsSnapshot{
		Uptime:        time.Since(time.Unix(0, m.startTime.Load())),
		Reloads:       reloads,
		ReloadsFailed: m.reloadFailed.Load(),
		AvgReloadNs:   avgReloadNs,
		MaxReloadNs:   m.reloadMaxNs.Load(),
		FramesSent:    m.framesSent.Load(),
		SinkErrors:    m.sinkErrors.Load(),
		Runs:          m.runs.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.reloadCount.Store(0)
	m.reloadFailed.Store(0)
	m.reloadTotalNs.Store(0)
	m.reloadMaxNs.Store(0)
	m.framesSent.Store(0)
	m.sinkErrors.Store(0)
	m.runs.Store(0)
	m.startTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	Reloads       uint64
	ReloadsFailed uint64
	AvgReloadNs   int64
	MaxReloadNs   int64
	FramesSent    uint64
	SinkErrors    uint64
	Runs          uint64
}

// SinkErrorRate returns the percentage of reports the sink rejected.
func (s MetricsSnapshot) SinkErrorRate() float64 {
	total := s.FramesSent + s.SinkErrors
	if total == 0 {
		return 0
	}
	return float64(s.SinkErrors) / float64(total) * 100
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ElapsedMs returns the elapsed time in milliseconds.
func (t *Timer) ElapsedMs() float64 {
	return float64(t.Elapsed().Nanoseconds()) / 1e6
}

// Metrics returns the application's metrics instance.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
