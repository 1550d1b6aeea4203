package input

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nbrumont/fly/internal/input/tapdance"
)

const maxLatencySamples = 1000

// Metrics tracks input processing performance and how keys were decided.
type Metrics struct {
	// Event counters
	keyEventsTotal   atomic.Uint64
	droppedEvents    atomic.Uint64
	hookConsumptions atomic.Uint64
	termExpiries     atomic.Uint64
	interrupts       atomic.Uint64

	// Latency tracking
	mu               sync.RWMutex
	keyLatencies     []time.Duration
	decisionLatency  []time.Duration
	latencyIdx       int
	decisionIdx      int
	resolutions      [ResolveBoot + 1]uint64
	outcomes         map[tapdance.Outcome]uint64
	peakKeyLatency   atomic.Int64
	peakDecisionTime atomic.Int64

	startTime time.Time

	enabled atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		keyLatencies:    make([]time.Duration, maxLatencySamples),
		decisionLatency: make([]time.Duration, maxLatencySamples),
		outcomes:        make(map[tapdance.Outcome]uint64),
		startTime:       time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

// RecordKeyEvent records a key event with its processing time.
func (m *Metrics) RecordKeyEvent(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}

	m.keyEventsTotal.Add(1)
	storePeak(&m.peakKeyLatency, latency)

	m.mu.Lock()
	m.keyLatencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % maxLatencySamples
	m.mu.Unlock()
}

// RecordResolution counts a decided key. Decision latency is the time
// between the first press and the decision, in event time.
func (m *Metrics) RecordResolution(res Resolution) {
	if !m.enabled.Load() {
		return
	}

	if res.Latency > 0 {
		storePeak(&m.peakDecisionTime, res.Latency)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if int(res.Kind) < len(m.resolutions) {
		m.resolutions[res.Kind]++
	}
	if res.Kind == ResolveDance {
		m.outcomes[res.Outcome]++
	}
	if res.Kind != ResolvePress && res.Kind != ResolveBoot {
		m.decisionLatency[m.decisionIdx] = res.Latency
		m.decisionIdx = (m.decisionIdx + 1) % maxLatencySamples
	}
}

// RecordDroppedEvent records a dropped event (channel full).
func (m *Metrics) RecordDroppedEvent() {
	if !m.enabled.Load() {
		return
	}
	m.droppedEvents.Add(1)
}

// RecordTermExpiry records a dual-role key held past its term.
func (m *Metrics) RecordTermExpiry() {
	if !m.enabled.Load() {
		return
	}
	m.termExpiries.Add(1)
}

// RecordInterrupt records a tap-dance gesture cut short by another key.
func (m *Metrics) RecordInterrupt() {
	if !m.enabled.Load() {
		return
	}
	m.interrupts.Add(1)
}

// RecordHookConsumption records when a hook consumes an event.
func (m *Metrics) RecordHookConsumption() {
	if !m.enabled.Load() {
		return
	}
	m.hookConsumptions.Add(1)
}

func storePeak(peak *atomic.Int64, latency time.Duration) {
	ns := latency.Nanoseconds()
	for {
		current := peak.Load()
		if ns <= current {
			return
		}
		if peak.CompareAndSwap(current, ns) {
			return
		}
	}
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	// Counters
	KeyEventsTotal   uint64
	DroppedEvents    uint64
	HookConsumptions uint64
	TermExpiries     uint64
	Interrupts       uint64

	// Decisions
	Presses  uint64
	Taps     uint64
	Holds    uint64
	Dances   uint64
	Boots    uint64
	Outcomes map[tapdance.Outcome]uint64

	// Latency stats
	AvgKeyLatency  time.Duration
	MaxKeyLatency  time.Duration
	P99KeyLatency  time.Duration
	PeakKeyLatency time.Duration

	AvgDecision  time.Duration
	MaxDecision  time.Duration
	P99Decision  time.Duration
	PeakDecision time.Duration

	// Rates
	EventsPerSecond float64

	// Uptime
	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	keyLatencies := make([]time.Duration, len(m.keyLatencies))
	copy(keyLatencies, m.keyLatencies)
	decisions := make([]time.Duration, len(m.decisionLatency))
	copy(decisions, m.decisionLatency)
	resolutions := m.resolutions
	outcomes := make(map[tapdance.Outcome]uint64, len(m.outcomes))
	for o, n := range m.outcomes {
		outcomes[o] = n
	}
	uptime := time.Since(m.startTime)
	m.mu.RUnlock()

	keyCount := m.keyEventsTotal.Load()

	snap := MetricsSnapshot{
		KeyEventsTotal:   keyCount,
		DroppedEvents:    m.droppedEvents.Load(),
		HookConsumptions: m.hookConsumptions.Load(),
		TermExpiries:     m.termExpiries.Load(),
		Interrupts:       m.interrupts.Load(),
		Presses:          resolutions[ResolvePress],
		Taps:             resolutions[ResolveTap],
		Holds:            resolutions[ResolveHold],
		Dances:           resolutions[ResolveDance],
		Boots:            resolutions[ResolveBoot],
		Outcomes:         outcomes,
		PeakKeyLatency:   time.Duration(m.peakKeyLatency.Load()),
		PeakDecision:     time.Duration(m.peakDecisionTime.Load()),
		Uptime:           uptime,
	}

	if uptime > 0 {
		snap.EventsPerSecond = float64(keyCount) / uptime.Seconds()
	}

	snap.AvgKeyLatency, snap.MaxKeyLatency, snap.P99KeyLatency = calculateLatencyStats(keyLatencies)
	snap.AvgDecision, snap.MaxDecision, snap.P99Decision = calculateLatencyStats(decisions)

	return snap
}

// calculateLatencyStats computes average, max, and p99 from a slice of latencies.
func calculateLatencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	// Filter non-zero latencies
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}

	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
		if l > maxLat {
			maxLat = l
		}
	}
	avg = sum / time.Duration(len(valid))

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })

	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	p99 = valid[idx]

	return avg, maxLat, p99
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keyEventsTotal.Store(0)
	m.droppedEvents.Store(0)
	m.hookConsumptions.Store(0)
	m.termExpiries.Store(0)
	m.interrupts.Store(0)
	m.peakKeyLatency.Store(0)
	m.peakDecisionTime.Store(0)

	m.mu.Lock()
	m.keyLatencies = make([]time.Duration, maxLatencySamples)
	m.decisionLatency = make([]time.Duration, maxLatencySamples)
	m.latencyIdx = 0
	m.decisionIdx = 0
	m.resolutions = [ResolveBoot + 1]uint64{}
	m.outcomes = make(map[tapdance.Outcome]uint64)
	m.startTime = time.Now()
	m.mu.Unlock()
}

// KeyEventsTotal returns the total number of key events processed.
func (m *Metrics) KeyEventsTotal() uint64 {
	return m.keyEventsTotal.Load()
}

// DroppedEvents returns the total number of dropped events.
func (m *Metrics) DroppedEvents() uint64 {
	return m.droppedEvents.Load()
}

// HealthStatus represents the current health status of input processing.
type HealthStatus struct {
	Healthy          bool
	DroppedEvents    uint64
	PeakLatency      time.Duration
	LatencyThreshold time.Duration
	Message          string
}

// HealthCheck returns the current health status.
func (m *Metrics) HealthCheck(latencyThreshold time.Duration) HealthStatus {
	status := HealthStatus{
		Healthy:          true,
		DroppedEvents:    m.droppedEvents.Load(),
		PeakLatency:      time.Duration(m.peakKeyLatency.Load()),
		LatencyThreshold: latencyThreshold,
	}

	if status.DroppedEvents > 0 {
		status.Healthy = false
		status.Message = "dropped events detected"
	} else if status.PeakLatency > latencyThreshold {
		status.Healthy = false
		status.Message = "latency threshold exceeded"
	} else {
		status.Message = "healthy"
	}

	return status
}
