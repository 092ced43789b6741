package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks interactive session counters: keys handled, lines
// submitted and frames drawn. Command-level metrics live in the
// dispatcher.
type Metrics struct {
	// Input handling
	keyCount   atomic.Uint64
	keyTotalNs atomic.Int64
	lineCount  atomic.Uint64

	// Render timing
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	renderMaxNs   atomic.Int64

	// Start time for uptime calculation
	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordKey records the time spent handling one key event.
func (m *Metrics) RecordKey(duration time.Duration) {
	m.keyCount.Add(1)
	m.keyTotalNs.Add(duration.Nanoseconds())
}

// RecordLine records a submitted input line.
func (m *Metrics) RecordLine() {
	m.lineCount.Add(1)
}

// RecordRender records render timing.
func (m *Metrics) RecordRender(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.renderCount.Add(1)
	m.renderTotalNs.Add(ns)

	for {
		cur := m.renderMaxNs.Load()
		if ns <= cur || m.renderMaxNs.CompareAndSwap(cur, ns) {
			return
		}
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Keys      uint64
	Lines     uint64
	Renders   uint64
	AvgKey    time.Duration
	AvgRender time.Duration
	MaxRender time.Duration
	Uptime    time.Duration
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Keys:      m.keyCount.Load(),
		Lines:     m.lineCount.Load(),
		Renders:   m.renderCount.Load(),
		MaxRender: time.Duration(m.renderMaxNs.Load()),
		Uptime:    time.Since(m.startTime),
	}
	if s.Keys > 0 {
		s.AvgKey = time.Duration(m.keyTotalNs.Load() / int64(s.Keys))
	}
	if s.Renders > 0 {
		s.AvgRender = time.Duration(m.renderTotalNs.Load() / int64(s.Renders))
	}
	return s
}

// Timer measures one operation.
type Timer struct {
	start time.Time
}

// StartTimer starts a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
