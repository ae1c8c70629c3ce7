package main

import "sync/atomic"

// TickMetrics tracks per-session game loop counters for monitoring.
// All fields are updated atomically from the tick loop and the input
// handlers and read lock-free by the /metrics endpoint.
type TickMetrics struct {
	TickCount      int64
	InputsAccepted int64
	InputsRejected int64
	TotalTickNs    int64
}

func (m *TickMetrics) IncAccepted() { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *TickMetrics) IncRejected() { atomic.AddInt64(&m.InputsRejected, 1) }

func (m *TickMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot returns a read-only copy for HTTP output
func (m *TickMetrics) Snapshot() map[string]any {
	ticks := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return map[string]any{
		"tick_count":      ticks,
		"inputs_accepted": atomic.LoadInt64(&m.InputsAccepted),
		"inputs_rejected": atomic.LoadInt64(&m.InputsRejected),
		"avg_tick_ms":     avgMs,
	}
}
