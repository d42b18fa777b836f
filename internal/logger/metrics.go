package logger

import (
	"sync"
	"time"
)

// Metrics tracks counters, gauges and timings for a run. Safe for concurrent use.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string][]time.Duration
}

// TimingStats aggregates the durations recorded under one name.
type TimingStats struct {
	Count   int           `json:"count"`
	Total   time.Duration `json:"total"`
	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
}

// Snapshot is a point-in-time copy of a Metrics tracker.
type Snapshot struct {
	Counters map[string]int64       `json:"counters"`
	Gauges   map[string]float64     `json:"gauges"`
	Timings  map[string]TimingStats `json:"timings"`
}

var defaultMetrics = NewMetrics()

// NewMetrics creates an empty tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string][]time.Duration),
	}
}

// IncrCounter increments a counter by 1.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// SetGauge overwrites a gauge.
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// RecordTiming appends a duration measurement.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], duration)
}

// Snapshot returns a deep copy of the current values.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Gauges:   make(map[string]float64, len(m.gauges)),
		Timings:  make(map[string]TimingStats, len(m.timings)),
	}
	for k, v := range m.counters {
		s.Counters[k] = v
	}
	for k, v := range m.gauges {
		s.Gauges[k] = v
	}
	for name, durations := range m.timings {
		if len(durations) == 0 {
			continue
		}
		st := TimingStats{Count: len(durations), Min: durations[0], Max: durations[0]}
		for _, d := range durations {
			st.Total += d
			st.Min = min(st.Min, d)
			st.Max = max(st.Max, d)
		}
		st.Average = st.Total / time.Duration(st.Count)
		s.Timings[name] = st
	}
	return s
}

// Log writes the snapshot as a single debug entry.
func (m *Metrics) Log(l *Logger) {
	s := m.Snapshot()
	timings := make(Fields, len(s.Timings))
	for name, st := range s.Timings {
		timings[name] = st.Average.String()
	}
	l.Debug("run metrics", Fields{
		"counters": s.Counters,
		"gauges":   s.Gauges,
		"timings":  timings,
	})
}

// IncrCounter increments a counter on the default tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// SetGauge sets a gauge on the default tracker.
func SetGauge(name string, value float64) {
	defaultMetrics.SetGauge(name, value)
}

// RecordTiming records a timing on the default tracker.
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// DefaultMetrics returns the tracker behind the package-level functions.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
