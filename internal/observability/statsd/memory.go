package statsd

import (
	"maps"
	"sync"
	"time"
)

// Sample is one metric recorded by a MemorySink.
type Sample struct {
	Kind  string // "count", "gauge" or "timing"
	Name  string
	Value float64
	Tags  map[string]string
}

// MemorySink records metrics in memory. It backs the CLI's dry runs and tests.
type MemorySink struct {
	mu      sync.Mutex
	samples []Sample
}

var _ Sink = (*MemorySink)(nil)

func (m *MemorySink) Count(name string, value int64, tags map[string]string) {
	m.add(Sample{Kind: "count", Name: name, Value: float64(value), Tags: maps.Clone(tags)})
}

func (m *MemorySink) Gauge(name string, value float64, tags map[string]string) {
	m.add(Sample{Kind: "gauge", Name: name, Value: value, Tags: maps.Clone(tags)})
}

func (m *MemorySink) Timing(name string, value time.Duration, tags map[string]string) {
	m.add(Sample{Kind: "timing", Name: name, Value: float64(value.Milliseconds()), Tags: maps.Clone(tags)})
}

func (m *MemorySink) add(s Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, s)
}

// Samples returns a copy of every recorded sample.
func (m *MemorySink) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sample(nil), m.samples...)
}

// Named returns the samples recorded under name.
func (m *MemorySink) Named(name string) []Sample {
	var out []Sample
	for _, s := range m.Samples() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
