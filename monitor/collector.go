package monitor

import (
	"sync"
	"time"

	"github.com/hubenschmidt/go-puppyos/core"
)

type MetricsCollector interface {
	Record(metrics DispatchMetrics)
	Flush() Summary
}

type InMemoryCollector struct {
	mu        sync.Mutex
	outcomes  map[core.Outcome]OutcomeStats
	startTime time.Time
}

func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		outcomes:  make(map[core.Outcome]OutcomeStats),
		startTime: time.Now(),
	}
}

func (c *InMemoryCollector) Record(metrics DispatchMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.outcomes[metrics.Outcome]
	s.Count++
	s.Bytes += metrics.Bytes
	s.TotalDuration += metrics.Duration
	c.outcomes[metrics.Outcome] = s
}

func (c *InMemoryCollector) Flush() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int
	var bytes int64

	outcomes := make(map[core.Outcome]OutcomeStats, len(c.outcomes))
	for k, v := range c.outcomes {
		outcomes[k] = v
		total += v.Count
		bytes += v.Bytes
	}

	return Summary{
		Total:     total,
		Bytes:     bytes,
		Outcomes:  outcomes,
		StartTime: c.startTime,
		EndTime:   time.Now(),
	}
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = make(map[core.Outcome]OutcomeStats)
	c.startTime = time.Now()
}

type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (c *NoOpCollector) Record(metrics DispatchMetrics) {}

func (c *NoOpCollector) Flush() Summary {
	return Summary{}
}
