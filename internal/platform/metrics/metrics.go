package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps in-process request and filing counters.
type Collector struct {
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64

	returnsBuilt    atomic.Uint64
	returnsBlocked  atomic.Uint64
	returnsArchived atomic.Uint64
	xmlRendered     atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

// RecordReturn counts a built return; blocked returns carry error findings.
func (c *Collector) RecordReturn(blocked, archived bool) {
	c.returnsBuilt.Add(1)
	if blocked {
		c.returnsBlocked.Add(1)
	}
	if archived {
		c.returnsArchived.Add(1)
	}
}

func (c *Collector) RecordXML() {
	c.xmlRendered.Add(1)
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          c.errorRequests.Load(),
		"rateLimitedTotal":     c.rateLimited.Load(),
		"avgDurationMs":        avg,
		"totalDurationMs":      totalMs,
		"returnsBuiltTotal":    c.returnsBuilt.Load(),
		"returnsBlockedTotal":  c.returnsBlocked.Load(),
		"returnsArchivedTotal": c.returnsArchived.Load(),
		"xmlRenderedTotal":     c.xmlRendered.Load(),
	}
}
