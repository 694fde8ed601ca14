package logger

import (
	"sync"
	"time"
)

// Entry is one collected warn or error record.
type Entry struct {
	Time   time.Time
	Level  string
	Msg    string
	Fields map[string]interface{}
}

// Collector accumulates warn and error entries during a run so the
// application can print a summary of what went wrong after the main output.
// Safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	max     int
}

// NewCollector returns a collector keeping at most max entries (oldest
// dropped). max <= 0 means unbounded.
func NewCollector(max int) *Collector {
	return &Collector{max: max}
}

func (c *Collector) Add(level, msg string, fields map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{
		Time:   time.Now(),
		Level:  level,
		Msg:    msg,
		Fields: fields,
	})
	if c.max > 0 && len(c.entries) > c.max {
		c.entries = c.entries[len(c.entries)-c.max:]
	}
}

// Snapshot returns a copy of the collected entries.
func (c *Collector) Snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the number of collected entries.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
