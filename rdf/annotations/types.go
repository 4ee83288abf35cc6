// Package annotations provides a low-overhead event system for tracing
// how aggregate reads are routed and materialized.
package annotations

import (
	"sync"
	"time"
)

// Event name constants following hierarchical naming pattern
const (
	// Default graph construction
	DefaultGraphBuilt = "aggregate/default-graph.built"

	// Projection changes
	NamedGraphAdded = "aggregate/named.added"
	SourceAdded     = "aggregate/source.added"
	DefaultsChanged = "aggregate/defaults.changed"

	// Reads
	AggregateQuery    = "aggregate/query"
	MergeMaterialized = "merge/materialized"

	// Errors
	ErrorInconsistentState = "error/inconsistent-state"
	ErrorBackend           = "error/backend"
)

// Event represents a single annotation event.
type Event struct {
	Name    string                 // Event name using hierarchical constants above
	Start   time.Time              // Start timestamp
	End     time.Time              // End timestamp
	Latency time.Duration          // Duration (End - Start)
	Data    map[string]interface{} // Event-specific data
}

// Handler processes annotation events as they occur.
type Handler func(event Event)

// Emit sends an instantaneous event to h. A nil handler is a no-op.
func (h Handler) Emit(name string, data map[string]interface{}) {
	if h == nil {
		return
	}
	now := time.Now()
	h(Event{Name: name, Start: now, End: now, Data: data})
}

// EmitTiming sends an event that started at start. A nil handler is a no-op.
func (h Handler) EmitTiming(name string, start time.Time, data map[string]interface{}) {
	if h == nil {
		return
	}
	end := time.Now()
	h(Event{Name: name, Start: start, End: end, Latency: end.Sub(start), Data: data})
}

// Collector accumulates events, optionally forwarding them to a handler.
type Collector struct {
	handler Handler
	events  []Event
	mu      sync.Mutex
}

// NewCollector creates a collector forwarding to handler (may be nil).
func NewCollector(handler Handler) *Collector {
	return &Collector{
		handler: handler,
		events:  make([]Event, 0, 32),
	}
}

// Handler returns a Handler that records into the collector.
func (c *Collector) Handler() Handler {
	return c.Add
}

// Add records a new event.
// Thread-safe for concurrent access.
func (c *Collector) Add(event Event) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()

	// Call handler outside the lock to avoid deadlocks
	if c.handler != nil {
		c.handler(event)
	}
}

// Events returns all collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	eventsCopy := make([]Event, len(c.events))
	copy(eventsCopy, c.events)
	return eventsCopy
}

// Named returns the collected events with the given name.
func (c *Collector) Named(name string) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears the collector for reuse.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}
