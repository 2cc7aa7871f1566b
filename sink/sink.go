// Package sink persists flushed audit entries. The engine calls Append
// exactly once per flush and never retries; a higher layer decides
// whether to retry the whole unit of work.
package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/godamri/helix-audit/engine"
)

// Sink appends a flushed batch to the audit store.
type Sink interface {
	Append(ctx context.Context, entries []engine.Entry) error
}

// WriteError reports a failed append. The engine logs it with full
// entry context and re-raises; entries are never silently dropped.
type WriteError struct {
	Destination string
	Entries     int
	Cause       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("sink: append of %d entries to %s failed: %v", e.Entries, e.Destination, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }

// Memory keeps appended entries in order. It backs tests and the
// trail-readback endpoint in single-process deployments.
type Memory struct {
	mu      sync.RWMutex
	entries []engine.Entry
	appends int
	fail    error
}

func NewMemory() *Memory {
	return &Memory{}
}

// Fail makes every subsequent Append return err. Clears with nil.
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *Memory) Append(_ context.Context, entries []engine.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return &WriteError{Destination: "memory", Entries: len(entries), Cause: m.fail}
	}
	m.entries = append(m.entries, entries...)
	m.appends++
	return nil
}

// Entries returns a copy of everything appended, in emission order.
func (m *Memory) Entries() []engine.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Appends reports how many Append calls were made. Lets tests pin the
// once-per-flush contract.
func (m *Memory) Appends() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.appends
}

// Query filters the stored trail. Zero-valued criteria match anything.
func (m *Memory) Query(_ context.Context, q Query) ([]engine.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.Entry
	for _, e := range m.entries {
		if !q.Matches(e) {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// Query narrows a trail readback.
type Query struct {
	RecordTypeKey string
	TrackingID    int64
	EventKind     engine.EventKind
	Limit         int
}

func (q Query) Matches(e engine.Entry) bool {
	if q.RecordTypeKey != "" && e.RecordTypeKey != q.RecordTypeKey {
		return false
	}
	if q.TrackingID != 0 && e.Subject.TrackingID != q.TrackingID {
		return false
	}
	if q.EventKind != "" && e.EventKind != q.EventKind {
		return false
	}
	return true
}

// Querier is implemented by sinks that can read the trail back.
type Querier interface {
	Query(ctx context.Context, q Query) ([]engine.Entry, error)
}
