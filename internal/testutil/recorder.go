package testutil

import (
	"context"
	"sync"

	"github.com/orsaadi/FileSenderBackhend/internal/audit"
)

// MemoryLedger records audit events in a slice
type MemoryLedger struct {
	mu     sync.Mutex
	Events []audit.Event
}

func (l *MemoryLedger) Record(ctx context.Context, ev audit.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Events = append(l.Events, ev)
	return nil
}

func (l *MemoryLedger) Summary(ctx context.Context) (*audit.Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sum := &audit.Summary{Totals: make(map[audit.Kind]audit.KindTotals)}
	for _, ev := range l.Events {
		t := sum.Totals[ev.Kind]
		t.Count++
		t.Bytes += ev.Size
		sum.Totals[ev.Kind] = t
	}
	return sum, nil
}

func (l *MemoryLedger) Close() error { return nil }

// Kinds returns the recorded event kinds in order
func (l *MemoryLedger) Kinds() []audit.Kind {
	l.mu.Lock()
	defer l.mu.Unlock()
	kinds := make([]audit.Kind, len(l.Events))
	for i, ev := range l.Events {
		kinds[i] = ev.Kind
	}
	return kinds
}

var _ audit.Recorder = (*MemoryLedger)(nil)
