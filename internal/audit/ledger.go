// Package audit keeps an append-only ledger of relay events for operator stats.
package audit

import (
	"context"
	"errors"
	"time"
)

// Kind names a relay event.
type Kind string

const (
	KindSessionCreated Kind = "session_created"
	KindSessionJoined  Kind = "session_joined"
	KindFileUploaded   Kind = "file_uploaded"
	KindFileDownloaded Kind = "file_downloaded"
	KindBlobSwept      Kind = "blob_swept"
)

// ErrDisabled is returned by Summary when no ledger is configured.
var ErrDisabled = errors.New("ledger disabled")

// Event is one ledger row.
type Event struct {
	Kind     Kind
	Code     string
	FileName string
	Size     int64
	At       time.Time
}

// KindTotals aggregates the events of one kind.
type KindTotals struct {
	Count int64 `json:"count"`
	Bytes int64 `json:"bytes"`
}

// Summary is the aggregate view returned by the stats endpoint.
type Summary struct {
	Totals    map[Kind]KindTotals `json:"totals"`
	FirstSeen *time.Time          `json:"firstSeen,omitempty"`
	LastSeen  *time.Time          `json:"lastSeen,omitempty"`
}

// Recorder is implemented by ledgers.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
	Summary(ctx context.Context) (*Summary, error)
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }

func (Nop) Summary(context.Context) (*Summary, error) { return nil, ErrDisabled }

func (Nop) Close() error { return nil }
