package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/orsaadi/FileSenderBackhend/internal/audit"
	"github.com/orsaadi/FileSenderBackhend/internal/storage"
)

// SweepOrphans deletes blobs that no session references and that are older
// than grace. Objects whose names BlobName could not have produced are left
// alone. It returns the number of blobs removed.
func (m *Manager) SweepOrphans(ctx context.Context, grace time.Duration) (int, error) {
	blobs, err := m.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	referenced := m.sessions.ReferencedPaths()
	cutoff := time.Now().Add(-grace)

	removed := 0
	for _, b := range blobs {
		if _, ok := referenced[b.Path]; ok || !storage.IsBlobName(b.Name) {
			continue
		}
		if grace > 0 && b.StoredAt.After(cutoff) {
			continue
		}
		if err := m.store.Delete(ctx, b.Path); err != nil {
			m.logger.Errorf("[Sweeper] failed to delete orphan %s: %v", b.Name, err)
			continue
		}
		removed++
		m.record(ctx, audit.Event{Kind: audit.KindBlobSwept, FileName: b.Name, Size: b.Size})
	}

	if removed > 0 {
		m.logger.Infof("[Sweeper] removed %d orphaned blob(s)", removed)
	}
	return removed, nil
}

// RunSweeper sweeps orphans every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, grace time.Duration) {
	if interval <= 0 {
		m.logger.Infof("[Sweeper] disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.SweepOrphans(ctx, grace); err != nil {
				m.logger.Errorf("[Sweeper] %v", err)
			}
		}
	}
}
