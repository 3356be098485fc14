package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuckLedger_Summary(t *testing.T) {
	ctx := context.Background()
	l, err := OpenDuckLedger("")
	require.NoError(t, err)
	defer l.Close()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	events := []Event{
		{Kind: KindSessionCreated, Code: "AB12CD", At: base},
		{Kind: KindFileUploaded, Code: "AB12CD", FileName: "note.txt", Size: 10, At: base.Add(time.Second)},
		{Kind: KindFileUploaded, Code: "ZZ99ZZ", FileName: "big.bin", Size: 90, At: base.Add(2 * time.Second)},
		{Kind: KindFileDownloaded, Code: "AB12CD", FileName: "note.txt", Size: 10, At: base.Add(3 * time.Second)},
	}
	for _, ev := range events {
		require.NoError(t, l.Record(ctx, ev))
	}

	sum, err := l.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, KindTotals{Count: 1}, sum.Totals[KindSessionCreated])
	assert.Equal(t, KindTotals{Count: 2, Bytes: 100}, sum.Totals[KindFileUploaded])
	assert.Equal(t, KindTotals{Count: 1, Bytes: 10}, sum.Totals[KindFileDownloaded])
	require.NotNil(t, sum.FirstSeen)
	require.NotNil(t, sum.LastSeen)
	assert.True(t, sum.FirstSeen.Equal(base))
	assert.True(t, sum.LastSeen.Equal(base.Add(3*time.Second)))
}

func TestDuckLedger_EmptySummary(t *testing.T) {
	l, err := OpenDuckLedger("")
	require.NoError(t, err)
	defer l.Close()

	sum, err := l.Summary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sum.Totals)
	assert.Nil(t, sum.FirstSeen)
}

func TestDuckLedger_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger", "events.duckdb")

	l, err := OpenDuckLedger(path)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, Event{Kind: KindSessionJoined, Code: "AB12CD"}))
	require.NoError(t, l.Close())

	l, err = OpenDuckLedger(path)
	require.NoError(t, err)
	defer l.Close()

	sum, err := l.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.Totals[KindSessionJoined].Count)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.Record(context.Background(), Event{Kind: KindSessionCreated}))
	_, err := r.Summary(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, r.Close())
}
