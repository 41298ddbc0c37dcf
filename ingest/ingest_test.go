package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factory-sim/factory-sim/sim"
)

func openTestBuffer(t *testing.T) *Buffer {
	t.Helper()
	b, err := Open(":memory:", time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestOpen_RejectsNonPositiveFlushInterval(t *testing.T) {
	_, err := Open(":memory:", 0)
	assert.Error(t, err)
}

func TestBuffer_AddAssignsID(t *testing.T) {
	b := openTestBuffer(t)
	b.Add(Record{Event: "produced"})
	b.Add(Record{ID: "fixed-id", Event: "produced"})

	recs := b.Latest(0)
	require.Len(t, recs, 2)
	assert.NotEmpty(t, recs[0].ID)
	assert.Equal(t, "fixed-id", recs[1].ID)
}

func TestBuffer_LatestReturnsMostRecent(t *testing.T) {
	b := openTestBuffer(t)
	for i := 0; i < 5; i++ {
		b.Add(Record{Timestamp: float64(i), Event: "produced"})
	}

	recs := b.Latest(2)
	require.Len(t, recs, 2)
	assert.Equal(t, 3.0, recs[0].Timestamp)
	assert.Equal(t, 4.0, recs[1].Timestamp)

	assert.Len(t, b.Latest(100), 5, "over-asking returns everything")
}

func TestBuffer_FlushMovesPendingToDatabase(t *testing.T) {
	b := openTestBuffer(t)
	b.Add(Record{Event: "produced"})
	b.Add(Record{Event: "maintenance"})
	require.Equal(t, 2, b.PendingCount())

	require.NoError(t, b.Flush())
	assert.Equal(t, 0, b.PendingCount())
	assert.Equal(t, 2, b.FlushedCount())

	// Flushing an empty buffer is a no-op.
	require.NoError(t, b.Flush())
	assert.Equal(t, 2, b.FlushedCount())
}

func TestBuffer_SummaryCountsPerEvent(t *testing.T) {
	b := openTestBuffer(t)
	b.Add(Record{Event: "produced"})
	b.Add(Record{Event: "produced"})
	b.Add(Record{Event: "inspected"})

	assert.Equal(t, map[string]int{"produced": 2, "inspected": 1}, b.Summary())
}

func TestBuffer_IngestSnapshotMapsSimulationState(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.InitialStock = 10000
	s, err := sim.NewSimulator(cfg, 300, 42)
	require.NoError(t, err)
	s.Run()
	snap := s.Snapshot()
	require.NotEmpty(t, snap.Vehicles)

	b := openTestBuffer(t)
	b.IngestSnapshot(snap)
	summary := b.Summary()

	completed, inspections := 0, 0
	for _, v := range snap.Vehicles {
		if v.Status == sim.StatusCompleted {
			completed++
		}
		inspections += len(v.QualityHistory)
	}
	assert.Equal(t, len(snap.Vehicles), summary["produced"])
	assert.Equal(t, completed, summary["completed"])
	assert.Equal(t, inspections, summary["inspected"])
	assert.Equal(t, len(snap.MaintenanceLog), summary["maintenance"])
}

func TestBuffer_StartFlushesPeriodicallyAndOnShutdown(t *testing.T) {
	b, err := Open(":memory:", 10*time.Millisecond)
	require.NoError(t, err)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Start(ctx)
		close(done)
	}()

	b.Add(Record{Event: "produced"})
	require.Eventually(t, func() bool { return b.FlushedCount() == 1 },
		time.Second, 5*time.Millisecond)

	b.Add(Record{Event: "maintenance"})
	cancel()
	<-done
	assert.Equal(t, 2, b.FlushedCount(), "cancellation triggers a final flush")
}
