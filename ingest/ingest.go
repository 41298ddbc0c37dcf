// Package ingest buffers simulation event records in memory and flushes
// them periodically to a SQLite database. It is a consumer of read-only
// simulation snapshots and never mutates core state.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim"
)

// Record is one ingested simulation event.
type Record struct {
	ID        string  `json:"id"`
	Timestamp float64 `json:"timestamp"` // simulated time units
	LineID    int     `json:"line_id"`
	VehicleID int     `json:"vehicle_id"`
	Event     string  `json:"event"`
	Value     float64 `json:"value"`
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	timestamp  REAL NOT NULL,
	line_id    INTEGER NOT NULL,
	vehicle_id INTEGER NOT NULL,
	event      TEXT NOT NULL,
	value      REAL NOT NULL
);`

// Buffer accumulates records in memory and writes them to SQLite on flush.
// Safe for concurrent use: the flush loop runs on its own goroutine while
// the web layer reads the buffer.
type Buffer struct {
	mu      sync.Mutex
	pending []Record
	flushed int

	db         *sql.DB
	flushEvery time.Duration
}

// Open creates a buffer backed by the SQLite database at path. The schema
// is created if missing.
func Open(path string, flushEvery time.Duration) (*Buffer, error) {
	if flushEvery <= 0 {
		return nil, fmt.Errorf("flush interval must be > 0, got %v", flushEvery)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	logrus.Infof("ingest: opened %s (flush every %v)", path, flushEvery)
	return &Buffer{db: db, flushEvery: flushEvery}, nil
}

// Add appends a record to the in-memory buffer, assigning it an id when
// the caller left it empty.
func (b *Buffer) Add(rec Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	b.mu.Lock()
	b.pending = append(b.pending, rec)
	b.mu.Unlock()
}

// IngestSnapshot converts a factory snapshot into event records: one
// "produced" record per vehicle, one "completed" record per finished
// vehicle, one "inspected" record per quality check, and one "maintenance"
// record per log entry.
func (b *Buffer) IngestSnapshot(snap *sim.Snapshot) {
	for _, v := range snap.Vehicles {
		b.Add(Record{
			Timestamp: v.CreationTime,
			LineID:    v.LineID,
			VehicleID: v.ID,
			Event:     "produced",
		})
		if v.Status == sim.StatusCompleted {
			b.Add(Record{
				Timestamp: lastStepTime(v.ProductionHistory),
				LineID:    v.LineID,
				VehicleID: v.ID,
				Event:     "completed",
			})
		}
		for _, qc := range v.QualityHistory {
			b.Add(Record{
				Timestamp: qc.Time,
				LineID:    v.LineID,
				VehicleID: v.ID,
				Event:     "inspected",
				Value:     qc.OverallScore,
			})
		}
	}
	for _, m := range snap.MaintenanceLog {
		b.Add(Record{
			Timestamp: m.Time,
			LineID:    m.LineID,
			Event:     "maintenance",
			Value:     m.Duration,
		})
	}
}

func lastStepTime(history []sim.HistoryEntry) float64 {
	if len(history) == 0 {
		return 0
	}
	return history[len(history)-1].Time
}

// Start runs the periodic flush loop until the context is cancelled, then
// performs a final flush. Intended to run on its own goroutine.
func (b *Buffer) Start(ctx context.Context) {
	ticker := time.NewTicker(b.flushEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				logrus.Errorf("ingest: flush failed: %v", err)
			}
		case <-ctx.Done():
			if err := b.Flush(); err != nil {
				logrus.Errorf("ingest: final flush failed: %v", err)
			}
			return
		}
	}
}

// Flush writes all buffered records to the database in one transaction and
// clears the buffer. A failed flush leaves the buffer intact.
func (b *Buffer) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		"INSERT OR IGNORE INTO records (id, timestamp, line_id, vehicle_id, event, value) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, rec := range b.pending {
		if _, err := stmt.Exec(rec.ID, rec.Timestamp, rec.LineID, rec.VehicleID, rec.Event, rec.Value); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logrus.Infof("ingest: flushed %d records", len(b.pending))
	b.flushed += len(b.pending)
	b.pending = b.pending[:0]
	return nil
}

// Latest returns up to n of the most recently buffered (unflushed) records.
func (b *Buffer) Latest(n int) []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 || n > len(b.pending) {
		n = len(b.pending)
	}
	out := make([]Record, n)
	copy(out, b.pending[len(b.pending)-n:])
	return out
}

// Summary counts buffered records per event kind.
func (b *Buffer) Summary() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	summary := make(map[string]int)
	for _, rec := range b.pending {
		summary[rec.Event]++
	}
	return summary
}

// PendingCount returns the number of unflushed records.
func (b *Buffer) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// FlushedCount returns the number of records written to the database since
// Open.
func (b *Buffer) FlushedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushed
}

// Close flushes any remaining records and closes the database.
func (b *Buffer) Close() error {
	if err := b.Flush(); err != nil {
		b.db.Close()
		return err
	}
	return b.db.Close()
}
