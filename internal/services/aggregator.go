package services

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/lunaria-app/lunaria/internal/changefeed"
	"github.com/lunaria-app/lunaria/internal/models"
)

type AggregatorStore interface {
	ListAll() ([]models.LogRecord, error)
}

type aggregatorSnapshot struct {
	records    map[string]models.LogRecord
	classifier *PhaseClassifier
}

// Aggregator mirrors the log store in memory for the current session. The
// mirror is rebuilt in full on any change notification and swapped wholesale,
// so readers always see either the old or the new complete snapshot.
type Aggregator struct {
	store    AggregatorStore
	changes  *changefeed.Bus
	snapshot atomic.Value
}

func NewAggregator(store AggregatorStore, changes *changefeed.Bus) *Aggregator {
	aggregator := &Aggregator{store: store, changes: changes}
	aggregator.snapshot.Store(&aggregatorSnapshot{
		records:    map[string]models.LogRecord{},
		classifier: NewPhaseClassifier(nil),
	})
	return aggregator
}

// Reload re-reads every record from the store and atomically replaces the
// snapshot, including the classifier derived from it.
func (aggregator *Aggregator) Reload() error {
	records, err := aggregator.store.ListAll()
	if err != nil {
		return err
	}

	byDate := make(map[string]models.LogRecord, len(records))
	for _, record := range records {
		byDate[record.Date] = record
	}

	aggregator.snapshot.Store(&aggregatorSnapshot{
		records:    byDate,
		classifier: NewPhaseClassifier(byDate),
	})
	return nil
}

func (aggregator *Aggregator) GetForDate(date string) (models.LogRecord, bool) {
	record, exists := aggregator.current().records[date]
	return record, exists
}

// GetForMonth returns the records whose date falls in the anchor's calendar
// month, keyed by date string.
func (aggregator *Aggregator) GetForMonth(anchor time.Time) map[string]models.LogRecord {
	snapshot := aggregator.current()

	monthRecords := make(map[string]models.LogRecord)
	for date, record := range snapshot.records {
		day, ok := record.Day()
		if !ok {
			continue
		}
		if day.Year() == anchor.Year() && day.Month() == anchor.Month() {
			monthRecords[date] = record
		}
	}
	return monthRecords
}

// Classifier returns the phase classifier built from the current snapshot.
func (aggregator *Aggregator) Classifier() *PhaseClassifier {
	return aggregator.current().classifier
}

// Run subscribes to the change bus and reloads the mirror on every event
// until the context is cancelled. It blocks; run it in its own goroutine.
func (aggregator *Aggregator) Run(ctx context.Context) {
	id, events := aggregator.changes.Subscribe()
	defer aggregator.changes.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case _, open := <-events:
			if !open {
				return
			}
			if err := aggregator.Reload(); err != nil {
				log.Printf("aggregator reload failed: %v", err)
			}
		}
	}
}

func (aggregator *Aggregator) current() *aggregatorSnapshot {
	return aggregator.snapshot.Load().(*aggregatorSnapshot)
}
