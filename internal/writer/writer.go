// Package writer commits extracted postings to the store, one atomic upsert
// per dedup key.
package writer

import (
	"context"
	"log"
	"time"

	"go-jobradar-automation/internal/models"
	"go-jobradar-automation/internal/store"
)

// WriteStats breaks a batch down by what the store actually did.
type WriteStats struct {
	Saved   int //fresh inserts
	Updated int //existing record replaced with new content
	Skipped int //re-seen with identical content, nothing written
}

// Writer persists batches against a store handle.
type Writer struct {
	store store.Store
	now   func() time.Time
}

// New builds a writer. now is injectable for tests; nil means time.Now.
func New(st store.Store, now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{store: st, now: now}
}

// Save upserts every record in the batch. A failing record is logged and
// reported as a persistence error but never aborts the rest of the batch;
// the same posting seen any number of times ends up as exactly one stored
// record.
func (w *Writer) Save(ctx context.Context, jobs []models.JobPosting) (WriteStats, []models.SessionError) {
	var stats WriteStats
	var errs []models.SessionError

	for _, job := range jobs {
		res, err := w.store.UpsertJob(ctx, job)
		if err != nil {
			log.Printf("⚠️ Failed to save job %q at %q: %v", job.Title, job.Company, err)
			errs = append(errs, models.SessionError{
				Timestamp: w.now(),
				Kind:      models.ErrorKindPersistence,
				Message:   err.Error(),
			})
			continue
		}
		switch {
		case res.Inserted:
			stats.Saved++
		case res.Modified:
			stats.Updated++
		default:
			stats.Skipped++
		}
	}
	return stats, errs
}
