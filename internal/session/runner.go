package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-jobradar-automation/internal/linkedin"
	"go-jobradar-automation/internal/models"
)

// run executes one queued session end to end. Every fault is converted into
// a session-state update; nothing escapes to crash the worker.
func (s *Service) run(job sessionJob) {
	defer s.forget(job.sessionID)

	session, err := s.store.GetSession(context.Background(), job.sessionID)
	if err != nil {
		log.Printf("❌ Session %s vanished before start: %v", job.sessionID, err)
		return
	}
	if session.Status != models.StatusPending {
		//cancelled while still queued
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.recordError(session, models.ErrorKindOrchestrator, fmt.Sprintf("panic: %v", r), 0)
			s.finalize(session, models.StatusFailed)
		}
	}()

	//pending -> running
	session.Status = models.StatusRunning
	session.StartTime = s.opts.Now()
	if err := s.store.UpdateSession(context.Background(), session); err != nil {
		log.Printf("⚠️ Failed to mark session %s running: %v", session.ID, err)
	}
	log.Printf("▶️ Session %s running: %v @ %q (max %d pages)",
		session.ID, job.params.Keywords, job.params.Location, job.params.MaxPages)

	driver, err := s.acquire(job.ctx)
	if err != nil {
		//orchestrator-level fault: no automation resource, no run
		s.recordError(session, models.ErrorKindOrchestrator, fmt.Sprintf("failed to acquire page driver: %v", err), 0)
		s.finalize(session, models.StatusFailed)
		return
	}
	defer driver.Close()

	for page := 0; page < job.params.MaxPages; page++ {
		//cancellation is observed at page boundaries only
		if job.ctx.Err() != nil {
			s.finalize(session, models.StatusCancelled)
			return
		}

		if page > 0 {
			s.pace(job.ctx)
			if job.ctx.Err() != nil {
				s.finalize(session, models.StatusCancelled)
				return
			}
		}

		stop := s.scrapePage(job.ctx, session, driver, job.params, page)
		//a cancel that landed while the page was rendering is picked up here,
		//before the progress write could race the stored terminal status
		if job.ctx.Err() != nil {
			s.finalize(session, models.StatusCancelled)
			return
		}
		if err := s.store.UpdateSession(context.Background(), session); err != nil {
			log.Printf("⚠️ Failed to persist session %s progress: %v", session.ID, err)
		}
		if stop {
			break
		}
	}

	s.finalize(session, models.StatusCompleted)
}

// scrapePage attempts one result page and folds the outcome into the session.
// The returned flag requests early termination of the page loop.
func (s *Service) scrapePage(ctx context.Context, session *models.ScrapingSession, driver PageDriver, params models.SearchParams, page int) bool {
	session.Stats.PagesScraped++
	addr := linkedin.BuildSearchURL(params.Keywords, params.Location, params.Filters, page*linkedin.PageSize)
	log.Printf("  📄 Session %s page %d: %s", session.ID, page+1, addr)

	html, err := driver.Fetch(ctx, addr)
	if err != nil {
		//transient page fault: record, skip, keep going
		log.Printf("    ⚠️ Page %d failed: %v", page+1, err)
		s.recordError(session, models.ErrorKindNavigation, err.Error(), page+1)
		return false
	}

	jobs, err := s.extractor.Extract(html, s.opts.Now())
	if err != nil {
		log.Printf("    ⚠️ Page %d extraction failed: %v", page+1, err)
		s.recordError(session, models.ErrorKindExtraction, err.Error(), page+1)
		return false
	}

	if len(jobs) == 0 {
		//good render, no cards: the result set is likely exhausted
		log.Printf("    ℹ️ Page %d rendered with no cards, stopping early", page+1)
		return true
	}

	session.Stats.JobsFound += len(jobs)

	if s.cache != nil {
		urls := make([]string, 0, len(jobs))
		seen := 0
		for _, j := range jobs {
			if j.URL == "" {
				continue
			}
			if s.cache.IsSeen(j.URL) {
				seen++
			}
			urls = append(urls, j.URL)
		}
		if seen > 0 {
			log.Printf("    📋 Page %d: %d/%d jobs seen in a previous run", page+1, seen, len(jobs))
		}
		s.cache.Add(urls)
	}

	stats, werrs := s.writer.Save(ctx, jobs)
	session.Stats.JobsSaved += stats.Saved + stats.Updated
	session.Stats.Duplicates += stats.Skipped
	for _, we := range werrs {
		we.Page = page + 1
		session.Errors = append(session.Errors, we)
		session.Stats.ErrorsCount++
	}

	log.Printf("    ✅ Page %d: %d jobs (%d new, %d updated, %d duplicates)",
		page+1, len(jobs), stats.Saved, stats.Updated, stats.Skipped)
	return false
}

// pace waits a randomized politeness delay between pages.
func (s *Service) pace(ctx context.Context) {
	span := int(s.opts.DelayMax - s.opts.DelayMin)
	delay := s.opts.DelayMin
	if span > 0 {
		delay += time.Duration(s.opts.RandInt(span + 1))
	}
	s.opts.Sleep(ctx, delay)
}

func (s *Service) recordError(session *models.ScrapingSession, kind models.ErrorKind, message string, page int) {
	session.Errors = append(session.Errors, models.SessionError{
		Timestamp: s.opts.Now(),
		Kind:      kind,
		Message:   message,
		Page:      page,
	})
	session.Stats.ErrorsCount++
}

// finalize moves the session to a terminal status, stamps the end time and
// persists the final document. A terminal status is final: when a concurrent
// cancel already parked the stored session, that status is kept and only the
// stats are enriched.
func (s *Service) finalize(session *models.ScrapingSession, status models.SessionStatus) {
	if stored, err := s.store.GetSession(context.Background(), session.ID); err == nil && stored.Status.Terminal() {
		status = stored.Status
	}

	end := s.opts.Now()
	session.Status = status
	session.EndTime = &end
	if err := s.store.UpdateSession(context.Background(), session); err != nil {
		log.Printf("⚠️ Failed to finalize session %s: %v", session.ID, err)
	}

	log.Printf("🏁 Session %s %s: %d pages, %d found, %d saved, %d duplicates, %d errors",
		session.ID, status, session.Stats.PagesScraped, session.Stats.JobsFound,
		session.Stats.JobsSaved, session.Stats.Duplicates, session.Stats.ErrorsCount)

	if s.reporter != nil {
		s.reporter.SessionFinished(*session)
	}
}
