// Package session owns the end-to-end scraping run: the queue that accepts
// session jobs, the per-page loop, pacing, and the session state machine
// persisted to the store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-jobradar-automation/internal/dedup"
	"go-jobradar-automation/internal/models"
	"go-jobradar-automation/internal/store"
	"go-jobradar-automation/internal/writer"
)

// PageDriver renders one address at a time for a single session.
type PageDriver interface {
	Fetch(ctx context.Context, addr string) (string, error)
	Close() error
}

// DriverFunc acquires a fresh driver for one session run.
type DriverFunc func(ctx context.Context) (PageDriver, error)

// Extractor parses rendered markup into postings.
type Extractor interface {
	Extract(html string, now time.Time) ([]models.JobPosting, error)
}

// Reporter is notified when a session reaches a terminal state.
type Reporter interface {
	SessionFinished(session models.ScrapingSession)
}

const (
	defaultMaxPages = 3
	maxPagesLimit   = 10
	queueCapacity   = 16
)

// ErrSessionNotFound is returned for lookups of unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// ErrQueueFull is returned when the session queue has no room left.
var ErrQueueFull = errors.New("session queue is full")

// Options tunes the orchestrator. The sleep, clock and random source are
// injectable so pacing is skippable and timestamps deterministic in tests.
type Options struct {
	DelayMin time.Duration
	DelayMax time.Duration
	Workers  int

	Now     func() time.Time
	Sleep   func(ctx context.Context, d time.Duration)
	RandInt func(n int) int
}

func (o *Options) applyDefaults() {
	if o.DelayMin <= 0 {
		o.DelayMin = 2 * time.Second
	}
	if o.DelayMax < o.DelayMin {
		o.DelayMax = o.DelayMin + 3*time.Second
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Sleep == nil {
		o.Sleep = func(ctx context.Context, d time.Duration) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		}
	}
	if o.RandInt == nil {
		o.RandInt = rand.Intn
	}
}

type sessionJob struct {
	ctx       context.Context
	sessionID string
	params    models.SearchParams
}

// Service accepts scraping sessions and runs them on a small worker pool,
// one page driver per session.
type Service struct {
	store     store.Store
	acquire   DriverFunc
	extractor Extractor
	writer    *writer.Writer
	cache     *dedup.SeenCache
	reporter  Reporter
	opts      Options

	jobs chan sessionJob
	wg   sync.WaitGroup

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// New wires a service. cache and reporter may be nil.
func New(st store.Store, acquire DriverFunc, extractor Extractor, cache *dedup.SeenCache, reporter Reporter, opts Options) *Service {
	opts.applyDefaults()
	return &Service{
		store:     st,
		acquire:   acquire,
		extractor: extractor,
		writer:    writer.New(st, opts.Now),
		cache:     cache,
		reporter:  reporter,
		opts:      opts,
		jobs:      make(chan sessionJob, queueCapacity),
		cancels:   make(map[string]context.CancelFunc),
	}
}

// Start launches the worker pool. Workers drain the queue until Stop.
func (s *Service) Start() {
	for i := 0; i < s.opts.Workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for job := range s.jobs {
				s.run(job)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight sessions to finish or get
// cancelled.
func (s *Service) Stop() {
	close(s.jobs)
	s.wg.Wait()
}

// StartSession records a pending session and enqueues it, returning its id
// immediately. The run happens on a worker goroutine.
func (s *Service) StartSession(ctx context.Context, userID string, params models.SearchParams) (string, error) {
	if params.MaxPages <= 0 {
		params.MaxPages = defaultMaxPages
	}
	if params.MaxPages > maxPagesLimit {
		params.MaxPages = maxPagesLimit
	}

	session := &models.ScrapingSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Params:    params,
		Status:    models.StatusPending,
		StartTime: s.opts.Now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[session.ID] = cancel
	s.mu.Unlock()

	select {
	case s.jobs <- sessionJob{ctx: runCtx, sessionID: session.ID, params: params}:
	default:
		//the queue is saturated; the call stays fire-and-forget by refusing
		//instead of blocking
		s.forget(session.ID)
		end := s.opts.Now()
		session.Status = models.StatusFailed
		session.EndTime = &end
		session.Errors = append(session.Errors, models.SessionError{
			Timestamp: end,
			Kind:      models.ErrorKindOrchestrator,
			Message:   ErrQueueFull.Error(),
		})
		session.Stats.ErrorsCount++
		if err := s.store.UpdateSession(ctx, session); err != nil {
			log.Printf("⚠️ Failed to mark session %s failed: %v", session.ID, err)
		}
		return "", ErrQueueFull
	}

	log.Printf("🚀 Session %s queued for user %s", session.ID, userID)
	return session.ID, nil
}

// GetSessionStatus returns a copy of the session document.
func (s *Service) GetSessionStatus(ctx context.Context, sessionID string) (*models.ScrapingSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return session, err
}

// ListSessions returns the user's most recent sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, userID string, limit int) ([]models.ScrapingSession, error) {
	return s.store.ListSessions(ctx, userID, limit)
}

// CancelSession requests cancellation of a pending or running session. The
// store document flips immediately; the runner observes the cancel at the
// next page boundary. Returns false when the session is unknown or already
// terminal.
func (s *Service) CancelSession(ctx context.Context, sessionID string) bool {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil || session.Status.Terminal() {
		return false
	}

	end := s.opts.Now()
	session.Status = models.StatusCancelled
	session.EndTime = &end
	if err := s.store.UpdateSession(ctx, session); err != nil {
		log.Printf("⚠️ Failed to mark session %s cancelled: %v", sessionID, err)
		return false
	}

	s.mu.Lock()
	cancel, ok := s.cancels[sessionID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
	log.Printf("🛑 Session %s cancelled", sessionID)
	return true
}

func (s *Service) forget(sessionID string) {
	s.mu.Lock()
	if cancel, ok := s.cancels[sessionID]; ok {
		cancel()
		delete(s.cancels, sessionID)
	}
	s.mu.Unlock()
}
