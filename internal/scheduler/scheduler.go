// Package scheduler triggers recurring scraping sessions on a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"go-jobradar-automation/internal/models"
	"go-jobradar-automation/internal/session"
)

// Scheduler wraps robfig/cron around the session service.
type Scheduler struct {
	cron    *cron.Cron
	service *session.Service
	userID  string
	params  models.SearchParams
	spec    string
}

// New creates a scheduler that starts a session for params on every tick of
// spec (e.g. "@every 6h").
func New(service *session.Service, userID string, params models.SearchParams, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		userID:  userID,
		params:  params,
		spec:    spec,
	}
}

// Start registers the job and starts ticking. Also fires one session
// immediately so fresh data exists without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.trigger(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule spec %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Printf("⏰ Scheduler started (spec %q)", s.spec)

	s.trigger(ctx)
	return nil
}

// Stop halts the cron loop; already-queued sessions keep running.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) trigger(ctx context.Context) {
	id, err := s.service.StartSession(ctx, s.userID, s.params)
	if err != nil {
		log.Printf("⚠️ Scheduled scrape failed to start: %v", err)
		return
	}
	log.Printf("⏰ Scheduled scrape started: session %s", id)
}
