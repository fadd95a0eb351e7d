package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/Ctsong73/fathom-microservice/internal/pipeline"
	"github.com/Ctsong73/fathom-microservice/internal/store"
)

// Scheduler runs the periodic refresh and retention maintenance tasks.
type Scheduler struct {
	Cron          *cron.Cron
	Orchestrator  *pipeline.Orchestrator
	Store         store.Store
	RetentionDays int
	Ctx           context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, o *pipeline.Orchestrator, st store.Store, retentionDays int) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Orchestrator:  o,
		Store:         st,
		RetentionDays: retentionDays,
		Ctx:           ctx,
	}
}

// RegisterAll registers the refresh and prune tasks.
func (s *Scheduler) RegisterAll(refreshCron, pruneCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (startup fetch).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] scheduled refresh starting")
	results := s.Orchestrator.FetchAll(s.Ctx, true)
	total := 0
	for _, count := range results {
		total += count
	}
	log.Printf("[INFO] scheduled refresh done: %d records across %d symbols", total, len(results))
}

func (s *Scheduler) pruneTask() {
	deleted, err := s.Store.Prune(s.RetentionDays)
	if err != nil {
		log.Printf("[WARN] scheduled prune: %v", err)
		return
	}
	log.Printf("[INFO] scheduled prune removed %d rows", deleted)
}
