package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/opsxjacky/notion-ticker-sync/internal/notifier"
	"github.com/opsxjacky/notion-ticker-sync/internal/syncer"
)

// Scheduler runs the sync on a cron schedule when the tool operates as a
// daemon.
type Scheduler struct {
	Cron     *cron.Cron
	Syncer   *syncer.Syncer
	Notifier *notifier.TelegramNotifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, s *syncer.Syncer, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Syncer:   s,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// Register registers the daily sync task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.syncTask); err != nil {
		return fmt.Errorf("register daily sync: %w", err)
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

// RunNow executes the sync task immediately (for manual trigger / one-shot mode).
func (s *Scheduler) RunNow() {
	s.syncTask()
}

func (s *Scheduler) syncTask() {
	log.Println("[INFO] running portfolio sync")
	sum, err := s.Syncer.Run(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] sync run: %v", err)
		s.trySend(notifier.FormatRunError(err))
		return
	}
	s.trySend(notifier.FormatRunSummary(sum))
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
