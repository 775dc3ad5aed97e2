package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/todoevolve/server/internal/store"
)

// Scheduler regenerates completed recurring tasks on a cron schedule. When
// a recurring task is completed, the sweep creates its next instance with
// an advanced due date and retires the old row from recurrence so it is
// only processed once.
type Scheduler struct {
	tasks       *store.TaskStore
	regenerated prometheus.Counter
	cron        *cron.Cron
	logger      *slog.Logger
}

// New builds a scheduler over the task store.
func New(tasks *store.TaskStore, regenerated prometheus.Counter, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		tasks:       tasks,
		regenerated: regenerated,
		logger:      logger,
	}
}

// Start registers the sweep under the given 5-field cron spec and begins
// running it until Stop is called.
func (s *Scheduler) Start(spec string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("parse cron %q: %w", spec, err)
	}

	s.cron = cron.New(cron.WithParser(parser))
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if n, err := s.Sweep(ctx); err != nil {
			s.logger.Error("recurring task sweep failed", "error", err)
		} else if n > 0 {
			s.logger.Info("recurring tasks regenerated", "count", n)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("recurring task scheduler started", "cron", spec)
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep processes every completed recurring task once: create the next
// instance, then clear the recurrence flag on the completed row. Returns
// how many tasks were regenerated.
func (s *Scheduler) Sweep(ctx context.Context) (int, error) {
	done, err := s.tasks.ListCompletedRecurring(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, prev := range done {
		if prev.RecurrenceInterval == "" {
			continue
		}
		due := nextDueDate(prev.DueDate, prev.RecurrenceInterval, time.Now().UTC())

		next := &store.Task{
			UserID:             prev.UserID,
			Title:              prev.Title,
			Description:        prev.Description,
			Priority:           prev.Priority,
			Tags:               prev.Tags,
			IsRecurring:        true,
			RecurrenceInterval: prev.RecurrenceInterval,
			DueDate:            &due,
		}
		if err := s.tasks.Create(ctx, next); err != nil {
			s.logger.Error("failed to create next recurring task",
				"task_id", prev.ID, "error", err)
			continue
		}

		// Retire the completed row so the next sweep skips it.
		prev.IsRecurring = false
		if err := s.tasks.Update(ctx, prev); err != nil {
			s.logger.Error("failed to retire recurring task",
				"task_id", prev.ID, "error", err)
			continue
		}

		if s.regenerated != nil {
			s.regenerated.Inc()
		}
		count++
	}
	return count, nil
}

// nextDueDate advances the due date by the recurrence interval. A missing
// due date starts from now. Monthly is approximated as 30 days.
func nextDueDate(prev *time.Time, interval string, now time.Time) time.Time {
	base := now
	if prev != nil {
		base = *prev
	}
	switch strings.ToLower(interval) {
	case "weekly":
		return base.AddDate(0, 0, 7)
	case "monthly":
		return base.AddDate(0, 0, 30)
	default: // daily
		return base.AddDate(0, 0, 1)
	}
}
