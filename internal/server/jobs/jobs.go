// Package jobs запускает фоновые задачи по расписанию cron.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultTimeout ограничивает время одного запуска задачи
const DefaultTimeout = time.Minute

// Func фоновая задача; возвращает число обработанных записей
type Func func(ctx context.Context) (int, error)

// Scheduler планировщик фоновых задач
type Scheduler struct {
	logger  *slog.Logger
	c       *cron.Cron
	timeout time.Duration
}

// NewScheduler создает планировщик; задачи не перекрываются сами с собой
func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		logger:  logger,
		c:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: DefaultTimeout,
	}
}

// Add ставит задачу в расписание. schedule в формате cron или @every/@hourly.
func (s *Scheduler) Add(name, schedule string, fn Func) error {
	if _, err := s.c.AddFunc(schedule, s.wrap(name, fn)); err != nil {
		return fmt.Errorf("failed to schedule job %q: %w", name, err)
	}
	s.logger.Info("job scheduled", slog.String("job", name), slog.String("schedule", schedule))
	return nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop останавливает планировщик и ждет завершения текущих задач или отмены ctx
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("jobs still running at shutdown")
	}
}

func (s *Scheduler) wrap(name string, fn Func) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		n, err := fn(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "job failed", slog.String("job", name), slog.Any("error", err))
			return
		}
		s.logger.InfoContext(ctx, "job completed",
			slog.String("job", name),
			slog.Int("processed", n),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	}
}
