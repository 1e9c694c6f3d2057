package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/questboard/questboard-api/internal/config"
	"github.com/questboard/questboard-api/internal/service"
)

type EventAdvancer interface {
	AdvanceSchedule(ctx context.Context, now time.Time) (started, ended int64, err error)
}

type LedgerAuditor interface {
	AuditLedger(ctx context.Context) (service.AuditReport, error)
}

// Scheduler runs the background jobs: scavenger event status by schedule and
// the ledger consistency audit.
type Scheduler struct {
	sched   gocron.Scheduler
	conf    *config.SchedulerConfig
	events  EventAdvancer
	auditor LedgerAuditor
	now     func() time.Time
}

func NewScheduler(conf *config.SchedulerConfig, events EventAdvancer, auditor LedgerAuditor) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	return &Scheduler{
		sched:   sched,
		conf:    conf,
		events:  events,
		auditor: auditor,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(s.conf.EventTick),
		gocron.NewTask(func() { s.AdvanceEvents(ctx) }),
		gocron.WithName("advance-scavenger-events"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("s.sched.NewJob advance-scavenger-events -> %w", err)
	}

	_, err = s.sched.NewJob(
		gocron.DurationJob(s.conf.AuditInterval),
		gocron.NewTask(func() { s.AuditLedger(ctx) }),
		gocron.WithName("ledger-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("s.sched.NewJob ledger-audit -> %w", err)
	}

	s.sched.Start()
	zap.L().Info("scheduler started",
		zap.Duration("event_tick", s.conf.EventTick),
		zap.Duration("audit_interval", s.conf.AuditInterval),
	)

	return nil
}

func (s *Scheduler) Stop() error {
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("s.sched.Shutdown -> %w", err)
	}
	zap.L().Info("scheduler stopped")

	return nil
}

func (s *Scheduler) AdvanceEvents(ctx context.Context) {
	started, ended, err := s.events.AdvanceSchedule(ctx, s.now())
	if err != nil {
		zap.L().Error("advancing scavenger events failed", zap.Error(err))
		return
	}
	if started > 0 || ended > 0 {
		zap.L().Info("scavenger events advanced", zap.Int64("started", started), zap.Int64("ended", ended))
	}
}

func (s *Scheduler) AuditLedger(ctx context.Context) {
	report, err := s.auditor.AuditLedger(ctx)
	if err != nil {
		zap.L().Error("ledger audit failed", zap.Error(err))
		return
	}
	if report.Clean() {
		zap.L().Debug("ledger audit clean")
	}
}
