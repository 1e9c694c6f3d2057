package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type AuditReport struct {
	ApprovedWithoutScore []uint
	OrphanScoreEntries   []uint
}

func (r AuditReport) Clean() bool {
	return len(r.ApprovedWithoutScore) == 0 && len(r.OrphanScoreEntries) == 0
}

// AuditService looks for drift between submission status and the score
// ledger. Decisions are transactional, so anything found here came from
// outside the service.
type AuditService struct {
	ledger  LedgerRepository
	timeout time.Duration
}

func NewAuditService(ledger LedgerRepository, timeout time.Duration) *AuditService {
	return &AuditService{
		ledger:  ledger,
		timeout: timeout,
	}
}

func (s *AuditService) AuditLedger(ctx context.Context) (AuditReport, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	missing, err := s.ledger.ApprovedWithoutScore(ctx)
	if err != nil {
		return AuditReport{}, fmt.Errorf("s.ledger.ApprovedWithoutScore -> %w", unavailable(err))
	}

	orphans, err := s.ledger.OrphanScoreEntries(ctx)
	if err != nil {
		return AuditReport{}, fmt.Errorf("s.ledger.OrphanScoreEntries -> %w", unavailable(err))
	}

	report := AuditReport{ApprovedWithoutScore: missing, OrphanScoreEntries: orphans}
	for _, id := range missing {
		zap.L().Error("ledger consistency violation: approved submission has no score entry", zap.Uint("submission_id", id))
	}
	for _, id := range orphans {
		zap.L().Error("ledger consistency violation: score entry without approved submission", zap.Uint("score_entry_id", id))
	}

	return report, nil
}
