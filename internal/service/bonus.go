package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/questboard/questboard-api/internal/domain"
)

var ErrInvalidBonusPoints = errors.New("bonus points must be positive")

type BonusService struct {
	ledger    LedgerRepository
	users     UserRepository
	announcer *FeedAnnouncer
	scores    LeaderboardInvalidator
	timeout   time.Duration
	now       func() time.Time
}

func NewBonusService(ledger LedgerRepository, users UserRepository, announcer *FeedAnnouncer, scores LeaderboardInvalidator, timeout time.Duration) *BonusService {
	return &BonusService{
		ledger:    ledger,
		users:     users,
		announcer: announcer,
		scores:    scores,
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GrantBonus awards points outside the submission flow. The grant and its
// feed post are written in one transaction.
func (s *BonusService) GrantBonus(ctx context.Context, caller domain.Caller, userID string, points int, reason, proofURL string) (domain.BonusGrant, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.BonusGrant{}, err
	}
	if points <= 0 {
		return domain.BonusGrant{}, ErrInvalidBonusPoints
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	recipient, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.BonusGrant{}, fmt.Errorf("s.users.FindByID -> %w", unavailable(err))
	}

	reason = sanitizeOptional(reason)
	grant := domain.BonusGrant{
		UserID:    recipient.ID,
		Points:    points,
		Reason:    reason,
		ProofURL:  proofURL,
		GrantedBy: caller.UserID,
		GrantedAt: s.now(),
	}
	post := s.announcer.Bonus(recipient.ID, recipient.Name(), points, reason, proofURL)
	post.CreatedAt = grant.GrantedAt

	saved, _, err := s.ledger.CreateBonusGrant(ctx, grant, post)
	if err != nil {
		return domain.BonusGrant{}, fmt.Errorf("s.ledger.CreateBonusGrant -> %w", unavailable(err))
	}
	s.scores.InvalidateLeaderboards(ctx)

	zap.L().Info("bonus granted",
		zap.String("user_id", recipient.ID),
		zap.String("granted_by", caller.UserID),
		zap.Int("points", points),
	)

	return saved, nil
}

func (s *BonusService) ListBonusGrants(ctx context.Context, userID string) ([]domain.BonusGrant, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	grants, err := s.ledger.ListBonusGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.ledger.ListBonusGrants -> %w", unavailable(err))
	}

	return grants, nil
}
