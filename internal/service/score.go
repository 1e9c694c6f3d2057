package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/questboard/questboard-api/internal/domain"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 500
)

type ScoreRepository interface {
	SumUserPoints(ctx context.Context, userID string) (int, error)
	UserTotals(ctx context.Context, limit, offset int) ([]domain.LeaderboardEntry, error)
	SumTeamPoints(ctx context.Context, teamID uint) (int, error)
	TeamTotals(ctx context.Context, eventID uint) ([]domain.TeamStanding, error)
	ScoredSubmissions(ctx context.Context, userID string) ([]domain.Submission, error)
}

type BonusLister interface {
	ListBonusGrants(ctx context.Context, userID string) ([]domain.BonusGrant, error)
}

// LeaderboardCache stores computed leaderboards under a generation number.
// Writers bump the generation after every committed score change, which makes
// everything cached under an older generation unreachable.
type LeaderboardCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, key string) ([]byte, bool, error)
	Set(ctx context.Context, generation int64, key string, payload []byte) error
	Invalidate(ctx context.Context) error
}

// ScoreService is the only place totals are computed. The cache is optional.
//
// When a generation bump fails, failedBumps moves ahead of healedBumps and
// the cache is bypassed until a later bump succeeds.
type ScoreService struct {
	repo    ScoreRepository
	bonuses BonusLister
	cache   LeaderboardCache
	timeout time.Duration

	failedBumps atomic.Uint64
	healedBumps atomic.Uint64
}

func NewScoreService(repo ScoreRepository, bonuses BonusLister, cache LeaderboardCache, timeout time.Duration) *ScoreService {
	return &ScoreService{
		repo:    repo,
		bonuses: bonuses,
		cache:   cache,
		timeout: timeout,
	}
}

func (s *ScoreService) TotalPointsForUser(ctx context.Context, userID string) (int, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	total, err := s.repo.SumUserPoints(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.SumUserPoints -> %w", unavailable(err))
	}

	return total, nil
}

func (s *ScoreService) TotalPointsForTeam(ctx context.Context, teamID uint) (int, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	total, err := s.repo.SumTeamPoints(ctx, teamID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.SumTeamPoints -> %w", unavailable(err))
	}

	return total, nil
}

// Leaderboard ranks users by total desc, then user id asc. Ranks are positions
// in that order, so paging keeps them stable.
func (s *ScoreService) Leaderboard(ctx context.Context, limit, offset int) ([]domain.LeaderboardEntry, error) {
	limit = clampLimit(limit, defaultLeaderboardLimit, maxLeaderboardLimit)
	if offset < 0 {
		offset = 0
	}

	key := fmt.Sprintf("users:%d:%d", limit, offset)
	var entries []domain.LeaderboardEntry
	err := s.cached(ctx, key, &entries, func(ctx context.Context) (any, error) {
		found, err := s.repo.UserTotals(ctx, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("s.repo.UserTotals -> %w", err)
		}
		for i := range found {
			found[i].Rank = offset + i + 1
		}

		return found, nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *ScoreService) TeamLeaderboard(ctx context.Context, eventID uint) ([]domain.TeamStanding, error) {
	key := fmt.Sprintf("teams:%d", eventID)
	var standings []domain.TeamStanding
	err := s.cached(ctx, key, &standings, func(ctx context.Context) (any, error) {
		found, err := s.repo.TeamTotals(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.TeamTotals -> %w", err)
		}
		for i := range found {
			found[i].Rank = i + 1
		}

		return found, nil
	})
	if err != nil {
		return nil, err
	}

	return standings, nil
}

// ScoreBreakdown lists what a user's total is made of.
func (s *ScoreService) ScoreBreakdown(ctx context.Context, userID string) (domain.ScoreBreakdown, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	submissions, err := s.repo.ScoredSubmissions(ctx, userID)
	if err != nil {
		return domain.ScoreBreakdown{}, fmt.Errorf("s.repo.ScoredSubmissions -> %w", unavailable(err))
	}

	grants, err := s.bonuses.ListBonusGrants(ctx, userID)
	if err != nil {
		return domain.ScoreBreakdown{}, fmt.Errorf("s.bonuses.ListBonusGrants -> %w", unavailable(err))
	}

	total, err := s.repo.SumUserPoints(ctx, userID)
	if err != nil {
		return domain.ScoreBreakdown{}, fmt.Errorf("s.repo.SumUserPoints -> %w", unavailable(err))
	}

	items := make([]domain.BreakdownItem, len(submissions))
	for i, sub := range submissions {
		points := 0
		if sub.PointsAwarded != nil {
			points = *sub.PointsAwarded
		}
		reviewedAt := sub.ReviewedAt
		if sub.Status == domain.StatusRevoked && sub.RevokedAt != nil {
			reviewedAt = sub.RevokedAt
		}
		items[i] = domain.BreakdownItem{
			SubmissionID:  sub.ID,
			AchievementID: sub.AchievementID,
			Title:         sub.Achievement.Title,
			Status:        sub.Status,
			Points:        points,
			Label:         domain.BreakdownLabel(sub.Status, points),
			ReviewedAt:    reviewedAt,
		}
	}

	return domain.ScoreBreakdown{
		UserID:       userID,
		Total:        total,
		Achievements: items,
		Bonuses:      grants,
	}, nil
}

// InvalidateLeaderboards must be called after a score-affecting commit and
// before the mutating call returns.
func (s *ScoreService) InvalidateLeaderboards(ctx context.Context) {
	if s.cache == nil {
		return
	}

	err := s.cache.Invalidate(ctx)
	if err != nil {
		err = s.cache.Invalidate(ctx)
	}
	if err != nil {
		s.failedBumps.Add(1)
		zap.L().Error("leaderboard cache invalidation failed, bypassing cache", zap.Error(err))
	}
}

// cacheUsable reports whether cached pages can be trusted. After a failed
// invalidation it retries the bump and keeps the cache off until one lands.
func (s *ScoreService) cacheUsable(ctx context.Context) bool {
	if s.cache == nil {
		return false
	}

	failed := s.failedBumps.Load()
	if failed == s.healedBumps.Load() {
		return true
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		zap.L().Warn("leaderboard cache still stale", zap.Error(err))
		return false
	}
	for {
		healed := s.healedBumps.Load()
		if healed >= failed || s.healedBumps.CompareAndSwap(healed, failed) {
			return true
		}
	}
}

// cached serves dst from the cache when the current generation has it and
// computes it from rows otherwise. Cache failures degrade to computing.
func (s *ScoreService) cached(ctx context.Context, key string, dst any, compute func(ctx context.Context) (any, error)) error {
	generation := int64(-1)
	if s.cacheUsable(ctx) {
		gen, err := s.cache.Generation(ctx)
		if err != nil {
			zap.L().Warn("leaderboard cache unavailable", zap.Error(err))
		} else {
			generation = gen
			payload, ok, err := s.cache.Get(ctx, generation, key)
			if err != nil {
				zap.L().Warn("leaderboard cache read failed", zap.String("key", key), zap.Error(err))
			} else if ok && json.Unmarshal(payload, dst) == nil {
				return nil
			}
		}
	}

	dbCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	value, err := compute(dbCtx)
	if err != nil {
		return unavailable(err)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("json.Unmarshal -> %w", err)
	}

	if generation >= 0 {
		if err := s.cache.Set(ctx, generation, key, payload); err != nil {
			zap.L().Warn("leaderboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return nil
}
