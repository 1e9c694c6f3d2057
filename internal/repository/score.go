package repository

import (
	"context"
	"fmt"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/repository/dao"
)

type ScoreDAO interface {
	SumUserPoints(ctx context.Context, userID string) (int, error)
	UserTotals(ctx context.Context, limit, offset int) ([]dao.UserTotal, error)
	SumTeamPoints(ctx context.Context, teamID uint) (int, error)
	TeamTotals(ctx context.Context, eventID uint) ([]dao.TeamTotal, error)
	ListScoreEntries(ctx context.Context, userID string) ([]dao.ScoreEntry, error)
	ScoredSubmissions(ctx context.Context, userID string) ([]dao.Submission, error)
}

// ScoreRepository is read-only. Ledger writes go through LedgerRepository.
type ScoreRepository struct {
	dao ScoreDAO
}

func NewScoreRepository(dao ScoreDAO) *ScoreRepository {
	return &ScoreRepository{
		dao: dao,
	}
}

func (r *ScoreRepository) SumUserPoints(ctx context.Context, userID string) (int, error) {
	total, err := r.dao.SumUserPoints(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumUserPoints -> %w", err)
	}

	return total, nil
}

// UserTotals returns leaderboard rows without ranks; the caller numbers them.
func (r *ScoreRepository) UserTotals(ctx context.Context, limit, offset int) ([]domain.LeaderboardEntry, error) {
	found, err := r.dao.UserTotals(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.UserTotals -> %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(found))
	for i, t := range found {
		entries[i] = domain.LeaderboardEntry{
			UserID:      t.UserID,
			DisplayName: domain.User{DisplayName: t.DisplayName}.Name(),
			AvatarURL:   t.AvatarURL,
			Total:       t.Total,
		}
	}

	return entries, nil
}

func (r *ScoreRepository) SumTeamPoints(ctx context.Context, teamID uint) (int, error) {
	total, err := r.dao.SumTeamPoints(ctx, teamID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumTeamPoints -> %w", err)
	}

	return total, nil
}

func (r *ScoreRepository) TeamTotals(ctx context.Context, eventID uint) ([]domain.TeamStanding, error) {
	found, err := r.dao.TeamTotals(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.TeamTotals -> %w", err)
	}

	standings := make([]domain.TeamStanding, len(found))
	for i, t := range found {
		standings[i] = domain.TeamStanding{
			TeamID: t.TeamID,
			Name:   t.Name,
			Total:  t.Total,
		}
	}

	return standings, nil
}

func (r *ScoreRepository) ListScoreEntries(ctx context.Context, userID string) ([]domain.ScoreEntry, error) {
	found, err := r.dao.ListScoreEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListScoreEntries -> %w", err)
	}

	return scoreEntriesToDomain(found), nil
}

func (r *ScoreRepository) ScoredSubmissions(ctx context.Context, userID string) ([]domain.Submission, error) {
	found, err := r.dao.ScoredSubmissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ScoredSubmissions -> %w", err)
	}

	submissions := make([]domain.Submission, len(found))
	for i, s := range found {
		submissions[i] = submissionToDomain(s)
	}

	return submissions, nil
}

func scoreEntriesToDomain(found []dao.ScoreEntry) []domain.ScoreEntry {
	entries := make([]domain.ScoreEntry, len(found))
	for i, e := range found {
		entries[i] = domain.ScoreEntry{
			ID:            e.ID,
			UserID:        e.UserID,
			EventType:     e.EventType,
			AchievementID: e.AchievementID,
			SubmissionID:  e.SubmissionID,
			Points:        e.Points,
			CreatedAt:     e.CreatedAt,
		}
	}

	return entries
}
