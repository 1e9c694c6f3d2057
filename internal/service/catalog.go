package service

import (
	"context"
	"fmt"
	"time"

	"github.com/questboard/questboard-api/internal/domain"
)

type AchievementRepository interface {
	Create(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error)
	Update(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error)
	FindByID(ctx context.Context, id uint) (domain.Achievement, error)
	List(ctx context.Context) ([]domain.Achievement, error)
}

// CatalogService manages the achievement catalog. Point changes only affect
// future approvals; existing score entries keep the value they were awarded.
type CatalogService struct {
	repo    AchievementRepository
	timeout time.Duration
}

func NewCatalogService(repo AchievementRepository, timeout time.Duration) *CatalogService {
	return &CatalogService{
		repo:    repo,
		timeout: timeout,
	}
}

func (s *CatalogService) CreateAchievement(ctx context.Context, caller domain.Caller, achievement domain.Achievement) (domain.Achievement, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.Achievement{}, err
	}
	if achievement.Points < 0 {
		return domain.Achievement{}, ErrInvalidPoints
	}
	achievement.CreatedBy = caller.UserID
	achievement.Images = copyMedia(achievement.Images)

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.repo.Create(ctx, achievement)
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("s.repo.Create -> %w", unavailable(err))
	}

	return created, nil
}

func (s *CatalogService) UpdateAchievement(ctx context.Context, caller domain.Caller, achievement domain.Achievement) (domain.Achievement, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.Achievement{}, err
	}
	if achievement.Points < 0 {
		return domain.Achievement{}, ErrInvalidPoints
	}
	achievement.Images = copyMedia(achievement.Images)

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	updated, err := s.repo.Update(ctx, achievement)
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("s.repo.Update -> %w", unavailable(err))
	}

	return updated, nil
}

func (s *CatalogService) GetAchievement(ctx context.Context, id uint) (domain.Achievement, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	achievement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("s.repo.FindByID -> %w", unavailable(err))
	}

	return achievement, nil
}

func (s *CatalogService) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	achievements, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", unavailable(err))
	}

	return achievements, nil
}
