package repository

import (
	"context"
	"fmt"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/repository/dao"
)

var (
	ErrAchievementNotFound = dao.ErrAchievementNotFound
)

type AchievementDAO interface {
	Insert(ctx context.Context, achievement dao.Achievement) (dao.Achievement, error)
	Update(ctx context.Context, achievement dao.Achievement) (dao.Achievement, error)
	FindByID(ctx context.Context, id uint) (dao.Achievement, error)
	List(ctx context.Context) ([]dao.Achievement, error)
}

type AchievementRepository struct {
	dao AchievementDAO
}

func NewAchievementRepository(dao AchievementDAO) *AchievementRepository {
	return &AchievementRepository{
		dao: dao,
	}
}

func (r *AchievementRepository) Create(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error) {
	created, err := r.dao.Insert(ctx, achievementToDAO(achievement))
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return achievementToDomain(created), nil
}

func (r *AchievementRepository) Update(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error) {
	updated, err := r.dao.Update(ctx, achievementToDAO(achievement))
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return achievementToDomain(updated), nil
}

func (r *AchievementRepository) FindByID(ctx context.Context, id uint) (domain.Achievement, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return achievementToDomain(found), nil
}

func (r *AchievementRepository) List(ctx context.Context) ([]domain.Achievement, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	achievements := make([]domain.Achievement, len(found))
	for i, a := range found {
		achievements[i] = achievementToDomain(a)
	}

	return achievements, nil
}

func achievementToDAO(a domain.Achievement) dao.Achievement {
	return dao.Achievement{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Points:      a.Points,
		Images:      a.Images,
		CreatedBy:   a.CreatedBy,
	}
}

func achievementToDomain(a dao.Achievement) domain.Achievement {
	images := a.Images
	if images == nil {
		images = []string{}
	}

	return domain.Achievement{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Points:      a.Points,
		Images:      images,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
