package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Achievement struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	Points      int      `gorm:"not null"`
	Images      []string `gorm:"type:text;serializer:json"`
	CreatedBy   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type AchievementDAO struct {
	db *gorm.DB
}

func NewAchievementDAO(db *gorm.DB) *AchievementDAO {
	return &AchievementDAO{
		db: db,
	}
}

func (d *AchievementDAO) Insert(ctx context.Context, achievement Achievement) (Achievement, error) {
	result := d.db.WithContext(ctx).Create(&achievement)
	if result.Error != nil {
		return Achievement{}, result.Error
	}

	return achievement, nil
}

// Update overwrites the editable fields. Select keeps zero points writable.
func (d *AchievementDAO) Update(ctx context.Context, achievement Achievement) (Achievement, error) {
	result := d.db.WithContext(ctx).
		Model(&achievement).
		Select("title", "description", "points", "images", "updated_at").
		Updates(&achievement)
	if result.Error != nil {
		return Achievement{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Achievement{}, ErrAchievementNotFound
	}

	return d.FindByID(ctx, achievement.ID)
}

func (d *AchievementDAO) FindByID(ctx context.Context, id uint) (Achievement, error) {
	achievement := Achievement{}
	result := d.db.WithContext(ctx).First(&achievement, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Achievement{}, ErrAchievementNotFound
		}

		return Achievement{}, result.Error
	}

	return achievement, nil
}

func (d *AchievementDAO) List(ctx context.Context) ([]Achievement, error) {
	var achievements []Achievement
	result := d.db.WithContext(ctx).Order("id ASC").Find(&achievements)
	if result.Error != nil {
		return nil, result.Error
	}

	return achievements, nil
}
