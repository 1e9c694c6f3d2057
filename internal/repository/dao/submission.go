package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	statusPending  = "pending"
	statusApproved = "approved"
)

type Submission struct {
	ID              uint        `gorm:"primaryKey"`
	UserID          string      `gorm:"not null;index"`
	AchievementID   uint        `gorm:"not null;index"`
	Achievement     Achievement `gorm:"foreignKey:AchievementID"`
	Text            string
	MediaURLs       []string `gorm:"type:text;serializer:json"`
	Status          string   `gorm:"not null;index"`
	ReviewerID      *string
	ReviewerComment string
	PointsAwarded   *int

	CreatedAt  time.Time
	ReviewedAt *time.Time
	RevokedAt  *time.Time
}

type SubmissionFilter struct {
	Status string
	UserID string
	Limit  int
	Offset int
}

type SubmissionDAO struct {
	db *gorm.DB
}

func NewSubmissionDAO(db *gorm.DB) *SubmissionDAO {
	return &SubmissionDAO{
		db: db,
	}
}

// Insert relies on idx_submissions_open_claim to refuse a second open claim.
// On a violation the existing row decides which error is returned.
func (d *SubmissionDAO) Insert(ctx context.Context, submission Submission) (Submission, error) {
	submission.Status = statusPending
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&submission)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Submission{}, d.openClaimErr(ctx, submission.UserID, submission.AchievementID)
		}

		return Submission{}, result.Error
	}

	return d.FindByID(ctx, submission.ID)
}

func (d *SubmissionDAO) openClaimErr(ctx context.Context, userID string, achievementID uint) error {
	existing, err := d.FindOpenClaim(ctx, userID, achievementID)
	if err == nil && existing.Status == statusApproved {
		return ErrApprovedSubmissionExists
	}

	return ErrPendingSubmissionExists
}

func (d *SubmissionDAO) FindByID(ctx context.Context, id uint) (Submission, error) {
	submission := Submission{}
	result := d.db.WithContext(ctx).Preload("Achievement").First(&submission, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Submission{}, ErrSubmissionNotFound
		}

		return Submission{}, result.Error
	}

	return submission, nil
}

// FindOpenClaim returns the pending or approved submission for the pair.
func (d *SubmissionDAO) FindOpenClaim(ctx context.Context, userID string, achievementID uint) (Submission, error) {
	submission := Submission{}
	result := d.db.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ? AND status IN ?", userID, achievementID, []string{statusPending, statusApproved}).
		First(&submission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Submission{}, ErrSubmissionNotFound
		}

		return Submission{}, result.Error
	}

	return submission, nil
}

func (d *SubmissionDAO) List(ctx context.Context, filter SubmissionFilter) ([]Submission, error) {
	query := d.db.WithContext(ctx).Preload("Achievement").Order("created_at ASC, id ASC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var submissions []Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
