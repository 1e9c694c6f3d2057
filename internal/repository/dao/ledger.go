package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	statusRevoked = "revoked"

	reviewKindAchievement = "achievement"
	reviewKindTeamTask    = "team_task"
)

type ScoreEntry struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        string `gorm:"not null;index"`
	EventType     string `gorm:"not null"`
	AchievementID uint   `gorm:"not null;index"`
	SubmissionID  uint   `gorm:"not null;uniqueIndex"`
	Points        int    `gorm:"not null"`

	CreatedAt time.Time
}

type BonusGrant struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	Points    int    `gorm:"not null"`
	Reason    string `gorm:"not null"`
	ProofURL  string
	GrantedBy string    `gorm:"not null"`
	GrantedAt time.Time `gorm:"not null"`
}

type SubmissionReview struct {
	ID           uint   `gorm:"primaryKey"`
	Kind         string `gorm:"not null;index:idx_submission_reviews_subject"`
	SubmissionID uint   `gorm:"not null;index:idx_submission_reviews_subject"`
	FromStatus   string `gorm:"not null"`
	ToStatus     string `gorm:"not null"`
	ReviewerID   string `gorm:"not null"`
	Comment      string
	Points       int

	CreatedAt time.Time
}

// Decision is one status change together with its ledger and feed effects.
// Everything in it is applied in a single transaction or not at all.
type Decision struct {
	SubmissionID uint
	FromStatus   string
	ToStatus     string
	ReviewerID   string
	Comment      string
	Points       int
	DecidedAt    time.Time

	Score       *ScoreEntry
	RemoveScore bool
	Post        *FeedPost
}

type DecisionResult struct {
	ScoreRowsRemoved int64
	Post             *FeedPost
}

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

func (d *LedgerDAO) ApplyAchievementDecision(ctx context.Context, dec Decision) (DecisionResult, error) {
	res := DecisionResult{}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":           dec.ToStatus,
			"reviewer_id":      dec.ReviewerID,
			"reviewer_comment": dec.Comment,
		}
		switch dec.ToStatus {
		case statusApproved:
			updates["points_awarded"] = dec.Points
			updates["reviewed_at"] = dec.DecidedAt
		case statusRevoked:
			updates["revoked_at"] = dec.DecidedAt
		default:
			updates["reviewed_at"] = dec.DecidedAt
		}

		if err := conditionalStatusUpdate(tx, &Submission{}, dec, updates); err != nil {
			return err
		}

		if dec.Score != nil {
			if err := tx.Create(dec.Score).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrScoreEntryExists
				}

				return err
			}
		}

		if dec.RemoveScore {
			deleted := tx.Where("submission_id = ?", dec.SubmissionID).Delete(&ScoreEntry{})
			if deleted.Error != nil {
				return deleted.Error
			}
			res.ScoreRowsRemoved = deleted.RowsAffected
		}

		return recordDecision(tx, reviewKindAchievement, dec, &res)
	})
	if err != nil {
		return DecisionResult{}, err
	}

	return res, nil
}

// ApplyTeamDecision is the scavenger variant. Team scores are derived from
// points_awarded on approved rows, so there is no score entry to maintain.
func (d *LedgerDAO) ApplyTeamDecision(ctx context.Context, dec Decision) (DecisionResult, error) {
	res := DecisionResult{}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":        dec.ToStatus,
			"judge_id":      dec.ReviewerID,
			"judge_comment": dec.Comment,
			"reviewed_at":   dec.DecidedAt,
		}
		if dec.ToStatus == statusApproved {
			updates["points_awarded"] = dec.Points
		}

		if err := conditionalStatusUpdate(tx, &TeamSubmission{}, dec, updates); err != nil {
			return err
		}

		return recordDecision(tx, reviewKindTeamTask, dec, &res)
	})
	if err != nil {
		return DecisionResult{}, err
	}

	return res, nil
}

// conditionalStatusUpdate only succeeds while the row still has the status
// the caller observed. Concurrent reviewers lose here with zero rows.
func conditionalStatusUpdate(tx *gorm.DB, model any, dec Decision, updates map[string]any) error {
	result := tx.Model(model).
		Where("id = ? AND status = ?", dec.SubmissionID, dec.FromStatus).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionAlreadyDecided
	}

	return nil
}

func recordDecision(tx *gorm.DB, kind string, dec Decision, res *DecisionResult) error {
	if dec.Post != nil {
		post := *dec.Post
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		res.Post = &post
	}

	return tx.Create(&SubmissionReview{
		Kind:         kind,
		SubmissionID: dec.SubmissionID,
		FromStatus:   dec.FromStatus,
		ToStatus:     dec.ToStatus,
		ReviewerID:   dec.ReviewerID,
		Comment:      dec.Comment,
		Points:       dec.Points,
		CreatedAt:    dec.DecidedAt,
	}).Error
}

func (d *LedgerDAO) InsertBonusGrant(ctx context.Context, grant BonusGrant, post FeedPost) (BonusGrant, FeedPost, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&grant).Error; err != nil {
			return err
		}

		return tx.Create(&post).Error
	})
	if err != nil {
		return BonusGrant{}, FeedPost{}, err
	}

	return grant, post, nil
}

func (d *LedgerDAO) ListBonusGrants(ctx context.Context, userID string) ([]BonusGrant, error) {
	var grants []BonusGrant
	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("granted_at DESC, id DESC").Find(&grants)
	if result.Error != nil {
		return nil, result.Error
	}

	return grants, nil
}

func (d *LedgerDAO) ListReviews(ctx context.Context, kind string, submissionID uint) ([]SubmissionReview, error) {
	var reviews []SubmissionReview
	result := d.db.WithContext(ctx).
		Where("kind = ? AND submission_id = ?", kind, submissionID).
		Order("id ASC").
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// ApprovedWithoutScore finds approved achievement submissions missing their ledger row.
func (d *LedgerDAO) ApprovedWithoutScore(ctx context.Context) ([]uint, error) {
	var ids []uint
	result := d.db.WithContext(ctx).
		Table("submissions AS s").
		Select("s.id").
		Joins("LEFT JOIN score_entries AS e ON e.submission_id = s.id").
		Where("s.status = ? AND e.id IS NULL", statusApproved).
		Order("s.id").
		Scan(&ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

// OrphanScoreEntries finds ledger rows whose submission is gone or not approved.
func (d *LedgerDAO) OrphanScoreEntries(ctx context.Context) ([]uint, error) {
	var ids []uint
	result := d.db.WithContext(ctx).
		Table("score_entries AS e").
		Select("e.id").
		Joins("LEFT JOIN submissions AS s ON s.id = e.submission_id").
		Where("s.id IS NULL OR s.status <> ?", statusApproved).
		Order("e.id").
		Scan(&ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}
