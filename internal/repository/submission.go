package repository

import (
	"context"
	"fmt"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/repository/dao"
)

var (
	ErrSubmissionNotFound         = dao.ErrSubmissionNotFound
	ErrDuplicatePendingSubmission = dao.ErrPendingSubmissionExists
	ErrAlreadyApproved            = dao.ErrApprovedSubmissionExists
)

type SubmissionDAO interface {
	Insert(ctx context.Context, submission dao.Submission) (dao.Submission, error)
	FindByID(ctx context.Context, id uint) (dao.Submission, error)
	List(ctx context.Context, filter dao.SubmissionFilter) ([]dao.Submission, error)
}

type SubmissionRepository struct {
	dao SubmissionDAO
}

func NewSubmissionRepository(dao SubmissionDAO) *SubmissionRepository {
	return &SubmissionRepository{
		dao: dao,
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission domain.Submission) (domain.Submission, error) {
	created, err := r.dao.Insert(ctx, dao.Submission{
		UserID:        submission.UserID,
		AchievementID: submission.AchievementID,
		Text:          submission.Text,
		MediaURLs:     submission.MediaURLs,
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return submissionToDomain(created), nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id uint) (domain.Submission, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return submissionToDomain(found), nil
}

func (r *SubmissionRepository) List(ctx context.Context, status domain.SubmissionStatus, userID string, limit, offset int) ([]domain.Submission, error) {
	found, err := r.dao.List(ctx, dao.SubmissionFilter{
		Status: string(status),
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	submissions := make([]domain.Submission, len(found))
	for i, s := range found {
		submissions[i] = submissionToDomain(s)
	}

	return submissions, nil
}

func submissionToDomain(s dao.Submission) domain.Submission {
	media := s.MediaURLs
	if media == nil {
		media = []string{}
	}

	return domain.Submission{
		ID:              s.ID,
		UserID:          s.UserID,
		AchievementID:   s.AchievementID,
		Achievement:     achievementToDomain(s.Achievement),
		Text:            s.Text,
		MediaURLs:       media,
		Status:          domain.SubmissionStatus(s.Status),
		ReviewerID:      deref(s.ReviewerID),
		ReviewerComment: s.ReviewerComment,
		PointsAwarded:   s.PointsAwarded,
		CreatedAt:       s.CreatedAt,
		ReviewedAt:      s.ReviewedAt,
		RevokedAt:       s.RevokedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
