package repository

import (
	"context"
	"fmt"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/repository/dao"
)

var (
	ErrAlreadyDecided   = dao.ErrSubmissionAlreadyDecided
	ErrScoreEntryExists = dao.ErrScoreEntryExists
)

type LedgerDAO interface {
	ApplyAchievementDecision(ctx context.Context, dec dao.Decision) (dao.DecisionResult, error)
	ApplyTeamDecision(ctx context.Context, dec dao.Decision) (dao.DecisionResult, error)
	InsertBonusGrant(ctx context.Context, grant dao.BonusGrant, post dao.FeedPost) (dao.BonusGrant, dao.FeedPost, error)
	ListBonusGrants(ctx context.Context, userID string) ([]dao.BonusGrant, error)
	ListReviews(ctx context.Context, kind string, submissionID uint) ([]dao.SubmissionReview, error)
	ApprovedWithoutScore(ctx context.Context) ([]uint, error)
	OrphanScoreEntries(ctx context.Context) ([]uint, error)
}

// LedgerRepository is the only writer of submission status and score entries.
type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) ApplyAchievementDecision(ctx context.Context, dec domain.Decision) (domain.DecisionOutcome, error) {
	res, err := r.dao.ApplyAchievementDecision(ctx, decisionToDAO(dec))
	if err != nil {
		return domain.DecisionOutcome{}, fmt.Errorf("r.dao.ApplyAchievementDecision -> %w", err)
	}

	return outcomeToDomain(res), nil
}

func (r *LedgerRepository) ApplyTeamDecision(ctx context.Context, dec domain.Decision) (domain.DecisionOutcome, error) {
	res, err := r.dao.ApplyTeamDecision(ctx, decisionToDAO(dec))
	if err != nil {
		return domain.DecisionOutcome{}, fmt.Errorf("r.dao.ApplyTeamDecision -> %w", err)
	}

	return outcomeToDomain(res), nil
}

func (r *LedgerRepository) CreateBonusGrant(ctx context.Context, grant domain.BonusGrant, post domain.FeedPost) (domain.BonusGrant, domain.FeedPost, error) {
	savedGrant, savedPost, err := r.dao.InsertBonusGrant(ctx, dao.BonusGrant{
		UserID:    grant.UserID,
		Points:    grant.Points,
		Reason:    grant.Reason,
		ProofURL:  grant.ProofURL,
		GrantedBy: grant.GrantedBy,
		GrantedAt: grant.GrantedAt,
	}, feedPostToDAO(post))
	if err != nil {
		return domain.BonusGrant{}, domain.FeedPost{}, fmt.Errorf("r.dao.InsertBonusGrant -> %w", err)
	}

	return bonusGrantToDomain(savedGrant), feedPostToDomain(savedPost), nil
}

func (r *LedgerRepository) ListBonusGrants(ctx context.Context, userID string) ([]domain.BonusGrant, error) {
	found, err := r.dao.ListBonusGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListBonusGrants -> %w", err)
	}

	grants := make([]domain.BonusGrant, len(found))
	for i, g := range found {
		grants[i] = bonusGrantToDomain(g)
	}

	return grants, nil
}

func (r *LedgerRepository) ListReviews(ctx context.Context, kind string, submissionID uint) ([]domain.SubmissionReview, error) {
	found, err := r.dao.ListReviews(ctx, kind, submissionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListReviews -> %w", err)
	}

	reviews := make([]domain.SubmissionReview, len(found))
	for i, rv := range found {
		reviews[i] = domain.SubmissionReview{
			ID:           rv.ID,
			Kind:         rv.Kind,
			SubmissionID: rv.SubmissionID,
			FromStatus:   domain.SubmissionStatus(rv.FromStatus),
			ToStatus:     domain.SubmissionStatus(rv.ToStatus),
			ReviewerID:   rv.ReviewerID,
			Comment:      rv.Comment,
			Points:       rv.Points,
			CreatedAt:    rv.CreatedAt,
		}
	}

	return reviews, nil
}

func (r *LedgerRepository) ApprovedWithoutScore(ctx context.Context) ([]uint, error) {
	ids, err := r.dao.ApprovedWithoutScore(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ApprovedWithoutScore -> %w", err)
	}

	return ids, nil
}

func (r *LedgerRepository) OrphanScoreEntries(ctx context.Context) ([]uint, error) {
	ids, err := r.dao.OrphanScoreEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.OrphanScoreEntries -> %w", err)
	}

	return ids, nil
}

func decisionToDAO(dec domain.Decision) dao.Decision {
	out := dao.Decision{
		SubmissionID: dec.SubmissionID,
		FromStatus:   string(dec.From),
		ToStatus:     string(dec.To),
		ReviewerID:   dec.ReviewerID,
		Comment:      dec.Comment,
		Points:       dec.Points,
		DecidedAt:    dec.DecidedAt,
		RemoveScore:  dec.RemoveScore,
	}
	if dec.Score != nil {
		out.Score = &dao.ScoreEntry{
			UserID:        dec.Score.UserID,
			EventType:     dec.Score.EventType,
			AchievementID: dec.Score.AchievementID,
			SubmissionID:  dec.Score.SubmissionID,
			Points:        dec.Score.Points,
			CreatedAt:     dec.DecidedAt,
		}
	}
	if dec.Post != nil {
		post := feedPostToDAO(*dec.Post)
		post.CreatedAt = dec.DecidedAt
		out.Post = &post
	}

	return out
}

func outcomeToDomain(res dao.DecisionResult) domain.DecisionOutcome {
	out := domain.DecisionOutcome{ScoreRowsRemoved: res.ScoreRowsRemoved}
	if res.Post != nil {
		post := feedPostToDomain(*res.Post)
		out.Post = &post
	}

	return out
}

func bonusGrantToDomain(g dao.BonusGrant) domain.BonusGrant {
	return domain.BonusGrant{
		ID:        g.ID,
		UserID:    g.UserID,
		Points:    g.Points,
		Reason:    g.Reason,
		ProofURL:  g.ProofURL,
		GrantedBy: g.GrantedBy,
		GrantedAt: g.GrantedAt,
	}
}
