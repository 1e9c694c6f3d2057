package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/repository"
)

type LedgerRepository interface {
	ApplyAchievementDecision(ctx context.Context, dec domain.Decision) (domain.DecisionOutcome, error)
	ApplyTeamDecision(ctx context.Context, dec domain.Decision) (domain.DecisionOutcome, error)
	CreateBonusGrant(ctx context.Context, grant domain.BonusGrant, post domain.FeedPost) (domain.BonusGrant, domain.FeedPost, error)
	ListBonusGrants(ctx context.Context, userID string) ([]domain.BonusGrant, error)
	ListReviews(ctx context.Context, kind string, submissionID uint) ([]domain.SubmissionReview, error)
	ApprovedWithoutScore(ctx context.Context) ([]uint, error)
	OrphanScoreEntries(ctx context.Context) ([]uint, error)
}

type SubmissionReader interface {
	FindByID(ctx context.Context, id uint) (domain.Submission, error)
}

type TeamSubmissionReader interface {
	FindSubmissionByID(ctx context.Context, id uint) (domain.TeamSubmission, error)
	FindTeamByID(ctx context.Context, id uint) (domain.Team, error)
}

type LeaderboardInvalidator interface {
	InvalidateLeaderboards(ctx context.Context)
}

// ReviewService turns reviewer decisions into atomic ledger writes.
// Status, score entry, feed post and audit row commit together or not at all.
type ReviewService struct {
	submissions SubmissionReader
	teams       TeamSubmissionReader
	ledger      LedgerRepository
	users       UserRepository
	announcer   *FeedAnnouncer
	scores      LeaderboardInvalidator
	timeout     time.Duration
	now         func() time.Time
}

func NewReviewService(
	submissions SubmissionReader,
	teams TeamSubmissionReader,
	ledger LedgerRepository,
	users UserRepository,
	announcer *FeedAnnouncer,
	scores LeaderboardInvalidator,
	timeout time.Duration,
) *ReviewService {
	return &ReviewService{
		submissions: submissions,
		teams:       teams,
		ledger:      ledger,
		users:       users,
		announcer:   announcer,
		scores:      scores,
		timeout:     timeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Approve moves a pending submission to approved and records its score.
// points overrides the achievement's value when set.
func (s *ReviewService) Approve(ctx context.Context, caller domain.Caller, submissionID uint, comment string, points *int) (domain.Submission, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.Submission{}, err
	}
	if points != nil && *points < 0 {
		return domain.Submission{}, ErrInvalidPoints
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sub, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.submissions.FindByID -> %w", unavailable(err))
	}
	if !domain.CanTransition(sub.Status, domain.StatusApproved) {
		return domain.Submission{}, ErrAlreadyDecided
	}

	awarded := sub.Achievement.Points
	if points != nil {
		awarded = *points
	}
	comment = sanitizeOptional(comment)
	now := s.now()

	name, err := displayName(ctx, s.users, sub.UserID)
	if err != nil {
		return domain.Submission{}, err
	}
	post := s.announcer.Approval(sub, name, awarded, comment)
	dec := domain.Decision{
		SubmissionID: sub.ID,
		From:         sub.Status,
		To:           domain.StatusApproved,
		ReviewerID:   caller.UserID,
		Comment:      comment,
		Points:       awarded,
		DecidedAt:    now,
		Score: &domain.ScoreEntry{
			UserID:        sub.UserID,
			EventType:     domain.ScoreEventAchievement,
			AchievementID: sub.AchievementID,
			SubmissionID:  sub.ID,
			Points:        awarded,
		},
		Post: &post,
	}

	if _, err := s.ledger.ApplyAchievementDecision(ctx, dec); err != nil {
		return domain.Submission{}, fmt.Errorf("s.ledger.ApplyAchievementDecision -> %w", decisionErr(err))
	}
	s.scores.InvalidateLeaderboards(ctx)

	zap.L().Info("submission approved",
		zap.Uint("submission_id", sub.ID),
		zap.String("user_id", sub.UserID),
		zap.String("reviewer_id", caller.UserID),
		zap.Int("points", awarded),
	)

	sub.Status = domain.StatusApproved
	sub.ReviewerID = caller.UserID
	sub.ReviewerComment = comment
	sub.PointsAwarded = &awarded
	sub.ReviewedAt = &now

	return sub, nil
}

// Reject is overloaded on the current status: a pending submission is
// rejected silently, an approved one is revoked.
func (s *ReviewService) Reject(ctx context.Context, caller domain.Caller, submissionID uint, comment string) (domain.Submission, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.Submission{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sub, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.submissions.FindByID -> %w", unavailable(err))
	}

	target, err := domain.RejectionTarget(sub.Status)
	if err != nil {
		return domain.Submission{}, ErrAlreadyDecided
	}
	if target == domain.StatusRevoked {
		return s.revoke(ctx, caller, sub, comment)
	}

	comment = sanitizeOptional(comment)
	now := s.now()
	dec := domain.Decision{
		SubmissionID: sub.ID,
		From:         sub.Status,
		To:           domain.StatusRejected,
		ReviewerID:   caller.UserID,
		Comment:      comment,
		DecidedAt:    now,
	}
	if _, err := s.ledger.ApplyAchievementDecision(ctx, dec); err != nil {
		return domain.Submission{}, fmt.Errorf("s.ledger.ApplyAchievementDecision -> %w", decisionErr(err))
	}

	zap.L().Info("submission rejected",
		zap.Uint("submission_id", sub.ID),
		zap.String("reviewer_id", caller.UserID),
	)

	sub.Status = domain.StatusRejected
	sub.ReviewerID = caller.UserID
	sub.ReviewerComment = comment
	sub.ReviewedAt = &now

	return sub, nil
}

// Revoke only accepts approved submissions.
func (s *ReviewService) Revoke(ctx context.Context, caller domain.Caller, submissionID uint, comment string) (domain.Submission, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.Submission{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sub, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.submissions.FindByID -> %w", unavailable(err))
	}
	if !domain.CanTransition(sub.Status, domain.StatusRevoked) {
		return domain.Submission{}, ErrAlreadyDecided
	}

	return s.revoke(ctx, caller, sub, comment)
}

func (s *ReviewService) revoke(ctx context.Context, caller domain.Caller, sub domain.Submission, comment string) (domain.Submission, error) {
	comment = sanitizeOptional(comment)
	now := s.now()

	name, err := displayName(ctx, s.users, sub.UserID)
	if err != nil {
		return domain.Submission{}, err
	}
	post := s.announcer.Revocation(sub, name, comment)
	dec := domain.Decision{
		SubmissionID: sub.ID,
		From:         sub.Status,
		To:           domain.StatusRevoked,
		ReviewerID:   caller.UserID,
		Comment:      comment,
		DecidedAt:    now,
		RemoveScore:  true,
		Post:         &post,
	}

	outcome, err := s.ledger.ApplyAchievementDecision(ctx, dec)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.ledger.ApplyAchievementDecision -> %w", decisionErr(err))
	}
	s.scores.InvalidateLeaderboards(ctx)

	if outcome.ScoreRowsRemoved != 1 {
		zap.L().Error("ledger consistency violation: revoked submission had unexpected score rows",
			zap.Uint("submission_id", sub.ID),
			zap.Int64("rows_removed", outcome.ScoreRowsRemoved),
		)
	}
	zap.L().Info("submission revoked",
		zap.Uint("submission_id", sub.ID),
		zap.String("user_id", sub.UserID),
		zap.String("reviewer_id", caller.UserID),
	)

	sub.Status = domain.StatusRevoked
	sub.ReviewerID = caller.UserID
	sub.ReviewerComment = comment
	sub.RevokedAt = &now

	return sub, nil
}

// ApproveTeamSubmission awards a team task. points overrides the task value when set.
func (s *ReviewService) ApproveTeamSubmission(ctx context.Context, caller domain.Caller, submissionID uint, comment string, points *int) (domain.TeamSubmission, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.TeamSubmission{}, err
	}
	if points != nil && *points < 0 {
		return domain.TeamSubmission{}, ErrInvalidPoints
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sub, team, err := s.loadTeamSubmission(ctx, submissionID)
	if err != nil {
		return domain.TeamSubmission{}, err
	}
	if !domain.CanTransition(sub.Status, domain.StatusApproved) {
		return domain.TeamSubmission{}, ErrAlreadyDecided
	}

	awarded := sub.Task.Points
	if points != nil {
		awarded = *points
	}
	comment = sanitizeOptional(comment)
	now := s.now()

	post := s.announcer.TeamApproval(sub, team, awarded, caller.UserID, comment)
	dec := domain.Decision{
		SubmissionID: sub.ID,
		From:         sub.Status,
		To:           domain.StatusApproved,
		ReviewerID:   caller.UserID,
		Comment:      comment,
		Points:       awarded,
		DecidedAt:    now,
		Post:         &post,
	}
	if _, err := s.ledger.ApplyTeamDecision(ctx, dec); err != nil {
		return domain.TeamSubmission{}, fmt.Errorf("s.ledger.ApplyTeamDecision -> %w", decisionErr(err))
	}
	s.scores.InvalidateLeaderboards(ctx)

	zap.L().Info("team task approved",
		zap.Uint("submission_id", sub.ID),
		zap.Uint("team_id", team.ID),
		zap.Int("points", awarded),
	)

	sub.Status = domain.StatusApproved
	sub.JudgeID = caller.UserID
	sub.JudgeComment = comment
	sub.PointsAwarded = &awarded
	sub.ReviewedAt = &now

	return sub, nil
}

// RejectTeamSubmission rejects a pending team submission or revokes an
// approved one. Both leave a notice on the team's feed.
func (s *ReviewService) RejectTeamSubmission(ctx context.Context, caller domain.Caller, submissionID uint, comment string) (domain.TeamSubmission, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.TeamSubmission{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sub, team, err := s.loadTeamSubmission(ctx, submissionID)
	if err != nil {
		return domain.TeamSubmission{}, err
	}

	target, err := domain.RejectionTarget(sub.Status)
	if err != nil {
		return domain.TeamSubmission{}, ErrAlreadyDecided
	}

	comment = sanitizeOptional(comment)
	now := s.now()

	var post domain.FeedPost
	if target == domain.StatusRevoked {
		post = s.announcer.TeamRevocation(sub, team, caller.UserID, comment)
	} else {
		post = s.announcer.TeamRejection(sub, team, caller.UserID, comment)
	}

	dec := domain.Decision{
		SubmissionID: sub.ID,
		From:         sub.Status,
		To:           target,
		ReviewerID:   caller.UserID,
		Comment:      comment,
		DecidedAt:    now,
		Post:         &post,
	}
	if _, err := s.ledger.ApplyTeamDecision(ctx, dec); err != nil {
		return domain.TeamSubmission{}, fmt.Errorf("s.ledger.ApplyTeamDecision -> %w", decisionErr(err))
	}
	s.scores.InvalidateLeaderboards(ctx)

	zap.L().Info("team task rejected",
		zap.Uint("submission_id", sub.ID),
		zap.Uint("team_id", team.ID),
		zap.String("status", string(target)),
	)

	sub.Status = target
	sub.JudgeID = caller.UserID
	sub.JudgeComment = comment
	sub.ReviewedAt = &now

	return sub, nil
}

// History returns the audit trail of one submission.
func (s *ReviewService) History(ctx context.Context, caller domain.Caller, kind string, submissionID uint) ([]domain.SubmissionReview, error) {
	if err := requireReviewer(caller); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	reviews, err := s.ledger.ListReviews(ctx, kind, submissionID)
	if err != nil {
		return nil, fmt.Errorf("s.ledger.ListReviews -> %w", unavailable(err))
	}

	return reviews, nil
}

func (s *ReviewService) loadTeamSubmission(ctx context.Context, id uint) (domain.TeamSubmission, domain.Team, error) {
	sub, err := s.teams.FindSubmissionByID(ctx, id)
	if err != nil {
		return domain.TeamSubmission{}, domain.Team{}, fmt.Errorf("s.teams.FindSubmissionByID -> %w", unavailable(err))
	}

	team, err := s.teams.FindTeamByID(ctx, sub.TeamID)
	if err != nil {
		return domain.TeamSubmission{}, domain.Team{}, fmt.Errorf("s.teams.FindTeamByID -> %w", unavailable(err))
	}

	return sub, team, nil
}

// decisionErr folds a lost race on the score entry into ErrAlreadyDecided.
func decisionErr(err error) error {
	if errors.Is(err, repository.ErrScoreEntryExists) {
		return fmt.Errorf("%w: %w", ErrAlreadyDecided, err)
	}

	return unavailable(err)
}
