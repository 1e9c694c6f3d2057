package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/pkg/sanitize"
)

var ErrEventNotOngoing = errors.New("scavenger event is not running")

const (
	defaultSubmissionLimit = 50
	maxSubmissionLimit     = 200
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission domain.Submission) (domain.Submission, error)
	FindByID(ctx context.Context, id uint) (domain.Submission, error)
	List(ctx context.Context, status domain.SubmissionStatus, userID string, limit, offset int) ([]domain.Submission, error)
}

type AchievementReader interface {
	FindByID(ctx context.Context, id uint) (domain.Achievement, error)
}

// SubmissionService accepts claims. It never scores them; that is the
// reviewer's decision.
type SubmissionService struct {
	repo         SubmissionRepository
	achievements AchievementReader
	scavenger    ScavengerRepository
	timeout      time.Duration
}

func NewSubmissionService(repo SubmissionRepository, achievements AchievementReader, scavenger ScavengerRepository, timeout time.Duration) *SubmissionService {
	return &SubmissionService{
		repo:         repo,
		achievements: achievements,
		scavenger:    scavenger,
		timeout:      timeout,
	}
}

// CreateSubmission files a pending claim. The open-claim unique index decides
// duplicates, so two concurrent calls cannot both succeed.
func (s *SubmissionService) CreateSubmission(ctx context.Context, caller domain.Caller, achievementID uint, text string, mediaURLs []string) (domain.Submission, error) {
	if !caller.Authenticated() {
		return domain.Submission{}, ErrUnauthenticated
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	achievement, err := s.achievements.FindByID(ctx, achievementID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.achievements.FindByID -> %w", unavailable(err))
	}

	created, err := s.repo.Create(ctx, domain.Submission{
		UserID:        caller.UserID,
		AchievementID: achievement.ID,
		Text:          sanitizeOptional(text),
		MediaURLs:     copyMedia(mediaURLs),
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.repo.Create -> %w", unavailable(err))
	}

	return created, nil
}

// CreateTeamSubmission files a claim for the caller's team. The caller must
// be on a team in the task's event and the event must be running.
func (s *SubmissionService) CreateTeamSubmission(ctx context.Context, caller domain.Caller, taskID uint, text string, mediaURLs []string) (domain.TeamSubmission, error) {
	if !caller.Authenticated() {
		return domain.TeamSubmission{}, ErrUnauthenticated
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	task, err := s.scavenger.FindTaskByID(ctx, taskID)
	if err != nil {
		return domain.TeamSubmission{}, fmt.Errorf("s.scavenger.FindTaskByID -> %w", unavailable(err))
	}

	event, err := s.scavenger.FindEventByID(ctx, task.EventID)
	if err != nil {
		return domain.TeamSubmission{}, fmt.Errorf("s.scavenger.FindEventByID -> %w", unavailable(err))
	}
	if event.Status != domain.EventOngoing {
		return domain.TeamSubmission{}, ErrEventNotOngoing
	}

	team, err := s.scavenger.FindTeamForUser(ctx, event.ID, caller.UserID)
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return domain.TeamSubmission{}, ErrUnauthorized
		}

		return domain.TeamSubmission{}, fmt.Errorf("s.scavenger.FindTeamForUser -> %w", unavailable(err))
	}

	created, err := s.scavenger.CreateSubmission(ctx, domain.TeamSubmission{
		TeamID:      team.ID,
		TaskID:      task.ID,
		SubmittedBy: caller.UserID,
		Text:        sanitizeOptional(text),
		MediaURLs:   copyMedia(mediaURLs),
	})
	if err != nil {
		return domain.TeamSubmission{}, fmt.Errorf("s.scavenger.CreateSubmission -> %w", unavailable(err))
	}

	return created, nil
}

// GetSubmission is visible to its submitter and to reviewers.
func (s *SubmissionService) GetSubmission(ctx context.Context, caller domain.Caller, id uint) (domain.Submission, error) {
	if !caller.Authenticated() {
		return domain.Submission{}, ErrUnauthenticated
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.repo.FindByID -> %w", unavailable(err))
	}
	if !caller.IsReviewer && sub.UserID != caller.UserID {
		return domain.Submission{}, ErrUnauthorized
	}

	return sub, nil
}

// ListSubmissions is the reviewer queue. An empty status lists everything.
func (s *SubmissionService) ListSubmissions(ctx context.Context, caller domain.Caller, status domain.SubmissionStatus, limit, offset int) ([]domain.Submission, error) {
	if err := requireReviewer(caller); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	subs, err := s.repo.List(ctx, status, "", clampLimit(limit, defaultSubmissionLimit, maxSubmissionLimit), max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", unavailable(err))
	}

	return subs, nil
}

func (s *SubmissionService) ListUserSubmissions(ctx context.Context, userID string) ([]domain.Submission, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	subs, err := s.repo.List(ctx, "", userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", unavailable(err))
	}

	return subs, nil
}

// ListTeamSubmissions is open to the team's members and to reviewers.
func (s *SubmissionService) ListTeamSubmissions(ctx context.Context, caller domain.Caller, teamID uint) ([]domain.TeamSubmission, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	team, err := s.scavenger.FindTeamByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("s.scavenger.FindTeamByID -> %w", unavailable(err))
	}
	if !caller.IsReviewer && !team.HasMember(caller.UserID) {
		return nil, ErrUnauthorized
	}

	subs, err := s.scavenger.ListSubmissions(ctx, team.ID, 0, "")
	if err != nil {
		return nil, fmt.Errorf("s.scavenger.ListSubmissions -> %w", unavailable(err))
	}

	return subs, nil
}

// ListTeamQueue is the judges' view across teams, optionally narrowed to one event.
func (s *SubmissionService) ListTeamQueue(ctx context.Context, caller domain.Caller, eventID uint, status domain.SubmissionStatus) ([]domain.TeamSubmission, error) {
	if err := requireReviewer(caller); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	subs, err := s.scavenger.ListSubmissions(ctx, 0, eventID, status)
	if err != nil {
		return nil, fmt.Errorf("s.scavenger.ListSubmissions -> %w", unavailable(err))
	}

	return subs, nil
}

func sanitizeOptional(s string) string {
	return sanitize.Text(s)
}
