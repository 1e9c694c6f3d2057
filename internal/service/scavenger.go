package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/questboard/questboard-api/internal/domain"
)

var ErrInvalidEventTransition = errors.New("scavenger events only move forward")

type ScavengerRepository interface {
	CreateEvent(ctx context.Context, event domain.ScavengerEvent) (domain.ScavengerEvent, error)
	FindEventByID(ctx context.Context, id uint) (domain.ScavengerEvent, error)
	ListEvents(ctx context.Context, includeHidden bool) ([]domain.ScavengerEvent, error)
	UpdateEventStatus(ctx context.Context, id uint, from, to domain.EventStatus) (domain.ScavengerEvent, error)
	AdvanceScheduledEvents(ctx context.Context, now time.Time) (int64, int64, error)
	CreateTask(ctx context.Context, task domain.ScavengerTask) (domain.ScavengerTask, error)
	FindTaskByID(ctx context.Context, id uint) (domain.ScavengerTask, error)
	ListTasks(ctx context.Context, eventID uint) ([]domain.ScavengerTask, error)
	CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error)
	FindTeamByID(ctx context.Context, id uint) (domain.Team, error)
	FindTeamForUser(ctx context.Context, eventID uint, userID string) (domain.Team, error)
	AddMember(ctx context.Context, team domain.Team, userID string) error
	RemoveMember(ctx context.Context, teamID uint, userID string) error
	CreateSubmission(ctx context.Context, submission domain.TeamSubmission) (domain.TeamSubmission, error)
	FindSubmissionByID(ctx context.Context, id uint) (domain.TeamSubmission, error)
	ListSubmissions(ctx context.Context, teamID, eventID uint, status domain.SubmissionStatus) ([]domain.TeamSubmission, error)
}

type ScavengerService struct {
	repo    ScavengerRepository
	timeout time.Duration
}

func NewScavengerService(repo ScavengerRepository, timeout time.Duration) *ScavengerService {
	return &ScavengerService{
		repo:    repo,
		timeout: timeout,
	}
}

// CreateEvent starts every event hidden unless a later status is given.
func (s *ScavengerService) CreateEvent(ctx context.Context, caller domain.Caller, event domain.ScavengerEvent) (domain.ScavengerEvent, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.ScavengerEvent{}, err
	}
	if event.Status == "" {
		event.Status = domain.EventHidden
	}
	if _, err := domain.ParseEventStatus(string(event.Status)); err != nil {
		return domain.ScavengerEvent{}, fmt.Errorf("%w: %w", ErrInvalidEventTransition, err)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return domain.ScavengerEvent{}, fmt.Errorf("s.repo.CreateEvent -> %w", unavailable(err))
	}

	return created, nil
}

func (s *ScavengerService) UpdateEventStatus(ctx context.Context, caller domain.Caller, eventID uint, to domain.EventStatus) (domain.ScavengerEvent, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.ScavengerEvent{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	event, err := s.repo.FindEventByID(ctx, eventID)
	if err != nil {
		return domain.ScavengerEvent{}, fmt.Errorf("s.repo.FindEventByID -> %w", unavailable(err))
	}
	if !event.Status.CanAdvanceTo(to) {
		return domain.ScavengerEvent{}, ErrInvalidEventTransition
	}

	updated, err := s.repo.UpdateEventStatus(ctx, event.ID, event.Status, to)
	if err != nil {
		return domain.ScavengerEvent{}, fmt.Errorf("s.repo.UpdateEventStatus -> %w", unavailable(err))
	}

	zap.L().Info("scavenger event status changed",
		zap.Uint("event_id", event.ID),
		zap.String("from", string(event.Status)),
		zap.String("to", string(to)),
	)

	return updated, nil
}

// ListEvents hides events still in preparation from everyone but reviewers.
func (s *ScavengerService) ListEvents(ctx context.Context, caller domain.Caller) ([]domain.ScavengerEvent, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	events, err := s.repo.ListEvents(ctx, caller.IsReviewer)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListEvents -> %w", unavailable(err))
	}

	return events, nil
}

// AdvanceSchedule is run by the scheduler.
func (s *ScavengerService) AdvanceSchedule(ctx context.Context, now time.Time) (started, ended int64, err error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	started, ended, err = s.repo.AdvanceScheduledEvents(ctx, now)
	if err != nil {
		return 0, 0, fmt.Errorf("s.repo.AdvanceScheduledEvents -> %w", unavailable(err))
	}

	return started, ended, nil
}

func (s *ScavengerService) CreateTask(ctx context.Context, caller domain.Caller, task domain.ScavengerTask) (domain.ScavengerTask, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.ScavengerTask{}, err
	}
	if task.Points < 0 {
		return domain.ScavengerTask{}, ErrInvalidPoints
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.repo.FindEventByID(ctx, task.EventID); err != nil {
		return domain.ScavengerTask{}, fmt.Errorf("s.repo.FindEventByID -> %w", unavailable(err))
	}

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return domain.ScavengerTask{}, fmt.Errorf("s.repo.CreateTask -> %w", unavailable(err))
	}

	return created, nil
}

func (s *ScavengerService) ListTasks(ctx context.Context, caller domain.Caller, eventID uint) ([]domain.ScavengerTask, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.visibleEvent(ctx, caller, eventID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasks(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListTasks -> %w", unavailable(err))
	}

	return tasks, nil
}

func (s *ScavengerService) CreateTeam(ctx context.Context, caller domain.Caller, eventID uint, name string) (domain.Team, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.Team{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.repo.FindEventByID(ctx, eventID); err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.FindEventByID -> %w", unavailable(err))
	}

	team, err := s.repo.CreateTeam(ctx, domain.Team{EventID: eventID, Name: sanitizeOptional(name)})
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.CreateTeam -> %w", unavailable(err))
	}

	return team, nil
}

// AddTeamMember puts userID on the team. A user sits on one team per event.
func (s *ScavengerService) AddTeamMember(ctx context.Context, caller domain.Caller, teamID uint, userID string) (domain.Team, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.Team{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	team, err := s.repo.FindTeamByID(ctx, teamID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.FindTeamByID -> %w", unavailable(err))
	}

	if err := s.repo.AddMember(ctx, team, userID); err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.AddMember -> %w", unavailable(err))
	}

	return s.getTeam(ctx, teamID)
}

func (s *ScavengerService) RemoveTeamMember(ctx context.Context, caller domain.Caller, teamID uint, userID string) (domain.Team, error) {
	if err := requireReviewer(caller); err != nil {
		return domain.Team{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.RemoveMember(ctx, teamID, userID); err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.RemoveMember -> %w", unavailable(err))
	}

	return s.getTeam(ctx, teamID)
}

func (s *ScavengerService) GetTeam(ctx context.Context, teamID uint) (domain.Team, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.getTeam(ctx, teamID)
}

func (s *ScavengerService) MyTeam(ctx context.Context, caller domain.Caller, eventID uint) (domain.Team, error) {
	if !caller.Authenticated() {
		return domain.Team{}, ErrUnauthenticated
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	team, err := s.repo.FindTeamForUser(ctx, eventID, caller.UserID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.FindTeamForUser -> %w", unavailable(err))
	}

	return team, nil
}

// TeamProgress derives per-task markers from the team's latest submission
// for each task of its event.
func (s *ScavengerService) TeamProgress(ctx context.Context, teamID uint) ([]domain.TeamTaskProgress, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasks(ctx, team.EventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListTasks -> %w", unavailable(err))
	}

	subs, err := s.repo.ListSubmissions(ctx, team.ID, 0, "")
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListSubmissions -> %w", unavailable(err))
	}

	// Submissions come back in id order, so the last one per task wins.
	latest := make(map[uint]domain.TeamSubmission, len(subs))
	for _, sub := range subs {
		latest[sub.TaskID] = sub
	}

	progress := make([]domain.TeamTaskProgress, len(tasks))
	for i, task := range tasks {
		if sub, ok := latest[task.ID]; ok {
			progress[i] = domain.ProgressFor(task, &sub)
			continue
		}
		progress[i] = domain.ProgressFor(task, nil)
	}

	return progress, nil
}

func (s *ScavengerService) getTeam(ctx context.Context, teamID uint) (domain.Team, error) {
	team, err := s.repo.FindTeamByID(ctx, teamID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.FindTeamByID -> %w", unavailable(err))
	}

	return team, nil
}

// visibleEvent reports hidden events as missing to non-reviewers.
func (s *ScavengerService) visibleEvent(ctx context.Context, caller domain.Caller, eventID uint) (domain.ScavengerEvent, error) {
	event, err := s.repo.FindEventByID(ctx, eventID)
	if err != nil {
		return domain.ScavengerEvent{}, fmt.Errorf("s.repo.FindEventByID -> %w", unavailable(err))
	}
	if event.Status == domain.EventHidden && !caller.IsReviewer {
		return domain.ScavengerEvent{}, ErrEventNotFound
	}

	return event, nil
}
