package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/repository/dao"
)

var (
	ErrEventNotFound       = dao.ErrEventNotFound
	ErrEventStatusConflict = dao.ErrEventStatusConflict
	ErrTaskNotFound        = dao.ErrTaskNotFound
	ErrTeamNotFound        = dao.ErrTeamNotFound
	ErrTeamMemberExists    = dao.ErrTeamMemberExists
	ErrTeamMemberNotFound  = dao.ErrTeamMemberNotFound
)

type ScavengerDAO interface {
	InsertEvent(ctx context.Context, event dao.ScavengerEvent) (dao.ScavengerEvent, error)
	FindEventByID(ctx context.Context, id uint) (dao.ScavengerEvent, error)
	ListEvents(ctx context.Context, includeHidden bool) ([]dao.ScavengerEvent, error)
	UpdateEventStatus(ctx context.Context, id uint, from, to string) (dao.ScavengerEvent, error)
	AdvanceScheduledEvents(ctx context.Context, now time.Time) (int64, int64, error)
	InsertTask(ctx context.Context, task dao.ScavengerTask) (dao.ScavengerTask, error)
	FindTaskByID(ctx context.Context, id uint) (dao.ScavengerTask, error)
	ListTasks(ctx context.Context, eventID uint) ([]dao.ScavengerTask, error)
	InsertTeam(ctx context.Context, team dao.Team) (dao.Team, error)
	FindTeamByID(ctx context.Context, id uint) (dao.Team, error)
	FindTeamForUser(ctx context.Context, eventID uint, userID string) (dao.Team, error)
	InsertMember(ctx context.Context, member dao.TeamMember) error
	DeleteMember(ctx context.Context, teamID uint, userID string) error
	InsertSubmission(ctx context.Context, submission dao.TeamSubmission) (dao.TeamSubmission, error)
	FindSubmissionByID(ctx context.Context, id uint) (dao.TeamSubmission, error)
	ListSubmissions(ctx context.Context, filter dao.TeamSubmissionFilter) ([]dao.TeamSubmission, error)
}

type ScavengerRepository struct {
	dao ScavengerDAO
}

func NewScavengerRepository(dao ScavengerDAO) *ScavengerRepository {
	return &ScavengerRepository{
		dao: dao,
	}
}

func (r *ScavengerRepository) CreateEvent(ctx context.Context, event domain.ScavengerEvent) (domain.ScavengerEvent, error) {
	created, err := r.dao.InsertEvent(ctx, dao.ScavengerEvent{
		Name:        event.Name,
		Description: event.Description,
		Status:      string(event.Status),
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
	})
	if err != nil {
		return domain.ScavengerEvent{}, fmt.Errorf("r.dao.InsertEvent -> %w", err)
	}

	return eventToDomain(created), nil
}

func (r *ScavengerRepository) FindEventByID(ctx context.Context, id uint) (domain.ScavengerEvent, error) {
	found, err := r.dao.FindEventByID(ctx, id)
	if err != nil {
		return domain.ScavengerEvent{}, fmt.Errorf("r.dao.FindEventByID -> %w", err)
	}

	return eventToDomain(found), nil
}

func (r *ScavengerRepository) ListEvents(ctx context.Context, includeHidden bool) ([]domain.ScavengerEvent, error) {
	found, err := r.dao.ListEvents(ctx, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListEvents -> %w", err)
	}

	events := make([]domain.ScavengerEvent, len(found))
	for i, e := range found {
		events[i] = eventToDomain(e)
	}

	return events, nil
}

func (r *ScavengerRepository) UpdateEventStatus(ctx context.Context, id uint, from, to domain.EventStatus) (domain.ScavengerEvent, error) {
	updated, err := r.dao.UpdateEventStatus(ctx, id, string(from), string(to))
	if err != nil {
		return domain.ScavengerEvent{}, fmt.Errorf("r.dao.UpdateEventStatus -> %w", err)
	}

	return eventToDomain(updated), nil
}

func (r *ScavengerRepository) AdvanceScheduledEvents(ctx context.Context, now time.Time) (int64, int64, error) {
	started, ended, err := r.dao.AdvanceScheduledEvents(ctx, now)
	if err != nil {
		return 0, 0, fmt.Errorf("r.dao.AdvanceScheduledEvents -> %w", err)
	}

	return started, ended, nil
}

func (r *ScavengerRepository) CreateTask(ctx context.Context, task domain.ScavengerTask) (domain.ScavengerTask, error) {
	created, err := r.dao.InsertTask(ctx, dao.ScavengerTask{
		EventID:     task.EventID,
		Title:       task.Title,
		Description: task.Description,
		Points:      task.Points,
	})
	if err != nil {
		return domain.ScavengerTask{}, fmt.Errorf("r.dao.InsertTask -> %w", err)
	}

	return taskToDomain(created), nil
}

func (r *ScavengerRepository) FindTaskByID(ctx context.Context, id uint) (domain.ScavengerTask, error) {
	found, err := r.dao.FindTaskByID(ctx, id)
	if err != nil {
		return domain.ScavengerTask{}, fmt.Errorf("r.dao.FindTaskByID -> %w", err)
	}

	return taskToDomain(found), nil
}

func (r *ScavengerRepository) ListTasks(ctx context.Context, eventID uint) ([]domain.ScavengerTask, error) {
	found, err := r.dao.ListTasks(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListTasks -> %w", err)
	}

	tasks := make([]domain.ScavengerTask, len(found))
	for i, t := range found {
		tasks[i] = taskToDomain(t)
	}

	return tasks, nil
}

func (r *ScavengerRepository) CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error) {
	created, err := r.dao.InsertTeam(ctx, dao.Team{
		EventID: team.EventID,
		Name:    team.Name,
	})
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.InsertTeam -> %w", err)
	}

	return teamToDomain(created), nil
}

func (r *ScavengerRepository) FindTeamByID(ctx context.Context, id uint) (domain.Team, error) {
	found, err := r.dao.FindTeamByID(ctx, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindTeamByID -> %w", err)
	}

	return teamToDomain(found), nil
}

func (r *ScavengerRepository) FindTeamForUser(ctx context.Context, eventID uint, userID string) (domain.Team, error) {
	found, err := r.dao.FindTeamForUser(ctx, eventID, userID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindTeamForUser -> %w", err)
	}

	return teamToDomain(found), nil
}

func (r *ScavengerRepository) AddMember(ctx context.Context, team domain.Team, userID string) error {
	err := r.dao.InsertMember(ctx, dao.TeamMember{
		TeamID:  team.ID,
		EventID: team.EventID,
		UserID:  userID,
	})
	if err != nil {
		return fmt.Errorf("r.dao.InsertMember -> %w", err)
	}

	return nil
}

func (r *ScavengerRepository) RemoveMember(ctx context.Context, teamID uint, userID string) error {
	if err := r.dao.DeleteMember(ctx, teamID, userID); err != nil {
		return fmt.Errorf("r.dao.DeleteMember -> %w", err)
	}

	return nil
}

func (r *ScavengerRepository) CreateSubmission(ctx context.Context, submission domain.TeamSubmission) (domain.TeamSubmission, error) {
	created, err := r.dao.InsertSubmission(ctx, dao.TeamSubmission{
		TeamID:      submission.TeamID,
		TaskID:      submission.TaskID,
		SubmittedBy: submission.SubmittedBy,
		Text:        submission.Text,
		MediaURLs:   submission.MediaURLs,
	})
	if err != nil {
		return domain.TeamSubmission{}, fmt.Errorf("r.dao.InsertSubmission -> %w", err)
	}

	return teamSubmissionToDomain(created), nil
}

func (r *ScavengerRepository) FindSubmissionByID(ctx context.Context, id uint) (domain.TeamSubmission, error) {
	found, err := r.dao.FindSubmissionByID(ctx, id)
	if err != nil {
		return domain.TeamSubmission{}, fmt.Errorf("r.dao.FindSubmissionByID -> %w", err)
	}

	return teamSubmissionToDomain(found), nil
}

func (r *ScavengerRepository) ListSubmissions(ctx context.Context, teamID, eventID uint, status domain.SubmissionStatus) ([]domain.TeamSubmission, error) {
	found, err := r.dao.ListSubmissions(ctx, dao.TeamSubmissionFilter{
		TeamID:  teamID,
		EventID: eventID,
		Status:  string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListSubmissions -> %w", err)
	}

	submissions := make([]domain.TeamSubmission, len(found))
	for i, s := range found {
		submissions[i] = teamSubmissionToDomain(s)
	}

	return submissions, nil
}

func eventToDomain(e dao.ScavengerEvent) domain.ScavengerEvent {
	return domain.ScavengerEvent{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Status:      domain.EventStatus(e.Status),
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func taskToDomain(t dao.ScavengerTask) domain.ScavengerTask {
	return domain.ScavengerTask{
		ID:          t.ID,
		EventID:     t.EventID,
		Title:       t.Title,
		Description: t.Description,
		Points:      t.Points,
		CreatedAt:   t.CreatedAt,
	}
}

func teamToDomain(t dao.Team) domain.Team {
	members := make([]string, len(t.Members))
	for i, m := range t.Members {
		members[i] = m.UserID
	}

	return domain.Team{
		ID:        t.ID,
		EventID:   t.EventID,
		Name:      t.Name,
		Members:   members,
		CreatedAt: t.CreatedAt,
	}
}

func teamSubmissionToDomain(s dao.TeamSubmission) domain.TeamSubmission {
	media := s.MediaURLs
	if media == nil {
		media = []string{}
	}

	return domain.TeamSubmission{
		ID:            s.ID,
		TeamID:        s.TeamID,
		TaskID:        s.TaskID,
		Task:          taskToDomain(s.Task),
		SubmittedBy:   s.SubmittedBy,
		Text:          s.Text,
		MediaURLs:     media,
		Status:        domain.SubmissionStatus(s.Status),
		JudgeID:       deref(s.JudgeID),
		JudgeComment:  s.JudgeComment,
		PointsAwarded: s.PointsAwarded,
		CreatedAt:     s.CreatedAt,
		ReviewedAt:    s.ReviewedAt,
	}
}
