package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	eventHidden  = "hidden"
	eventWaiting = "waiting"
	eventOngoing = "ongoing"
	eventDone    = "done"
)

type ScavengerEvent struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;index"`
	StartsAt    *time.Time
	EndsAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ScavengerTask struct {
	ID          uint   `gorm:"primaryKey"`
	EventID     uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Points      int `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Team struct {
	ID      uint         `gorm:"primaryKey"`
	EventID uint         `gorm:"not null;index"`
	Name    string       `gorm:"not null"`
	Members []TeamMember `gorm:"foreignKey:TeamID"`

	CreatedAt time.Time
}

// TeamMember rows are unique per event, so a user sits on one team per hunt.
type TeamMember struct {
	ID      uint   `gorm:"primaryKey"`
	TeamID  uint   `gorm:"not null;index"`
	EventID uint   `gorm:"not null;uniqueIndex:idx_team_members_event_user"`
	UserID  string `gorm:"not null;uniqueIndex:idx_team_members_event_user"`

	CreatedAt time.Time
}

// TeamSubmission is stored in team_task_status: one row per attempt at a task.
type TeamSubmission struct {
	ID            uint          `gorm:"primaryKey"`
	TeamID        uint          `gorm:"not null;index"`
	TaskID        uint          `gorm:"not null;index"`
	Task          ScavengerTask `gorm:"foreignKey:TaskID"`
	SubmittedBy   string        `gorm:"not null"`
	Text          string
	MediaURLs     []string `gorm:"type:text;serializer:json"`
	Status        string   `gorm:"not null;index"`
	JudgeID       *string
	JudgeComment  string
	PointsAwarded *int

	CreatedAt  time.Time
	ReviewedAt *time.Time
}

func (TeamSubmission) TableName() string {
	return "team_task_status"
}

type TeamSubmissionFilter struct {
	TeamID  uint
	EventID uint
	Status  string
}

type ScavengerDAO struct {
	db *gorm.DB
}

func NewScavengerDAO(db *gorm.DB) *ScavengerDAO {
	return &ScavengerDAO{
		db: db,
	}
}

func (d *ScavengerDAO) InsertEvent(ctx context.Context, event ScavengerEvent) (ScavengerEvent, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return ScavengerEvent{}, result.Error
	}

	return event, nil
}

func (d *ScavengerDAO) FindEventByID(ctx context.Context, id uint) (ScavengerEvent, error) {
	event := ScavengerEvent{}
	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ScavengerEvent{}, ErrEventNotFound
		}

		return ScavengerEvent{}, result.Error
	}

	return event, nil
}

func (d *ScavengerDAO) ListEvents(ctx context.Context, includeHidden bool) ([]ScavengerEvent, error) {
	query := d.db.WithContext(ctx).Order("id DESC")
	if !includeHidden {
		query = query.Where("status <> ?", eventHidden)
	}

	var events []ScavengerEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

// UpdateEventStatus is conditional on the status the caller observed.
func (d *ScavengerDAO) UpdateEventStatus(ctx context.Context, id uint, from, to string) (ScavengerEvent, error) {
	result := d.db.WithContext(ctx).
		Model(&ScavengerEvent{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return ScavengerEvent{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ScavengerEvent{}, ErrEventStatusConflict
	}

	return d.FindEventByID(ctx, id)
}

// AdvanceScheduledEvents starts waiting events whose start time has passed and
// closes ongoing events whose end time has passed.
func (d *ScavengerDAO) AdvanceScheduledEvents(ctx context.Context, now time.Time) (started, ended int64, err error) {
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ScavengerEvent{}).
			Where("status = ? AND starts_at IS NOT NULL AND starts_at <= ?", eventWaiting, now).
			Updates(map[string]any{"status": eventOngoing, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		started = res.RowsAffected

		res = tx.Model(&ScavengerEvent{}).
			Where("status = ? AND ends_at IS NOT NULL AND ends_at <= ?", eventOngoing, now).
			Updates(map[string]any{"status": eventDone, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		ended = res.RowsAffected

		return nil
	})

	return started, ended, err
}

func (d *ScavengerDAO) InsertTask(ctx context.Context, task ScavengerTask) (ScavengerTask, error) {
	result := d.db.WithContext(ctx).Create(&task)
	if result.Error != nil {
		return ScavengerTask{}, result.Error
	}

	return task, nil
}

func (d *ScavengerDAO) FindTaskByID(ctx context.Context, id uint) (ScavengerTask, error) {
	task := ScavengerTask{}
	result := d.db.WithContext(ctx).First(&task, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ScavengerTask{}, ErrTaskNotFound
		}

		return ScavengerTask{}, result.Error
	}

	return task, nil
}

func (d *ScavengerDAO) ListTasks(ctx context.Context, eventID uint) ([]ScavengerTask, error) {
	var tasks []ScavengerTask
	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id ASC").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}

	return tasks, nil
}

func (d *ScavengerDAO) InsertTeam(ctx context.Context, team Team) (Team, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&team)
	if result.Error != nil {
		return Team{}, result.Error
	}

	return d.FindTeamByID(ctx, team.ID)
}

func (d *ScavengerDAO) FindTeamByID(ctx context.Context, id uint) (Team, error) {
	team := Team{}
	result := d.db.WithContext(ctx).Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&team, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *ScavengerDAO) FindTeamForUser(ctx context.Context, eventID uint, userID string) (Team, error) {
	member := TeamMember{}
	result := d.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}

		return Team{}, result.Error
	}

	return d.FindTeamByID(ctx, member.TeamID)
}

func (d *ScavengerDAO) InsertMember(ctx context.Context, member TeamMember) error {
	result := d.db.WithContext(ctx).Create(&member)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrTeamMemberExists
		}

		return result.Error
	}

	return nil
}

func (d *ScavengerDAO) DeleteMember(ctx context.Context, teamID uint, userID string) error {
	result := d.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&TeamMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamMemberNotFound
	}

	return nil
}

// InsertSubmission relies on idx_team_task_status_open_claim the same way
// SubmissionDAO.Insert relies on the achievement index.
func (d *ScavengerDAO) InsertSubmission(ctx context.Context, submission TeamSubmission) (TeamSubmission, error) {
	submission.Status = statusPending
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&submission)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return TeamSubmission{}, d.openClaimErr(ctx, submission.TeamID, submission.TaskID)
		}

		return TeamSubmission{}, result.Error
	}

	return d.FindSubmissionByID(ctx, submission.ID)
}

func (d *ScavengerDAO) openClaimErr(ctx context.Context, teamID, taskID uint) error {
	existing := TeamSubmission{}
	err := d.db.WithContext(ctx).
		Where("team_id = ? AND task_id = ? AND status IN ?", teamID, taskID, []string{statusPending, statusApproved}).
		First(&existing).Error
	if err == nil && existing.Status == statusApproved {
		return ErrApprovedSubmissionExists
	}

	return ErrPendingSubmissionExists
}

func (d *ScavengerDAO) FindSubmissionByID(ctx context.Context, id uint) (TeamSubmission, error) {
	submission := TeamSubmission{}
	result := d.db.WithContext(ctx).Preload("Task").First(&submission, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TeamSubmission{}, ErrSubmissionNotFound
		}

		return TeamSubmission{}, result.Error
	}

	return submission, nil
}

func (d *ScavengerDAO) ListSubmissions(ctx context.Context, filter TeamSubmissionFilter) ([]TeamSubmission, error) {
	query := d.db.WithContext(ctx).
		Select("team_task_status.*").
		Preload("Task").
		Order("team_task_status.id ASC")
	if filter.TeamID != 0 {
		query = query.Where("team_task_status.team_id = ?", filter.TeamID)
	}
	if filter.Status != "" {
		query = query.Where("team_task_status.status = ?", filter.Status)
	}
	if filter.EventID != 0 {
		query = query.Joins("JOIN scavenger_tasks ON scavenger_tasks.id = team_task_status.task_id").
			Where("scavenger_tasks.event_id = ?", filter.EventID)
	}

	var submissions []TeamSubmission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
