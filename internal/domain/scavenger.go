package domain

import (
	"fmt"
	"time"
)

type EventStatus string

const (
	EventHidden  EventStatus = "hidden"
	EventWaiting EventStatus = "waiting"
	EventOngoing EventStatus = "ongoing"
	EventDone    EventStatus = "done"
)

var eventOrder = map[EventStatus]int{
	EventHidden:  0,
	EventWaiting: 1,
	EventOngoing: 2,
	EventDone:    3,
}

func ParseEventStatus(s string) (EventStatus, error) {
	status := EventStatus(s)
	if _, ok := eventOrder[status]; !ok {
		return "", fmt.Errorf("unknown event status %q", s)
	}

	return status, nil
}

// CanAdvanceTo allows forward moves only; an event never reopens.
func (s EventStatus) CanAdvanceTo(next EventStatus) bool {
	from, ok := eventOrder[s]
	if !ok {
		return false
	}
	to, ok := eventOrder[next]
	if !ok {
		return false
	}

	return to > from
}

type ScavengerEvent struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      EventStatus `json:"status"`
	StartsAt    *time.Time  `json:"starts_at,omitempty"`
	EndsAt      *time.Time  `json:"ends_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type ScavengerTask struct {
	ID          uint      `json:"id"`
	EventID     uint      `json:"event_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

type Team struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

func (t Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}

	return false
}

// TeamTaskProgress is derived from the team's latest submission for a task.
type TeamTaskProgress struct {
	TaskID        uint             `json:"task_id"`
	Title         string           `json:"title"`
	Points        int              `json:"points"`
	SubmissionID  *uint            `json:"submission_id,omitempty"`
	Status        SubmissionStatus `json:"status,omitempty"`
	Completed     bool             `json:"completed"`
	Reviewed      bool             `json:"reviewed"`
	Approved      bool             `json:"approved"`
	JudgeComment  string           `json:"judge_comment,omitempty"`
	PointsAwarded *int             `json:"points_awarded,omitempty"`
}

// ProgressFor builds the markers for one task from its latest submission, if any.
func ProgressFor(task ScavengerTask, latest *TeamSubmission) TeamTaskProgress {
	p := TeamTaskProgress{
		TaskID: task.ID,
		Title:  task.Title,
		Points: task.Points,
	}
	if latest == nil {
		return p
	}

	id := latest.ID
	p.SubmissionID = &id
	p.Status = latest.Status
	p.Completed = true
	p.Reviewed = latest.Status != StatusPending
	p.Approved = latest.Status == StatusApproved
	p.JudgeComment = latest.JudgeComment
	p.PointsAwarded = latest.PointsAwarded

	return p
}
