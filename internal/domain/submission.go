package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownStatus     = errors.New("unknown submission status")
	ErrInvalidTransition = errors.New("invalid submission status transition")
)

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
	// StatusRevoked is an approval that was later reversed. It is terminal
	// and carries no score.
	StatusRevoked SubmissionStatus = "revoked"
)

// transitions lists every allowed status change. Anything missing is refused.
var transitions = map[SubmissionStatus][]SubmissionStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusRevoked},
}

func ParseSubmissionStatus(s string) (SubmissionStatus, error) {
	status := SubmissionStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}

	return status, nil
}

func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusRevoked:
		return true
	}

	return false
}

// IsTerminal reports whether no further transition is possible.
func (s SubmissionStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsRejected is true for both plain rejections and revocations.
func (s SubmissionStatus) IsRejected() bool {
	return s == StatusRejected || s == StatusRevoked
}

// IsOpen reports whether the status blocks a new submission for the same claim.
func (s SubmissionStatus) IsOpen() bool {
	return s == StatusPending || s == StatusApproved
}

func CanTransition(from, to SubmissionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// RejectionTarget resolves the overloaded reject decision: a pending
// submission becomes rejected, an approved one becomes revoked.
func RejectionTarget(from SubmissionStatus) (SubmissionStatus, error) {
	switch from {
	case StatusPending:
		return StatusRejected, nil
	case StatusApproved:
		return StatusRevoked, nil
	}

	return "", fmt.Errorf("%w: %s cannot be rejected", ErrInvalidTransition, from)
}

type Submission struct {
	ID              uint             `json:"id"`
	UserID          string           `json:"user_id"`
	AchievementID   uint             `json:"achievement_id"`
	Achievement     Achievement      `json:"achievement"`
	Text            string           `json:"text"`
	MediaURLs       []string         `json:"media_urls"`
	Status          SubmissionStatus `json:"status"`
	ReviewerID      string           `json:"reviewer_id,omitempty"`
	ReviewerComment string           `json:"reviewer_comment,omitempty"`
	PointsAwarded   *int             `json:"points_awarded,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	RevokedAt       *time.Time       `json:"revoked_at,omitempty"`
}

type TeamSubmission struct {
	ID            uint             `json:"id"`
	TeamID        uint             `json:"team_id"`
	TaskID        uint             `json:"task_id"`
	Task          ScavengerTask    `json:"task"`
	SubmittedBy   string           `json:"submitted_by"`
	Text          string           `json:"text"`
	MediaURLs     []string         `json:"media_urls"`
	Status        SubmissionStatus `json:"status"`
	JudgeID       string           `json:"judge_id,omitempty"`
	JudgeComment  string           `json:"judge_comment,omitempty"`
	PointsAwarded *int             `json:"points_awarded,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
}

// SubmissionReview is the audit record of one status change.
type SubmissionReview struct {
	ID           uint             `json:"id"`
	Kind         string           `json:"kind"`
	SubmissionID uint             `json:"submission_id"`
	FromStatus   SubmissionStatus `json:"from_status"`
	ToStatus     SubmissionStatus `json:"to_status"`
	ReviewerID   string           `json:"reviewer_id"`
	Comment      string           `json:"comment"`
	Points       int              `json:"points"`
	CreatedAt    time.Time        `json:"created_at"`
}

const (
	ReviewKindAchievement = "achievement"
	ReviewKindTeamTask    = "team_task"
)
