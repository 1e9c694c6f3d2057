package domain

import (
	"fmt"
	"time"
)

const (
	ScoreEventAchievement = "Achievement"
	ScoreEventBonus       = "Bonus Points"
)

type ScoreEntry struct {
	ID            uint      `json:"id"`
	UserID        string    `json:"user_id"`
	EventType     string    `json:"event_type"`
	AchievementID uint      `json:"achievement_id"`
	SubmissionID  uint      `json:"submission_id"`
	Points        int       `json:"points"`
	CreatedAt     time.Time `json:"created_at"`
}

type BonusGrant struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"user_id"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	ProofURL  string    `json:"proof_url,omitempty"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Total       int    `json:"total"`
}

type TeamStanding struct {
	Rank   int    `json:"rank"`
	TeamID uint   `json:"team_id"`
	Name   string `json:"name"`
	Total  int    `json:"total"`
}

// ScoreBreakdown is the per-user history shown on a profile page.
type ScoreBreakdown struct {
	UserID       string          `json:"user_id"`
	Total        int             `json:"total"`
	Achievements []BreakdownItem `json:"achievements"`
	Bonuses      []BonusGrant    `json:"bonuses"`
}

type BreakdownItem struct {
	SubmissionID  uint             `json:"submission_id"`
	AchievementID uint             `json:"achievement_id"`
	Title         string           `json:"title"`
	Status        SubmissionStatus `json:"status"`
	Points        int              `json:"points"`
	Label         string           `json:"label"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
}

// BreakdownLabel renders the short badge next to a profile entry.
func BreakdownLabel(status SubmissionStatus, points int) string {
	if status == StatusApproved {
		return fmt.Sprintf("+%d points", points)
	}

	return "❌ Revoked"
}
