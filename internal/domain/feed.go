package domain

import "time"

type FeedEventType string

const (
	FeedEventPost                FeedEventType = "post"
	FeedEventAnnouncement        FeedEventType = "announcement"
	FeedEventAchievementApproved FeedEventType = "achievement_approved"
	FeedEventAchievementRevoked  FeedEventType = "achievement_revoked"
	FeedEventBonusGranted        FeedEventType = "bonus_granted"
	FeedEventTaskApproved        FeedEventType = "task_approved"
	FeedEventTaskRejected        FeedEventType = "task_rejected"
	FeedEventTaskRevoked         FeedEventType = "task_revoked"
)

// FeedPost is write-once. TeamID nil means the global feed.
type FeedPost struct {
	ID             uint          `json:"id"`
	AuthorID       string        `json:"author_id,omitempty"`
	AuthorName     string        `json:"author_name"`
	Content        string        `json:"content"`
	MediaURLs      []string      `json:"media_urls"`
	EventType      FeedEventType `json:"event_type"`
	IsAnnouncement bool          `json:"is_announcement"`
	TeamID         *uint         `json:"team_id,omitempty"`
	SubmissionID   *uint         `json:"submission_id,omitempty"`
	CommentCount   int           `json:"comment_count"`
	CreatedAt      time.Time     `json:"created_at"`
}

// FeedComment hangs off a post and shares its visibility.
type FeedComment struct {
	ID         uint      `json:"id"`
	PostID     uint      `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	MediaURLs  []string  `json:"media_urls"`
	CreatedAt  time.Time `json:"created_at"`
}
