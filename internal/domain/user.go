package domain

import (
	"strings"
	"time"
)

// UnknownDisplayName is shown when the identity mirror has no usable name.
const UnknownDisplayName = "Unknown User"

type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	IsReviewer  bool      `json:"is_reviewer"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u User) Name() string {
	if strings.TrimSpace(u.DisplayName) == "" {
		return UnknownDisplayName
	}

	return u.DisplayName
}

// Caller is the identity every core operation acts on behalf of.
type Caller struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	IsReviewer  bool   `json:"is_reviewer"`
}

func (c Caller) Authenticated() bool {
	return c.UserID != ""
}
