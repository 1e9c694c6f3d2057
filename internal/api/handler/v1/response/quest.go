package response

import (
	"github.com/questboard/questboard-api/internal/domain"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// MeResponse is the caller's own profile header.
type MeResponse struct {
	User        domain.User `json:"user"`
	TotalPoints int         `json:"total_points"`
}

type TeamScoreResponse struct {
	TeamID      uint `json:"team_id"`
	TotalPoints int  `json:"total_points"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
