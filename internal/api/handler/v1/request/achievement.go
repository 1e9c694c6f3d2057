package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AchievementRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Points      int      `json:"points"`
	Images      []string `json:"images"`
}

func (req *AchievementRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Points, validation.Min(0)),
		validation.Field(&req.Images, validation.Length(0, maxMediaURLs), mediaURLs),
	)
}
