package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	errEndsBeforeStart = errors.New("ends_at must be after starts_at")
	eventStatuses      = []interface{}{"hidden", "waiting", "ongoing", "done"}
)

type CreateEventRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Status, validation.In(eventStatuses...)),
	)
	if err != nil {
		return err
	}

	if req.StartsAt != nil && req.EndsAt != nil && !req.EndsAt.After(*req.StartsAt) {
		return errEndsBeforeStart
	}

	return nil
}

type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (req *UpdateEventStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(eventStatuses...)),
	)
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

func (req *CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Points, validation.Min(0)),
	)
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

func (req *CreateTeamRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (req *AddMemberRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
	)
}
