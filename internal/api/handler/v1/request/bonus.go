package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type GrantBonusRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Points   int    `json:"points" binding:"required"`
	Reason   string `json:"reason"`
	ProofURL string `json:"proof_url"`
}

func (req *GrantBonusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Points, validation.Required, validation.Min(1)),
		validation.Field(&req.Reason, validation.Length(0, 1000)),
		validation.Field(&req.ProofURL, is.RequestURL, httpScheme),
	)
}
