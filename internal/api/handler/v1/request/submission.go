package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateSubmissionRequest struct {
	Text      string   `json:"text"`
	MediaURLs []string `json:"media_urls"`
}

func (req *CreateSubmissionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Text, validation.Length(0, 2000)),
		validation.Field(&req.MediaURLs, validation.Length(0, maxMediaURLs), mediaURLs),
	)
}

// DecisionRequest is the body of approve, reject and revoke. Points is only
// read on approve, where it overrides the configured value.
type DecisionRequest struct {
	Comment string `json:"comment"`
	Points  *int   `json:"points,omitempty"`
}

func (req *DecisionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Comment, validation.Length(0, 1000)),
		validation.Field(&req.Points, validation.Min(0)),
	)
}
