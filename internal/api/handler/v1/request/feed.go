package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errEmptyPost = errors.New("a post needs content or media")

type CreatePostRequest struct {
	Content        string   `json:"content"`
	MediaURLs      []string `json:"media_urls"`
	IsAnnouncement bool     `json:"is_announcement"`
}

func (req *CreatePostRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Content, validation.Length(0, 5000)),
		validation.Field(&req.MediaURLs, validation.Length(0, maxMediaURLs), mediaURLs),
	)
	if err != nil {
		return err
	}

	if req.Content == "" && len(req.MediaURLs) == 0 {
		return errEmptyPost
	}

	return nil
}

type CreateCommentRequest struct {
	Content   string   `json:"content"`
	MediaURLs []string `json:"media_urls"`
}

func (req *CreateCommentRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Content, validation.Length(0, 2000)),
		validation.Field(&req.MediaURLs, validation.Length(0, maxMediaURLs), mediaURLs),
	)
	if err != nil {
		return err
	}

	if req.Content == "" && len(req.MediaURLs) == 0 {
		return errEmptyPost
	}

	return nil
}
