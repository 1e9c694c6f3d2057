package repository

import (
	"context"
	"fmt"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/repository/dao"
)

var (
	ErrFeedPostNotFound = dao.ErrFeedPostNotFound
)

type FeedDAO interface {
	Insert(ctx context.Context, post dao.FeedPost) (dao.FeedPost, error)
	FindByID(ctx context.Context, id uint) (dao.FeedPost, error)
	List(ctx context.Context, filter dao.FeedFilter) ([]dao.FeedPost, error)
	ListBySubmission(ctx context.Context, submissionID uint) ([]dao.FeedPost, error)
	InsertComment(ctx context.Context, comment dao.FeedComment) (dao.FeedComment, error)
	ListComments(ctx context.Context, postID uint) ([]dao.FeedComment, error)
}

type FeedRepository struct {
	dao FeedDAO
}

func NewFeedRepository(dao FeedDAO) *FeedRepository {
	return &FeedRepository{
		dao: dao,
	}
}

func (r *FeedRepository) Create(ctx context.Context, post domain.FeedPost) (domain.FeedPost, error) {
	created, err := r.dao.Insert(ctx, feedPostToDAO(post))
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return feedPostToDomain(created), nil
}

func (r *FeedRepository) FindByID(ctx context.Context, id uint) (domain.FeedPost, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return feedPostToDomain(found), nil
}

func (r *FeedRepository) List(ctx context.Context, teamID *uint, before uint, limit int) ([]domain.FeedPost, error) {
	found, err := r.dao.List(ctx, dao.FeedFilter{TeamID: teamID, Before: before, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return feedPostsToDomain(found), nil
}

func (r *FeedRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]domain.FeedPost, error) {
	found, err := r.dao.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListBySubmission -> %w", err)
	}

	return feedPostsToDomain(found), nil
}

func (r *FeedRepository) CreateComment(ctx context.Context, comment domain.FeedComment) (domain.FeedComment, error) {
	created, err := r.dao.InsertComment(ctx, dao.FeedComment{
		PostID:     comment.PostID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		MediaURLs:  comment.MediaURLs,
	})
	if err != nil {
		return domain.FeedComment{}, fmt.Errorf("r.dao.InsertComment -> %w", err)
	}

	return feedCommentToDomain(created), nil
}

func (r *FeedRepository) ListComments(ctx context.Context, postID uint) ([]domain.FeedComment, error) {
	found, err := r.dao.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListComments -> %w", err)
	}

	comments := make([]domain.FeedComment, len(found))
	for i, c := range found {
		comments[i] = feedCommentToDomain(c)
	}

	return comments, nil
}

func feedPostsToDomain(found []dao.FeedPost) []domain.FeedPost {
	posts := make([]domain.FeedPost, len(found))
	for i, p := range found {
		posts[i] = feedPostToDomain(p)
	}

	return posts
}

func feedPostToDAO(p domain.FeedPost) dao.FeedPost {
	return dao.FeedPost{
		ID:             p.ID,
		AuthorID:       p.AuthorID,
		AuthorName:     p.AuthorName,
		Content:        p.Content,
		MediaURLs:      p.MediaURLs,
		EventType:      string(p.EventType),
		IsAnnouncement: p.IsAnnouncement,
		TeamID:         p.TeamID,
		SubmissionID:   p.SubmissionID,
		CreatedAt:      p.CreatedAt,
	}
}

func feedPostToDomain(p dao.FeedPost) domain.FeedPost {
	media := p.MediaURLs
	if media == nil {
		media = []string{}
	}

	return domain.FeedPost{
		ID:             p.ID,
		AuthorID:       p.AuthorID,
		AuthorName:     p.AuthorName,
		Content:        p.Content,
		MediaURLs:      media,
		EventType:      domain.FeedEventType(p.EventType),
		IsAnnouncement: p.IsAnnouncement,
		TeamID:         p.TeamID,
		SubmissionID:   p.SubmissionID,
		CommentCount:   p.CommentCount,
		CreatedAt:      p.CreatedAt,
	}
}

func feedCommentToDomain(c dao.FeedComment) domain.FeedComment {
	media := c.MediaURLs
	if media == nil {
		media = []string{}
	}

	return domain.FeedComment{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		MediaURLs:  media,
		CreatedAt:  c.CreatedAt,
	}
}
