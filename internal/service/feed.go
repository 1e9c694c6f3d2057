package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/pkg/sanitize"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

var ErrEmptyPost = errors.New("post has no content")

type FeedRepository interface {
	Create(ctx context.Context, post domain.FeedPost) (domain.FeedPost, error)
	List(ctx context.Context, teamID *uint, before uint, limit int) ([]domain.FeedPost, error)
	ListBySubmission(ctx context.Context, submissionID uint) ([]domain.FeedPost, error)
	FindByID(ctx context.Context, id uint) (domain.FeedPost, error)
	CreateComment(ctx context.Context, comment domain.FeedComment) (domain.FeedComment, error)
	ListComments(ctx context.Context, postID uint) ([]domain.FeedComment, error)
}

type TeamLookup interface {
	FindTeamByID(ctx context.Context, id uint) (domain.Team, error)
}

// FeedService handles posts written by people. Decision posts are written by
// the ledger together with the decision and never pass through here.
type FeedService struct {
	repo    FeedRepository
	teams   TeamLookup
	timeout time.Duration
}

func NewFeedService(repo FeedRepository, teams TeamLookup, timeout time.Duration) *FeedService {
	return &FeedService{
		repo:    repo,
		teams:   teams,
		timeout: timeout,
	}
}

func (s *FeedService) CreatePost(ctx context.Context, caller domain.Caller, content string, mediaURLs []string, announcement bool) (domain.FeedPost, error) {
	if !caller.Authenticated() {
		return domain.FeedPost{}, ErrUnauthenticated
	}
	if announcement && !caller.IsReviewer {
		return domain.FeedPost{}, ErrUnauthorized
	}

	post, err := buildPost(caller, content, mediaURLs)
	if err != nil {
		return domain.FeedPost{}, err
	}
	post.IsAnnouncement = announcement
	if announcement {
		post.EventType = domain.FeedEventAnnouncement
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("s.repo.Create -> %w", unavailable(err))
	}

	return created, nil
}

func (s *FeedService) CreateTeamPost(ctx context.Context, caller domain.Caller, teamID uint, content string, mediaURLs []string) (domain.FeedPost, error) {
	if !caller.Authenticated() {
		return domain.FeedPost{}, ErrUnauthenticated
	}

	post, err := buildPost(caller, content, mediaURLs)
	if err != nil {
		return domain.FeedPost{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	team, err := s.teams.FindTeamByID(ctx, teamID)
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("s.teams.FindTeamByID -> %w", unavailable(err))
	}
	if !team.HasMember(caller.UserID) {
		return domain.FeedPost{}, ErrUnauthorized
	}
	post.TeamID = &team.ID

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("s.repo.Create -> %w", unavailable(err))
	}

	return created, nil
}

// ListFeed returns global posts newest first. before is an exclusive id cursor; 0 starts at the top.
func (s *FeedService) ListFeed(ctx context.Context, before uint, limit int) ([]domain.FeedPost, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	posts, err := s.repo.List(ctx, nil, before, clampLimit(limit, defaultFeedLimit, maxFeedLimit))
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", unavailable(err))
	}

	return posts, nil
}

func (s *FeedService) ListTeamFeed(ctx context.Context, caller domain.Caller, teamID uint, before uint, limit int) ([]domain.FeedPost, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	team, err := s.teams.FindTeamByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("s.teams.FindTeamByID -> %w", unavailable(err))
	}
	if !caller.IsReviewer && !team.HasMember(caller.UserID) {
		return nil, ErrUnauthorized
	}

	posts, err := s.repo.List(ctx, &team.ID, before, clampLimit(limit, defaultFeedLimit, maxFeedLimit))
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", unavailable(err))
	}

	return posts, nil
}

// ListSubmissionPosts returns the global posts generated for one achievement submission.
func (s *FeedService) ListSubmissionPosts(ctx context.Context, submissionID uint) ([]domain.FeedPost, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	posts, err := s.repo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListBySubmission -> %w", unavailable(err))
	}

	return posts, nil
}

// GetPost returns one post with its comment count. Team posts are only
// visible to the team's members and to reviewers.
func (s *FeedService) GetPost(ctx context.Context, caller domain.Caller, postID uint) (domain.FeedPost, error) {
	if !caller.Authenticated() {
		return domain.FeedPost{}, ErrUnauthenticated
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.visiblePost(ctx, caller, postID)
}

func (s *FeedService) AddComment(ctx context.Context, caller domain.Caller, postID uint, content string, mediaURLs []string) (domain.FeedComment, error) {
	if !caller.Authenticated() {
		return domain.FeedComment{}, ErrUnauthenticated
	}

	clean := sanitize.Post(content)
	if clean == "" && len(mediaURLs) == 0 {
		return domain.FeedComment{}, ErrEmptyPost
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	post, err := s.visiblePost(ctx, caller, postID)
	if err != nil {
		return domain.FeedComment{}, err
	}

	created, err := s.repo.CreateComment(ctx, domain.FeedComment{
		PostID:     post.ID,
		AuthorID:   caller.UserID,
		AuthorName: nameOrUnknown(caller.DisplayName),
		Content:    clean,
		MediaURLs:  copyMedia(mediaURLs),
	})
	if err != nil {
		return domain.FeedComment{}, fmt.Errorf("s.repo.CreateComment -> %w", unavailable(err))
	}

	return created, nil
}

// ListComments returns a post's comments oldest first.
func (s *FeedService) ListComments(ctx context.Context, caller domain.Caller, postID uint) ([]domain.FeedComment, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	post, err := s.visiblePost(ctx, caller, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListComments -> %w", unavailable(err))
	}

	return comments, nil
}

func (s *FeedService) visiblePost(ctx context.Context, caller domain.Caller, postID uint) (domain.FeedPost, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("s.repo.FindByID -> %w", unavailable(err))
	}
	if post.TeamID == nil || caller.IsReviewer {
		return post, nil
	}

	team, err := s.teams.FindTeamByID(ctx, *post.TeamID)
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("s.teams.FindTeamByID -> %w", unavailable(err))
	}
	if !team.HasMember(caller.UserID) {
		return domain.FeedPost{}, ErrUnauthorized
	}

	return post, nil
}

func buildPost(caller domain.Caller, content string, mediaURLs []string) (domain.FeedPost, error) {
	clean := sanitize.Post(content)
	if clean == "" && len(mediaURLs) == 0 {
		return domain.FeedPost{}, ErrEmptyPost
	}

	return domain.FeedPost{
		AuthorID:   caller.UserID,
		AuthorName: nameOrUnknown(caller.DisplayName),
		Content:    clean,
		MediaURLs:  copyMedia(mediaURLs),
		EventType:  domain.FeedEventPost,
	}, nil
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}

	return limit
}
