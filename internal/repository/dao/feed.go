package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type FeedPost struct {
	ID             uint     `gorm:"primaryKey"`
	AuthorID       string   `gorm:"index"`
	AuthorName     string   `gorm:"not null"`
	Content        string   `gorm:"not null"`
	MediaURLs      []string `gorm:"type:text;serializer:json"`
	EventType      string   `gorm:"not null"`
	IsAnnouncement bool     `gorm:"not null;default:false"`
	TeamID         *uint    `gorm:"index"`
	SubmissionID   *uint
	CommentCount   int `gorm:"->;-:migration"`

	CreatedAt time.Time
}

type FeedComment struct {
	ID         uint     `gorm:"primaryKey"`
	PostID     uint     `gorm:"not null;index"`
	AuthorID   string   `gorm:"not null;index"`
	AuthorName string   `gorm:"not null"`
	Content    string   `gorm:"not null"`
	MediaURLs  []string `gorm:"type:text;serializer:json"`

	CreatedAt time.Time
}

const commentCountColumn = `feed_posts.*, (SELECT COUNT(*) FROM feed_comments AS c WHERE c.post_id = feed_posts.id) AS comment_count`

// FeedFilter pages by id: Before is exclusive and zero means the newest posts.
type FeedFilter struct {
	TeamID *uint
	Before uint
	Limit  int
}

type FeedDAO struct {
	db *gorm.DB
}

func NewFeedDAO(db *gorm.DB) *FeedDAO {
	return &FeedDAO{
		db: db,
	}
}

func (d *FeedDAO) Insert(ctx context.Context, post FeedPost) (FeedPost, error) {
	result := d.db.WithContext(ctx).Create(&post)
	if result.Error != nil {
		return FeedPost{}, result.Error
	}

	return post, nil
}

func (d *FeedDAO) List(ctx context.Context, filter FeedFilter) ([]FeedPost, error) {
	query := d.db.WithContext(ctx).Model(&FeedPost{}).Select(commentCountColumn).Order("id DESC")
	if filter.TeamID == nil {
		query = query.Where("feed_posts.team_id IS NULL")
	} else {
		query = query.Where("feed_posts.team_id = ?", *filter.TeamID)
	}
	if filter.Before > 0 {
		query = query.Where("feed_posts.id < ?", filter.Before)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var posts []FeedPost
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

// ListBySubmission returns the global posts announcing decisions on an achievement submission.
func (d *FeedDAO) ListBySubmission(ctx context.Context, submissionID uint) ([]FeedPost, error) {
	var posts []FeedPost
	result := d.db.WithContext(ctx).
		Where("submission_id = ? AND team_id IS NULL", submissionID).
		Order("id ASC").
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}

	return posts, nil
}

func (d *FeedDAO) FindByID(ctx context.Context, id uint) (FeedPost, error) {
	post := FeedPost{}
	result := d.db.WithContext(ctx).
		Model(&FeedPost{}).
		Select(commentCountColumn).
		Where("feed_posts.id = ?", id).
		Take(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return FeedPost{}, ErrFeedPostNotFound
		}

		return FeedPost{}, result.Error
	}

	return post, nil
}

func (d *FeedDAO) InsertComment(ctx context.Context, comment FeedComment) (FeedComment, error) {
	result := d.db.WithContext(ctx).Create(&comment)
	if result.Error != nil {
		return FeedComment{}, result.Error
	}

	return comment, nil
}

// ListComments returns a post's comments oldest first.
func (d *FeedDAO) ListComments(ctx context.Context, postID uint) ([]FeedComment, error) {
	var comments []FeedComment
	result := d.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}

	return comments, nil
}
