package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User mirrors the identity provider. Rows are refreshed from token claims.
type User struct {
	ID          string `gorm:"primaryKey"`
	DisplayName string `gorm:"not null"`
	AvatarURL   string
	IsReviewer  bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Upsert(ctx context.Context, user User) (User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_url", "is_reviewer", "updated_at"}),
	}).Create(&user)
	if result.Error != nil {
		return User{}, result.Error
	}

	return d.FindByID(ctx, user.ID)
}

func (d *UserDAO) FindByID(ctx context.Context, id string) (User, error) {
	user := User{}
	result := d.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByIDs(ctx context.Context, ids []string) ([]User, error) {
	var users []User
	if len(ids) == 0 {
		return users, nil
	}

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}
