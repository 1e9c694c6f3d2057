package dao

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:dao_%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, InitTables(db))

	return db
}

func TestInitTables_Idempotent(t *testing.T) {
	db := openTestDB(t)

	assert.NoError(t, InitTables(db))
}

func TestSubmissionDAO_OpenClaimIndex(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	achievement, err := NewAchievementDAO(db).Insert(ctx, Achievement{Title: "Run 5k", Points: 50})
	require.NoError(t, err)

	subs := NewSubmissionDAO(db)
	first, err := subs.Insert(ctx, Submission{UserID: "u-alice", AchievementID: achievement.ID})
	require.NoError(t, err)
	assert.Equal(t, statusPending, first.Status)
	assert.Equal(t, "Run 5k", first.Achievement.Title)

	_, err = subs.Insert(ctx, Submission{UserID: "u-alice", AchievementID: achievement.ID})
	assert.ErrorIs(t, err, ErrPendingSubmissionExists)

	// Another user is unaffected.
	_, err = subs.Insert(ctx, Submission{UserID: "u-bob", AchievementID: achievement.ID})
	require.NoError(t, err)

	require.NoError(t, db.Model(&Submission{}).Where("id = ?", first.ID).Update("status", statusApproved).Error)
	_, err = subs.Insert(ctx, Submission{UserID: "u-alice", AchievementID: achievement.ID})
	assert.ErrorIs(t, err, ErrApprovedSubmissionExists)

	// A closed claim no longer blocks.
	require.NoError(t, db.Model(&Submission{}).Where("id = ?", first.ID).Update("status", "revoked").Error)
	_, err = subs.Insert(ctx, Submission{UserID: "u-alice", AchievementID: achievement.ID})
	assert.NoError(t, err)

	open, err := subs.List(ctx, SubmissionFilter{UserID: "u-alice", Status: statusPending})
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestSubmissionDAO_FindByID_NotFound(t *testing.T) {
	_, err := NewSubmissionDAO(openTestDB(t)).FindByID(context.Background(), 42)

	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}
