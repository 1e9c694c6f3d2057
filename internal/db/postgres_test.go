package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/questboard/questboard-api/internal/repository/dao"
)

// startPostgres runs a throwaway PostgreSQL container. The test is skipped
// under -short or when no Docker daemon is reachable.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	pool.MaxWait = 90 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=questboard",
			"POSTGRES_PASSWORD=questboard",
			"POSTGRES_DB=questboard",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("postgres://questboard:questboard@%s/questboard?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var gdb *gorm.DB
	err = pool.Retry(func() error {
		var openErr error
		gdb, openErr = OpenPostgresWithURL(dsn)

		return openErr
	})
	require.NoError(t, err)

	return gdb
}

func TestPostgres_OpenClaimIndex(t *testing.T) {
	ctx := context.Background()
	gdb := startPostgres(t)

	// Migrations must be re-runnable against a live schema.
	require.NoError(t, dao.InitTables(gdb))

	achievement, err := dao.NewAchievementDAO(gdb).Insert(ctx, dao.Achievement{Title: "Run 5k", Points: 50})
	require.NoError(t, err)

	subs := dao.NewSubmissionDAO(gdb)
	first, err := subs.Insert(ctx, dao.Submission{UserID: "u-alice", AchievementID: achievement.ID})
	require.NoError(t, err)

	// The violation arrives as a pgconn.PgError and is mapped through pgerrcode.
	_, err = subs.Insert(ctx, dao.Submission{UserID: "u-alice", AchievementID: achievement.ID})
	assert.ErrorIs(t, err, dao.ErrPendingSubmissionExists)

	require.NoError(t, gdb.Model(&dao.Submission{}).Where("id = ?", first.ID).Update("status", "approved").Error)
	_, err = subs.Insert(ctx, dao.Submission{UserID: "u-alice", AchievementID: achievement.ID})
	assert.ErrorIs(t, err, dao.ErrApprovedSubmissionExists)
}
