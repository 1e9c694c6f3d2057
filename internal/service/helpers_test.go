package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/repository"
	"github.com/questboard/questboard-api/internal/repository/dao"
)

type testEnv struct {
	db *gorm.DB

	users       *repository.UserRepository
	identity    *IdentityService
	catalog     *CatalogService
	submissions *SubmissionService
	reviews     *ReviewService
	scores      *ScoreService
	bonuses     *BonusService
	feed        *FeedService
	scavenger   *ScavengerService
	audit       *AuditService
	cache       *memoryCache
}

// newTestEnv wires every service against a private in-memory SQLite database.
// One open connection serializes concurrent callers the way row locks would.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dao.InitTables(db))

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	achievementRepo := repository.NewAchievementRepository(dao.NewAchievementDAO(db))
	submissionRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db))
	feedRepo := repository.NewFeedRepository(dao.NewFeedDAO(db))
	scoreRepo := repository.NewScoreRepository(dao.NewScoreDAO(db))
	scavengerRepo := repository.NewScavengerRepository(dao.NewScavengerDAO(db))

	cache := newMemoryCache()
	announcer := NewFeedAnnouncer()
	scores := NewScoreService(scoreRepo, ledgerRepo, cache, 0)

	return &testEnv{
		db:          db,
		users:       userRepo,
		identity:    NewIdentityService(userRepo, 0),
		catalog:     NewCatalogService(achievementRepo, 0),
		submissions: NewSubmissionService(submissionRepo, achievementRepo, scavengerRepo, 0),
		reviews:     NewReviewService(submissionRepo, scavengerRepo, ledgerRepo, userRepo, announcer, scores, 0),
		scores:      scores,
		bonuses:     NewBonusService(ledgerRepo, userRepo, announcer, scores, 0),
		feed:        NewFeedService(feedRepo, scavengerRepo, 0),
		scavenger:   NewScavengerService(scavengerRepo, 0),
		audit:       NewAuditService(ledgerRepo, 0),
		cache:       cache,
	}
}

func (e *testEnv) caller(t *testing.T, id, name string, reviewer bool) domain.Caller {
	t.Helper()

	caller, err := e.identity.Resolve(context.Background(), domain.User{
		ID:          id,
		DisplayName: name,
		IsReviewer:  reviewer,
	})
	require.NoError(t, err)

	return caller
}

func (e *testEnv) achievement(t *testing.T, judge domain.Caller, title string, points int) domain.Achievement {
	t.Helper()

	a, err := e.catalog.CreateAchievement(context.Background(), judge, domain.Achievement{
		Title:  title,
		Points: points,
	})
	require.NoError(t, err)

	return a
}

func (e *testEnv) submit(t *testing.T, who domain.Caller, achievementID uint, text string) domain.Submission {
	t.Helper()

	sub, err := e.submissions.CreateSubmission(context.Background(), who, achievementID, text, nil)
	require.NoError(t, err)

	return sub
}

func (e *testEnv) total(t *testing.T, userID string) int {
	t.Helper()

	total, err := e.scores.TotalPointsForUser(context.Background(), userID)
	require.NoError(t, err)

	return total
}

func (e *testEnv) countRows(t *testing.T, table, where string, args ...any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.Table(table).Where(where, args...).Count(&n).Error)

	return n
}

var errCacheDown = errors.New("cache unreachable")

// memoryCache is a LeaderboardCache with the generation semantics of the Redis one.
type memoryCache struct {
	mu            sync.Mutex
	generation    int64
	entries       map[string][]byte
	hits          int
	invalidations int
	// failures makes the next n Invalidate calls fail.
	failures int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation, nil
}

func (c *memoryCache) Get(_ context.Context, generation int64, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, ok := c.entries[fmt.Sprintf("%d:%s", generation, key)]
	if ok {
		c.hits++
	}

	return payload, ok, nil
}

func (c *memoryCache) Set(_ context.Context, generation int64, key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[fmt.Sprintf("%d:%s", generation, key)] = payload

	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failures > 0 {
		c.failures--
		return errCacheDown
	}

	c.generation++
	c.invalidations++

	return nil
}
