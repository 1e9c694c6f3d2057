package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/questboard/questboard-api/docs"
	"github.com/questboard/questboard-api/internal/config"
	"github.com/questboard/questboard-api/internal/pkg/jwthelper"
	"github.com/questboard/questboard-api/internal/repository/dao"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T, perMinute int) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, dao.InitTables(db))

	conf := &config.AppConfig{
		API: &config.APIConfig{
			BaseURL:            "localhost:8080",
			AllowedCORSDomains: []string{"*"},
			JWTSigningKey:      testKey,
			RateLimitPerMinute: perMinute,
			MaxUploadBytes:     1 << 20,
		},
		Gin:      &config.GinConfig{Mode: gin.TestMode},
		Timeouts: &config.TimeoutsConfig{Dependency: time.Second, Storage: time.Second},
	}

	return NewServer(conf, NewServices(conf, db, Dependencies{}))
}

func TestNewServer_SwaggerDoc(t *testing.T) {
	newTestServer(t, 0)

	assert.Equal(t, "Questboard API", docs.SwaggerInfo.Title)
	assert.Equal(t, "/api/v1", docs.SwaggerInfo.BasePath)

	doc := docs.SwaggerInfo.ReadDoc()
	assert.Contains(t, doc, `"/feed/{postID}/comments"`)
	assert.Contains(t, doc, `"/me/submissions"`)
	assert.Contains(t, doc, `"name": "scavenger"`)
	assert.Contains(t, doc, "The reviewer claim unlocks judge routes.")
}

func TestNewServer_Routes(t *testing.T) {
	s := newTestServer(t, 0)

	routes := map[string]bool{}
	for _, r := range s.Router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /",
		"GET /api/v1/me",
		"GET /api/v1/me/submissions",
		"GET /api/v1/feed/:postID",
		"GET /api/v1/feed/:postID/comments",
		"POST /api/v1/feed/:postID/comments",
		"POST /api/v1/achievements/:achievementID/submissions",
		"POST /api/v1/submissions/:submissionID/approve",
		"POST /api/v1/submissions/:submissionID/reject",
		"POST /api/v1/submissions/:submissionID/revoke",
		"GET /api/v1/leaderboard",
		"POST /api/v1/uploads",
		"PATCH /api/v1/scavenger/events/:eventID/status",
		"DELETE /api/v1/scavenger/teams/:teamID/members/:userID",
		"POST /api/v1/scavenger/submissions/:submissionID/approve",
		"GET /swagger/*any",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestNewServer_RateLimitsWrites(t *testing.T) {
	s := newTestServer(t, 1)

	tok, err := jwthelper.GenerateToken([]byte(testKey), "u-alice", "Alice", "", false, time.Hour)
	require.NoError(t, err)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/feed", strings.NewReader(`{"content":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)

		return w.Code
	}

	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	// Reads are not limited.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
