package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/api/middleware"
	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/pkg/jwthelper"
	"github.com/questboard/questboard-api/internal/repository"
	"github.com/questboard/questboard-api/internal/repository/dao"
	"github.com/questboard/questboard-api/internal/service"
)

const testKey = "0123456789abcdef0123456789abcdef"

type fakeStorage struct {
	paths []string
}

func (f *fakeStorage) UploadProof(_ context.Context, body io.Reader, path, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.paths = append(f.paths, path)

	return "https://cdn.example.com/" + path, nil
}

type testAPI struct {
	router  *gin.Engine
	storage *fakeStorage
}

// newTestAPI mounts every handler on a private SQLite database behind the
// real JWT middleware.
func newTestAPI(t *testing.T, withStorage bool) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, dao.InitTables(db))

	users := repository.NewUserRepository(dao.NewUserDAO(db))
	achievements := repository.NewAchievementRepository(dao.NewAchievementDAO(db))
	submissions := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	ledger := repository.NewLedgerRepository(dao.NewLedgerDAO(db))
	scavenger := repository.NewScavengerRepository(dao.NewScavengerDAO(db))

	identity := service.NewIdentityService(users, 0)
	scores := service.NewScoreService(repository.NewScoreRepository(dao.NewScoreDAO(db)), ledger, nil, 0)
	announcer := service.NewFeedAnnouncer()
	reviews := service.NewReviewService(submissions, scavenger, ledger, users, announcer, scores, 0)
	subs := service.NewSubmissionService(submissions, achievements, scavenger, 0)

	api := &testAPI{storage: &fakeStorage{}}
	var storage service.ProofStorage
	if withStorage {
		storage = api.storage
	}

	achievementHandler := NewAchievementHandler(identity, service.NewCatalogService(achievements, 0))
	submissionHandler := NewSubmissionHandler(identity, subs, reviews)
	userHandler := NewUserHandler(identity, scores)
	bonusHandler := NewBonusHandler(identity, service.NewBonusService(ledger, users, announcer, scores, 0))
	feedHandler := NewFeedHandler(identity, service.NewFeedService(repository.NewFeedRepository(dao.NewFeedDAO(db)), scavenger, 0))
	scavengerHandler := NewScavengerHandler(identity, service.NewScavengerService(scavenger, 0), subs, reviews, scores)
	uploadHandler := NewUploadHandler(identity, service.NewUploadService(storage, 1024, 0), 1024)

	r := gin.New()
	r.GET("/", HandleHealthcheck)
	g := r.Group("/api/v1", middleware.NewAuthenticator(testKey).VerifyJWT())
	g.GET("/me", userHandler.HandleGetMe)
	g.GET("/me/submissions", submissionHandler.HandleListMySubmissions)
	g.GET("/leaderboard", userHandler.HandleLeaderboard)
	g.GET("/users/:userID/score", userHandler.HandleGetUserScore)
	g.GET("/users/:userID/bonus-grants", bonusHandler.HandleListBonusGrants)
	g.POST("/bonus-grants", bonusHandler.HandleGrantBonus)
	g.GET("/achievements/:achievementID", achievementHandler.HandleGetAchievement)
	g.POST("/achievements", achievementHandler.HandleCreateAchievement)
	g.POST("/achievements/:achievementID/submissions", submissionHandler.HandleCreateSubmission)
	g.GET("/submissions", submissionHandler.HandleListSubmissions)
	g.GET("/submissions/:submissionID", submissionHandler.HandleGetSubmission)
	g.GET("/submissions/:submissionID/history", submissionHandler.HandleSubmissionHistory)
	g.POST("/submissions/:submissionID/approve", submissionHandler.HandleApproveSubmission)
	g.POST("/submissions/:submissionID/reject", submissionHandler.HandleRejectSubmission)
	g.POST("/submissions/:submissionID/revoke", submissionHandler.HandleRevokeSubmission)
	g.GET("/feed", feedHandler.HandleListFeed)
	g.POST("/feed", feedHandler.HandleCreatePost)
	g.GET("/feed/:postID", feedHandler.HandleGetPost)
	g.GET("/feed/:postID/comments", feedHandler.HandleListComments)
	g.POST("/feed/:postID/comments", feedHandler.HandleAddComment)
	g.GET("/scavenger/events", scavengerHandler.HandleListEvents)
	g.POST("/scavenger/events", scavengerHandler.HandleCreateEvent)
	g.PATCH("/scavenger/events/:eventID/status", scavengerHandler.HandleUpdateEventStatus)
	g.POST("/uploads", uploadHandler.HandleUploadProof)
	api.router = r

	return api
}

func token(t *testing.T, userID, name string, reviewer bool) string {
	t.Helper()

	tok, err := jwthelper.GenerateToken([]byte(testKey), userID, name, "", reviewer, time.Hour)
	require.NoError(t, err)

	return tok
}

func (a *testAPI) do(t *testing.T, method, path, tok string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func TestHandleHealthcheck(t *testing.T) {
	api := newTestAPI(t, false)

	w := api.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[response.HealthResponse](t, w).Status)
}

func TestSubmissionFlow(t *testing.T) {
	api := newTestAPI(t, false)
	judge := token(t, "u-judge", "Judge Judy", true)
	alice := token(t, "u-alice", "Alice", false)
	bob := token(t, "u-bob", "Bob", true)

	w := api.do(t, http.MethodPost, "/api/v1/achievements", alice, map[string]any{"title": "Run 5k", "points": 50})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/achievements", judge, map[string]any{"title": "", "points": 50})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/achievements", judge, map[string]any{"title": "Run 5k", "points": 50})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	achievement := decode[domain.Achievement](t, w)

	path := fmt.Sprintf("/api/v1/achievements/%d/submissions", achievement.ID)
	w = api.do(t, http.MethodPost, path, alice, map[string]any{"text": "Finished in 28 minutes"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode[domain.Submission](t, w)
	assert.Equal(t, domain.StatusPending, sub.Status)

	w = api.do(t, http.MethodPost, path, alice, map[string]any{"text": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Queue is reviewer only.
	w = api.do(t, http.MethodGet, "/api/v1/submissions?status=pending", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(t, http.MethodGet, "/api/v1/submissions?status=pending", judge, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Submission](t, w), 1)
	w = api.do(t, http.MethodGet, "/api/v1/submissions?status=maybe", judge, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	approve := fmt.Sprintf("/api/v1/submissions/%d/approve", sub.ID)
	w = api.do(t, http.MethodPost, approve, alice, map[string]any{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, approve, judge, map[string]any{"comment": "Nice run"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StatusApproved, decode[domain.Submission](t, w).Status)

	w = api.do(t, http.MethodPost, approve, bob, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already reviewed by someone else", decode[response.Err](t, w).ErrorMsg)

	w = api.do(t, http.MethodGet, "/api/v1/me", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[response.MeResponse](t, w)
	assert.Equal(t, "u-alice", me.User.ID)
	assert.Equal(t, 50, me.TotalPoints)

	w = api.do(t, http.MethodGet, "/api/v1/me/submissions", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]domain.Submission](t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, sub.ID, mine[0].ID)

	w = api.do(t, http.MethodGet, "/api/v1/leaderboard", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode[[]domain.LeaderboardEntry](t, w)
	require.NotEmpty(t, board)
	assert.Equal(t, "u-alice", board[0].UserID)
	assert.Equal(t, 50, board[0].Total)

	w = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/submissions/%d/revoke", sub.ID), judge, map[string]any{"comment": "No proof"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StatusRevoked, decode[domain.Submission](t, w).Status)

	w = api.do(t, http.MethodGet, "/api/v1/users/u-alice/score", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[domain.ScoreBreakdown](t, w).Total)

	w = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/submissions/%d/history", sub.ID), judge, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.SubmissionReview](t, w), 2)

	// The feed carries the approval and the revocation.
	w = api.do(t, http.MethodGet, "/api/v1/feed?limit=10", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.FeedPost](t, w), 2)
}

func TestSubmissionErrors(t *testing.T) {
	api := newTestAPI(t, false)
	alice := token(t, "u-alice", "Alice", false)
	judge := token(t, "u-judge", "Judge", true)

	w := api.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/submissions/abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/submissions/999", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/achievements/999", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/achievements/999/submissions", alice, map[string]any{"text": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/submissions/999/approve", judge, map[string]any{"points": -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/achievements", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+judge)
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectAndBonus(t *testing.T) {
	api := newTestAPI(t, false)
	judge := token(t, "u-judge", "Judge", true)
	alice := token(t, "u-alice", "Alice", false)

	w := api.do(t, http.MethodPost, "/api/v1/achievements", judge, map[string]any{"title": "Swim", "points": 20})
	require.Equal(t, http.StatusCreated, w.Code)
	achievement := decode[domain.Achievement](t, w)

	w = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/achievements/%d/submissions", achievement.ID), alice, map[string]any{"text": "Swam"})
	require.Equal(t, http.StatusCreated, w.Code)
	sub := decode[domain.Submission](t, w)

	w = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/submissions/%d/reject", sub.ID), judge, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StatusRejected, decode[domain.Submission](t, w).Status)

	w = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/submissions/%d/reject", sub.ID), judge, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/bonus-grants", alice, map[string]any{"user_id": "u-alice", "points": 10})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/bonus-grants", judge, map[string]any{"user_id": "u-alice", "points": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/bonus-grants", judge, map[string]any{"user_id": "u-alice", "points": 15, "reason": "Helped at the booth"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/v1/users/u-alice/bonus-grants", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.BonusGrant](t, w), 1)

	w = api.do(t, http.MethodGet, "/api/v1/me", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 15, decode[response.MeResponse](t, w).TotalPoints)
}

func TestFeedAndEvents(t *testing.T) {
	api := newTestAPI(t, false)
	judge := token(t, "u-judge", "Judge", true)
	alice := token(t, "u-alice", "Alice", false)

	w := api.do(t, http.MethodPost, "/api/v1/feed", alice, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/feed", alice, map[string]any{"content": "Hello all", "is_announcement": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/feed", alice, map[string]any{"content": "Hello all"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[domain.FeedPost](t, w)

	comments := fmt.Sprintf("/api/v1/feed/%d/comments", post.ID)
	w = api.do(t, http.MethodPost, comments, judge, map[string]any{"content": "Welcome, good luck"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, comments, alice, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, comments, alice, map[string]any{"media_urls": []string{"example.com/a.jpg"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, comments, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[[]domain.FeedComment](t, w)
	require.Len(t, listed, 1)
	assert.Equal(t, "Welcome, good luck", listed[0].Content)

	w = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/feed/%d", post.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[domain.FeedPost](t, w).CommentCount)

	w = api.do(t, http.MethodGet, "/api/v1/feed/999", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/feed/999/comments", alice, map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/feed?before=-1", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/scavenger/events", judge, map[string]any{"name": "Campus Hunt"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	event := decode[domain.ScavengerEvent](t, w)
	assert.Equal(t, domain.EventHidden, event.Status)

	w = api.do(t, http.MethodGet, "/api/v1/scavenger/events", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]domain.ScavengerEvent](t, w))

	status := fmt.Sprintf("/api/v1/scavenger/events/%d/status", event.ID)
	w = api.do(t, http.MethodPatch, status, judge, map[string]any{"status": "ongoing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodPatch, status, judge, map[string]any{"status": "waiting"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/scavenger/events", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.ScavengerEvent](t, w), 1)
}

func multipartBody(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

func (a *testAPI) upload(t *testing.T, tok, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, formType := multipartBody(t, filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", formType)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	return w
}

func TestHandleUploadProof(t *testing.T) {
	api := newTestAPI(t, true)
	alice := token(t, "u-alice", "Alice", false)

	w := api.upload(t, alice, "Finish Line.PNG", "image/png", []byte("png-bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	url := decode[response.UploadResponse](t, w).URL
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/proofs/u-alice/"), url)
	assert.True(t, strings.HasSuffix(url, "-finish-line.png"), url)
	require.Len(t, api.storage.paths, 1)

	w = api.upload(t, alice, "notes.txt", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = api.upload(t, alice, "big.png", "image/png", bytes.Repeat([]byte("x"), 2048))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+alice)
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUploadProof_StorageDisabled(t *testing.T) {
	api := newTestAPI(t, false)

	w := api.upload(t, token(t, "u-alice", "Alice", false), "proof.png", "image/png", []byte("png"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServiceErr(t *testing.T) {
	cases := map[error]int{
		service.ErrUnauthenticated:                                  http.StatusUnauthorized,
		service.ErrUnauthorized:                                     http.StatusForbidden,
		service.ErrDuplicatePendingSubmission:                       http.StatusConflict,
		service.ErrAlreadyApproved:                                  http.StatusConflict,
		service.ErrAlreadyDecided:                                   http.StatusConflict,
		service.ErrTeamMemberExists:                                 http.StatusConflict,
		service.ErrSubmissionNotFound:                               http.StatusNotFound,
		service.ErrTeamNotFound:                                     http.StatusNotFound,
		service.ErrEventNotOngoing:                                  http.StatusBadRequest,
		service.ErrFileTooLarge:                                     http.StatusRequestEntityTooLarge,
		service.ErrUnsupportedFileType:                              http.StatusUnsupportedMediaType,
		service.ErrStorageDisabled:                                  http.StatusServiceUnavailable,
		fmt.Errorf("x -> %w", service.ErrDependencyUnavailable):     http.StatusServiceUnavailable,
		fmt.Errorf("s.repo.FindByID -> %w", service.ErrUserNotFound): http.StatusNotFound,
		io.ErrUnexpectedEOF:                                         http.StatusInternalServerError,
	}

	for err, code := range cases {
		assert.Equal(t, code, serviceErr("op", err).HTTPStatusCode, err.Error())
	}

	assert.Equal(t, "already reviewed by someone else", serviceErr("op", service.ErrAlreadyDecided).ErrorMsg)
	assert.Empty(t, serviceErr("op", io.ErrUnexpectedEOF).ErrorMsg)
}
