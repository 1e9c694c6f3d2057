package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/questboard/questboard-api/docs"
	v1 "github.com/questboard/questboard-api/internal/api/handler/v1"
	"github.com/questboard/questboard-api/internal/api/middleware"
	"github.com/questboard/questboard-api/internal/config"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type handlers struct {
	achievements *v1.AchievementHandler
	submissions  *v1.SubmissionHandler
	feed         *v1.FeedHandler
	users        *v1.UserHandler
	bonuses      *v1.BonusHandler
	scavenger    *v1.ScavengerHandler
	uploads      *v1.UploadHandler
}

func NewServer(conf *config.AppConfig, svcs *Services) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(svcs))

	return s
}

func (s *Server) initHandlers(svcs *Services) handlers {
	return handlers{
		achievements: v1.NewAchievementHandler(svcs.Identity, svcs.Catalog),
		submissions:  v1.NewSubmissionHandler(svcs.Identity, svcs.Submissions, svcs.Reviews),
		feed:         v1.NewFeedHandler(svcs.Identity, svcs.Feed),
		users:        v1.NewUserHandler(svcs.Identity, svcs.Scores),
		bonuses:      v1.NewBonusHandler(svcs.Identity, svcs.Bonuses),
		scavenger:    v1.NewScavengerHandler(svcs.Identity, svcs.Scavenger, svcs.Submissions, svcs.Reviews, svcs.Scores),
		uploads:      v1.NewUploadHandler(svcs.Identity, svcs.Uploads, s.Config.API.MaxUploadBytes),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/me", h.users.HandleGetMe)
		authed.GET("/me/submissions", h.submissions.HandleListMySubmissions)
		authed.GET("/leaderboard", h.users.HandleLeaderboard)
		authed.GET("/users/:userID/score", h.users.HandleGetUserScore)
		authed.GET("/users/:userID/bonus-grants", h.bonuses.HandleListBonusGrants)

		authed.GET("/achievements", h.achievements.HandleListAchievements)
		authed.GET("/achievements/:achievementID", h.achievements.HandleGetAchievement)

		authed.GET("/submissions", h.submissions.HandleListSubmissions)
		authed.GET("/submissions/:submissionID", h.submissions.HandleGetSubmission)
		authed.GET("/submissions/:submissionID/history", h.submissions.HandleSubmissionHistory)

		authed.GET("/feed", h.feed.HandleListFeed)
		authed.GET("/feed/:postID", h.feed.HandleGetPost)
		authed.GET("/feed/:postID/comments", h.feed.HandleListComments)

		authed.GET("/scavenger/events", h.scavenger.HandleListEvents)
		authed.GET("/scavenger/events/:eventID/tasks", h.scavenger.HandleListTasks)
		authed.GET("/scavenger/events/:eventID/leaderboard", h.scavenger.HandleEventLeaderboard)
		authed.GET("/scavenger/events/:eventID/my-team", h.scavenger.HandleMyTeam)
		authed.GET("/scavenger/teams/:teamID", h.scavenger.HandleGetTeam)
		authed.GET("/scavenger/teams/:teamID/progress", h.scavenger.HandleTeamProgress)
		authed.GET("/scavenger/teams/:teamID/score", h.scavenger.HandleTeamScore)
		authed.GET("/scavenger/teams/:teamID/feed", h.feed.HandleListTeamFeed)
		authed.GET("/scavenger/teams/:teamID/submissions", h.scavenger.HandleListTeamSubmissions)
		authed.GET("/scavenger/submissions", h.scavenger.HandleListTeamQueue)
		authed.GET("/scavenger/submissions/:submissionID/history", h.scavenger.HandleTeamSubmissionHistory)
	}

	// Every write goes through the per-user token bucket.
	writes := authed.Group("", middleware.NewRateLimiter(s.Config.API.RateLimitPerMinute).Limit())
	{
		writes.POST("/achievements", h.achievements.HandleCreateAchievement)
		writes.PUT("/achievements/:achievementID", h.achievements.HandleUpdateAchievement)
		writes.POST("/achievements/:achievementID/submissions", h.submissions.HandleCreateSubmission)

		writes.POST("/submissions/:submissionID/approve", h.submissions.HandleApproveSubmission)
		writes.POST("/submissions/:submissionID/reject", h.submissions.HandleRejectSubmission)
		writes.POST("/submissions/:submissionID/revoke", h.submissions.HandleRevokeSubmission)

		writes.POST("/uploads", h.uploads.HandleUploadProof)
		writes.POST("/feed", h.feed.HandleCreatePost)
		writes.POST("/feed/:postID/comments", h.feed.HandleAddComment)
		writes.POST("/bonus-grants", h.bonuses.HandleGrantBonus)

		writes.POST("/scavenger/events", h.scavenger.HandleCreateEvent)
		writes.PATCH("/scavenger/events/:eventID/status", h.scavenger.HandleUpdateEventStatus)
		writes.POST("/scavenger/events/:eventID/tasks", h.scavenger.HandleCreateTask)
		writes.POST("/scavenger/events/:eventID/teams", h.scavenger.HandleCreateTeam)
		writes.POST("/scavenger/teams/:teamID/members", h.scavenger.HandleAddTeamMember)
		writes.DELETE("/scavenger/teams/:teamID/members/:userID", h.scavenger.HandleRemoveTeamMember)
		writes.POST("/scavenger/teams/:teamID/feed", h.feed.HandleCreateTeamPost)
		writes.POST("/scavenger/tasks/:taskID/submissions", h.scavenger.HandleCreateTeamSubmission)
		writes.POST("/scavenger/submissions/:submissionID/approve", h.scavenger.HandleApproveTeamSubmission)
		writes.POST("/scavenger/submissions/:submissionID/reject", h.scavenger.HandleRejectTeamSubmission)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Questboard API"
	docs.SwaggerInfo.Description = "Achievement claims reviewed by judges, a points ledger with leaderboards, a community feed and team scavenger hunts."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
