package api

import (
	"gorm.io/gorm"

	"github.com/questboard/questboard-api/internal/config"
	"github.com/questboard/questboard-api/internal/repository"
	"github.com/questboard/questboard-api/internal/repository/dao"
	"github.com/questboard/questboard-api/internal/service"
)

// Dependencies are the optional backends. A nil field disables the feature
// that needs it: no leaderboard caching, or uploads answering 503.
type Dependencies struct {
	Cache   service.LeaderboardCache
	Storage service.ProofStorage
}

// Services is the fully wired service layer, shared by the HTTP handlers and
// the background jobs.
type Services struct {
	Identity    *service.IdentityService
	Catalog     *service.CatalogService
	Submissions *service.SubmissionService
	Reviews     *service.ReviewService
	Scores      *service.ScoreService
	Bonuses     *service.BonusService
	Feed        *service.FeedService
	Scavenger   *service.ScavengerService
	Audit       *service.AuditService
	Uploads     *service.UploadService
}

func NewServices(conf *config.AppConfig, db *gorm.DB, deps Dependencies) *Services {
	timeout := conf.Timeouts.Dependency

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	achievementRepo := repository.NewAchievementRepository(dao.NewAchievementDAO(db))
	submissionRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db))
	feedRepo := repository.NewFeedRepository(dao.NewFeedDAO(db))
	scoreRepo := repository.NewScoreRepository(dao.NewScoreDAO(db))
	scavengerRepo := repository.NewScavengerRepository(dao.NewScavengerDAO(db))

	announcer := service.NewFeedAnnouncer()
	scores := service.NewScoreService(scoreRepo, ledgerRepo, deps.Cache, timeout)

	return &Services{
		Identity:    service.NewIdentityService(userRepo, timeout),
		Catalog:     service.NewCatalogService(achievementRepo, timeout),
		Submissions: service.NewSubmissionService(submissionRepo, achievementRepo, scavengerRepo, timeout),
		Reviews:     service.NewReviewService(submissionRepo, scavengerRepo, ledgerRepo, userRepo, announcer, scores, timeout),
		Scores:      scores,
		Bonuses:     service.NewBonusService(ledgerRepo, userRepo, announcer, scores, timeout),
		Feed:        service.NewFeedService(feedRepo, scavengerRepo, timeout),
		Scavenger:   service.NewScavengerService(scavengerRepo, timeout),
		Audit:       service.NewAuditService(ledgerRepo, timeout),
		Uploads:     service.NewUploadService(deps.Storage, conf.API.MaxUploadBytes, conf.Timeouts.Storage),
	}
}
