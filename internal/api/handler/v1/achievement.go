package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/request"
	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/domain"
)

type CatalogService interface {
	CreateAchievement(ctx context.Context, caller domain.Caller, achievement domain.Achievement) (domain.Achievement, error)
	UpdateAchievement(ctx context.Context, caller domain.Caller, achievement domain.Achievement) (domain.Achievement, error)
	GetAchievement(ctx context.Context, id uint) (domain.Achievement, error)
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
}

type AchievementHandler struct {
	identity IdentityService
	svc      CatalogService
}

func NewAchievementHandler(identity IdentityService, svc CatalogService) *AchievementHandler {
	return &AchievementHandler{
		identity: identity,
		svc:      svc,
	}
}

// HandleListAchievements godoc
// @Summary      List achievements
// @Tags         achievements
// @Produce      json
// @Success      200  {array}   domain.Achievement
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /achievements [get]
// @Security BearerAuth
func (h *AchievementHandler) HandleListAchievements(ctx *gin.Context) {
	achievements, err := h.svc.ListAchievements(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "HandleListAchievements -> h.svc.ListAchievements", err)
		return
	}

	ctx.JSON(http.StatusOK, achievements)
}

// HandleGetAchievement godoc
// @Summary      Get an achievement
// @Tags         achievements
// @Produce      json
// @Param        achievementID  path      int  true  "achievement ID"
// @Success      200  {object}  domain.Achievement
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /achievements/{achievementID} [get]
// @Security BearerAuth
func (h *AchievementHandler) HandleGetAchievement(ctx *gin.Context) {
	id, respErr := paramID(ctx, "achievementID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	achievement, err := h.svc.GetAchievement(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "HandleGetAchievement -> h.svc.GetAchievement", err)
		return
	}

	ctx.JSON(http.StatusOK, achievement)
}

// HandleCreateAchievement godoc
// @Summary      Create an achievement
// @Description  Reviewers only.
// @Tags         achievements
// @Accept       json
// @Produce      json
// @Param        request  body      request.AchievementRequest  true  "request body"
// @Success      201  {object}  domain.Achievement
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /achievements [post]
// @Security BearerAuth
func (h *AchievementHandler) HandleCreateAchievement(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	achievement, err := h.svc.CreateAchievement(ctx.Request.Context(), caller, domain.Achievement{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Images:      req.Images,
	})
	if err != nil {
		renderServiceErr(ctx, "HandleCreateAchievement -> h.svc.CreateAchievement", err)
		return
	}

	ctx.JSON(http.StatusCreated, achievement)
}

// HandleUpdateAchievement godoc
// @Summary      Update an achievement
// @Description  Reviewers only. Points already awarded are not recomputed.
// @Tags         achievements
// @Accept       json
// @Produce      json
// @Param        achievementID  path      int                         true  "achievement ID"
// @Param        request        body      request.AchievementRequest  true  "request body"
// @Success      200  {object}  domain.Achievement
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /achievements/{achievementID} [put]
// @Security BearerAuth
func (h *AchievementHandler) HandleUpdateAchievement(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := paramID(ctx, "achievementID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	achievement, err := h.svc.UpdateAchievement(ctx.Request.Context(), caller, domain.Achievement{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Images:      req.Images,
	})
	if err != nil {
		renderServiceErr(ctx, "HandleUpdateAchievement -> h.svc.UpdateAchievement", err)
		return
	}

	ctx.JSON(http.StatusOK, achievement)
}
