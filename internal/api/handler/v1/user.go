package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/domain"
)

type ScoreService interface {
	TotalPointsForUser(ctx context.Context, userID string) (int, error)
	TotalPointsForTeam(ctx context.Context, teamID uint) (int, error)
	Leaderboard(ctx context.Context, limit, offset int) ([]domain.LeaderboardEntry, error)
	TeamLeaderboard(ctx context.Context, eventID uint) ([]domain.TeamStanding, error)
	ScoreBreakdown(ctx context.Context, userID string) (domain.ScoreBreakdown, error)
}

type UserHandler struct {
	identity IdentityService
	scores   ScoreService
}

func NewUserHandler(identity IdentityService, scores ScoreService) *UserHandler {
	return &UserHandler{
		identity: identity,
		scores:   scores,
	}
}

// HandleGetMe godoc
// @Summary      Current user and their total
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.MeResponse
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /me [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.identity.GetUser(ctx.Request.Context(), caller.UserID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetMe -> h.identity.GetUser", err)
		return
	}

	total, err := h.scores.TotalPointsForUser(ctx.Request.Context(), caller.UserID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetMe -> h.scores.TotalPointsForUser", err)
		return
	}

	ctx.JSON(http.StatusOK, response.MeResponse{
		User:        user,
		TotalPoints: total,
	})
}

// HandleGetUserScore godoc
// @Summary      Score breakdown of a user
// @Description  Approved achievements, pending and rejected claims, and bonus grants.
// @Tags         users
// @Produce      json
// @Param        userID  path      string  true  "user ID"
// @Success      200  {object}  domain.ScoreBreakdown
// @Failure      500  {object}  response.Err
// @Router       /users/{userID}/score [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetUserScore(ctx *gin.Context) {
	breakdown, err := h.scores.ScoreBreakdown(ctx.Request.Context(), ctx.Param("userID"))
	if err != nil {
		renderServiceErr(ctx, "HandleGetUserScore -> h.scores.ScoreBreakdown", err)
		return
	}

	ctx.JSON(http.StatusOK, breakdown)
}

// HandleLeaderboard godoc
// @Summary      Global leaderboard
// @Tags         users
// @Produce      json
// @Param        limit   query     int  false  "page size"
// @Param        offset  query     int  false  "page offset"
// @Success      200  {array}   domain.LeaderboardEntry
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /leaderboard [get]
// @Security BearerAuth
func (h *UserHandler) HandleLeaderboard(ctx *gin.Context) {
	limit, respErr := queryInt(ctx, "limit")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	offset, respErr := queryInt(ctx, "offset")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	entries, err := h.scores.Leaderboard(ctx.Request.Context(), limit, offset)
	if err != nil {
		renderServiceErr(ctx, "HandleLeaderboard -> h.scores.Leaderboard", err)
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
