package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/request"
	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/domain"
)

type BonusService interface {
	GrantBonus(ctx context.Context, caller domain.Caller, userID string, points int, reason, proofURL string) (domain.BonusGrant, error)
	ListBonusGrants(ctx context.Context, userID string) ([]domain.BonusGrant, error)
}

type BonusHandler struct {
	identity IdentityService
	svc      BonusService
}

func NewBonusHandler(identity IdentityService, svc BonusService) *BonusHandler {
	return &BonusHandler{
		identity: identity,
		svc:      svc,
	}
}

// HandleGrantBonus godoc
// @Summary      Grant bonus points
// @Description  Reviewers only. The grant is announced on the feed.
// @Tags         bonus
// @Accept       json
// @Produce      json
// @Param        request  body      request.GrantBonusRequest  true  "request body"
// @Success      201  {object}  domain.BonusGrant
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /bonus-grants [post]
// @Security BearerAuth
func (h *BonusHandler) HandleGrantBonus(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.GrantBonusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	grant, err := h.svc.GrantBonus(ctx.Request.Context(), caller, req.UserID, req.Points, req.Reason, req.ProofURL)
	if err != nil {
		renderServiceErr(ctx, "HandleGrantBonus -> h.svc.GrantBonus", err)
		return
	}

	ctx.JSON(http.StatusCreated, grant)
}

// HandleListBonusGrants godoc
// @Summary      Bonus grants of a user
// @Tags         bonus
// @Produce      json
// @Param        userID  path      string  true  "user ID"
// @Success      200  {array}   domain.BonusGrant
// @Failure      500  {object}  response.Err
// @Router       /users/{userID}/bonus-grants [get]
// @Security BearerAuth
func (h *BonusHandler) HandleListBonusGrants(ctx *gin.Context) {
	grants, err := h.svc.ListBonusGrants(ctx.Request.Context(), ctx.Param("userID"))
	if err != nil {
		renderServiceErr(ctx, "HandleListBonusGrants -> h.svc.ListBonusGrants", err)
		return
	}

	ctx.JSON(http.StatusOK, grants)
}
