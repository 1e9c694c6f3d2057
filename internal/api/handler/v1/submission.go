package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/request"
	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/domain"
)

type SubmissionService interface {
	CreateSubmission(ctx context.Context, caller domain.Caller, achievementID uint, text string, mediaURLs []string) (domain.Submission, error)
	GetSubmission(ctx context.Context, caller domain.Caller, id uint) (domain.Submission, error)
	ListSubmissions(ctx context.Context, caller domain.Caller, status domain.SubmissionStatus, limit, offset int) ([]domain.Submission, error)
	ListUserSubmissions(ctx context.Context, userID string) ([]domain.Submission, error)
}

type ReviewService interface {
	Approve(ctx context.Context, caller domain.Caller, submissionID uint, comment string, points *int) (domain.Submission, error)
	Reject(ctx context.Context, caller domain.Caller, submissionID uint, comment string) (domain.Submission, error)
	Revoke(ctx context.Context, caller domain.Caller, submissionID uint, comment string) (domain.Submission, error)
	History(ctx context.Context, caller domain.Caller, kind string, submissionID uint) ([]domain.SubmissionReview, error)
}

type SubmissionHandler struct {
	identity    IdentityService
	submissions SubmissionService
	reviews     ReviewService
}

func NewSubmissionHandler(identity IdentityService, submissions SubmissionService, reviews ReviewService) *SubmissionHandler {
	return &SubmissionHandler{
		identity:    identity,
		submissions: submissions,
		reviews:     reviews,
	}
}

// HandleCreateSubmission godoc
// @Summary      Submit proof for an achievement
// @Description  A user holds at most one pending and one approved submission per achievement.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        achievementID  path      int                              true  "achievement ID"
// @Param        request        body      request.CreateSubmissionRequest  true  "request body"
// @Success      201  {object}  domain.Submission
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /achievements/{achievementID}/submissions [post]
// @Security BearerAuth
func (h *SubmissionHandler) HandleCreateSubmission(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	achievementID, respErr := paramID(ctx, "achievementID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	sub, err := h.submissions.CreateSubmission(ctx.Request.Context(), caller, achievementID, req.Text, req.MediaURLs)
	if err != nil {
		renderServiceErr(ctx, "HandleCreateSubmission -> h.submissions.CreateSubmission", err)
		return
	}

	ctx.JSON(http.StatusCreated, sub)
}

// HandleListSubmissions godoc
// @Summary      Reviewer queue
// @Tags         submissions
// @Produce      json
// @Param        status  query     string  false  "pending, approved, rejected or revoked"
// @Param        limit   query     int     false  "page size"
// @Param        offset  query     int     false  "page offset"
// @Success      200  {array}   domain.Submission
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /submissions [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleListSubmissions(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	status, respErr := queryStatus(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
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

	subs, err := h.submissions.ListSubmissions(ctx.Request.Context(), caller, status, limit, offset)
	if err != nil {
		renderServiceErr(ctx, "HandleListSubmissions -> h.submissions.ListSubmissions", err)
		return
	}

	ctx.JSON(http.StatusOK, subs)
}

// HandleListMySubmissions godoc
// @Summary      List the caller's own submissions
// @Tags         submissions
// @Produce      json
// @Success      200  {array}   domain.Submission
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /me/submissions [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleListMySubmissions(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	subs, err := h.submissions.ListUserSubmissions(ctx.Request.Context(), caller.UserID)
	if err != nil {
		renderServiceErr(ctx, "HandleListMySubmissions -> h.submissions.ListUserSubmissions", err)
		return
	}

	ctx.JSON(http.StatusOK, subs)
}

// HandleGetSubmission godoc
// @Summary      Get a submission
// @Description  Visible to the submitter and to reviewers.
// @Tags         submissions
// @Produce      json
// @Param        submissionID  path      int  true  "submission ID"
// @Success      200  {object}  domain.Submission
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /submissions/{submissionID} [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleGetSubmission(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := paramID(ctx, "submissionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sub, err := h.submissions.GetSubmission(ctx.Request.Context(), caller, id)
	if err != nil {
		renderServiceErr(ctx, "HandleGetSubmission -> h.submissions.GetSubmission", err)
		return
	}

	ctx.JSON(http.StatusOK, sub)
}

// HandleApproveSubmission godoc
// @Summary      Approve a pending submission
// @Description  Awards the achievement points, or the override in the body, and announces it on the feed.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        submissionID  path      int                      true  "submission ID"
// @Param        request       body      request.DecisionRequest  true  "request body"
// @Success      200  {object}  domain.Submission
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /submissions/{submissionID}/approve [post]
// @Security BearerAuth
func (h *SubmissionHandler) HandleApproveSubmission(ctx *gin.Context) {
	caller, id, req, ok := bindDecision(ctx, h.identity)
	if !ok {
		return
	}

	sub, err := h.reviews.Approve(ctx.Request.Context(), caller, id, req.Comment, req.Points)
	if err != nil {
		renderServiceErr(ctx, "HandleApproveSubmission -> h.reviews.Approve", err)
		return
	}

	ctx.JSON(http.StatusOK, sub)
}

// HandleRejectSubmission godoc
// @Summary      Reject a submission
// @Description  Pending submissions become rejected. Approved ones are revoked and lose their points.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        submissionID  path      int                      true  "submission ID"
// @Param        request       body      request.DecisionRequest  true  "request body"
// @Success      200  {object}  domain.Submission
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /submissions/{submissionID}/reject [post]
// @Security BearerAuth
func (h *SubmissionHandler) HandleRejectSubmission(ctx *gin.Context) {
	caller, id, req, ok := bindDecision(ctx, h.identity)
	if !ok {
		return
	}

	sub, err := h.reviews.Reject(ctx.Request.Context(), caller, id, req.Comment)
	if err != nil {
		renderServiceErr(ctx, "HandleRejectSubmission -> h.reviews.Reject", err)
		return
	}

	ctx.JSON(http.StatusOK, sub)
}

// HandleRevokeSubmission godoc
// @Summary      Revoke an approved submission
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        submissionID  path      int                      true  "submission ID"
// @Param        request       body      request.DecisionRequest  true  "request body"
// @Success      200  {object}  domain.Submission
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /submissions/{submissionID}/revoke [post]
// @Security BearerAuth
func (h *SubmissionHandler) HandleRevokeSubmission(ctx *gin.Context) {
	caller, id, req, ok := bindDecision(ctx, h.identity)
	if !ok {
		return
	}

	sub, err := h.reviews.Revoke(ctx.Request.Context(), caller, id, req.Comment)
	if err != nil {
		renderServiceErr(ctx, "HandleRevokeSubmission -> h.reviews.Revoke", err)
		return
	}

	ctx.JSON(http.StatusOK, sub)
}

// HandleSubmissionHistory godoc
// @Summary      Review history of a submission
// @Tags         submissions
// @Produce      json
// @Param        submissionID  path      int  true  "submission ID"
// @Success      200  {array}   domain.SubmissionReview
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /submissions/{submissionID}/history [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleSubmissionHistory(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := paramID(ctx, "submissionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	history, err := h.reviews.History(ctx.Request.Context(), caller, domain.ReviewKindAchievement, id)
	if err != nil {
		renderServiceErr(ctx, "HandleSubmissionHistory -> h.reviews.History", err)
		return
	}

	ctx.JSON(http.StatusOK, history)
}

// bindDecision resolves the caller, the path id and the decision body. It
// renders the error itself and reports false when the request is unusable.
func bindDecision(ctx *gin.Context, identity IdentityService) (domain.Caller, uint, request.DecisionRequest, bool) {
	var req request.DecisionRequest

	caller, respErr := callerFromContext(ctx, identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return domain.Caller{}, 0, req, false
	}

	id, respErr := paramID(ctx, "submissionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return domain.Caller{}, 0, req, false
	}

	// The body is optional: an empty decision is a bare approve or reject.
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return domain.Caller{}, 0, req, false
		}
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.Caller{}, 0, req, false
	}

	return caller, id, req, true
}
