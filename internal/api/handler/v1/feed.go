package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/request"
	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/domain"
)

var errNegativeCursor = errors.New("before must not be negative")

type FeedService interface {
	CreatePost(ctx context.Context, caller domain.Caller, content string, mediaURLs []string, announcement bool) (domain.FeedPost, error)
	CreateTeamPost(ctx context.Context, caller domain.Caller, teamID uint, content string, mediaURLs []string) (domain.FeedPost, error)
	ListFeed(ctx context.Context, before uint, limit int) ([]domain.FeedPost, error)
	ListTeamFeed(ctx context.Context, caller domain.Caller, teamID uint, before uint, limit int) ([]domain.FeedPost, error)
	GetPost(ctx context.Context, caller domain.Caller, postID uint) (domain.FeedPost, error)
	AddComment(ctx context.Context, caller domain.Caller, postID uint, content string, mediaURLs []string) (domain.FeedComment, error)
	ListComments(ctx context.Context, caller domain.Caller, postID uint) ([]domain.FeedComment, error)
}

type FeedHandler struct {
	identity IdentityService
	svc      FeedService
}

func NewFeedHandler(identity IdentityService, svc FeedService) *FeedHandler {
	return &FeedHandler{
		identity: identity,
		svc:      svc,
	}
}

// HandleListFeed godoc
// @Summary      Global feed, newest first
// @Tags         feed
// @Produce      json
// @Param        before  query     int  false  "only posts with a smaller id"
// @Param        limit   query     int  false  "page size"
// @Success      200  {array}   domain.FeedPost
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feed [get]
// @Security BearerAuth
func (h *FeedHandler) HandleListFeed(ctx *gin.Context) {
	before, limit, respErr := pageCursor(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	posts, err := h.svc.ListFeed(ctx.Request.Context(), before, limit)
	if err != nil {
		renderServiceErr(ctx, "HandleListFeed -> h.svc.ListFeed", err)
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// HandleCreatePost godoc
// @Summary      Post to the global feed
// @Description  Only reviewers may flag a post as an announcement.
// @Tags         feed
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreatePostRequest  true  "request body"
// @Success      201  {object}  domain.FeedPost
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feed [post]
// @Security BearerAuth
func (h *FeedHandler) HandleCreatePost(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	post, err := h.svc.CreatePost(ctx.Request.Context(), caller, req.Content, req.MediaURLs, req.IsAnnouncement)
	if err != nil {
		renderServiceErr(ctx, "HandleCreatePost -> h.svc.CreatePost", err)
		return
	}

	ctx.JSON(http.StatusCreated, post)
}

// HandleGetPost godoc
// @Summary      Get one feed post
// @Tags         feed
// @Produce      json
// @Param        postID  path      int  true  "post ID"
// @Success      200  {object}  domain.FeedPost
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /feed/{postID} [get]
// @Security BearerAuth
func (h *FeedHandler) HandleGetPost(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	postID, respErr := paramID(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	post, err := h.svc.GetPost(ctx.Request.Context(), caller, postID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetPost -> h.svc.GetPost", err)
		return
	}

	ctx.JSON(http.StatusOK, post)
}

// HandleListComments godoc
// @Summary      Comments on a feed post, oldest first
// @Tags         feed
// @Produce      json
// @Param        postID  path      int  true  "post ID"
// @Success      200  {array}   domain.FeedComment
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /feed/{postID}/comments [get]
// @Security BearerAuth
func (h *FeedHandler) HandleListComments(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	postID, respErr := paramID(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	comments, err := h.svc.ListComments(ctx.Request.Context(), caller, postID)
	if err != nil {
		renderServiceErr(ctx, "HandleListComments -> h.svc.ListComments", err)
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

// HandleAddComment godoc
// @Summary      Comment on a feed post
// @Tags         feed
// @Accept       json
// @Produce      json
// @Param        postID   path      int                           true  "post ID"
// @Param        request  body      request.CreateCommentRequest  true  "request body"
// @Success      201  {object}  domain.FeedComment
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /feed/{postID}/comments [post]
// @Security BearerAuth
func (h *FeedHandler) HandleAddComment(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	postID, respErr := paramID(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	comment, err := h.svc.AddComment(ctx.Request.Context(), caller, postID, req.Content, req.MediaURLs)
	if err != nil {
		renderServiceErr(ctx, "HandleAddComment -> h.svc.AddComment", err)
		return
	}

	ctx.JSON(http.StatusCreated, comment)
}

// HandleListTeamFeed godoc
// @Summary      Private feed of a scavenger team
// @Tags         scavenger
// @Produce      json
// @Param        teamID  path      int  true   "team ID"
// @Param        before  query     int  false  "only posts with a smaller id"
// @Param        limit   query     int  false  "page size"
// @Success      200  {array}   domain.FeedPost
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /scavenger/teams/{teamID}/feed [get]
// @Security BearerAuth
func (h *FeedHandler) HandleListTeamFeed(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	teamID, respErr := paramID(ctx, "teamID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	before, limit, respErr := pageCursor(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	posts, err := h.svc.ListTeamFeed(ctx.Request.Context(), caller, teamID, before, limit)
	if err != nil {
		renderServiceErr(ctx, "HandleListTeamFeed -> h.svc.ListTeamFeed", err)
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// HandleCreateTeamPost godoc
// @Summary      Post to a team feed
// @Tags         scavenger
// @Accept       json
// @Produce      json
// @Param        teamID   path      int                        true  "team ID"
// @Param        request  body      request.CreatePostRequest  true  "request body"
// @Success      201  {object}  domain.FeedPost
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /scavenger/teams/{teamID}/feed [post]
// @Security BearerAuth
func (h *FeedHandler) HandleCreateTeamPost(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	teamID, respErr := paramID(ctx, "teamID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	post, err := h.svc.CreateTeamPost(ctx.Request.Context(), caller, teamID, req.Content, req.MediaURLs)
	if err != nil {
		renderServiceErr(ctx, "HandleCreateTeamPost -> h.svc.CreateTeamPost", err)
		return
	}

	ctx.JSON(http.StatusCreated, post)
}

func pageCursor(ctx *gin.Context) (uint, int, *response.Err) {
	before, respErr := queryInt(ctx, "before")
	if respErr != nil {
		return 0, 0, respErr
	}
	if before < 0 {
		return 0, 0, response.ErrBadRequest(errNegativeCursor)
	}

	limit, respErr := queryInt(ctx, "limit")
	if respErr != nil {
		return 0, 0, respErr
	}

	return uint(before), limit, nil
}
