package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/request"
	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/domain"
)

type ScavengerService interface {
	CreateEvent(ctx context.Context, caller domain.Caller, event domain.ScavengerEvent) (domain.ScavengerEvent, error)
	UpdateEventStatus(ctx context.Context, caller domain.Caller, eventID uint, to domain.EventStatus) (domain.ScavengerEvent, error)
	ListEvents(ctx context.Context, caller domain.Caller) ([]domain.ScavengerEvent, error)
	CreateTask(ctx context.Context, caller domain.Caller, task domain.ScavengerTask) (domain.ScavengerTask, error)
	ListTasks(ctx context.Context, caller domain.Caller, eventID uint) ([]domain.ScavengerTask, error)
	CreateTeam(ctx context.Context, caller domain.Caller, eventID uint, name string) (domain.Team, error)
	AddTeamMember(ctx context.Context, caller domain.Caller, teamID uint, userID string) (domain.Team, error)
	RemoveTeamMember(ctx context.Context, caller domain.Caller, teamID uint, userID string) (domain.Team, error)
	GetTeam(ctx context.Context, teamID uint) (domain.Team, error)
	MyTeam(ctx context.Context, caller domain.Caller, eventID uint) (domain.Team, error)
	TeamProgress(ctx context.Context, teamID uint) ([]domain.TeamTaskProgress, error)
}

type TeamSubmissionService interface {
	CreateTeamSubmission(ctx context.Context, caller domain.Caller, taskID uint, text string, mediaURLs []string) (domain.TeamSubmission, error)
	ListTeamSubmissions(ctx context.Context, caller domain.Caller, teamID uint) ([]domain.TeamSubmission, error)
	ListTeamQueue(ctx context.Context, caller domain.Caller, eventID uint, status domain.SubmissionStatus) ([]domain.TeamSubmission, error)
}

type TeamReviewService interface {
	ApproveTeamSubmission(ctx context.Context, caller domain.Caller, submissionID uint, comment string, points *int) (domain.TeamSubmission, error)
	RejectTeamSubmission(ctx context.Context, caller domain.Caller, submissionID uint, comment string) (domain.TeamSubmission, error)
	History(ctx context.Context, caller domain.Caller, kind string, submissionID uint) ([]domain.SubmissionReview, error)
}

type ScavengerHandler struct {
	identity    IdentityService
	svc         ScavengerService
	submissions TeamSubmissionService
	reviews     TeamReviewService
	scores      ScoreService
}

func NewScavengerHandler(identity IdentityService, svc ScavengerService, submissions TeamSubmissionService, reviews TeamReviewService, scores ScoreService) *ScavengerHandler {
	return &ScavengerHandler{
		identity:    identity,
		svc:         svc,
		submissions: submissions,
		reviews:     reviews,
		scores:      scores,
	}
}

// HandleListEvents godoc
// @Summary      List scavenger events
// @Description  Hidden events are only listed for reviewers.
// @Tags         scavenger
// @Produce      json
// @Success      200  {array}   domain.ScavengerEvent
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /scavenger/events [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleListEvents(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), caller)
	if err != nil {
		renderServiceErr(ctx, "HandleListEvents -> h.svc.ListEvents", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleCreateEvent godoc
// @Summary      Create a scavenger event
// @Tags         scavenger
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "request body"
// @Success      201  {object}  domain.ScavengerEvent
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /scavenger/events [post]
// @Security BearerAuth
func (h *ScavengerHandler) HandleCreateEvent(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), caller, domain.ScavengerEvent{
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.EventStatus(req.Status),
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		renderServiceErr(ctx, "HandleCreateEvent -> h.svc.CreateEvent", err)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleUpdateEventStatus godoc
// @Summary      Move an event forward
// @Description  hidden, waiting, ongoing, done. Steps may be skipped but never reversed.
// @Tags         scavenger
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                               true  "event ID"
// @Param        request  body      request.UpdateEventStatusRequest  true  "request body"
// @Success      200  {object}  domain.ScavengerEvent
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /scavenger/events/{eventID}/status [patch]
// @Security BearerAuth
func (h *ScavengerHandler) HandleUpdateEventStatus(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := paramID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateEventStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.UpdateEventStatus(ctx.Request.Context(), caller, eventID, domain.EventStatus(req.Status))
	if err != nil {
		renderServiceErr(ctx, "HandleUpdateEventStatus -> h.svc.UpdateEventStatus", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleListTasks godoc
// @Summary      Tasks of an event
// @Tags         scavenger
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200  {array}   domain.ScavengerTask
// @Failure      404  {object}  response.Err
// @Router       /scavenger/events/{eventID}/tasks [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleListTasks(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := paramID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tasks, err := h.svc.ListTasks(ctx.Request.Context(), caller, eventID)
	if err != nil {
		renderServiceErr(ctx, "HandleListTasks -> h.svc.ListTasks", err)
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

// HandleCreateTask godoc
// @Summary      Add a task to an event
// @Tags         scavenger
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                        true  "event ID"
// @Param        request  body      request.CreateTaskRequest  true  "request body"
// @Success      201  {object}  domain.ScavengerTask
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /scavenger/events/{eventID}/tasks [post]
// @Security BearerAuth
func (h *ScavengerHandler) HandleCreateTask(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := paramID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	task, err := h.svc.CreateTask(ctx.Request.Context(), caller, domain.ScavengerTask{
		EventID:     eventID,
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
	})
	if err != nil {
		renderServiceErr(ctx, "HandleCreateTask -> h.svc.CreateTask", err)
		return
	}

	ctx.JSON(http.StatusCreated, task)
}

// HandleCreateTeam godoc
// @Summary      Create a team for an event
// @Tags         scavenger
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                        true  "event ID"
// @Param        request  body      request.CreateTeamRequest  true  "request body"
// @Success      201  {object}  domain.Team
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /scavenger/events/{eventID}/teams [post]
// @Security BearerAuth
func (h *ScavengerHandler) HandleCreateTeam(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := paramID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	team, err := h.svc.CreateTeam(ctx.Request.Context(), caller, eventID, req.Name)
	if err != nil {
		renderServiceErr(ctx, "HandleCreateTeam -> h.svc.CreateTeam", err)
		return
	}

	ctx.JSON(http.StatusCreated, team)
}

// HandleEventLeaderboard godoc
// @Summary      Team standings of an event
// @Tags         scavenger
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200  {array}   domain.TeamStanding
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /scavenger/events/{eventID}/leaderboard [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleEventLeaderboard(ctx *gin.Context) {
	eventID, respErr := paramID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	standings, err := h.scores.TeamLeaderboard(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "HandleEventLeaderboard -> h.scores.TeamLeaderboard", err)
		return
	}

	ctx.JSON(http.StatusOK, standings)
}

// HandleMyTeam godoc
// @Summary      The caller's team in an event
// @Tags         scavenger
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200  {object}  domain.Team
// @Failure      404  {object}  response.Err
// @Router       /scavenger/events/{eventID}/my-team [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleMyTeam(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := paramID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	team, err := h.svc.MyTeam(ctx.Request.Context(), caller, eventID)
	if err != nil {
		renderServiceErr(ctx, "HandleMyTeam -> h.svc.MyTeam", err)
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// HandleGetTeam godoc
// @Summary      Get a team
// @Tags         scavenger
// @Produce      json
// @Param        teamID  path      int  true  "team ID"
// @Success      200  {object}  domain.Team
// @Failure      404  {object}  response.Err
// @Router       /scavenger/teams/{teamID} [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleGetTeam(ctx *gin.Context) {
	teamID, respErr := paramID(ctx, "teamID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	team, err := h.svc.GetTeam(ctx.Request.Context(), teamID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetTeam -> h.svc.GetTeam", err)
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// HandleAddTeamMember godoc
// @Summary      Add a member to a team
// @Description  A user can be on one team per event.
// @Tags         scavenger
// @Accept       json
// @Produce      json
// @Param        teamID   path      int                       true  "team ID"
// @Param        request  body      request.AddMemberRequest  true  "request body"
// @Success      200  {object}  domain.Team
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /scavenger/teams/{teamID}/members [post]
// @Security BearerAuth
func (h *ScavengerHandler) HandleAddTeamMember(ctx *gin.Context) {
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

	var req request.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	team, err := h.svc.AddTeamMember(ctx.Request.Context(), caller, teamID, req.UserID)
	if err != nil {
		renderServiceErr(ctx, "HandleAddTeamMember -> h.svc.AddTeamMember", err)
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// HandleRemoveTeamMember godoc
// @Summary      Remove a member from a team
// @Tags         scavenger
// @Produce      json
// @Param        teamID  path      int     true  "team ID"
// @Param        userID  path      string  true  "user ID"
// @Success      200  {object}  domain.Team
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /scavenger/teams/{teamID}/members/{userID} [delete]
// @Security BearerAuth
func (h *ScavengerHandler) HandleRemoveTeamMember(ctx *gin.Context) {
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

	team, err := h.svc.RemoveTeamMember(ctx.Request.Context(), caller, teamID, ctx.Param("userID"))
	if err != nil {
		renderServiceErr(ctx, "HandleRemoveTeamMember -> h.svc.RemoveTeamMember", err)
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// HandleTeamProgress godoc
// @Summary      Per-task progress of a team
// @Tags         scavenger
// @Produce      json
// @Param        teamID  path      int  true  "team ID"
// @Success      200  {array}   domain.TeamTaskProgress
// @Failure      404  {object}  response.Err
// @Router       /scavenger/teams/{teamID}/progress [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleTeamProgress(ctx *gin.Context) {
	teamID, respErr := paramID(ctx, "teamID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	progress, err := h.svc.TeamProgress(ctx.Request.Context(), teamID)
	if err != nil {
		renderServiceErr(ctx, "HandleTeamProgress -> h.svc.TeamProgress", err)
		return
	}

	ctx.JSON(http.StatusOK, progress)
}

// HandleTeamScore godoc
// @Summary      Total points of a team
// @Tags         scavenger
// @Produce      json
// @Param        teamID  path      int  true  "team ID"
// @Success      200  {object}  response.TeamScoreResponse
// @Failure      500  {object}  response.Err
// @Router       /scavenger/teams/{teamID}/score [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleTeamScore(ctx *gin.Context) {
	teamID, respErr := paramID(ctx, "teamID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	total, err := h.scores.TotalPointsForTeam(ctx.Request.Context(), teamID)
	if err != nil {
		renderServiceErr(ctx, "HandleTeamScore -> h.scores.TotalPointsForTeam", err)
		return
	}

	ctx.JSON(http.StatusOK, response.TeamScoreResponse{
		TeamID:      teamID,
		TotalPoints: total,
	})
}

// HandleListTeamSubmissions godoc
// @Summary      Submissions of a team
// @Tags         scavenger
// @Produce      json
// @Param        teamID  path      int  true  "team ID"
// @Success      200  {array}   domain.TeamSubmission
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /scavenger/teams/{teamID}/submissions [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleListTeamSubmissions(ctx *gin.Context) {
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

	subs, err := h.submissions.ListTeamSubmissions(ctx.Request.Context(), caller, teamID)
	if err != nil {
		renderServiceErr(ctx, "HandleListTeamSubmissions -> h.submissions.ListTeamSubmissions", err)
		return
	}

	ctx.JSON(http.StatusOK, subs)
}

// HandleCreateTeamSubmission godoc
// @Summary      Submit proof for a task on behalf of the caller's team
// @Description  The event must be ongoing.
// @Tags         scavenger
// @Accept       json
// @Produce      json
// @Param        taskID   path      int                              true  "task ID"
// @Param        request  body      request.CreateSubmissionRequest  true  "request body"
// @Success      201  {object}  domain.TeamSubmission
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /scavenger/tasks/{taskID}/submissions [post]
// @Security BearerAuth
func (h *ScavengerHandler) HandleCreateTeamSubmission(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx, h.identity)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	taskID, respErr := paramID(ctx, "taskID")
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

	sub, err := h.submissions.CreateTeamSubmission(ctx.Request.Context(), caller, taskID, req.Text, req.MediaURLs)
	if err != nil {
		renderServiceErr(ctx, "HandleCreateTeamSubmission -> h.submissions.CreateTeamSubmission", err)
		return
	}

	ctx.JSON(http.StatusCreated, sub)
}

// HandleListTeamQueue godoc
// @Summary      Judges' queue of team submissions
// @Tags         scavenger
// @Produce      json
// @Param        event_id  query     int     false  "event ID"
// @Param        status    query     string  false  "submission status"
// @Success      200  {array}   domain.TeamSubmission
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /scavenger/submissions [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleListTeamQueue(ctx *gin.Context) {
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
	eventID, respErr := queryInt(ctx, "event_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	subs, err := h.submissions.ListTeamQueue(ctx.Request.Context(), caller, uint(max(eventID, 0)), status)
	if err != nil {
		renderServiceErr(ctx, "HandleListTeamQueue -> h.submissions.ListTeamQueue", err)
		return
	}

	ctx.JSON(http.StatusOK, subs)
}

// HandleApproveTeamSubmission godoc
// @Summary      Approve a team submission
// @Tags         scavenger
// @Accept       json
// @Produce      json
// @Param        submissionID  path      int                      true  "team submission ID"
// @Param        request       body      request.DecisionRequest  true  "request body"
// @Success      200  {object}  domain.TeamSubmission
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /scavenger/submissions/{submissionID}/approve [post]
// @Security BearerAuth
func (h *ScavengerHandler) HandleApproveTeamSubmission(ctx *gin.Context) {
	caller, id, req, ok := bindDecision(ctx, h.identity)
	if !ok {
		return
	}

	sub, err := h.reviews.ApproveTeamSubmission(ctx.Request.Context(), caller, id, req.Comment, req.Points)
	if err != nil {
		renderServiceErr(ctx, "HandleApproveTeamSubmission -> h.reviews.ApproveTeamSubmission", err)
		return
	}

	ctx.JSON(http.StatusOK, sub)
}

// HandleRejectTeamSubmission godoc
// @Summary      Reject or revoke a team submission
// @Tags         scavenger
// @Accept       json
// @Produce      json
// @Param        submissionID  path      int                      true  "team submission ID"
// @Param        request       body      request.DecisionRequest  true  "request body"
// @Success      200  {object}  domain.TeamSubmission
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /scavenger/submissions/{submissionID}/reject [post]
// @Security BearerAuth
func (h *ScavengerHandler) HandleRejectTeamSubmission(ctx *gin.Context) {
	caller, id, req, ok := bindDecision(ctx, h.identity)
	if !ok {
		return
	}

	sub, err := h.reviews.RejectTeamSubmission(ctx.Request.Context(), caller, id, req.Comment)
	if err != nil {
		renderServiceErr(ctx, "HandleRejectTeamSubmission -> h.reviews.RejectTeamSubmission", err)
		return
	}

	ctx.JSON(http.StatusOK, sub)
}

// HandleTeamSubmissionHistory godoc
// @Summary      Review history of a team submission
// @Tags         scavenger
// @Produce      json
// @Param        submissionID  path      int  true  "team submission ID"
// @Success      200  {array}   domain.SubmissionReview
// @Failure      403  {object}  response.Err
// @Router       /scavenger/submissions/{submissionID}/history [get]
// @Security BearerAuth
func (h *ScavengerHandler) HandleTeamSubmissionHistory(ctx *gin.Context) {
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

	history, err := h.reviews.History(ctx.Request.Context(), caller, domain.ReviewKindTeamTask, id)
	if err != nil {
		renderServiceErr(ctx, "HandleTeamSubmissionHistory -> h.reviews.History", err)
		return
	}

	ctx.JSON(http.StatusOK, history)
}
