package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/service"
)

var notFoundErrs = []error{
	service.ErrUserNotFound,
	service.ErrAchievementNotFound,
	service.ErrSubmissionNotFound,
	service.ErrEventNotFound,
	service.ErrTaskNotFound,
	service.ErrTeamNotFound,
	service.ErrTeamMemberNotFound,
	service.ErrFeedPostNotFound,
}

var conflictErrs = []error{
	service.ErrDuplicatePendingSubmission,
	service.ErrAlreadyApproved,
	service.ErrEventStatusConflict,
	service.ErrTeamMemberExists,
	service.ErrInvalidTransition,
}

var badRequestErrs = []error{
	service.ErrInvalidPoints,
	service.ErrInvalidBonusPoints,
	service.ErrInvalidEventTransition,
	service.ErrEventNotOngoing,
	service.ErrEmptyPost,
}

// renderServiceErr translates a service error into its HTTP answer. Anything
// it does not recognise is a 500 carrying the op breadcrumb.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	response.RenderErr(ctx, serviceErr(op, err))
}

func serviceErr(op string, err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return response.ErrUnauthenticated(err)
	case errors.Is(err, service.ErrUnauthorized):
		return response.ErrPermissionDenied(err)
	case errors.Is(err, service.ErrAlreadyDecided):
		return response.ErrAlreadyReviewed(err)
	case errors.Is(err, service.ErrDependencyUnavailable):
		return response.ErrServiceUnavailable(fmt.Errorf("%s -> %w", op, err))
	case errors.Is(err, service.ErrStorageDisabled):
		return response.ErrServiceUnavailable(fmt.Errorf("%s -> %w", op, err))
	case errors.Is(err, service.ErrFileTooLarge):
		return response.ErrPayloadTooLarge(err)
	case errors.Is(err, service.ErrUnsupportedFileType):
		return response.ErrUnsupportedMediaType(err)
	case isAny(err, notFoundErrs):
		return response.ErrNotFound(err)
	case isAny(err, conflictErrs):
		return response.ErrConflict(err)
	case isAny(err, badRequestErrs):
		return response.ErrBadRequest(err)
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
