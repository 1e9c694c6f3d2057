package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/api/middleware"
	"github.com/questboard/questboard-api/internal/domain"
)

var errMissingClaims = errors.New("no verified identity on request")

type IdentityService interface {
	Resolve(ctx context.Context, identity domain.User) (domain.Caller, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
}

// callerFromContext turns the verified token claims into the Caller every
// service operation takes, refreshing the local users mirror on the way.
func callerFromContext(ctx *gin.Context, identity IdentityService) (domain.Caller, *response.Err) {
	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		return domain.Caller{}, response.ErrUnauthenticated(errMissingClaims)
	}

	caller, err := identity.Resolve(ctx.Request.Context(), domain.User{
		ID:          claims.Subject,
		DisplayName: claims.Name,
		AvatarURL:   claims.Picture,
		IsReviewer:  claims.Reviewer,
	})
	if err != nil {
		return domain.Caller{}, serviceErr("callerFromContext -> identity.Resolve", err)
	}

	return caller, nil
}

func paramID(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %w", name, err))
	}

	return uint(id), nil
}

// queryInt reads an optional integer query parameter.
func queryInt(ctx *gin.Context, name string) (int, *response.Err) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %w", name, err))
	}

	return n, nil
}

// queryStatus reads an optional status filter.
func queryStatus(ctx *gin.Context) (domain.SubmissionStatus, *response.Err) {
	raw := ctx.Query("status")
	if raw == "" {
		return "", nil
	}

	status, err := domain.ParseSubmissionStatus(raw)
	if err != nil {
		return "", response.ErrBadRequest(err)
	}

	return status, nil
}
