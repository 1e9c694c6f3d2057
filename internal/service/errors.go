package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/questboard/questboard-api/internal/domain"
	"github.com/questboard/questboard-api/internal/repository"
)

var (
	ErrUnauthenticated       = errors.New("caller is not authenticated")
	ErrUnauthorized          = errors.New("caller is not allowed to perform this action")
	ErrInvalidPoints         = errors.New("points must not be negative")
	ErrDependencyUnavailable = errors.New("a dependency is unavailable, retry later")
	ErrInvalidTransition     = domain.ErrInvalidTransition

	ErrUserNotFound               = repository.ErrUserNotFound
	ErrAchievementNotFound        = repository.ErrAchievementNotFound
	ErrSubmissionNotFound         = repository.ErrSubmissionNotFound
	ErrDuplicatePendingSubmission = repository.ErrDuplicatePendingSubmission
	ErrAlreadyApproved            = repository.ErrAlreadyApproved
	ErrAlreadyDecided             = repository.ErrAlreadyDecided
	ErrEventNotFound              = repository.ErrEventNotFound
	ErrEventStatusConflict        = repository.ErrEventStatusConflict
	ErrTaskNotFound               = repository.ErrTaskNotFound
	ErrTeamNotFound               = repository.ErrTeamNotFound
	ErrTeamMemberExists           = repository.ErrTeamMemberExists
	ErrTeamMemberNotFound         = repository.ErrTeamMemberNotFound
	ErrFeedPostNotFound           = repository.ErrFeedPostNotFound
)

// unavailable tags infrastructure failures so handlers can answer 503.
// Domain sentinels pass through untouched.
func unavailable(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	var connErr *pgconn.ConnectError
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.As(err, &netErr),
		errors.As(err, &connErr):
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}

	return err
}
