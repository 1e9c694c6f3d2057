package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrAchievementNotFound      = errors.New("achievement not found")
	ErrSubmissionNotFound       = errors.New("submission not found")
	ErrPendingSubmissionExists  = errors.New("a pending submission already exists for this claim")
	ErrApprovedSubmissionExists = errors.New("this claim has already been approved")
	ErrSubmissionAlreadyDecided = errors.New("submission was already reviewed")
	ErrScoreEntryExists         = errors.New("score entry already exists for submission")
	ErrEventNotFound            = errors.New("scavenger event not found")
	ErrEventStatusConflict      = errors.New("scavenger event status changed concurrently")
	ErrTaskNotFound             = errors.New("scavenger task not found")
	ErrTeamNotFound             = errors.New("team not found")
	ErrTeamMemberExists         = errors.New("user is already on a team for this event")
	ErrTeamMemberNotFound       = errors.New("user is not on this team")
	ErrFeedPostNotFound         = errors.New("feed post not found")
)

// isUniqueViolation understands raw pgx errors as well as gorm's translated
// ErrDuplicatedKey, which the sqlite driver produces with TranslateError.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}
