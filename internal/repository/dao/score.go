package dao

import (
	"context"

	"gorm.io/gorm"
)

// userTotalExpr is the single definition of a user's score: ledger rows plus
// bonus grants. Every read path that needs a total goes through it.
// Sums are cast because Postgres widens SUM(bigint) to numeric.
const userTotalExpr = `CAST(COALESCE((SELECT SUM(e.points) FROM score_entries AS e WHERE e.user_id = u.id), 0)
	+ COALESCE((SELECT SUM(b.points) FROM bonus_grants AS b WHERE b.user_id = u.id), 0) AS BIGINT)`

const teamTotalExpr = `CAST(COALESCE((SELECT SUM(ts.points_awarded) FROM team_task_status AS ts
	WHERE ts.team_id = t.id AND ts.status = 'approved'), 0) AS BIGINT)`

type UserTotal struct {
	UserID      string
	DisplayName string
	AvatarURL   string
	Total       int
}

type TeamTotal struct {
	TeamID uint
	Name   string
	Total  int
}

type ScoreDAO struct {
	db *gorm.DB
}

func NewScoreDAO(db *gorm.DB) *ScoreDAO {
	return &ScoreDAO{
		db: db,
	}
}

// SumUserPoints does not require the user to be in the mirror, so an unknown id is 0.
func (d *ScoreDAO) SumUserPoints(ctx context.Context, userID string) (int, error) {
	var total int64
	result := d.db.WithContext(ctx).Raw(
		`SELECT CAST(COALESCE((SELECT SUM(points) FROM score_entries WHERE user_id = ?), 0)
			+ COALESCE((SELECT SUM(points) FROM bonus_grants WHERE user_id = ?), 0) AS BIGINT)`,
		userID, userID,
	).Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(total), nil
}

// UserTotals returns every known user ordered by total desc then id asc.
// A non-positive limit returns all rows.
func (d *ScoreDAO) UserTotals(ctx context.Context, limit, offset int) ([]UserTotal, error) {
	query := d.db.WithContext(ctx).
		Table("users AS u").
		Select("u.id AS user_id, u.display_name, u.avatar_url, " + userTotalExpr + " AS total").
		Order("total DESC, u.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var totals []UserTotal
	if err := query.Scan(&totals).Error; err != nil {
		return nil, err
	}

	return totals, nil
}

func (d *ScoreDAO) SumTeamPoints(ctx context.Context, teamID uint) (int, error) {
	var total int64
	result := d.db.WithContext(ctx).
		Model(&TeamSubmission{}).
		Select("CAST(COALESCE(SUM(points_awarded), 0) AS BIGINT)").
		Where("team_id = ? AND status = ?", teamID, statusApproved).
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(total), nil
}

func (d *ScoreDAO) TeamTotals(ctx context.Context, eventID uint) ([]TeamTotal, error) {
	var totals []TeamTotal
	result := d.db.WithContext(ctx).
		Table("teams AS t").
		Select("t.id AS team_id, t.name, "+teamTotalExpr+" AS total").
		Where("t.event_id = ?", eventID).
		Order("total DESC, t.id ASC").
		Scan(&totals)
	if result.Error != nil {
		return nil, result.Error
	}

	return totals, nil
}

func (d *ScoreDAO) ListScoreEntries(ctx context.Context, userID string) ([]ScoreEntry, error) {
	var entries []ScoreEntry
	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// ScoredSubmissions lists the user's approved and revoked submissions, newest first.
func (d *ScoreDAO) ScoredSubmissions(ctx context.Context, userID string) ([]Submission, error) {
	var submissions []Submission
	result := d.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ? AND status IN ?", userID, []string{statusApproved, statusRevoked}).
		Order("id DESC").
		Find(&submissions)
	if result.Error != nil {
		return nil, result.Error
	}

	return submissions, nil
}
