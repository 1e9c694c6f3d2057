package dao

import "gorm.io/gorm"

// Partial indexes are created by hand because gorm index tags cannot carry
// the IN list. Both statements are valid for Postgres and SQLite.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_open_claim
		ON submissions (user_id, achievement_id) WHERE status IN ('pending', 'approved')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_team_task_status_open_claim
		ON team_task_status (team_id, task_id) WHERE status IN ('pending', 'approved')`,
}

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Achievement{},
		&Submission{},
		&ScoreEntry{},
		&BonusGrant{},
		&FeedPost{},
		&FeedComment{},
		&SubmissionReview{},
		&ScavengerEvent{},
		&ScavengerTask{},
		&Team{},
		&TeamMember{},
		&TeamSubmission{},
	)
	if err != nil {
		return err
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
