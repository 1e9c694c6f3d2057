package domain

import "time"

// Decision is a reviewer's status change plus the ledger and feed writes that
// must land with it. The store applies it atomically.
type Decision struct {
	SubmissionID uint
	From         SubmissionStatus
	To           SubmissionStatus
	ReviewerID   string
	Comment      string
	Points       int
	DecidedAt    time.Time

	Score       *ScoreEntry
	RemoveScore bool
	Post        *FeedPost
}

type DecisionOutcome struct {
	ScoreRowsRemoved int64
	Post             *FeedPost
}
