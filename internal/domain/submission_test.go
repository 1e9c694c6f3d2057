package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	statuses := []SubmissionStatus{StatusPending, StatusApproved, StatusRejected, StatusRevoked}
	allowed := map[[2]SubmissionStatus]bool{
		{StatusPending, StatusApproved}: true,
		{StatusPending, StatusRejected}: true,
		{StatusApproved, StatusRevoked}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]SubmissionStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestRejectionTarget(t *testing.T) {
	tests := []struct {
		name    string
		from    SubmissionStatus
		want    SubmissionStatus
		wantErr bool
	}{
		{name: "pending is rejected", from: StatusPending, want: StatusRejected},
		{name: "approved is revoked", from: StatusApproved, want: StatusRevoked},
		{name: "rejected is final", from: StatusRejected, wantErr: true},
		{name: "revoked is final", from: StatusRevoked, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RejectionTarget(tt.from)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmissionStatus_Predicates(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusRevoked.IsTerminal())

	assert.True(t, StatusRevoked.IsRejected())
	assert.True(t, StatusRejected.IsRejected())
	assert.False(t, StatusApproved.IsRejected())

	assert.True(t, StatusPending.IsOpen())
	assert.True(t, StatusApproved.IsOpen())
	assert.False(t, StatusRevoked.IsOpen())
}

func TestParseSubmissionStatus(t *testing.T) {
	status, err := ParseSubmissionStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, status)

	_, err = ParseSubmissionStatus("archived")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestEventStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, EventHidden.CanAdvanceTo(EventWaiting))
	assert.True(t, EventWaiting.CanAdvanceTo(EventDone))
	assert.False(t, EventOngoing.CanAdvanceTo(EventWaiting))
	assert.False(t, EventDone.CanAdvanceTo(EventDone))
	assert.False(t, EventStatus("paused").CanAdvanceTo(EventDone))
}

func TestProgressFor(t *testing.T) {
	task := ScavengerTask{ID: 3, Title: "Find the statue", Points: 40}

	empty := ProgressFor(task, nil)
	assert.False(t, empty.Completed)
	assert.Nil(t, empty.SubmissionID)

	points := 55
	p := ProgressFor(task, &TeamSubmission{ID: 9, Status: StatusApproved, JudgeComment: "great", PointsAwarded: &points})
	assert.True(t, p.Completed)
	assert.True(t, p.Reviewed)
	assert.True(t, p.Approved)
	assert.Equal(t, uint(9), *p.SubmissionID)
	assert.Equal(t, 55, *p.PointsAwarded)

	pending := ProgressFor(task, &TeamSubmission{ID: 10, Status: StatusPending})
	assert.True(t, pending.Completed)
	assert.False(t, pending.Reviewed)
}

func TestBreakdownLabel(t *testing.T) {
	assert.Equal(t, "+100 points", BreakdownLabel(StatusApproved, 100))
	assert.Equal(t, "❌ Revoked", BreakdownLabel(StatusRevoked, 100))
}

func TestUserName(t *testing.T) {
	assert.Equal(t, UnknownDisplayName, User{ID: "u1"}.Name())
	assert.Equal(t, "Ada", User{ID: "u1", DisplayName: "Ada"}.Name())
}
