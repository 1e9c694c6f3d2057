package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questboard/questboard-api/internal/domain"
)

type huntFixture struct {
	env   *testEnv
	judge domain.Caller
	alice domain.Caller
	bob   domain.Caller
	event domain.ScavengerEvent
	task  domain.ScavengerTask
	red   domain.Team
	blue  domain.Team
}

func newHunt(t *testing.T, status domain.EventStatus) huntFixture {
	t.Helper()

	env := newTestEnv(t)
	ctx := context.Background()
	f := huntFixture{
		env:   env,
		judge: env.caller(t, "u-judge", "Judy", true),
		alice: env.caller(t, "u-alice", "Alice", false),
		bob:   env.caller(t, "u-bob", "Bob", false),
	}

	var err error
	f.event, err = env.scavenger.CreateEvent(ctx, f.judge, domain.ScavengerEvent{Name: "Campus Hunt", Status: status})
	require.NoError(t, err)
	f.task, err = env.scavenger.CreateTask(ctx, f.judge, domain.ScavengerTask{EventID: f.event.ID, Title: "Find the statue", Points: 30})
	require.NoError(t, err)

	f.red, err = env.scavenger.CreateTeam(ctx, f.judge, f.event.ID, "Red Foxes")
	require.NoError(t, err)
	f.blue, err = env.scavenger.CreateTeam(ctx, f.judge, f.event.ID, "Blue Owls")
	require.NoError(t, err)

	f.red, err = env.scavenger.AddTeamMember(ctx, f.judge, f.red.ID, f.alice.UserID)
	require.NoError(t, err)
	f.blue, err = env.scavenger.AddTeamMember(ctx, f.judge, f.blue.ID, f.bob.UserID)
	require.NoError(t, err)

	return f
}

func TestTeamApproveAndRevoke(t *testing.T) {
	f := newHunt(t, domain.EventOngoing)
	ctx := context.Background()

	sub, err := f.env.submissions.CreateTeamSubmission(ctx, f.alice, f.task.ID, "Selfie with the statue", nil)
	require.NoError(t, err)
	assert.Equal(t, f.red.ID, sub.TeamID)
	assert.Equal(t, domain.StatusPending, sub.Status)

	_, err = f.env.submissions.CreateTeamSubmission(ctx, f.alice, f.task.ID, "", nil)
	assert.ErrorIs(t, err, ErrDuplicatePendingSubmission)

	approved, err := f.env.reviews.ApproveTeamSubmission(ctx, f.judge, sub.ID, "Nice angle", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)

	total, err := f.env.scores.TotalPointsForTeam(ctx, f.red.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	standings, err := f.env.scores.TeamLeaderboard(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, "Red Foxes", standings[0].Name)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, 0, standings[1].Total)

	progress, err := f.env.scavenger.TeamProgress(ctx, f.red.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.True(t, progress[0].Completed)
	assert.True(t, progress[0].Approved)
	assert.Equal(t, "Nice angle", progress[0].JudgeComment)

	revoked, err := f.env.reviews.RejectTeamSubmission(ctx, f.judge, sub.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRevoked, revoked.Status)

	total, err = f.env.scores.TotalPointsForTeam(ctx, f.red.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	posts, err := f.env.feed.ListTeamFeed(ctx, f.alice, f.red.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "⚠️ Task \"Find the statue\" has been revoked. Red Foxes loses 30 points.", posts[0].Content)
	assert.Equal(t, "✅ Task \"Find the statue\" approved: +30 points for Red Foxes!\n\n💬 Judge: \"Nice angle\"", posts[1].Content)
	for _, p := range posts {
		assert.Equal(t, JudgeAuthorName, p.AuthorName)
		assert.Equal(t, f.judge.UserID, p.AuthorID)
	}

	history, err := f.env.reviews.History(ctx, f.judge, domain.ReviewKindTeamTask, sub.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = f.env.reviews.RejectTeamSubmission(ctx, f.judge, sub.ID, "")
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestTeamFeedIsolation(t *testing.T) {
	f := newHunt(t, domain.EventOngoing)
	ctx := context.Background()

	sub, err := f.env.submissions.CreateTeamSubmission(ctx, f.alice, f.task.ID, "", nil)
	require.NoError(t, err)
	_, err = f.env.reviews.RejectTeamSubmission(ctx, f.judge, sub.ID, "Wrong statue")
	require.NoError(t, err)

	_, err = f.env.feed.CreateTeamPost(ctx, f.alice, f.red.ID, "Meet at the library", nil)
	require.NoError(t, err)

	global, err := f.env.feed.ListFeed(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, global)

	red, err := f.env.feed.ListTeamFeed(ctx, f.alice, f.red.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, red, 2)
	assert.Equal(t, "Meet at the library", red[0].Content)
	assert.Equal(t, domain.FeedEventTaskRejected, red[1].EventType)
	assert.Equal(t, "❌ Task \"Find the statue\" was rejected.\n\n💬 Judge: \"Wrong statue\"", red[1].Content)

	blue, err := f.env.feed.ListTeamFeed(ctx, f.bob, f.blue.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, blue)

	_, err = f.env.feed.ListTeamFeed(ctx, f.bob, f.red.ID, 0, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.env.feed.CreateTeamPost(ctx, f.bob, f.red.ID, "hello", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	judgeView, err := f.env.feed.ListTeamFeed(ctx, f.judge, f.red.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, judgeView, 2)

	// A rejected task can be attempted again.
	_, err = f.env.submissions.CreateTeamSubmission(ctx, f.alice, f.task.ID, "", nil)
	assert.NoError(t, err)
}

func TestTeamSubmission_Guards(t *testing.T) {
	f := newHunt(t, domain.EventWaiting)
	ctx := context.Background()

	_, err := f.env.submissions.CreateTeamSubmission(ctx, f.alice, f.task.ID, "", nil)
	assert.ErrorIs(t, err, ErrEventNotOngoing)

	_, err = f.env.scavenger.UpdateEventStatus(ctx, f.judge, f.event.ID, domain.EventOngoing)
	require.NoError(t, err)

	carol := f.env.caller(t, "u-carol", "Carol", false)
	_, err = f.env.submissions.CreateTeamSubmission(ctx, carol, f.task.ID, "", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.env.submissions.CreateTeamSubmission(ctx, f.alice, 9999, "", nil)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = f.env.submissions.ListTeamSubmissions(ctx, f.bob, f.red.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.env.submissions.ListTeamQueue(ctx, f.alice, f.event.ID, domain.StatusPending)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestEventTransitionsOnlyMoveForward(t *testing.T) {
	f := newHunt(t, domain.EventHidden)
	ctx := context.Background()

	_, err := f.env.scavenger.UpdateEventStatus(ctx, f.alice, f.event.ID, domain.EventWaiting)
	assert.ErrorIs(t, err, ErrUnauthorized)

	updated, err := f.env.scavenger.UpdateEventStatus(ctx, f.judge, f.event.ID, domain.EventOngoing)
	require.NoError(t, err)
	assert.Equal(t, domain.EventOngoing, updated.Status)

	for _, back := range []domain.EventStatus{domain.EventHidden, domain.EventWaiting, domain.EventOngoing} {
		_, err = f.env.scavenger.UpdateEventStatus(ctx, f.judge, f.event.ID, back)
		assert.ErrorIs(t, err, ErrInvalidEventTransition, "ongoing -> %s", back)
	}

	_, err = f.env.scavenger.UpdateEventStatus(ctx, f.judge, f.event.ID, domain.EventDone)
	require.NoError(t, err)
	_, err = f.env.scavenger.UpdateEventStatus(ctx, f.judge, 9999, domain.EventDone)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestHiddenEventsStayHidden(t *testing.T) {
	f := newHunt(t, domain.EventHidden)
	ctx := context.Background()

	events, err := f.env.scavenger.ListEvents(ctx, f.alice)
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = f.env.scavenger.ListTasks(ctx, f.alice, f.event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	events, err = f.env.scavenger.ListEvents(ctx, f.judge)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	tasks, err := f.env.scavenger.ListTasks(ctx, f.judge, f.event.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTeamMembership(t *testing.T) {
	f := newHunt(t, domain.EventOngoing)
	ctx := context.Background()

	_, err := f.env.scavenger.AddTeamMember(ctx, f.judge, f.blue.ID, f.alice.UserID)
	assert.ErrorIs(t, err, ErrTeamMemberExists)

	mine, err := f.env.scavenger.MyTeam(ctx, f.alice, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, f.red.ID, mine.ID)
	assert.Equal(t, []string{f.alice.UserID}, mine.Members)

	team, err := f.env.scavenger.RemoveTeamMember(ctx, f.judge, f.red.ID, f.alice.UserID)
	require.NoError(t, err)
	assert.Empty(t, team.Members)

	_, err = f.env.scavenger.RemoveTeamMember(ctx, f.judge, f.red.ID, f.alice.UserID)
	assert.ErrorIs(t, err, ErrTeamMemberNotFound)

	_, err = f.env.scavenger.MyTeam(ctx, f.alice, f.event.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	team, err = f.env.scavenger.AddTeamMember(ctx, f.judge, f.blue.ID, f.alice.UserID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.alice.UserID, f.bob.UserID}, team.Members)

	_, err = f.env.scavenger.CreateTask(ctx, f.judge, domain.ScavengerTask{EventID: f.event.ID, Title: "x", Points: -3})
	assert.ErrorIs(t, err, ErrInvalidPoints)
}

func TestAdvanceSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	judge := env.caller(t, "u-judge", "Judy", true)

	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	starting, err := env.scavenger.CreateEvent(ctx, judge, domain.ScavengerEvent{Name: "Morning", Status: domain.EventWaiting, StartsAt: &past, EndsAt: &future})
	require.NoError(t, err)
	ending, err := env.scavenger.CreateEvent(ctx, judge, domain.ScavengerEvent{Name: "Night", Status: domain.EventOngoing, EndsAt: &past})
	require.NoError(t, err)
	hidden, err := env.scavenger.CreateEvent(ctx, judge, domain.ScavengerEvent{Name: "Secret", StartsAt: &past})
	require.NoError(t, err)

	started, ended, err := env.scavenger.AdvanceSchedule(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), started)
	assert.Equal(t, int64(1), ended)

	events, err := env.scavenger.ListEvents(ctx, judge)
	require.NoError(t, err)
	statuses := map[uint]domain.EventStatus{}
	for _, e := range events {
		statuses[e.ID] = e.Status
	}
	assert.Equal(t, domain.EventOngoing, statuses[starting.ID])
	assert.Equal(t, domain.EventDone, statuses[ending.ID])
	assert.Equal(t, domain.EventHidden, statuses[hidden.ID])
}
