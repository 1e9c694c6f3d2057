package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questboard/questboard-api/internal/domain"
)

func TestFeedAnnouncer_Approval(t *testing.T) {
	a := NewFeedAnnouncer()
	sub := domain.Submission{
		ID:          7,
		UserID:      "u-alice",
		Achievement: domain.Achievement{Title: "Run 5k"},
		MediaURLs:   []string{"https://cdn.example.com/a.jpg"},
	}

	tests := []struct {
		name    string
		text    string
		comment string
		want    string
	}{
		{name: "bare", want: "🎉 Alice just earned +50 points for completing \"Run 5k\"!"},
		{name: "with text", text: "done", want: "🎉 Alice just earned +50 points for completing \"Run 5k\"!\n\n📝 Submission: \"done\""},
		{name: "with comment", comment: "well done", want: "🎉 Alice just earned +50 points for completing \"Run 5k\"!\n\n💬 Judge: \"well done\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sub
			s.Text = tt.text
			post := a.Approval(s, "Alice", 50, tt.comment)
			assert.Equal(t, tt.want, post.Content)
			assert.Equal(t, domain.FeedEventAchievementApproved, post.EventType)
			require.NotNil(t, post.SubmissionID)
			assert.Equal(t, uint(7), *post.SubmissionID)
			assert.Nil(t, post.TeamID)
		})
	}
}

func TestFeedAnnouncer_UnknownName(t *testing.T) {
	post := NewFeedAnnouncer().Revocation(domain.Submission{Achievement: domain.Achievement{Title: "Swim"}}, "  ", "")
	assert.Equal(t, "⚠️ Unknown User's achievement \"Swim\" has been revoked.", post.Content)
	assert.Equal(t, domain.UnknownDisplayName, post.AuthorName)
}

func TestFeedAnnouncer_MediaIsCopied(t *testing.T) {
	media := []string{"https://cdn.example.com/a.jpg"}
	post := NewFeedAnnouncer().Approval(domain.Submission{MediaURLs: media}, "Alice", 1, "")
	media[0] = "changed"
	assert.Equal(t, "https://cdn.example.com/a.jpg", post.MediaURLs[0])
}

func TestFeedAnnouncer_Bonus(t *testing.T) {
	a := NewFeedAnnouncer()

	post := a.Bonus("u-bob", "Bob", 10, "", "")
	assert.Equal(t, "🎖️ Bob just received +10 bonus points!", post.Content)
	assert.Empty(t, post.MediaURLs)
	assert.Equal(t, "u-bob", post.AuthorID)

	post = a.Bonus("u-bob", "Bob", 10, "Cleanup crew", "https://cdn.example.com/p.png")
	assert.Equal(t, "🎖️ Bob just received +10 bonus points!\n\n📝 Reason: \"Cleanup crew\"", post.Content)
	assert.Equal(t, []string{"https://cdn.example.com/p.png"}, post.MediaURLs)
	assert.Equal(t, domain.FeedEventBonusGranted, post.EventType)
}

func TestFeedAnnouncer_TeamPosts(t *testing.T) {
	a := NewFeedAnnouncer()
	points := 20
	sub := domain.TeamSubmission{ID: 3, Task: domain.ScavengerTask{Title: "Bridge"}, PointsAwarded: &points}
	team := domain.Team{ID: 9, Name: "Owls"}

	approval := a.TeamApproval(sub, team, 20, "u-judge", "")
	assert.Equal(t, "✅ Task \"Bridge\" approved: +20 points for Owls!", approval.Content)
	require.NotNil(t, approval.TeamID)
	assert.Equal(t, uint(9), *approval.TeamID)
	assert.Equal(t, JudgeAuthorName, approval.AuthorName)

	rejection := a.TeamRejection(sub, team, "u-judge", "too dark")
	assert.Equal(t, "❌ Task \"Bridge\" was rejected.\n\n💬 Judge: \"too dark\"", rejection.Content)
	assert.Equal(t, domain.FeedEventTaskRejected, rejection.EventType)

	revocation := a.TeamRevocation(sub, team, "u-judge", "")
	assert.Equal(t, "⚠️ Task \"Bridge\" has been revoked. Owls loses 20 points.", revocation.Content)
	assert.Equal(t, domain.FeedEventTaskRevoked, revocation.EventType)
}
