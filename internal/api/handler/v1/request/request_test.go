package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAchievementRequest_Validate(t *testing.T) {
	ok := AchievementRequest{Title: "Run 5k", Points: 0, Images: []string{"https://cdn.example.com/a.png"}}
	assert.NoError(t, ok.Validate())

	for name, req := range map[string]AchievementRequest{
		"no title":        {Points: 5},
		"negative points": {Title: "x", Points: -1},
		"bad image":       {Title: "x", Images: []string{"not a url"}},
		"no scheme":       {Title: "x", Images: []string{"example.com/proof.jpg"}},
		"ftp image":       {Title: "x", Images: []string{"ftp://example.com/a.jpg"}},
		"empty entry":     {Title: "x", Images: []string{""}},
	} {
		assert.Error(t, req.Validate(), name)
	}
}

func TestDecisionRequest_Validate(t *testing.T) {
	assert.NoError(t, (&DecisionRequest{}).Validate())

	zero := 0
	assert.NoError(t, (&DecisionRequest{Points: &zero}).Validate())

	negative := -5
	assert.Error(t, (&DecisionRequest{Points: &negative}).Validate())
}

func TestCreatePostRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CreatePostRequest{Content: "hello"}).Validate())
	assert.NoError(t, (&CreatePostRequest{MediaURLs: []string{"https://cdn.example.com/v.mp4"}}).Validate())
	assert.ErrorIs(t, (&CreatePostRequest{}).Validate(), errEmptyPost)
	assert.Error(t, (&CreatePostRequest{MediaURLs: []string{"example.com/proof.jpg"}}).Validate())
	assert.Error(t, (&CreatePostRequest{MediaURLs: []string{"ftp://example.com/a.jpg"}}).Validate())
}

func TestGrantBonusRequest_Validate(t *testing.T) {
	assert.NoError(t, (&GrantBonusRequest{UserID: "u-1", Points: 5}).Validate())
	assert.Error(t, (&GrantBonusRequest{UserID: "u-1", Points: 0}).Validate())
	assert.Error(t, (&GrantBonusRequest{Points: 5}).Validate())
	assert.Error(t, (&GrantBonusRequest{UserID: "u-1", Points: 5, ProofURL: "nope"}).Validate())
	assert.Error(t, (&GrantBonusRequest{UserID: "u-1", Points: 5, ProofURL: "example.com/proof.jpg"}).Validate())
	assert.Error(t, (&GrantBonusRequest{UserID: "u-1", Points: 5, ProofURL: "ftp://example.com/a.jpg"}).Validate())
	assert.NoError(t, (&GrantBonusRequest{UserID: "u-1", Points: 5, ProofURL: "http://cdn.example.com/a.jpg"}).Validate())
}

func TestCreateEventRequest_Validate(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	assert.NoError(t, (&CreateEventRequest{Name: "Hunt", StartsAt: &start, EndsAt: &end}).Validate())
	assert.ErrorIs(t, (&CreateEventRequest{Name: "Hunt", StartsAt: &end, EndsAt: &start}).Validate(), errEndsBeforeStart)
	assert.Error(t, (&CreateEventRequest{Name: "Hunt", Status: "paused"}).Validate())
	assert.Error(t, (&UpdateEventStatusRequest{}).Validate())
	assert.NoError(t, (&UpdateEventStatusRequest{Status: "done"}).Validate())
}

func TestCreateCommentRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CreateCommentRequest{Content: "nice run"}).Validate())
	assert.NoError(t, (&CreateCommentRequest{MediaURLs: []string{"https://cdn.example.com/a.jpg"}}).Validate())
	assert.ErrorIs(t, (&CreateCommentRequest{}).Validate(), errEmptyPost)
	assert.Error(t, (&CreateCommentRequest{MediaURLs: []string{"ftp://example.com/a.jpg"}}).Validate())
}
