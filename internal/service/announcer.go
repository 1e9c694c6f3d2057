package service

import (
	"fmt"
	"strings"

	"github.com/questboard/questboard-api/internal/domain"
)

// JudgeAuthorName is the author shown on team feed notices.
const JudgeAuthorName = "Judge"

// FeedAnnouncer renders the system posts that accompany review decisions.
// It only builds posts; they are persisted with the decision itself.
type FeedAnnouncer struct{}

func NewFeedAnnouncer() *FeedAnnouncer {
	return &FeedAnnouncer{}
}

func (a *FeedAnnouncer) Approval(sub domain.Submission, submitterName string, points int, comment string) domain.FeedPost {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 %s just earned +%d points for completing \"%s\"!", nameOrUnknown(submitterName), points, sub.Achievement.Title)
	writeSubmissionLines(&b, sub.Text, comment)

	return a.submissionPost(sub, submitterName, domain.FeedEventAchievementApproved, b.String())
}

func (a *FeedAnnouncer) Revocation(sub domain.Submission, submitterName string, comment string) domain.FeedPost {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ %s's achievement \"%s\" has been revoked.", nameOrUnknown(submitterName), sub.Achievement.Title)
	writeSubmissionLines(&b, sub.Text, comment)

	return a.submissionPost(sub, submitterName, domain.FeedEventAchievementRevoked, b.String())
}

func (a *FeedAnnouncer) Bonus(recipientID, recipientName string, points int, reason, proofURL string) domain.FeedPost {
	var b strings.Builder
	fmt.Fprintf(&b, "🎖️ %s just received +%d bonus points!", nameOrUnknown(recipientName), points)
	if reason != "" {
		fmt.Fprintf(&b, "\n\n📝 Reason: \"%s\"", reason)
	}

	media := []string{}
	if proofURL != "" {
		media = append(media, proofURL)
	}

	return domain.FeedPost{
		AuthorID:   recipientID,
		AuthorName: nameOrUnknown(recipientName),
		Content:    b.String(),
		MediaURLs:  media,
		EventType:  domain.FeedEventBonusGranted,
	}
}

func (a *FeedAnnouncer) TeamApproval(sub domain.TeamSubmission, team domain.Team, points int, judgeID, comment string) domain.FeedPost {
	content := fmt.Sprintf("✅ Task \"%s\" approved: +%d points for %s!", sub.Task.Title, points, team.Name)

	return a.teamPost(sub, team, judgeID, domain.FeedEventTaskApproved, content, comment)
}

func (a *FeedAnnouncer) TeamRejection(sub domain.TeamSubmission, team domain.Team, judgeID, comment string) domain.FeedPost {
	content := fmt.Sprintf("❌ Task \"%s\" was rejected.", sub.Task.Title)

	return a.teamPost(sub, team, judgeID, domain.FeedEventTaskRejected, content, comment)
}

func (a *FeedAnnouncer) TeamRevocation(sub domain.TeamSubmission, team domain.Team, judgeID, comment string) domain.FeedPost {
	lost := 0
	if sub.PointsAwarded != nil {
		lost = *sub.PointsAwarded
	}
	content := fmt.Sprintf("⚠️ Task \"%s\" has been revoked. %s loses %d points.", sub.Task.Title, team.Name, lost)

	return a.teamPost(sub, team, judgeID, domain.FeedEventTaskRevoked, content, comment)
}

// Achievement posts are shown as authored by the submitter.
func (a *FeedAnnouncer) submissionPost(sub domain.Submission, submitterName string, event domain.FeedEventType, content string) domain.FeedPost {
	id := sub.ID

	return domain.FeedPost{
		AuthorID:     sub.UserID,
		AuthorName:   nameOrUnknown(submitterName),
		Content:      content,
		MediaURLs:    copyMedia(sub.MediaURLs),
		EventType:    event,
		SubmissionID: &id,
	}
}

func (a *FeedAnnouncer) teamPost(sub domain.TeamSubmission, team domain.Team, judgeID string, event domain.FeedEventType, content, comment string) domain.FeedPost {
	if comment != "" {
		content += fmt.Sprintf("\n\n💬 Judge: \"%s\"", comment)
	}
	id := sub.ID
	teamID := team.ID

	return domain.FeedPost{
		AuthorID:     judgeID,
		AuthorName:   JudgeAuthorName,
		Content:      content,
		MediaURLs:    []string{},
		EventType:    event,
		TeamID:       &teamID,
		SubmissionID: &id,
	}
}

func writeSubmissionLines(b *strings.Builder, text, comment string) {
	if text != "" {
		fmt.Fprintf(b, "\n\n📝 Submission: \"%s\"", text)
	}
	if comment != "" {
		fmt.Fprintf(b, "\n\n💬 Judge: \"%s\"", comment)
	}
}

func nameOrUnknown(name string) string {
	return domain.User{DisplayName: name}.Name()
}

func copyMedia(media []string) []string {
	out := make([]string, len(media))
	copy(out, media)

	return out
}
