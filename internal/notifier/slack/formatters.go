package slack

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkrogh/courtline/internal/rotation"
	"github.com/mkrogh/courtline/internal/session"
	"github.com/mkrogh/courtline/internal/summary"
	"github.com/slack-go/slack"
)

// formatSessionSummary creates the Slack message for a session summary using Block Kit.
func (s *Notifier) formatSessionSummary(sess *session.Session, sum *summary.SessionSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏸 %s — session summary 🏸", sess.Name), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Courts: %d\nGames played: %d", sess.CourtCount, sum.TotalGames)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	if len(sum.Players) > 0 {
		var lines []string
		for i, p := range sum.Players {
			lines = append(lines, fmt.Sprintf("%d. %s — %dW/%dL (%.1f%%)", i+1, p.Name, p.Wins, p.Losses, p.WinRatePct))
		}
		leaderboardText := "Leaderboard:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", leaderboardText, true, false), nil, nil))
	}

	if len(sum.TopPartnerships) > 0 {
		var lines []string
		for _, p := range sum.TopPartnerships {
			lines = append(lines, fmt.Sprintf("• %s & %s — %d wins in %d games", p.PlayerAName, p.PlayerBName, p.WinsTogether, p.GamesTogether))
		}
		partnershipsText := "Top partnerships:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", partnershipsText, true, false), nil, nil))
	}

	// Context - For simpler, single-line info.
	var contextElements []slack.MixedElement
	if sum.MostWins != nil {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 Most wins: %s (%d)", sum.MostWins.Name, sum.MostWins.Wins), true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatWaitingList creates the Slack message for the current waiting queue.
func (s *Notifier) formatWaitingList(sess *session.Session, waiting []session.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏸 Up next 🏸", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(waiting) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Nobody is waiting. Every player is on a court.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	now := time.Now()
	var lines []string
	for i, p := range waiting {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, p.Name, rotation.FormatWaitTime(p.LastPlayedAt, now)))
	}
	waitingText := fmt.Sprintf("Waiting in %s:\n%s", sess.Name, strings.Join(lines, "\n"))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", waitingText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
