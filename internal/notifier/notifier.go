package notifier

import (
	"github.com/mkrogh/courtline/internal/session"
	"github.com/mkrogh/courtline/internal/summary"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendSessionSummary posts a session's leaderboard and partnership stats.
	SendSessionSummary(sess *session.Session, sum *summary.SessionSummary, dryRun bool) error
	// SendWaitingList posts the current wait-priority queue.
	SendWaitingList(sess *session.Session, waiting []session.Player, dryRun bool) error
}

// noop drops every notification. Used when no provider is configured.
type noop struct{}

// NewNoop returns a Notifier that discards all notifications.
func NewNoop() Notifier {
	return noop{}
}

func (noop) SendSessionSummary(sess *session.Session, sum *summary.SessionSummary, dryRun bool) error {
	return nil
}

func (noop) SendWaitingList(sess *session.Session, waiting []session.Player, dryRun bool) error {
	return nil
}
