package notifier

import (
	"sync"

	"github.com/mkrogh/courtline/internal/session"
	"github.com/mkrogh/courtline/internal/summary"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendSessionSummaryFunc func(sess *session.Session, sum *summary.SessionSummary, dryRun bool) error
	SendWaitingListFunc    func(sess *session.Session, waiting []session.Player, dryRun bool) error

	// Call records
	SendSessionSummaryCalls []struct {
		Session *session.Session
		Summary *summary.SessionSummary
	}
	SendWaitingListCalls []struct {
		Session *session.Session
		Waiting []session.Player
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendSessionSummary(sess *session.Session, sum *summary.SessionSummary, dryRun bool) error {
	m.mu.Lock()
	m.SendSessionSummaryCalls = append(m.SendSessionSummaryCalls, struct {
		Session *session.Session
		Summary *summary.SessionSummary
	}{sess, sum})
	m.mu.Unlock()
	if m.SendSessionSummaryFunc != nil {
		return m.SendSessionSummaryFunc(sess, sum, dryRun)
	}
	return nil
}

func (m *Mock) SendWaitingList(sess *session.Session, waiting []session.Player, dryRun bool) error {
	m.mu.Lock()
	m.SendWaitingListCalls = append(m.SendWaitingListCalls, struct {
		Session *session.Session
		Waiting []session.Player
	}{sess, waiting})
	m.mu.Unlock()
	if m.SendWaitingListFunc != nil {
		return m.SendWaitingListFunc(sess, waiting, dryRun)
	}
	return nil
}
