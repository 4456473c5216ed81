package session

import "sync"

// MockStore is a mock implementation of the SessionStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateSessionFunc        func(name string, courtCount int) (*Session, error)
	GetSessionFunc           func(sessionID string) (*Session, error)
	ListSessionsFunc         func() ([]Session, error)
	EndSessionFunc           func(sessionID string) error
	AddPlayersFunc           func(sessionID string, names []string) ([]Player, error)
	GetPlayersFunc           func(sessionID string) ([]Player, error)
	GetActiveAssignmentsFunc func(sessionID string) ([]Assignment, error)
	GetCourtsFunc            func(sessionID string) ([]Court, error)
	UpsertAssignmentFunc     func(sessionID string, courtNumber int, team1, team2 [2]string) (*Assignment, error)
	DeleteAssignmentFunc     func(sessionID string, courtNumber int) error
	RecordGameFunc           func(params RecordGameParams) (string, error)
	GetGamesFunc             func(sessionID string) ([]Game, error)

	// Call records
	UpsertAssignmentCalls []struct {
		SessionID    string
		CourtNumber  int
		Team1, Team2 [2]string
	}
	DeleteAssignmentCalls []struct {
		SessionID   string
		CourtNumber int
	}
	RecordGameCalls []RecordGameParams
	EndSessionCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreateSession(name string, courtCount int) (*Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(name, courtCount)
	}
	return &Session{Name: name, CourtCount: courtCount}, nil
}

func (m *MockStore) GetSession(sessionID string) (*Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(sessionID)
	}
	return &Session{ID: sessionID}, nil
}

func (m *MockStore) ListSessions() ([]Session, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc()
	}
	return nil, nil
}

func (m *MockStore) EndSession(sessionID string) error {
	m.mu.Lock()
	m.EndSessionCalls = append(m.EndSessionCalls, sessionID)
	m.mu.Unlock()
	if m.EndSessionFunc != nil {
		return m.EndSessionFunc(sessionID)
	}
	return nil
}

func (m *MockStore) AddPlayers(sessionID string, names []string) ([]Player, error) {
	if m.AddPlayersFunc != nil {
		return m.AddPlayersFunc(sessionID, names)
	}
	return nil, nil
}

func (m *MockStore) GetPlayers(sessionID string) ([]Player, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(sessionID)
	}
	return nil, nil
}

func (m *MockStore) GetActiveAssignments(sessionID string) ([]Assignment, error) {
	if m.GetActiveAssignmentsFunc != nil {
		return m.GetActiveAssignmentsFunc(sessionID)
	}
	return nil, nil
}

func (m *MockStore) GetCourts(sessionID string) ([]Court, error) {
	if m.GetCourtsFunc != nil {
		return m.GetCourtsFunc(sessionID)
	}
	return nil, nil
}

func (m *MockStore) UpsertAssignment(sessionID string, courtNumber int, team1, team2 [2]string) (*Assignment, error) {
	m.mu.Lock()
	m.UpsertAssignmentCalls = append(m.UpsertAssignmentCalls, struct {
		SessionID    string
		CourtNumber  int
		Team1, Team2 [2]string
	}{sessionID, courtNumber, team1, team2})
	m.mu.Unlock()
	if m.UpsertAssignmentFunc != nil {
		return m.UpsertAssignmentFunc(sessionID, courtNumber, team1, team2)
	}
	return &Assignment{SessionID: sessionID, CourtNumber: courtNumber, Team1: team1, Team2: team2}, nil
}

func (m *MockStore) DeleteAssignment(sessionID string, courtNumber int) error {
	m.mu.Lock()
	m.DeleteAssignmentCalls = append(m.DeleteAssignmentCalls, struct {
		SessionID   string
		CourtNumber int
	}{sessionID, courtNumber})
	m.mu.Unlock()
	if m.DeleteAssignmentFunc != nil {
		return m.DeleteAssignmentFunc(sessionID, courtNumber)
	}
	return nil
}

func (m *MockStore) RecordGame(params RecordGameParams) (string, error) {
	m.mu.Lock()
	m.RecordGameCalls = append(m.RecordGameCalls, params)
	m.mu.Unlock()
	if m.RecordGameFunc != nil {
		return m.RecordGameFunc(params)
	}
	return "mock-game-id", nil
}

func (m *MockStore) GetGames(sessionID string) ([]Game, error) {
	if m.GetGamesFunc != nil {
		return m.GetGamesFunc(sessionID)
	}
	return nil, nil
}
