package session

// SessionStore defines the interface for interacting with session data.
type SessionStore interface {
	CreateSession(name string, courtCount int) (*Session, error)
	GetSession(sessionID string) (*Session, error)
	ListSessions() ([]Session, error)
	EndSession(sessionID string) error

	AddPlayers(sessionID string, names []string) ([]Player, error)
	GetPlayers(sessionID string) ([]Player, error)

	GetActiveAssignments(sessionID string) ([]Assignment, error)
	GetCourts(sessionID string) ([]Court, error)
	UpsertAssignment(sessionID string, courtNumber int, team1, team2 [2]string) (*Assignment, error)
	DeleteAssignment(sessionID string, courtNumber int) error

	// RecordGame appends a game, bumps the four players' ledgers and clears
	// the court, all in one transaction.
	RecordGame(params RecordGameParams) (string, error)
	GetGames(sessionID string) ([]Game, error)
}
