package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new SessionStore backed by the given database.
func New(db *sql.DB) SessionStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// NewWithClock creates a SessionStore with an injectable clock for tests.
func NewWithClock(db *sql.DB, now func() time.Time) SessionStore {
	return &store{
		db:  db,
		now: now,
	}
}

func (s *store) CreateSession(name string, courtCount int) (*Session, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if courtCount <= 0 {
		return nil, &ValidationError{Field: "court_count", Reason: "must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:         uuid.New().String(),
		Name:       name,
		CourtCount: courtCount,
		CreatedAt:  s.now(),
	}
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, name, court_count, created_at) VALUES (?, ?, ?, ?)",
		sess.ID, sess.Name, sess.CourtCount, sess.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Info("Created session", "sessionID", sess.ID, "name", name, "courts", courtCount)
	return sess, nil
}

func (s *store) GetSession(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSessionLocked(sessionID)
}

func (s *store) getSessionLocked(sessionID string) (*Session, error) {
	row := s.db.QueryRow(
		"SELECT id, name, court_count, created_at, ended_at FROM sessions WHERE id = ?",
		sessionID,
	)

	var sess Session
	var createdAt int64
	var endedAt sql.NullInt64
	err := row.Scan(&sess.ID, &sess.Name, &sess.CourtCount, &createdAt, &endedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	sess.CreatedAt = time.Unix(createdAt, 0)
	if endedAt.Valid {
		t := time.Unix(endedAt.Int64, 0)
		sess.EndedAt = &t
	}
	return &sess, nil
}

func (s *store) ListSessions() ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, court_count, created_at, ended_at FROM sessions ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var createdAt int64
		var endedAt sql.NullInt64
		if err := rows.Scan(&sess.ID, &sess.Name, &sess.CourtCount, &createdAt, &endedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sess.CreatedAt = time.Unix(createdAt, 0)
		if endedAt.Valid {
			t := time.Unix(endedAt.Int64, 0)
			sess.EndedAt = &t
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// EndSession marks a session as ended. Ending does not lock the session:
// games and assignments are still accepted afterwards.
func (s *store) EndSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE sessions SET ended_at = ? WHERE id = ?", s.now().Unix(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	log.Info("Ended session", "sessionID", sessionID)
	return nil
}

// AddPlayers inserts a batch of players into a session in one transaction.
func (s *store) AddPlayers(sessionID string, names []string) ([]Player, error) {
	if len(names) == 0 {
		return nil, &ValidationError{Field: "players", Reason: "at least one player name is required"}
	}
	for _, name := range names {
		if name == "" {
			return nil, &ValidationError{Field: "players", Reason: "player names must not be empty"}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getSessionLocked(sessionID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO players (id, session_id, name, games_played) VALUES (?, ?, ?, 0)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare player insert: %w", err)
	}
	defer stmt.Close()

	players := make([]Player, 0, len(names))
	for _, name := range names {
		p := Player{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Name:      name,
		}
		if _, err := stmt.Exec(p.ID, p.SessionID, p.Name); err != nil {
			return nil, fmt.Errorf("failed to insert player %q: %w", name, err)
		}
		players = append(players, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit player inserts: %w", err)
	}
	log.Info("Added players to session", "sessionID", sessionID, "count", len(players))
	return players, nil
}

// GetPlayers returns a session's players in insertion order, which is the
// deterministic tie-break order the rotation sort relies on.
func (s *store) GetPlayers(sessionID string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, session_id, name, games_played, last_played_at FROM players WHERE session_id = ? ORDER BY rowid",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		var lastPlayed sql.NullInt64
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Name, &p.GamesPlayed, &lastPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		if lastPlayed.Valid {
			t := time.Unix(lastPlayed.Int64, 0)
			p.LastPlayedAt = &t
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) GetActiveAssignments(sessionID string) ([]Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getActiveAssignmentsLocked(sessionID)
}

func (s *store) getActiveAssignmentsLocked(sessionID string) ([]Assignment, error) {
	rows, err := s.db.Query(`
		SELECT session_id, court_number, player1_id, player2_id, player3_id, player4_id, assigned_at
		FROM court_assignments
		WHERE session_id = ?
		ORDER BY court_number
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var a Assignment
		var assignedAt int64
		if err := rows.Scan(&a.SessionID, &a.CourtNumber, &a.Team1[0], &a.Team1[1], &a.Team2[0], &a.Team2[1], &assignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		a.AssignedAt = time.Unix(assignedAt, 0)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// GetCourts returns the full court list 1..N with the active assignment, if
// any, attached to each court.
func (s *store) GetCourts(sessionID string) ([]Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.getActiveAssignmentsLocked(sessionID)
	if err != nil {
		return nil, err
	}

	byCourt := make(map[int]Assignment, len(assignments))
	for _, a := range assignments {
		byCourt[a.CourtNumber] = a
	}

	courts := make([]Court, 0, sess.CourtCount)
	for n := 1; n <= sess.CourtCount; n++ {
		court := Court{CourtNumber: n}
		if a, ok := byCourt[n]; ok {
			assignment := a
			court.Assignment = &assignment
		}
		courts = append(courts, court)
	}
	return courts, nil
}

// UpsertAssignment writes a court assignment, replacing any existing record
// for that court. Overwrite is the conflict policy.
func (s *store) UpsertAssignment(sessionID string, courtNumber int, team1, team2 [2]string) (*Assignment, error) {
	if courtNumber <= 0 {
		return nil, &ValidationError{Field: "court_number", Reason: "must be positive"}
	}
	for _, id := range [...]string{team1[0], team1[1], team2[0], team2[1]} {
		if id == "" {
			return nil, &ValidationError{Field: "players", Reason: "all four player ids are required"}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := &Assignment{
		SessionID:   sessionID,
		CourtNumber: courtNumber,
		Team1:       team1,
		Team2:       team2,
		AssignedAt:  s.now(),
	}
	_, err := s.db.Exec(`
		INSERT INTO court_assignments (session_id, court_number, player1_id, player2_id, player3_id, player4_id, assigned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, court_number) DO UPDATE SET
			player1_id = excluded.player1_id,
			player2_id = excluded.player2_id,
			player3_id = excluded.player3_id,
			player4_id = excluded.player4_id,
			assigned_at = excluded.assigned_at;
	`, a.SessionID, a.CourtNumber, a.Team1[0], a.Team1[1], a.Team2[0], a.Team2[1], a.AssignedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert assignment: %w", err)
	}
	log.Info("Assigned court", "sessionID", sessionID, "court", courtNumber)
	return a, nil
}

// DeleteAssignment clears a court. Clearing an already-empty court is a no-op.
func (s *store) DeleteAssignment(sessionID string, courtNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"DELETE FROM court_assignments WHERE session_id = ? AND court_number = ?",
		sessionID, courtNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to clear court: %w", err)
	}
	return nil
}

// RecordGame commits a finished game as one atomic unit: it appends the game
// row, bumps games_played and last_played_at for the four players and clears
// the court's assignment. On any failure nothing is written.
func (s *store) RecordGame(params RecordGameParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getSessionLocked(params.SessionID); err != nil {
		return "", err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	gameID := uuid.New().String()
	playedAt := s.now()

	_, err = tx.Exec(`
		INSERT INTO games (id, session_id, court_number, team1_player1_id, team1_player2_id, team2_player1_id, team2_player2_id, team1_score, team2_score, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, gameID, params.SessionID, params.CourtNumber,
		params.Team1[0], params.Team1[1], params.Team2[0], params.Team2[1],
		params.Team1Score, params.Team2Score, playedAt.Unix())
	if err != nil {
		return "", fmt.Errorf("failed to insert game: %w", err)
	}

	stmt, err := tx.Prepare(`
		UPDATE players
		SET games_played = games_played + 1, last_played_at = ?
		WHERE id = ? AND session_id = ?
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare ledger update: %w", err)
	}
	defer stmt.Close()

	for _, playerID := range [...]string{params.Team1[0], params.Team1[1], params.Team2[0], params.Team2[1]} {
		res, err := stmt.Exec(playedAt.Unix(), playerID, params.SessionID)
		if err != nil {
			return "", fmt.Errorf("failed to update ledger for player %s: %w", playerID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return "", fmt.Errorf("failed to update ledger for player %s: %w", playerID, err)
		}
		if affected == 0 {
			return "", fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
	}

	// The court is freed regardless of which players its assignment still
	// referenced; last write wins.
	_, err = tx.Exec(
		"DELETE FROM court_assignments WHERE session_id = ? AND court_number = ?",
		params.SessionID, params.CourtNumber,
	)
	if err != nil {
		return "", fmt.Errorf("failed to clear court: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit game: %w", err)
	}
	log.Info("Recorded game", "sessionID", params.SessionID, "gameID", gameID, "court", params.CourtNumber)
	return gameID, nil
}

// GetGames returns a session's game log, newest first.
func (s *store) GetGames(sessionID string) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, session_id, court_number, team1_player1_id, team1_player2_id, team2_player1_id, team2_player2_id, team1_score, team2_score, played_at
		FROM games
		WHERE session_id = ?
		ORDER BY played_at DESC, rowid DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var g Game
		var playedAt int64
		if err := rows.Scan(&g.ID, &g.SessionID, &g.CourtNumber, &g.Team1[0], &g.Team1[1], &g.Team2[0], &g.Team2[1], &g.Team1Score, &g.Team2Score, &playedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		g.PlayedAt = time.Unix(playedAt, 0)
		games = append(games, g)
	}
	return games, rows.Err()
}
