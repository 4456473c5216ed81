package session

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for sessions.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Session represents one bounded drop-in event with a fixed number of courts.
type Session struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CourtCount int        `json:"court_count"`
	CreatedAt  time.Time  `json:"created_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

// Player represents a participant of a single session.
// LastPlayedAt is nil until the player's first recorded game.
type Player struct {
	ID           string     `json:"id"`
	SessionID    string     `json:"session_id"`
	Name         string     `json:"name"`
	GamesPlayed  int        `json:"games_played"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
}

// Assignment binds four players to one court. Team1 holds the court's
// player1/player2 slots, Team2 holds player3/player4.
type Assignment struct {
	SessionID   string    `json:"session_id"`
	CourtNumber int       `json:"court_number"`
	Team1       [2]string `json:"team1"`
	Team2       [2]string `json:"team2"`
	AssignedAt  time.Time `json:"assigned_at"`
}

// PlayerIDs returns the four assigned player ids in slot order.
func (a Assignment) PlayerIDs() [4]string {
	return [4]string{a.Team1[0], a.Team1[1], a.Team2[0], a.Team2[1]}
}

// Game is one immutable entry in a session's game log.
type Game struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	CourtNumber int       `json:"court_number"`
	Team1       [2]string `json:"team1"`
	Team2       [2]string `json:"team2"`
	Team1Score  int       `json:"team1_score"`
	Team2Score  int       `json:"team2_score"`
	PlayedAt    time.Time `json:"played_at"`
}

// Court is one slot of a session's court listing; Assignment is nil when
// the court is free.
type Court struct {
	CourtNumber int         `json:"court_number"`
	Assignment  *Assignment `json:"assignment"`
}

// RecordGameParams carries the input for recording a finished game.
type RecordGameParams struct {
	SessionID   string    `json:"session_id"`
	CourtNumber int       `json:"court_number"`
	Team1       [2]string `json:"team1"`
	Team2       [2]string `json:"team2"`
	Team1Score  int       `json:"team1_score"`
	Team2Score  int       `json:"team2_score"`
}

// Validate checks the game recording preconditions: a positive court number,
// four distinct player ids and non-negative scores.
func (p RecordGameParams) Validate() error {
	if p.SessionID == "" {
		return &ValidationError{Field: "session_id", Reason: "must not be empty"}
	}
	if p.CourtNumber <= 0 {
		return &ValidationError{Field: "court_number", Reason: "must be positive"}
	}
	seen := make(map[string]bool, 4)
	for _, id := range [...]string{p.Team1[0], p.Team1[1], p.Team2[0], p.Team2[1]} {
		if id == "" {
			return &ValidationError{Field: "players", Reason: "all four player ids are required"}
		}
		if seen[id] {
			return &ValidationError{Field: "players", Reason: "player ids must be distinct"}
		}
		seen[id] = true
	}
	if p.Team1Score < 0 || p.Team2Score < 0 {
		return &ValidationError{Field: "scores", Reason: "scores must be non-negative"}
	}
	return nil
}
