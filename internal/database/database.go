package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB initializes the database and ensures the schema is up to date.
// For local-only databases, dbPath is the filename. When primaryUrl is set,
// the remote Turso database is used instead.
func InitDB(dbPath string, primaryUrl string, authToken string) (*sql.DB, error) {
	if primaryUrl == "" {
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		db, err := sql.Open("libsql", "file:"+dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open local database: %w", err)
		}
		if err = createTables(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables for local db: %w", err)
		}
		return db, nil
	}
	log.Info("Initializing Turso database", "url", primaryUrl)
	db, err := sql.Open("libsql", primaryUrl+"?authToken="+authToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", primaryUrl, err)
	}
	if err = createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables for remote db: %w", err)
	}
	return db, nil
}

func createTables(db *sql.DB) error {
	// Foreign key support is not enabled by default in SQLite
	_, err := db.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		log.Error("Error enabling foreign keys:", "error", err)
		return err
	}

	createSessionsTable := `
    CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        court_count INTEGER NOT NULL,
        created_at INTEGER NOT NULL,
        ended_at INTEGER
    );`

	createPlayersTable := `
    CREATE TABLE IF NOT EXISTS players (
        id TEXT PRIMARY KEY,
        session_id TEXT NOT NULL,
        name TEXT NOT NULL,
        games_played INTEGER NOT NULL DEFAULT 0,
        last_played_at INTEGER,
        FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
    );`

	createGamesTable := `
    CREATE TABLE IF NOT EXISTS games (
        id TEXT PRIMARY KEY,
        session_id TEXT NOT NULL,
        court_number INTEGER NOT NULL,
        team1_player1_id TEXT NOT NULL,
        team1_player2_id TEXT NOT NULL,
        team2_player1_id TEXT NOT NULL,
        team2_player2_id TEXT NOT NULL,
        team1_score INTEGER NOT NULL,
        team2_score INTEGER NOT NULL,
        played_at INTEGER NOT NULL,
        FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
        FOREIGN KEY (team1_player1_id) REFERENCES players(id),
        FOREIGN KEY (team1_player2_id) REFERENCES players(id),
        FOREIGN KEY (team2_player1_id) REFERENCES players(id),
        FOREIGN KEY (team2_player2_id) REFERENCES players(id)
    );`

	// One active assignment per (session, court). Upserts rely on the
	// primary key constraint.
	createCourtAssignmentsTable := `
    CREATE TABLE IF NOT EXISTS court_assignments (
        session_id TEXT NOT NULL,
        court_number INTEGER NOT NULL,
        player1_id TEXT NOT NULL,
        player2_id TEXT NOT NULL,
        player3_id TEXT NOT NULL,
        player4_id TEXT NOT NULL,
        assigned_at INTEGER NOT NULL,
        PRIMARY KEY (session_id, court_number),
        FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
        FOREIGN KEY (player1_id) REFERENCES players(id),
        FOREIGN KEY (player2_id) REFERENCES players(id),
        FOREIGN KEY (player3_id) REFERENCES players(id),
        FOREIGN KEY (player4_id) REFERENCES players(id)
    );`

	for _, stmt := range []string{createSessionsTable, createPlayersTable, createGamesTable, createCourtAssignmentsTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	log.Info("Database initialized successfully")
	return nil
}
