package session_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkrogh/courtline/internal/database"
	"github.com/mkrogh/courtline/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupTestStore(t *testing.T) (session.SessionStore, *testClock) {
	t.Helper()
	db, err := database.InitDB(filepath.Join(t.TempDir(), "test.db"), "", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := &testClock{now: time.Date(2025, 6, 12, 18, 0, 0, 0, time.UTC)}
	return session.NewWithClock(db, clock.Now), clock
}

// seedSession creates a session with the given court count and n players.
func seedSession(t *testing.T, store session.SessionStore, courts, n int) (*session.Session, []session.Player) {
	t.Helper()
	sess, err := store.CreateSession("Tuesday drop-in", courts)
	require.NoError(t, err)

	if n == 0 {
		return sess, nil
	}
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, string(rune('A'+i)))
	}
	players, err := store.AddPlayers(sess.ID, names)
	require.NoError(t, err)
	return sess, players
}

func TestCreateSession(t *testing.T) {
	store, clock := setupTestStore(t)

	t.Run("creates with fields set", func(t *testing.T) {
		sess, err := store.CreateSession("Thursday night", 3)
		require.NoError(t, err)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, "Thursday night", sess.Name)
		assert.Equal(t, 3, sess.CourtCount)
		assert.Equal(t, clock.Now().Unix(), sess.CreatedAt.Unix())
		assert.Nil(t, sess.EndedAt)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := store.CreateSession("", 2)
		assert.True(t, session.IsValidation(err))
	})

	t.Run("rejects non-positive court count", func(t *testing.T) {
		_, err := store.CreateSession("no courts", 0)
		assert.True(t, session.IsValidation(err))
	})
}

func TestGetSession(t *testing.T) {
	store, _ := setupTestStore(t)

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.GetSession("nope")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		created, err := store.CreateSession("Thursday night", 2)
		require.NoError(t, err)

		got, err := store.GetSession(created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, created.CourtCount, got.CourtCount)
	})
}

func TestListSessions(t *testing.T) {
	store, clock := setupTestStore(t)

	first, err := store.CreateSession("first", 1)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, err := store.CreateSession("second", 1)
	require.NoError(t, err)

	sessions, err := store.ListSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
}

func TestEndSession(t *testing.T) {
	store, clock := setupTestStore(t)

	t.Run("unknown session", func(t *testing.T) {
		err := store.EndSession("nope")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("sets ended_at and stays writable", func(t *testing.T) {
		sess, _ := seedSession(t, store, 2, 0)
		clock.Advance(2 * time.Hour)
		require.NoError(t, store.EndSession(sess.ID))

		got, err := store.GetSession(sess.ID)
		require.NoError(t, err)
		require.NotNil(t, got.EndedAt)
		assert.Equal(t, clock.Now().Unix(), got.EndedAt.Unix())

		// Ending is a marker, not a lock: late arrivals still register.
		_, err = store.AddPlayers(sess.ID, []string{"Latecomer"})
		assert.NoError(t, err)
	})
}

func TestAddPlayers(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, err := store.CreateSession("Thursday night", 2)
	require.NoError(t, err)

	t.Run("batch insert", func(t *testing.T) {
		players, err := store.AddPlayers(sess.ID, []string{"Anna", "Ben", "Cleo"})
		require.NoError(t, err)
		require.Len(t, players, 3)
		for _, p := range players {
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, sess.ID, p.SessionID)
			assert.Equal(t, 0, p.GamesPlayed)
			assert.Nil(t, p.LastPlayedAt)
		}
	})

	t.Run("reads back in insertion order", func(t *testing.T) {
		players, err := store.GetPlayers(sess.ID)
		require.NoError(t, err)
		require.Len(t, players, 3)
		assert.Equal(t, "Anna", players[0].Name)
		assert.Equal(t, "Ben", players[1].Name)
		assert.Equal(t, "Cleo", players[2].Name)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		_, err := store.AddPlayers(sess.ID, nil)
		assert.True(t, session.IsValidation(err))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := store.AddPlayers(sess.ID, []string{"Anna", ""})
		assert.True(t, session.IsValidation(err))
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := store.AddPlayers("nope", []string{"Anna"})
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestUpsertAssignment(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, players := seedSession(t, store, 2, 6)

	t.Run("assigns a court", func(t *testing.T) {
		a, err := store.UpsertAssignment(sess.ID, 1,
			[2]string{players[0].ID, players[1].ID},
			[2]string{players[2].ID, players[3].ID})
		require.NoError(t, err)
		assert.Equal(t, 1, a.CourtNumber)

		assignments, err := store.GetActiveAssignments(sess.ID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, players[0].ID, assignments[0].Team1[0])
	})

	t.Run("overwrites on conflict", func(t *testing.T) {
		_, err := store.UpsertAssignment(sess.ID, 1,
			[2]string{players[4].ID, players[5].ID},
			[2]string{players[0].ID, players[1].ID})
		require.NoError(t, err)

		assignments, err := store.GetActiveAssignments(sess.ID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, players[4].ID, assignments[0].Team1[0])
		assert.Equal(t, players[5].ID, assignments[0].Team1[1])
	})

	t.Run("rejects non-positive court", func(t *testing.T) {
		_, err := store.UpsertAssignment(sess.ID, 0,
			[2]string{players[0].ID, players[1].ID},
			[2]string{players[2].ID, players[3].ID})
		assert.True(t, session.IsValidation(err))
	})

	t.Run("rejects missing player id", func(t *testing.T) {
		_, err := store.UpsertAssignment(sess.ID, 2,
			[2]string{players[0].ID, ""},
			[2]string{players[2].ID, players[3].ID})
		assert.True(t, session.IsValidation(err))
	})
}

func TestDeleteAssignment(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, players := seedSession(t, store, 2, 4)

	_, err := store.UpsertAssignment(sess.ID, 1,
		[2]string{players[0].ID, players[1].ID},
		[2]string{players[2].ID, players[3].ID})
	require.NoError(t, err)

	require.NoError(t, store.DeleteAssignment(sess.ID, 1))
	assignments, err := store.GetActiveAssignments(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, assignments)

	// Clearing an already-empty court is not an error.
	assert.NoError(t, store.DeleteAssignment(sess.ID, 1))
	assert.NoError(t, store.DeleteAssignment(sess.ID, 99))
}

func TestGetCourts(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, players := seedSession(t, store, 3, 4)

	_, err := store.UpsertAssignment(sess.ID, 2,
		[2]string{players[0].ID, players[1].ID},
		[2]string{players[2].ID, players[3].ID})
	require.NoError(t, err)

	courts, err := store.GetCourts(sess.ID)
	require.NoError(t, err)
	require.Len(t, courts, 3)
	assert.Equal(t, 1, courts[0].CourtNumber)
	assert.Nil(t, courts[0].Assignment)
	require.NotNil(t, courts[1].Assignment)
	assert.Equal(t, 2, courts[1].Assignment.CourtNumber)
	assert.Nil(t, courts[2].Assignment)

	_, err = store.GetCourts("nope")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestRecordGame(t *testing.T) {
	store, clock := setupTestStore(t)
	sess, players := seedSession(t, store, 2, 5)

	params := session.RecordGameParams{
		SessionID:   sess.ID,
		CourtNumber: 1,
		Team1:       [2]string{players[0].ID, players[1].ID},
		Team2:       [2]string{players[2].ID, players[3].ID},
		Team1Score:  21,
		Team2Score:  15,
	}

	t.Run("records and settles in one unit", func(t *testing.T) {
		_, err := store.UpsertAssignment(sess.ID, 1, params.Team1, params.Team2)
		require.NoError(t, err)
		clock.Advance(20 * time.Minute)

		gameID, err := store.RecordGame(params)
		require.NoError(t, err)
		assert.NotEmpty(t, gameID)

		got, err := store.GetPlayers(sess.ID)
		require.NoError(t, err)
		for _, p := range got[:4] {
			assert.Equal(t, 1, p.GamesPlayed)
			require.NotNil(t, p.LastPlayedAt)
			assert.Equal(t, clock.Now().Unix(), p.LastPlayedAt.Unix())
		}
		// The fifth player sat out and is untouched.
		assert.Equal(t, 0, got[4].GamesPlayed)
		assert.Nil(t, got[4].LastPlayedAt)

		assignments, err := store.GetActiveAssignments(sess.ID)
		require.NoError(t, err)
		assert.Empty(t, assignments)

		games, err := store.GetGames(sess.ID)
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, gameID, games[0].ID)
		assert.Equal(t, 21, games[0].Team1Score)
		assert.Equal(t, 15, games[0].Team2Score)
	})

	t.Run("unknown session", func(t *testing.T) {
		bad := params
		bad.SessionID = "nope"
		_, err := store.RecordGame(bad)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("validation failures write nothing", func(t *testing.T) {
		bad := params
		bad.Team2[0] = params.Team1[0] // duplicate player
		_, err := store.RecordGame(bad)
		assert.True(t, session.IsValidation(err))

		games, err := store.GetGames(sess.ID)
		require.NoError(t, err)
		assert.Len(t, games, 1)
	})

	t.Run("foreign player rolls everything back", func(t *testing.T) {
		_, outsiders := seedSession(t, store, 1, 1)

		_, err := store.UpsertAssignment(sess.ID, 2, params.Team1, params.Team2)
		require.NoError(t, err)

		bad := params
		bad.CourtNumber = 2
		bad.Team2[1] = outsiders[0].ID
		_, err = store.RecordGame(bad)
		assert.ErrorIs(t, err, session.ErrPlayerNotFound)

		// Nothing moved: no game row, ledgers untouched, court still held.
		games, err := store.GetGames(sess.ID)
		require.NoError(t, err)
		assert.Len(t, games, 1)

		got, err := store.GetPlayers(sess.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got[0].GamesPlayed)

		assignments, err := store.GetActiveAssignments(sess.ID)
		require.NoError(t, err)
		assert.Len(t, assignments, 1)
	})
}

func TestGetGamesOrder(t *testing.T) {
	store, clock := setupTestStore(t)
	sess, players := seedSession(t, store, 2, 4)

	record := func(score1, score2 int) string {
		t.Helper()
		id, err := store.RecordGame(session.RecordGameParams{
			SessionID:   sess.ID,
			CourtNumber: 1,
			Team1:       [2]string{players[0].ID, players[1].ID},
			Team2:       [2]string{players[2].ID, players[3].ID},
			Team1Score:  score1,
			Team2Score:  score2,
		})
		require.NoError(t, err)
		return id
	}

	first := record(21, 10)
	clock.Advance(15 * time.Minute)
	second := record(18, 21)

	games, err := store.GetGames(sess.ID)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, second, games[0].ID)
	assert.Equal(t, first, games[1].ID)
}

func TestRecordGameValidation(t *testing.T) {
	valid := session.RecordGameParams{
		SessionID:   "s1",
		CourtNumber: 1,
		Team1:       [2]string{"a", "b"},
		Team2:       [2]string{"c", "d"},
		Team1Score:  21,
		Team2Score:  15,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*session.RecordGameParams)
	}{
		{"missing session id", func(p *session.RecordGameParams) { p.SessionID = "" }},
		{"court number zero", func(p *session.RecordGameParams) { p.CourtNumber = 0 }},
		{"empty player id", func(p *session.RecordGameParams) { p.Team1[1] = "" }},
		{"duplicate player", func(p *session.RecordGameParams) { p.Team2[0] = "a" }},
		{"negative score", func(p *session.RecordGameParams) { p.Team2Score = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, session.IsValidation(err))

			var verr *session.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}
