// Package engine orchestrates the rotation logic and the session store. It
// is the surface the transport layer calls: propose, commit, clear, record,
// summarize. The engine itself is stateless between calls; every operation
// takes the session id explicitly.
package engine

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtline/internal/metrics"
	"github.com/mkrogh/courtline/internal/pubsub"
	"github.com/mkrogh/courtline/internal/rotation"
	"github.com/mkrogh/courtline/internal/session"
	"github.com/mkrogh/courtline/internal/summary"
)

// Engine wires the rotation functions to the session store.
type Engine struct {
	store   session.SessionStore
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient
}

// ProposalSet is the result of one rotation run.
type ProposalSet struct {
	CurrentAssignments []session.Assignment `json:"current_assignments"`
	Proposals          []rotation.Proposal  `json:"suggested_matches"`
	WaitingPlayers     []session.Player     `json:"waiting_players"`
	EmptyCourtsLeft    int                  `json:"empty_courts"`
}

// New creates a new Engine.
func New(store session.SessionStore, metricsSvc metrics.Metrics, pubsubClient pubsub.PubSubClient) *Engine {
	return &Engine{
		store:   store,
		metrics: metricsSvc,
		pubsub:  pubsubClient,
	}
}

// ProposeMatches reads the session's players and active assignments and
// computes suggested matches for the empty courts. Nothing is committed;
// callers commit each proposal through CommitAssignment. The read is
// advisory and takes no locks, so concurrent proposals are safe.
func (e *Engine) ProposeMatches(sessionID string) (*ProposalSet, error) {
	sess, err := e.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	players, err := e.store.GetPlayers(sessionID)
	if err != nil {
		return nil, err
	}
	active, err := e.store.GetActiveAssignments(sessionID)
	if err != nil {
		return nil, err
	}

	proposals, waiting := rotation.ProposeMatches(sess.CourtCount, active, players)
	e.metrics.IncRotationsProposed()
	log.Debug("Proposed matches", "sessionID", sessionID, "proposals", len(proposals), "waiting", len(waiting))

	return &ProposalSet{
		CurrentAssignments: active,
		Proposals:          proposals,
		WaitingPlayers:     waiting,
		EmptyCourtsLeft:    len(rotation.EmptyCourts(sess.CourtCount, active)) - len(proposals),
	}, nil
}

// CommitAssignment upserts one court assignment, overwriting whatever the
// court held before.
func (e *Engine) CommitAssignment(sessionID string, courtNumber int, team1, team2 [2]string) (*session.Assignment, error) {
	if _, err := e.store.GetSession(sessionID); err != nil {
		return nil, err
	}
	return e.store.UpsertAssignment(sessionID, courtNumber, team1, team2)
}

// ClearCourt removes a court's assignment. Clearing twice is the same as
// clearing once.
func (e *Engine) ClearCourt(sessionID string, courtNumber int) error {
	return e.store.DeleteAssignment(sessionID, courtNumber)
}

// RecordGame validates and commits a finished game, then publishes a
// game-recorded event. Event delivery failures are logged and swallowed;
// the game is already durable at that point.
func (e *Engine) RecordGame(params session.RecordGameParams) (string, error) {
	gameID, err := e.store.RecordGame(params)
	if err != nil {
		return "", err
	}
	e.metrics.IncGamesRecorded()

	event := pubsub.GameRecordedEvent{
		GameID:      gameID,
		SessionID:   params.SessionID,
		CourtNumber: params.CourtNumber,
		Team1:       params.Team1,
		Team2:       params.Team2,
		Team1Score:  params.Team1Score,
		Team2Score:  params.Team2Score,
		PlayedAt:    time.Now().Unix(),
	}
	if err := e.pubsub.SendMessage(pubsub.EventGameRecorded, event); err != nil {
		log.Error("Failed to publish game-recorded event", "error", err, "gameID", gameID)
	}
	return gameID, nil
}

// Summarize derives the session's leaderboard and partnership stats from the
// full game log.
func (e *Engine) Summarize(sessionID string) (*summary.SessionSummary, error) {
	start := time.Now()
	if _, err := e.store.GetSession(sessionID); err != nil {
		return nil, err
	}
	players, err := e.store.GetPlayers(sessionID)
	if err != nil {
		return nil, err
	}
	games, err := e.store.GetGames(sessionID)
	if err != nil {
		return nil, err
	}

	s := summary.Summarize(players, games)
	e.metrics.ObserveSummarizeDuration(time.Since(start).Seconds())
	return &s, nil
}
