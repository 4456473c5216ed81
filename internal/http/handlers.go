package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtline/internal/rotation"
	"github.com/mkrogh/courtline/internal/session"
)

type createSessionRequest struct {
	Name       string `json:"name"`
	CourtCount int    `json:"court_count"`
}

type addPlayersRequest struct {
	Players []string `json:"players"`
}

type recordGameRequest struct {
	CourtNumber int      `json:"court_number"`
	Team1       []string `json:"team1"`
	Team2       []string `json:"team2"`
	Team1Score  *int     `json:"team1_score"`
	Team2Score  *int     `json:"team2_score"`
}

type assignCourtRequest struct {
	CourtNumber int      `json:"court_number"`
	Team1       []string `json:"team1"`
	Team2       []string `json:"team2"`
}

type waitingPlayerResponse struct {
	session.Player
	WaitTime string `json:"wait_time"`
}

type gameResponse struct {
	session.Game
	Team1Names [2]string `json:"team1_names"`
	Team2Names [2]string `json:"team2_names"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondError maps store errors onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrPlayerNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case session.IsValidation(err), errors.Is(err, rotation.ErrNotEnoughPlayers):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrConflict):
		respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Error("Request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &session.ValidationError{Field: "body", Reason: "invalid JSON"}
	}
	return nil
}

func twoIDs(ids []string, field string) ([2]string, error) {
	if len(ids) != 2 {
		return [2]string{}, &session.ValidationError{Field: field, Reason: "exactly two player ids are required"}
	}
	return [2]string{ids[0], ids[1]}, nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		sess, err := s.Store.CreateSession(req.Name, req.CourtCount)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, sess)
	}
}

func (s *Server) ListSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := s.Store.ListSessions()
		if err != nil {
			respondError(w, err)
			return
		}
		if sessions == nil {
			sessions = []session.Session{}
		}
		respondJSON(w, http.StatusOK, sessions)
	}
}

func (s *Server) GetSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Store.GetSession(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) EndSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		if err := s.Store.EndSession(sessionID); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "session ended"})
	}
}

func (s *Server) AddPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addPlayersRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		players, err := s.Store.AddPlayers(r.PathValue("id"), req.Players)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, players)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		if _, err := s.Store.GetSession(sessionID); err != nil {
			respondError(w, err)
			return
		}
		players, err := s.Store.GetPlayers(sessionID)
		if err != nil {
			respondError(w, err)
			return
		}
		if players == nil {
			players = []session.Player{}
		}
		respondJSON(w, http.StatusOK, players)
	}
}

// waitingPlayers returns the session's players not currently on any court,
// in wait-priority order.
func (s *Server) waitingPlayers(sessionID string) ([]session.Player, error) {
	if _, err := s.Store.GetSession(sessionID); err != nil {
		return nil, err
	}
	players, err := s.Store.GetPlayers(sessionID)
	if err != nil {
		return nil, err
	}
	active, err := s.Store.GetActiveAssignments(sessionID)
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]bool, len(active)*4)
	for _, a := range active {
		for _, id := range a.PlayerIDs() {
			assigned[id] = true
		}
	}
	var waiting []session.Player
	for _, p := range players {
		if !assigned[p.ID] {
			waiting = append(waiting, p)
		}
	}
	return rotation.SortByWaitPriority(waiting), nil
}

// WaitingPlayersHandler lists the waiting pool with a humanized wait time
// attached to each player.
func (s *Server) WaitingPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		waiting, err := s.waitingPlayers(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}

		now := time.Now()
		resp := make([]waitingPlayerResponse, 0, len(waiting))
		for _, p := range waiting {
			resp = append(resp, waitingPlayerResponse{
				Player:   p,
				WaitTime: rotation.FormatWaitTime(p.LastPlayedAt, now),
			})
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) RecordGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordGameRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if req.Team1Score == nil || req.Team2Score == nil {
			respondError(w, &session.ValidationError{Field: "scores", Reason: "both team scores are required"})
			return
		}
		team1, err := twoIDs(req.Team1, "team1")
		if err != nil {
			respondError(w, err)
			return
		}
		team2, err := twoIDs(req.Team2, "team2")
		if err != nil {
			respondError(w, err)
			return
		}

		gameID, err := s.Engine.RecordGame(session.RecordGameParams{
			SessionID:   r.PathValue("id"),
			CourtNumber: req.CourtNumber,
			Team1:       team1,
			Team2:       team2,
			Team1Score:  *req.Team1Score,
			Team2Score:  *req.Team2Score,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{"id": gameID, "message": "game recorded"})
	}
}

// ListGamesHandler returns the session's game log, newest first, with player
// names resolved.
func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		if _, err := s.Store.GetSession(sessionID); err != nil {
			respondError(w, err)
			return
		}
		games, err := s.Store.GetGames(sessionID)
		if err != nil {
			respondError(w, err)
			return
		}
		players, err := s.Store.GetPlayers(sessionID)
		if err != nil {
			respondError(w, err)
			return
		}

		names := make(map[string]string, len(players))
		for _, p := range players {
			names[p.ID] = p.Name
		}
		resp := make([]gameResponse, 0, len(games))
		for _, g := range games {
			resp = append(resp, gameResponse{
				Game:       g,
				Team1Names: [2]string{names[g.Team1[0]], names[g.Team1[1]]},
				Team2Names: [2]string{names[g.Team2[0]], names[g.Team2[1]]},
			})
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) NextMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proposals, err := s.Engine.ProposeMatches(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, proposals)
	}
}

func (s *Server) AssignCourtHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignCourtRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		team1, err := twoIDs(req.Team1, "team1")
		if err != nil {
			respondError(w, err)
			return
		}
		team2, err := twoIDs(req.Team2, "team2")
		if err != nil {
			respondError(w, err)
			return
		}
		assignment, err := s.Engine.CommitAssignment(r.PathValue("id"), req.CourtNumber, team1, team2)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, assignment)
	}
}

func (s *Server) ListCourtsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courts, err := s.Store.GetCourts(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, courts)
	}
}

func (s *Server) ClearCourtHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		court, err := strconv.Atoi(r.PathValue("court"))
		if err != nil || court <= 0 {
			respondError(w, &session.ValidationError{Field: "court", Reason: "must be a positive integer"})
			return
		}
		if err := s.Engine.ClearCourt(r.PathValue("id"), court); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "court cleared"})
	}
}

func (s *Server) SummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := s.Engine.Summarize(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, sum)
	}
}

func (s *Server) NotifySummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		sess, err := s.Store.GetSession(sessionID)
		if err != nil {
			respondError(w, err)
			return
		}
		sum, err := s.Engine.Summarize(sessionID)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := s.Notifier.SendSessionSummary(sess, sum, isDryRunFromContext(r)); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "summary sent"})
	}
}

func (s *Server) NotifyWaitingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		sess, err := s.Store.GetSession(sessionID)
		if err != nil {
			respondError(w, err)
			return
		}
		waiting, err := s.waitingPlayers(sessionID)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := s.Notifier.SendWaitingList(sess, waiting, isDryRunFromContext(r)); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "waiting list sent"})
	}
}
