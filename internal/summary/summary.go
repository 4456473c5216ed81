// Package summary derives win/loss and partnership statistics from a
// session's game log. It is purely a read: nothing here mutates state.
package summary

import (
	"math"
	"sort"

	"github.com/mkrogh/courtline/internal/session"
)

// topPartnershipLimit caps the partnerships reported in a summary.
const topPartnershipLimit = 5

// PlayerSummary is one player's line on the session leaderboard.
type PlayerSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRatePct  float64 `json:"win_rate_pct"`
}

// Partnership aggregates an unordered pair of players who were teammates in
// at least one game.
type Partnership struct {
	PlayerAID     string `json:"player_a_id"`
	PlayerAName   string `json:"player_a_name"`
	PlayerBID     string `json:"player_b_id"`
	PlayerBName   string `json:"player_b_name"`
	GamesTogether int    `json:"games_together"`
	WinsTogether  int    `json:"wins_together"`
}

// SessionSummary is the full derived view of one session.
type SessionSummary struct {
	Players         []PlayerSummary `json:"players"`
	TotalGames      int             `json:"total_games"`
	TopPartnerships []Partnership   `json:"top_partnerships"`
	MostWins        *PlayerSummary  `json:"most_wins,omitempty"`
}

type pairKey struct {
	a, b string // a < b
}

func newPairKey(x, y string) pairKey {
	if x < y {
		return pairKey{a: x, b: y}
	}
	return pairKey{a: y, b: x}
}

// Summarize scans the full game log and computes per-player win/loss counts,
// win rates, the leaderboard order and the top partnerships. Tied games score
// neither a win nor a loss. GamesPlayed comes from the player ledger, so a
// player's rate reflects every game they were charged for.
func Summarize(players []session.Player, games []session.Game) SessionSummary {
	wins := make(map[string]int, len(players))
	losses := make(map[string]int, len(players))
	pairs := make(map[pairKey]*Partnership)

	countPair := func(team [2]string, won bool) {
		key := newPairKey(team[0], team[1])
		p, ok := pairs[key]
		if !ok {
			p = &Partnership{PlayerAID: key.a, PlayerBID: key.b}
			pairs[key] = p
		}
		p.GamesTogether++
		if won {
			p.WinsTogether++
		}
	}

	for _, g := range games {
		switch {
		case g.Team1Score > g.Team2Score:
			for _, id := range g.Team1 {
				wins[id]++
			}
			for _, id := range g.Team2 {
				losses[id]++
			}
			countPair(g.Team1, true)
			countPair(g.Team2, false)
		case g.Team2Score > g.Team1Score:
			for _, id := range g.Team2 {
				wins[id]++
			}
			for _, id := range g.Team1 {
				losses[id]++
			}
			countPair(g.Team2, true)
			countPair(g.Team1, false)
		default:
			countPair(g.Team1, false)
			countPair(g.Team2, false)
		}
	}

	names := make(map[string]string, len(players))
	summaries := make([]PlayerSummary, 0, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
		ps := PlayerSummary{
			ID:          p.ID,
			Name:        p.Name,
			GamesPlayed: p.GamesPlayed,
			Wins:        wins[p.ID],
			Losses:      losses[p.ID],
		}
		if ps.GamesPlayed > 0 {
			rate := float64(ps.Wins) / float64(ps.GamesPlayed) * 100
			ps.WinRatePct = math.Round(rate*10) / 10
		}
		summaries = append(summaries, ps)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Wins != summaries[j].Wins {
			return summaries[i].Wins > summaries[j].Wins
		}
		return summaries[i].GamesPlayed > summaries[j].GamesPlayed
	})

	partnerships := make([]Partnership, 0, len(pairs))
	for _, p := range pairs {
		p.PlayerAName = names[p.PlayerAID]
		p.PlayerBName = names[p.PlayerBID]
		partnerships = append(partnerships, *p)
	}
	sort.SliceStable(partnerships, func(i, j int) bool {
		if partnerships[i].WinsTogether != partnerships[j].WinsTogether {
			return partnerships[i].WinsTogether > partnerships[j].WinsTogether
		}
		if partnerships[i].GamesTogether != partnerships[j].GamesTogether {
			return partnerships[i].GamesTogether > partnerships[j].GamesTogether
		}
		// Map iteration order is random; keep the output deterministic.
		if partnerships[i].PlayerAID != partnerships[j].PlayerAID {
			return partnerships[i].PlayerAID < partnerships[j].PlayerAID
		}
		return partnerships[i].PlayerBID < partnerships[j].PlayerBID
	})
	if len(partnerships) > topPartnershipLimit {
		partnerships = partnerships[:topPartnershipLimit]
	}

	s := SessionSummary{
		Players:         summaries,
		TotalGames:      len(games),
		TopPartnerships: partnerships,
	}
	if len(summaries) > 0 {
		top := summaries[0]
		s.MostWins = &top
	}
	return s
}
