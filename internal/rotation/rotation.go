// Package rotation decides which waiting players should occupy which empty
// courts. All functions are pure: callers commit the returned proposals
// through the session store.
package rotation

import (
	"errors"
	"sort"

	"github.com/mkrogh/courtline/internal/session"
)

// ErrNotEnoughPlayers is returned when a pairing is requested with fewer
// than four players.
var ErrNotEnoughPlayers = errors.New("not enough players to form two teams")

// Proposal is a suggested match for one court, not yet committed.
type Proposal struct {
	CourtNumber int               `json:"court_number"`
	Team1       [2]session.Player `json:"team1"`
	Team2       [2]session.Player `json:"team2"`
}

// Teams returns the proposal's player ids in team order, ready for an
// assignment upsert.
func (p Proposal) Teams() (team1, team2 [2]string) {
	return [2]string{p.Team1[0].ID, p.Team1[1].ID}, [2]string{p.Team2[0].ID, p.Team2[1].ID}
}

// SortByWaitPriority orders players for the next rotation without modifying
// the input. Never-played players rank first (fewer games breaking ties),
// then players by earliest last-played time, again with fewer games breaking
// ties. The sort is stable, so equal players keep their input order and
// repeated calls give identical results.
func SortByWaitPriority(players []session.Player) []session.Player {
	sorted := make([]session.Player, len(players))
	copy(sorted, players)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.LastPlayedAt == nil && b.LastPlayedAt != nil {
			return true
		}
		if a.LastPlayedAt != nil && b.LastPlayedAt == nil {
			return false
		}
		if a.LastPlayedAt == nil && b.LastPlayedAt == nil {
			return a.GamesPlayed < b.GamesPlayed
		}
		if !a.LastPlayedAt.Equal(*b.LastPlayedAt) {
			return a.LastPlayedAt.Before(*b.LastPlayedAt)
		}
		return a.GamesPlayed < b.GamesPlayed
	})
	return sorted
}

// MakeTeams pairs an ordered quartet into two teams: the most-waiting with
// the least-waiting player, and the two middle players together. The mild
// balance comes from wait time alone; no skill ratings are tracked.
func MakeTeams(quartet []session.Player) (team1, team2 [2]session.Player, err error) {
	if len(quartet) < 4 {
		return team1, team2, ErrNotEnoughPlayers
	}
	team1 = [2]session.Player{quartet[0], quartet[3]}
	team2 = [2]session.Player{quartet[1], quartet[2]}
	return team1, team2, nil
}

// ProposeMatches fills empty courts in ascending order from the wait-priority
// queue, four players at a time. Players already inside an active assignment
// are filtered out even if the caller pre-filtered. Courts with fewer than
// four players left stay empty; partial assignments are never proposed. The
// second return value is the updated waiting list.
func ProposeMatches(courtCount int, active []session.Assignment, candidates []session.Player) ([]Proposal, []session.Player) {
	occupied := make(map[int]bool, len(active))
	assigned := make(map[string]bool, len(active)*4)
	for _, a := range active {
		occupied[a.CourtNumber] = true
		for _, id := range a.PlayerIDs() {
			assigned[id] = true
		}
	}

	available := make([]session.Player, 0, len(candidates))
	for _, p := range candidates {
		if !assigned[p.ID] {
			available = append(available, p)
		}
	}
	available = SortByWaitPriority(available)

	var proposals []Proposal
	cursor := 0
	for court := 1; court <= courtCount; court++ {
		if occupied[court] {
			continue
		}
		if cursor+4 > len(available) {
			break
		}
		team1, team2, err := MakeTeams(available[cursor : cursor+4])
		if err != nil {
			break
		}
		proposals = append(proposals, Proposal{
			CourtNumber: court,
			Team1:       team1,
			Team2:       team2,
		})
		cursor += 4
	}
	return proposals, available[cursor:]
}

// EmptyCourts returns the court numbers 1..courtCount with no active
// assignment, in ascending order.
func EmptyCourts(courtCount int, active []session.Assignment) []int {
	occupied := make(map[int]bool, len(active))
	for _, a := range active {
		occupied[a.CourtNumber] = true
	}
	var empty []int
	for court := 1; court <= courtCount; court++ {
		if !occupied[court] {
			empty = append(empty, court)
		}
	}
	return empty
}
