package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	// EventGameRecorded carries a GameRecordedEvent payload for downstream
	// stats consumers. Recording never blocks on delivery failures.
	EventGameRecorded EventType = "game-recorded"
)

// GameRecordedEvent is the payload published after each committed game.
type GameRecordedEvent struct {
	GameID      string    `msgpack:"game_id"`
	SessionID   string    `msgpack:"session_id"`
	CourtNumber int       `msgpack:"court_number"`
	Team1       [2]string `msgpack:"team1"`
	Team2       [2]string `msgpack:"team2"`
	Team1Score  int       `msgpack:"team1_score"`
	Team2Score  int       `msgpack:"team2_score"`
	PlayedAt    int64     `msgpack:"played_at"`
}
