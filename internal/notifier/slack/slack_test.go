package slack_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	internalslack "github.com/mkrogh/courtline/internal/notifier/slack"

	"github.com/mkrogh/courtline/internal/metrics"
	"github.com/mkrogh/courtline/internal/session"
	"github.com/mkrogh/courtline/internal/summary"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() (*session.Session, *summary.SessionSummary) {
	sess := &session.Session{
		ID:         "s1",
		Name:       "Thursday night",
		CourtCount: 2,
		CreatedAt:  time.Date(2025, 6, 12, 18, 0, 0, 0, time.UTC),
	}
	top := summary.PlayerSummary{ID: "a", Name: "Anna", GamesPlayed: 2, Wins: 2, WinRatePct: 100.0}
	sum := &summary.SessionSummary{
		TotalGames: 2,
		Players: []summary.PlayerSummary{
			top,
			{ID: "b", Name: "Ben", GamesPlayed: 2, Wins: 0, Losses: 2},
		},
		TopPartnerships: []summary.Partnership{
			{PlayerAID: "a", PlayerAName: "Anna", PlayerBID: "b", PlayerBName: "Ben", GamesTogether: 2, WinsTogether: 2},
		},
		MostWins: &top,
	}
	return sess, sum
}

func TestSendSessionSummary(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		body, _ := io.ReadAll(r.Body)
		vals, _ := url.ParseQuery(string(body))
		assert.Equal(t, "C123", vals.Get("channel"))

		var blocks slack.Blocks
		err := json.Unmarshal([]byte(vals.Get("blocks")), &blocks)
		require.NoError(t, err)

		// Header, details, leaderboard, partnerships, most-wins context.
		require.Len(t, blocks.BlockSet, 5)
		header := blocks.BlockSet[0].(*slack.HeaderBlock)
		assert.Contains(t, header.Text.Text, "Thursday night")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "ts": "12345.6789"}`))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	api := slack.New("test-token", slack.OptionAPIURL(srv.URL+"/"))
	metricsMock := metrics.NewMock()
	n := internalslack.NewNotifierWithAPI(api, "C123", metricsMock)

	sess, sum := testSummary()
	require.NoError(t, n.SendSessionSummary(sess, sum, false))

	assert.True(t, handlerCalled, "Expected http handler to be called")
	assert.Equal(t, 1, metricsMock.SlackNotifSent())
	assert.Equal(t, 0, metricsMock.SlackNotifFailed())
}

func TestSendWaitingList(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		body, _ := io.ReadAll(r.Body)
		vals, _ := url.ParseQuery(string(body))

		var blocks slack.Blocks
		err := json.Unmarshal([]byte(vals.Get("blocks")), &blocks)
		require.NoError(t, err)

		require.Len(t, blocks.BlockSet, 2)
		section := blocks.BlockSet[1].(*slack.SectionBlock)
		assert.Contains(t, section.Text.Text, "Never played")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "ts": "12345.6789"}`))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	api := slack.New("test-token", slack.OptionAPIURL(srv.URL+"/"))
	metricsMock := metrics.NewMock()
	n := internalslack.NewNotifierWithAPI(api, "C123", metricsMock)

	sess, _ := testSummary()
	waiting := []session.Player{
		{ID: "c", SessionID: "s1", Name: "Cleo"},
		{ID: "d", SessionID: "s1", Name: "Dan"},
	}
	require.NoError(t, n.SendWaitingList(sess, waiting, false))

	assert.True(t, handlerCalled, "Expected http handler to be called")
	assert.Equal(t, 1, metricsMock.SlackNotifSent())
}

func TestSendFailureCountsAsFailed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	api := slack.New("test-token", slack.OptionAPIURL(srv.URL+"/"))
	metricsMock := metrics.NewMock()
	n := internalslack.NewNotifierWithAPI(api, "C999", metricsMock)

	sess, sum := testSummary()
	err := n.SendSessionSummary(sess, sum, false)
	require.Error(t, err)
	assert.Equal(t, 0, metricsMock.SlackNotifSent())
	assert.Equal(t, 1, metricsMock.SlackNotifFailed())
}

func TestSendDryRun(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	api := slack.New("test-token", slack.OptionAPIURL(srv.URL+"/"))
	metricsMock := metrics.NewMock()
	n := internalslack.NewNotifierWithAPI(api, "C123", metricsMock)

	sess, sum := testSummary()
	require.NoError(t, n.SendSessionSummary(sess, sum, true))

	assert.False(t, handlerCalled, "Expected http handler NOT to be called in dry run")
	assert.Equal(t, 0, metricsMock.SlackNotifSent(), "Metrics should not be incremented in dry run")
}
