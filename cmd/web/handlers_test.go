package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/myrjola/gumshoe/internal/broker"
	"github.com/myrjola/gumshoe/internal/casegen"
	"github.com/myrjola/gumshoe/internal/game"
	"github.com/myrjola/gumshoe/internal/repositories"
	"github.com/myrjola/gumshoe/internal/testhelpers"
	"github.com/myrjola/gumshoe/sqlite"
	"github.com/stretchr/testify/require"
)

// newTestApplication wires the application against an in-memory database and
// no oracle, so games run catalog-only.
func newTestApplication(t *testing.T) (*application, *httptest.Server, *http.Client) {
	t.Helper()

	logger := testhelpers.NewLogger(io.Discard)

	db, err := sqlite.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sessionManager := scs.New()
	sessionManager.Lifetime = time.Hour

	history := repositories.NewCaseHistoryRepository(db, logger)
	sessions := repositories.NewSessionRepository(db, logger)
	controller := game.NewController(
		casegen.NewRepository(nil, history, logger),
		nil,
		nil,
		game.Stores{
			CaseFiles: repositories.NewCaseFileRepository(db, logger),
			Sessions:  sessions,
			History:   history,
		},
		logger,
	)

	events := broker.NewChannelBroker[string, gameEvent]()
	go events.Start()
	t.Cleanup(events.Stop)

	app := &application{
		logger:         logger,
		sessionManager: sessionManager,
		controller:     controller,
		sessions:       sessions,
		events:         events,
	}

	server := httptest.NewServer(app.routes())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	return app, server, client
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthy(t *testing.T) {
	_, server, client := newTestApplication(t)

	resp, err := client.Get(server.URL + "/api/healthy")

	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestStartGameStreamsSessionReady(t *testing.T) {
	_, server, client := newTestApplication(t)

	resp := postJSON(t, client, server.URL+"/api/game/start", map[string]string{"difficulty": "easy"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	started := decodeBody[map[string]string](t, resp)
	require.NotEmpty(t, started["startId"])

	stream, err := client.Get(server.URL + "/api/game/start/" + started["startId"] + "/events")
	require.NoError(t, err)
	defer stream.Body.Close()
	require.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	var sessionID string
	scanner := bufio.NewScanner(stream.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event gameEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		require.NotEqual(t, eventError, event.Type)
		if event.Type == eventSessionReady {
			sessionID = event.SessionID
			break
		}
	}
	require.NotEmpty(t, sessionID, "the stream must announce the new session")
}

func TestGameplayFlow(t *testing.T) {
	app, server, client := newTestApplication(t)

	session, err := app.controller.StartNewGame(context.Background(), "medium", game.StartCallbacks{})
	require.NoError(t, err)

	// Attach the session to this browser.
	resp := postJSON(t, client, server.URL+"/api/game/attach", map[string]string{"sessionId": session.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The current session is now readable.
	resp, err = client.Get(server.URL + "/api/game/session")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	current := decodeBody[map[string]any](t, resp)
	require.Equal(t, session.ID, current["id"])

	// Two hints, then the budget is spent.
	for range 2 {
		resp = postJSON(t, client, server.URL+"/api/game/hint", struct{}{})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	resp = postJSON(t, client, server.URL+"/api/game/hint", struct{}{})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Get(server.URL + "/api/game/stats")
	require.NoError(t, err)
	stats := decodeBody[map[string]int](t, resp)
	require.Equal(t, 2, stats["hintsUsed"])
	require.Zero(t, stats["hintsRemaining"])

	// Without an oracle player turns are unavailable.
	resp = postJSON(t, client, server.URL+"/api/game/input", map[string]string{"message": "who did it?"})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()

	// Giving up ends the game; further hints conflict.
	resp = postJSON(t, client, server.URL+"/api/game/give-up", struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry := decodeBody[map[string]any](t, resp)
	require.Contains(t, entry["message"], "The murderer was")

	resp = postJSON(t, client, server.URL+"/api/game/hint", struct{}{})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAttachUnknownSession(t *testing.T) {
	_, server, client := newTestApplication(t)

	resp := postJSON(t, client, server.URL+"/api/game/attach", map[string]string{"sessionId": "nope"})

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
