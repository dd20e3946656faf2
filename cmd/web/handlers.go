package main

import (
	"context"
	"net/http"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/game"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/random"
)

// currentGameSessionKey is the scs key holding the browser's current game
// session id.
const currentGameSessionKey = "gameSessionID"

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// startGame kicks off a new game in the background and returns a start id
// the client can use to follow progress over SSE. Once the session-ready
// event arrives the client attaches the session to its browser session.
func (app *application) startGame(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Difficulty string `json:"difficulty"`
	}
	if !app.readJSON(w, r, &body) {
		return
	}
	if body.Difficulty == "" {
		body.Difficulty = "medium"
	}

	startID, err := random.Letters(20)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	events := make(chan gameEvent)
	app.events.Publish(startID, events)

	go func() {
		defer func() {
			app.events.Unpublish(startID)
			close(events)
		}()

		// The request context dies with the response; game start continues
		// regardless of whether the client keeps listening.
		session, startErr := app.controller.StartNewGame(context.Background(), body.Difficulty, game.StartCallbacks{
			OnCaseReady: func() {
				sendEvent(events, gameEvent{Type: eventCaseReady})
			},
			OnIllustrationReady: func() {
				sendEvent(events, gameEvent{Type: eventIllustrationReady})
			},
		})
		if startErr != nil {
			app.logger.Error("game start failed", errors.SlogError(startErr))
			sendEvent(events, gameEvent{Type: eventError, Message: "could not start a new game"})
			return
		}
		sendEvent(events, gameEvent{Type: eventSessionReady, SessionID: session.ID})
	}()

	app.writeJSON(w, r, http.StatusAccepted, map[string]string{"startId": startID})
}

// attachSession makes the given game session the browser's current one,
// resuming it from persistence when needed.
func (app *application) attachSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if !app.readJSON(w, r, &body) {
		return
	}
	if body.SessionID == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	session, err := app.controller.Resume(r.Context(), body.SessionID)
	if err != nil {
		if errors.Is(err, game.ErrNoActiveSession) {
			app.clientError(w, r, http.StatusNotFound)
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.sessionManager.Put(r.Context(), currentGameSessionKey, session.ID)
	app.writeJSON(w, r, http.StatusOK, session)
}

func (app *application) currentSession(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.GetString(r.Context(), currentGameSessionKey)
	if sessionID == "" {
		app.clientError(w, r, http.StatusNotFound)
		return
	}

	session, err := app.controller.Session(sessionID)
	if err != nil {
		// Completed sessions drop out of the controller but stay readable
		// from persistence.
		if session, err = app.sessions.Get(r.Context(), sessionID); err != nil {
			app.clientError(w, r, http.StatusNotFound)
			return
		}
	}

	app.writeJSON(w, r, http.StatusOK, session)
}

type sessionSummary struct {
	ID        string `json:"id"`
	CaseID    string `json:"caseId"`
	Title     string `json:"title"`
	StartedAt string `json:"startedAt"`
	Completed bool   `json:"completed"`
	IsSolved  bool   `json:"isSolved"`
}

func (app *application) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := app.sessions.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	summaries := make([]sessionSummary, len(sessions))
	for i, session := range sessions {
		var title string
		if session.Case != nil {
			title = session.Case.Title
		}
		summaries[i] = sessionSummary{
			ID:        session.ID,
			CaseID:    session.CaseID,
			Title:     title,
			StartedAt: session.StartedAt.Format("2006-01-02 15:04"),
			Completed: session.Completed(),
			IsSolved:  session.IsSolved,
		}
	}

	app.writeJSON(w, r, http.StatusOK, summaries)
}

type turnResponse struct {
	Entry    *models.ConversationEntry `json:"entry"`
	GameOver bool                      `json:"gameOver"`
	Solved   bool                      `json:"solved"`
	Score    int                       `json:"score"`
}

func (app *application) playerInput(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if !app.readJSON(w, r, &body) {
		return
	}
	if body.Message == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	sessionID := app.sessionManager.GetString(r.Context(), currentGameSessionKey)
	result, err := app.controller.ProcessPlayerInput(r.Context(), sessionID, body.Message)
	if err != nil {
		app.gameError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, turnResponse{
		Entry:    result.Response,
		GameOver: result.GameOver,
		Solved:   result.Solved,
		Score:    result.Score,
	})
}

func (app *application) requestHint(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.GetString(r.Context(), currentGameSessionKey)
	entry, err := app.controller.RequestHint(r.Context(), sessionID)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	if entry == nil {
		// Hint budget spent.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	app.writeJSON(w, r, http.StatusOK, entry)
}

func (app *application) giveUp(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.GetString(r.Context(), currentGameSessionKey)
	entry, err := app.controller.GiveUp(r.Context(), sessionID)
	if err != nil {
		app.gameError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, entry)
}

func (app *application) gameStats(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.GetString(r.Context(), currentGameSessionKey)
	stats, err := app.controller.Stats(sessionID)
	if err != nil {
		app.gameError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]int{
		"questionsAsked": stats.QuestionsAsked,
		"hintsUsed":      stats.HintsUsed,
		"hintsRemaining": stats.HintsRemaining,
	})
}

// gameError maps controller errors to HTTP statuses.
func (app *application) gameError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrNoActiveSession):
		app.clientError(w, r, http.StatusConflict)
	case errors.Is(err, game.ErrOracleUnavailable):
		app.clientError(w, r, http.StatusServiceUnavailable)
	default:
		app.serverError(w, r, err)
	}
}
