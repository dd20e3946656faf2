package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave)
	// SSE responses must not buffer through the session middleware.
	sse := alice.New(app.serverSentEventMiddleware)

	mux.Handle("GET /api/healthy", http.HandlerFunc(app.healthy))

	mux.Handle("POST /api/game/start", session.ThenFunc(app.startGame))
	mux.Handle("GET /api/game/start/{startID}/events", sse.ThenFunc(app.streamStartEvents))
	mux.Handle("POST /api/game/attach", session.ThenFunc(app.attachSession))

	mux.Handle("GET /api/game/session", session.ThenFunc(app.currentSession))
	mux.Handle("GET /api/game/sessions", session.ThenFunc(app.listSessions))
	mux.Handle("POST /api/game/input", session.ThenFunc(app.playerInput))
	mux.Handle("POST /api/game/hint", session.ThenFunc(app.requestHint))
	mux.Handle("POST /api/game/give-up", session.ThenFunc(app.giveUp))
	mux.Handle("GET /api/game/stats", session.ThenFunc(app.gameStats))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
