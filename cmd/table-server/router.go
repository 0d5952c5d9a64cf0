package main

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"blackjack-bankroll/internal/ws"
)

// newRouter wires the websocket endpoint and the read-only public views.
// The websocket route skips the request logger to keep the long-lived
// upgrade out of the access log.
func newRouter(wsServer *ws.Server) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler())
	r.Get("/ws", wsServer.HandleWS)

	r.Route("/api/public", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Get("/tables", tablesHandler(wsServer))
		r.Get("/tables/{code}", tableSnapshotHandler(wsServer))
		r.Get("/tables/{code}/ledger", tableLedgerHandler(wsServer))
	})
	return r
}
