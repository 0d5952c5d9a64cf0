package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blackjack-bankroll/internal/ws"
)

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func tablesHandler(s *ws.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tables": s.Tables()})
	}
}

func tableSnapshotHandler(s *ws.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		view, ok := s.Snapshot(code)
		if !ok {
			writeError(w, http.StatusNotFound, "table not found")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func tableLedgerHandler(s *ws.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		entries, ok := s.Ledger(code)
		if !ok {
			writeError(w, http.StatusNotFound, "table not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tableCode": code, "entries": entries})
	}
}
