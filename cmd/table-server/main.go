package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"blackjack-bankroll/internal/config"
	"blackjack-bankroll/internal/game"
	"blackjack-bankroll/internal/ids"
	"blackjack-bankroll/internal/logging"
	"blackjack-bankroll/internal/ws"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	wsServer := ws.NewServer(ids.NewGenerator(), ws.Options{
		DefaultRules: game.Rules{
			MinBet:          cfg.Tables.DefaultMinBet,
			MaxBet:          cfg.Tables.DefaultMaxBet,
			StartingBalance: cfg.Tables.DefaultStartingBalance,
		},
		CodeLength:  cfg.Tables.CodeLength,
		LedgerDepth: cfg.Tables.LedgerDepth,
	})
	r := newRouter(wsServer)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	<-done
	log.Info().Msg("server stopped")
}
