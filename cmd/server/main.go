package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/banco/api"
	"github.com/domino14/banco/bot"
	"github.com/domino14/banco/config"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
)

func main() {
	// BANCO_ settings may come from a .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	b, err := bot.NewBot(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bot")
	}
	srv := &http.Server{
		Addr:              cfg.GetString(config.ConfigHTTPAddress),
		Handler:           api.NewRouter(api.NewHandler(b)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("http-shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("address", srv.Addr).Msg("starting-server")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("listen")
	}
	<-idleConnsClosed
	log.Info().Msg("server gracefully shutting down")
}
