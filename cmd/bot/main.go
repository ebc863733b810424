package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/banco/bot"
	"github.com/domino14/banco/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	b, err := bot.NewBot(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bot")
	}
	go bot.Main(cfg.GetString(config.ConfigNatsSubject), b)

	<-idleConnsClosed
	log.Info().Msg("server gracefully shutting down")
}
