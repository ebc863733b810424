package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/banco/bot"
	"github.com/domino14/banco/config"
)

var cfg *config.Config
var b *bot.Bot
var nc *nats.Conn

// publisher is the part of a NATS connection the handler needs.
type publisher interface {
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
}

func reply(ctx context.Context, p publisher, channel string, data []byte) error {
	logger := zerolog.Ctx(ctx)
	return retry.Do(
		func() error {
			// We're just waiting for an acknowledgement. The actual
			// data doesn't matter.
			_, err := p.Request(channel, data, 3*time.Second)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			logger.Err(err).Uint("n", n).
				Msg("did-not-receive-ack-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func handle(ctx context.Context, evt bot.LambdaEvent, p publisher) (*bot.Response, error) {
	resp := b.Evaluate(ctx, &evt.Request)
	logger := log.With().Str("request-id", resp.ID).Logger()
	ctx = logger.WithContext(ctx)

	if evt.ReplyChannel != "" {
		if p == nil {
			return resp, errors.New("no NATS connection for reply channel")
		}
		data, err := json.Marshal(resp)
		if err != nil {
			return resp, err
		}
		logger.Info().Str("channel", evt.ReplyChannel).Msg("compute-done-sending-via-nats")
		if err := reply(ctx, p, evt.ReplyChannel, data); err != nil {
			logger.Err(err).Msg("reply-failed")
			return resp, err
		}
	}
	logger.Info().Msg("exiting-fn")
	return resp, nil
}

func HandleRequest(ctx context.Context, evt bot.LambdaEvent) (*bot.Response, error) {
	if nc == nil {
		return handle(ctx, evt, nil)
	}
	return handle(ctx, evt, nc)
}

func main() {
	cfg = &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	var err error
	b, err = bot.NewBot(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bot")
	}
	nc, err = nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}

	lambda.Start(HandleRequest)
}
