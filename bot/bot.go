// Package bot serves shoe computations over NATS request/reply.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/banco/calculator"
	"github.com/domino14/banco/config"
	"github.com/domino14/banco/equity"
	"github.com/domino14/banco/shoe"
)

var ErrNoCounts = errors.New("request has no counts")

// Request asks for a computation over a shoe. Counts are keyed by rank,
// 1 (Ace) to 13 (King). Payouts may be partial; missing wagers keep the
// service's schedule.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Counts  map[int]int     `json:"counts"`
	Payouts json.RawMessage `json:"payouts,omitempty"`
	Effects bool            `json:"effects,omitempty"`
}

type Response struct {
	ID      string                    `json:"id"`
	Result  *equity.CalculationResult `json:"result,omitempty"`
	Effects *calculator.Effects       `json:"effects,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// Shoe builds the requested shoe. Unknown ranks are ignored and negative
// counts are treated as zero.
func (r *Request) Shoe() (*shoe.Shoe, error) {
	if len(r.Counts) == 0 {
		return nil, ErrNoCounts
	}
	counts := make(map[shoe.Rank]int, len(r.Counts))
	for rank, c := range r.Counts {
		if c > shoe.MaxCount {
			return nil, fmt.Errorf("%w: %d cards of rank %d", shoe.ErrTooMany, c, rank)
		}
		counts[shoe.Rank(rank)] = c
	}
	return shoe.New(counts), nil
}

// Schedule overlays the request's payouts on base.
func (r *Request) Schedule(base equity.Schedule) (equity.Schedule, error) {
	if len(r.Payouts) == 0 {
		return base, nil
	}
	sched := base
	if err := json.Unmarshal(r.Payouts, &sched); err != nil {
		return base, fmt.Errorf("bad payouts: %w", err)
	}
	return sched, nil
}

type Bot struct {
	config   *config.Config
	calc     *calculator.Calculator
	schedule equity.Schedule
}

func NewBot(cfg *config.Config) (*Bot, error) {
	calc, err := calculator.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	sched, err := cfg.Schedule()
	if err != nil {
		return nil, err
	}
	return &Bot{config: cfg, calc: calc, schedule: sched}, nil
}

func (b *Bot) Calculator() *calculator.Calculator {
	return b.calc
}

func (b *Bot) Schedule() equity.Schedule {
	return b.schedule
}

func errorResponse(id, message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{ID: id, Error: msg}
}

// Evaluate answers a decoded request. Errors are reported in the response.
func (b *Bot) Evaluate(ctx context.Context, req *Request) *Response {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	logger := log.With().Str("request-id", req.ID).Logger()

	s, err := req.Shoe()
	if err != nil {
		return errorResponse(req.ID, "bad shoe", err)
	}
	sched, err := req.Schedule(b.schedule)
	if err != nil {
		return errorResponse(req.ID, "bad schedule", err)
	}
	logger.Debug().Int("total-cards", s.Total()).Bool("effects", req.Effects).Msg("evaluating")

	if req.Effects {
		eff, err := b.calc.RemovalEffects(ctx, s, sched)
		if err != nil {
			return errorResponse(req.ID, "removal effects failed", err)
		}
		return &Response{ID: req.ID, Result: &eff.Base, Effects: eff}
	}
	res := b.calc.Compute(s, sched)
	return &Response{ID: req.ID, Result: &res}
}

// Handle decodes a JSON request and returns the JSON response.
func (b *Bot) Handle(ctx context.Context, data []byte) []byte {
	var resp *Response
	req := &Request{}
	if err := json.Unmarshal(data, req); err != nil {
		resp = errorResponse("", "could not parse request", err)
	} else {
		resp = b.Evaluate(ctx, req)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		// Should never happen, but reply with something the client can read.
		out = fmt.Appendf(nil, `{"id":%q,"error":%q}`, resp.ID, err.Error())
	}
	return out
}

// Subscribe answers requests on channel until the subscription is drained.
func Subscribe(nc *nats.Conn, channel string, b *Bot) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		if err := m.Respond(b.Handle(context.Background(), m.Data)); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return nil, err
	}
	if err := nc.Flush(); err != nil {
		return nil, err
	}
	return sub, nc.LastError()
}

// Main connects to NATS and serves forever. Run it in its own goroutine.
func Main(channel string, b *Bot) {
	nc, err := nats.Connect(b.config.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().Err(err).Msg("nats-connect")
	}
	if _, err := Subscribe(nc, channel, b); err != nil {
		log.Fatal().Err(err).Msg("nats-subscribe")
	}
	log.Info().Msgf("Listening on [%s]", channel)

	runtime.Goexit()
}
