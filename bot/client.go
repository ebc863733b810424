package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/banco/equity"
	"github.com/domino14/banco/shoe"
)

const DefaultRequestTimeout = 10 * time.Second

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
	timeout time.Duration
	// attempts per request, including the first
	attempts uint
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel, timeout: DefaultRequestTimeout, attempts: 3}
}

// MakeRequest encodes a request for the given shoe and schedule.
func MakeRequest(s *shoe.Shoe, sched equity.Schedule, effects bool) ([]byte, error) {
	counts := make(map[int]int, shoe.NumRanks)
	for r, c := range s.Counts() {
		counts[int(r)] = c
	}
	payouts, err := json.Marshal(sched)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Request{Counts: counts, Payouts: payouts, Effects: effects})
}

func (c *Client) request(ctx context.Context, data []byte) (*Response, error) {
	var resp Response
	err := retry.Do(
		func() error {
			reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			res, err := c.nc.RequestWithContext(reqCtx, c.channel, data)
			if err != nil {
				if c.nc.LastError() != nil {
					log.Error().Msgf("%v for request", c.nc.LastError())
				}
				return err
			}
			log.Debug().Int("bytes", len(res.Data)).Msg("compute-reply")
			if err := json.Unmarshal(res.Data, &resp); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("compute-request-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("compute service returned: " + resp.Error)
	}
	return &resp, nil
}

// Compute asks the service for the result of a shoe.
func (c *Client) Compute(ctx context.Context, s *shoe.Shoe, sched equity.Schedule) (*equity.CalculationResult, error) {
	data, err := MakeRequest(s, sched, false)
	if err != nil {
		return nil, err
	}
	resp, err := c.request(ctx, data)
	if err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, errors.New("compute service sent no result")
	}
	return resp.Result, nil
}
