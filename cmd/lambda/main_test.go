package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/nats-io/nats.go"

	"github.com/domino14/banco/bot"
	"github.com/domino14/banco/config"
)

type fakePublisher struct {
	failures int
	calls    int
	channel  string
	data     []byte
}

func (f *fakePublisher) Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, nats.ErrTimeout
	}
	f.channel = subj
	f.data = data
	return &nats.Msg{}, nil
}

func setup(t *testing.T) {
	cfg = config.DefaultConfig()
	var err error
	b, err = bot.NewBot(cfg)
	if err != nil {
		t.Fatal(err)
	}
}

func TestHandleReplies(t *testing.T) {
	is := is.New(t)
	setup(t)
	evt := bot.LambdaEvent{
		Request:      bot.Request{ID: "foo", Counts: map[int]int{1: 4, 5: 4, 10: 4, 13: 4}},
		ReplyChannel: "reply.foo",
	}
	p := &fakePublisher{failures: 1}
	resp, err := handle(context.Background(), evt, p)
	is.NoErr(err)
	is.Equal(resp.ID, "foo")
	is.Equal(resp.Result.TotalCards, 16)
	is.Equal(p.calls, 2)
	is.Equal(p.channel, "reply.foo")

	var sent bot.Response
	is.NoErr(json.Unmarshal(p.data, &sent))
	is.Equal(sent.ID, "foo")
	is.Equal(*sent.Result, *resp.Result)
}

func TestHandleNoReplyChannel(t *testing.T) {
	is := is.New(t)
	setup(t)
	resp, err := HandleRequest(context.Background(), bot.LambdaEvent{
		Request: bot.Request{Counts: map[int]int{9: 8}},
	})
	is.NoErr(err)
	is.True(resp.ID != "")
	is.Equal(resp.Result.TotalCards, 8)

	_, err = HandleRequest(context.Background(), bot.LambdaEvent{
		Request:      bot.Request{Counts: map[int]int{9: 8}},
		ReplyChannel: "reply.bar",
	})
	is.True(err != nil)
}

func TestHandleReplyGivesUp(t *testing.T) {
	is := is.New(t)
	setup(t)
	p := &fakePublisher{failures: 100}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := handle(ctx, bot.LambdaEvent{
		Request:      bot.Request{Counts: map[int]int{9: 8}},
		ReplyChannel: "reply.baz",
	}, p)
	is.True(err != nil)
	is.True(p.calls >= 1)
	is.True(p.data == nil)
}
