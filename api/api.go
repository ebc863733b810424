// Package api exposes the compute service over HTTP.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/banco/bot"
)

// MaxRequestBytes bounds a request body.
const MaxRequestBytes = 1 << 16

type Handler struct {
	bot *bot.Bot
}

func NewHandler(b *bot.Bot) *Handler {
	return &Handler{bot: b}
}

func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Route("/api", func(rr chi.Router) {
		rr.Get("/health", h.Health)
		rr.Get("/payouts/default", h.DefaultPayouts)
		rr.Post("/compute", h.Compute)
		rr.Post("/effects", h.Effects)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("write-response")
	}
}

func decode[T any](body io.Reader) (*T, error) {
	var payload T
	dec := json.NewDecoder(io.LimitReader(body, MaxRequestBytes))
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DefaultPayouts returns the schedule applied to requests that send none.
func (h *Handler) DefaultPayouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.bot.Schedule())
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request, effects bool) {
	req, err := decode[bot.Request](r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &bot.Response{Error: "could not parse request: " + err.Error()})
		return
	}
	req.Effects = effects
	resp := h.bot.Evaluate(r.Context(), req)
	if resp.Error != "" {
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	h.evaluate(w, r, false)
}

func (h *Handler) Effects(w http.ResponseWriter, r *http.Request) {
	h.evaluate(w, r, true)
}
