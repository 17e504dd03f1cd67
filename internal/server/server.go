// Package server exposes the webhook endpoint receiving bot updates. The
// path carries the bot token as a shared secret; a mismatch is rejected,
// anything else is acknowledged with 200 regardless of the processing outcome
// so the transport never retries an already-consumed update.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crypted-pay/crypted-pay/pkg/telegram"
)

// Handler consumes one inbound update.
type Handler interface {
	HandleUpdate(ctx context.Context, update telegram.Update) error
}

var (
	updatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Inbound webhook updates accepted for processing.",
	})
	updateErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_update_errors_total",
		Help: "Updates whose processing failed.",
	})
)

// New builds the HTTP router. token is the webhook path secret.
func New(token string, handler Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Post("/{token}/", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "token") != token {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var update telegram.Update
		if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
			log.Printf("Failed to decode update: %v", err)
			w.WriteHeader(http.StatusOK)
			return
		}

		updatesTotal.Inc()
		if err := handler.HandleUpdate(req.Context(), update); err != nil {
			updateErrorsTotal.Inc()
			log.Printf("Failed to process update %d: %v", update.UpdateID, err)
		}
		w.WriteHeader(http.StatusOK)
	})

	return r
}
