package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/thalesfsp/pushindexer"
)

// GitHub webhook headers and events.
const (
	HeaderEvent    = "X-GitHub-Event"
	HeaderDelivery = "X-GitHub-Delivery"

	EventPush = "push"
	EventPing = "ping"
)

// maxPayloadBytes is the largest payload GitHub delivers.
const maxPayloadBytes = 25 << 20

// response is the JSON body of every webhook reply.
type response struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewRouter mounts the webhook and health routes.
func NewRouter(h *pushindexer.Handler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/webhook", webhook(h, logger))

	return r
}

// NewServer creates the HTTP server for the router.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Serve runs srv until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, logger zerolog.Logger) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

func webhook(h *pushindexer.Handler, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With().
			Str("delivery", r.Header.Get(HeaderDelivery)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Logger()

		switch event := r.Header.Get(HeaderEvent); event {
		case "", EventPush:
		case EventPing:
			writeJSON(w, http.StatusOK, response{Status: "pong"})
			return
		default:
			log.Debug().Str("event", event).Msg("event ignored")
			writeJSON(w, http.StatusAccepted, response{Status: "ignored"})
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
		if err != nil {
			writeJSON(w, http.StatusRequestEntityTooLarge, response{Error: err.Error()})
			return
		}

		event, err := pushindexer.ParsePushEvent(payload)
		if err != nil {
			log.Warn().Err(err).Msg("malformed push event")
			writeJSON(w, http.StatusBadRequest, response{Error: err.Error()})
			return
		}

		outcome, err := h.HandleEvent(r.Context(), event)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, response{Error: err.Error()})
			return
		}

		if outcome != pushindexer.OutcomeShipped {
			writeJSON(w, http.StatusBadGateway, response{Status: outcome})
			return
		}

		writeJSON(w, http.StatusOK, response{Status: outcome})
	}
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
