package pushindexer

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

//////
// Const, vars, and types.
//////

// Outcomes returned to the invoking runtime.
const (
	// OutcomeShipped is returned when the engine accepted the bulk call.
	OutcomeShipped = "Data shipped to Elasticsearch"

	// OutcomeFailed is returned on soft shipping failures.
	OutcomeFailed = "Shipping failed"
)

// Handler is the entry point of an invocation: it turns a push event into
// commit documents and ships them.
type Handler struct {
	logger  zerolog.Logger
	shipper *Shipper
}

//////
// Exported functionalities.
//////

// Handle processes an event-bus envelope. Malformed events and hard
// shipping errors are logged and returned so the runtime's own retry policy
// applies.
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) (string, error) {
	event, err := ParseEnvelope(payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("malformed event")

		return "", err
	}

	return h.handle(ctx, event)
}

// HandleEvent processes an already unwrapped push event.
func (h *Handler) HandleEvent(ctx context.Context, event *PushEvent) (string, error) {
	if err := ValidateEvent(event); err != nil {
		h.logger.Error().Err(err).Msg("malformed event")

		return "", err
	}

	return h.handle(ctx, event)
}

//////
// Helpers.
//////

func (h *Handler) handle(ctx context.Context, event *PushEvent) (string, error) {
	logger := h.logger.With().
		Str("repository", deref(event.Repository.Name)).
		Str("branch", BranchName(deref(event.Ref))).
		Logger()

	logger.Info().
		Int("commits", len(event.Commits)).
		Msg("total number of commits in this push")

	actions := Transform(h.shipper.Index(), event)

	result, err := h.shipper.Ship(ctx, actions)
	if err != nil {
		logger.Error().Err(err).Msg("exception occurred while shipping")

		return "", err
	}

	if !result.Shipped {
		logger.Error().
			Err(result.Err).
			Str("reason", result.Reason).
			Msg("failed to ship data to elasticsearch")

		return OutcomeFailed, nil
	}

	logger.Info().
		Int64("docsSucceeded", result.Metrics.DocsSucceeded).
		Int64("docsFailed", result.Metrics.DocsFailed).
		Int64("bytes", result.Metrics.BytesProcessed).
		Bool("indexCreated", result.Metrics.IndexCreated).
		Msg("data shipped to elasticsearch")

	return OutcomeShipped, nil
}

//////
// Factory.
//////

// NewHandler returns a Handler shipping through `shipper`.
func NewHandler(shipper *Shipper, logger zerolog.Logger) (*Handler, error) {
	if shipper == nil {
		return nil, MustGet(ErrShipperRequired).NewRequiredError()
	}

	return &Handler{
		logger:  logger.With().Str("component", "handler").Logger(),
		shipper: shipper,
	}, nil
}
