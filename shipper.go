package pushindexer

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// Shipper provisions the index and bulk-writes commit documents.
type Shipper struct {
	engine Engine
	logger zerolog.Logger
	opts   *BulkOptions
}

//////
// Exported functionalities.
//////

// Index returns the index documents are shipped to.
func (s *Shipper) Index() string {
	return s.opts.Index
}

// EnsureIndex creates the index when absent. It returns false, without
// error, when the engine didn't acknowledge the creation. An existing index
// is left untouched, its schema is never reconciled.
func (s *Shipper) EnsureIndex(ctx context.Context) (bool, error) {
	created, acknowledged, err := s.ensureIndex(ctx)
	if err != nil {
		return false, err
	}

	if created && acknowledged {
		s.logger.Info().Str("index", s.opts.Index).Msg("index created")
	}

	return acknowledged, nil
}

// Ship submits the actions as a single bulk request.
//
// Soft failures (unreachable engine, unacknowledged index creation, and
// rejected documents in strict mode) are reported through the result.
// Anything else is returned as an error.
//
//nolint:gocognit
func (s *Shipper) Ship(ctx context.Context, actions []Action) (*ShipResult, error) {
	metrics := NewMetrics()

	// Helper function to report soft failures.
	softFailure := func(reason Reason, err error, failed []FailedItem) *ShipResult {
		metrics.IncrementErrorCount()
		metrics.UpdateStatus(StatusFailed)

		s.logger.Warn().
			Err(err).
			Str("reason", reason).
			Str("index", s.opts.Index).
			Msg("shipping failed")

		return &ShipResult{
			Shipped:     false,
			Reason:      reason,
			Err:         err,
			FailedItems: failed,
			Metrics:     metrics.GetMetrics(),
		}
	}

	//////
	// Reachability.
	//////

	if !s.opts.SkipReachabilityCheck {
		reachable, err := s.engine.Ping(ctx)
		if err != nil || !reachable {
			return softFailure(
				ReasonUnreachable,
				ErrorCatalog.
					MustGet(ErrUnreachable).
					NewFailedToError(customerror.WithError(err)),
				nil,
			), nil
		}
	}

	//////
	// Index provisioning.
	//////

	created, acknowledged, err := s.ensureIndex(ctx)
	if err != nil {
		metrics.UpdateStatus(StatusFailed)

		return nil, err
	}

	if !acknowledged {
		return softFailure(
			ReasonIndexCreationFailed,
			ErrorCatalog.
				MustGet(ErrIndexNotAcknowledged).
				NewFailedToError(customerror.WithField("index", s.opts.Index)),
			nil,
		), nil
	}

	if created {
		metrics.MarkIndexCreated()

		s.logger.Info().Str("index", s.opts.Index).Msg("index created")
	}

	//////
	// Bulk.
	//////

	// An empty bulk body is rejected by the engine, nothing to do.
	if len(actions) == 0 {
		s.logger.Info().Str("index", s.opts.Index).Msg("no commits to ship")

		metrics.UpdateStatus(StatusDone)

		return &ShipResult{
			Shipped:     true,
			FailedItems: []FailedItem{},
			Metrics:     metrics.GetMetrics(),
		}, nil
	}

	body, err := EncodeBulkBody(actions)
	if err != nil {
		metrics.UpdateStatus(StatusFailed)

		return nil, err
	}

	metrics.UpdateDocsProcessed(int64(len(actions)))

	metrics.UpdateBytesProcessed(int64(len(body)))

	s.logger.Debug().
		Int("docs", len(actions)).
		Int("bytes", len(body)).
		Str("index", s.opts.Index).
		Msg("shipping data to elasticsearch")

	res, err := s.engine.Bulk(ctx, s.opts.Index, body, s.opts.RefreshPolicy)
	if err != nil {
		metrics.IncrementErrorCount()
		metrics.UpdateStatus(StatusFailed)

		return nil, err
	}

	failed := failedItems(res)

	for range failed {
		metrics.IncreaseDocsFailed()
	}

	for i := 0; i < len(actions)-len(failed); i++ {
		metrics.IncreaseDocsSucceeded()
	}

	if len(failed) > 0 {
		for _, item := range failed {
			s.logger.Warn().
				Str("docID", item.ID).
				Int("status", item.Status).
				Str("type", item.Type).
				Str("reason", item.Reason).
				Msg("document rejected")
		}

		if s.opts.Strict {
			return softFailure(
				ReasonBulkWriteError,
				ErrorCatalog.
					MustGet(ErrFailedToIndexDocument).
					NewFailedToError(
						customerror.WithField("failedDocs", len(failed)),
						customerror.WithTag("bulk"),
					),
				failed,
			), nil
		}
	}

	metrics.UpdateStatus(StatusDone)

	return &ShipResult{
		Shipped:     true,
		FailedItems: failed,
		Metrics:     metrics.GetMetrics(),
	}, nil
}

//////
// Helpers.
//////

// ensureIndex reports whether the index had to be created and whether it is
// now in place.
func (s *Shipper) ensureIndex(ctx context.Context) (bool, bool, error) {
	exists, err := s.engine.IndexExists(ctx, s.opts.Index)
	if err != nil {
		return false, false, err
	}

	if exists {
		return false, true, nil
	}

	s.logger.Info().Str("index", s.opts.Index).Msg("index does not exist, creating it")

	acknowledged, err := s.engine.CreateIndex(ctx, s.opts.Index, s.opts.Schema)
	if err != nil {
		return false, false, err
	}

	return true, acknowledged, nil
}

//////
// Factory.
//////

// NewShipper returns a Shipper writing through `engine`.
func NewShipper(engine Engine, opts *BulkOptions, logger zerolog.Logger) (*Shipper, error) {
	if engine == nil {
		return nil, ErrorCatalog.
			MustGet(ErrEngineRequired).
			NewRequiredError()
	}

	if opts == nil {
		return nil, ErrorCatalog.
			MustGet(ErrInvalidBulkOptions).
			NewRequiredError()
	}

	if opts.Index == "" {
		return nil, ErrorCatalog.
			MustGet(ErrIndexNameRequired).
			NewRequiredError()
	}

	return &Shipper{
		engine: engine,
		logger: logger.With().Str("component", "shipper").Logger(),
		opts:   opts,
	}, nil
}
