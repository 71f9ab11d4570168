// Package app wires the settings into a ready to use handler and exposes it
// over HTTP.
package app

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog"
	"github.com/thalesfsp/pushindexer"
	"github.com/thalesfsp/pushindexer/internal/config"
)

// NewEngine returns an engine client for the configured cluster. Retries are
// disabled, every call is a single attempt.
func NewEngine(s *config.Settings) (*pushindexer.ElasticsearchEngine, error) {
	return pushindexer.NewElasticsearchEngine(elasticsearch.Config{
		Addresses:    []string{s.Elasticsearch.Host},
		Username:     s.Elasticsearch.Username,
		Password:     s.Elasticsearch.Password,
		DisableRetry: true,
	})
}

// NewHandler builds the handler shipping through engine.
func NewHandler(s *config.Settings, engine pushindexer.Engine, logger zerolog.Logger) (*pushindexer.Handler, error) {
	opts, err := pushindexer.NewBulkOptions(s.Index, s.Refresh, s.StrictBulk)
	if err != nil {
		return nil, err
	}

	opts.SkipReachabilityCheck = s.SkipPing

	shipper, err := pushindexer.NewShipper(engine, opts, logger)
	if err != nil {
		return nil, err
	}

	return pushindexer.NewHandler(shipper, logger)
}

// Build creates the engine and the handler from settings.
func Build(s *config.Settings, logger zerolog.Logger) (*pushindexer.Handler, error) {
	engine, err := NewEngine(s)
	if err != nil {
		return nil, err
	}

	return NewHandler(s, engine, logger)
}
