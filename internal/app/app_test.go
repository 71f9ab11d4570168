package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thalesfsp/pushindexer"
	"github.com/thalesfsp/pushindexer/internal/estest"
)

const envelope = `{"detail":` + pushPayload + `}`

func TestBuild_SkipPing(t *testing.T) {
	srv := estest.NewServer(t).WithIndex(pushindexer.IndexName)
	srv.Unreachable = true

	settings := testSettings(srv.URL)
	settings.SkipPing = true

	h, err := Build(settings, zerolog.Nop())
	require.NoError(t, err)

	outcome, err := h.Handle(context.Background(), json.RawMessage(envelope))
	require.NoError(t, err)
	assert.Equal(t, pushindexer.OutcomeShipped, outcome)

	assert.NotContains(t, srv.Calls(), "HEAD /")
}

func TestBuild_StrictBulk(t *testing.T) {
	srv := estest.NewServer(t).WithIndex(pushindexer.IndexName)
	srv.Rejected["abc"] = "failed to parse"

	settings := testSettings(srv.URL)
	settings.StrictBulk = true

	h, err := Build(settings, zerolog.Nop())
	require.NoError(t, err)

	outcome, err := h.Handle(context.Background(), json.RawMessage(envelope))
	require.NoError(t, err)
	assert.Equal(t, pushindexer.OutcomeFailed, outcome)
}

func TestNewHandler_InvalidSettings(t *testing.T) {
	settings := testSettings("http://localhost:9200")
	settings.Refresh = "sometimes"

	engine, err := NewEngine(settings)
	require.NoError(t, err)

	_, err = NewHandler(settings, engine, zerolog.Nop())
	assert.Error(t, err)
}
