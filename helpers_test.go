package pushindexer

import (
	"context"
	"errors"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/thalesfsp/pushindexer/internal/estest"
)

// samplePayload is the envelope of a push with one commit whose message and
// added/modified lists are empty.
const samplePayload = `{
	"detail": {
		"repository": {"name": "r"},
		"ref": "refs/heads/main",
		"commits": [{
			"id": "abc",
			"message": "",
			"author": {"name": "a"},
			"url": "u",
			"added": [],
			"removed": ["x.txt"],
			"modified": [],
			"timestamp": "2024-01-01T00:00:00Z"
		}]
	}
}`

// fakeEngine is a scripted Engine recording every call.
type fakeEngine struct {
	reachable    bool
	pingErr      error
	exists       bool
	existsErr    error
	acknowledged bool
	createErr    error
	bulkRes      *esutil.BulkIndexerResponse
	bulkErr      error

	calls      []string
	bulkBodies [][]byte
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		reachable:    true,
		exists:       true,
		acknowledged: true,
	}
}

func (f *fakeEngine) Ping(_ context.Context) (bool, error) {
	f.calls = append(f.calls, "ping")

	return f.reachable, f.pingErr
}

func (f *fakeEngine) IndexExists(_ context.Context, _ string) (bool, error) {
	f.calls = append(f.calls, "exists")

	return f.exists, f.existsErr
}

func (f *fakeEngine) CreateIndex(_ context.Context, _ string, _ IndexSchema) (bool, error) {
	f.calls = append(f.calls, "create")

	return f.acknowledged, f.createErr
}

func (f *fakeEngine) Bulk(_ context.Context, _ string, body []byte, _ RefreshPolicy) (*esutil.BulkIndexerResponse, error) {
	f.calls = append(f.calls, "bulk")
	f.bulkBodies = append(f.bulkBodies, body)

	if f.bulkErr != nil {
		return nil, f.bulkErr
	}

	if f.bulkRes != nil {
		return f.bulkRes, nil
	}

	return &esutil.BulkIndexerResponse{}, nil
}

var errBoom = errors.New("boom")

func strPtr(s string) *string {
	return &s
}

func sampleEvent(ids ...string) *PushEvent {
	commits := make([]Commit, 0, len(ids))

	for _, id := range ids {
		commits = append(commits, Commit{
			ID:        strPtr(id),
			Message:   strPtr("message " + id),
			URL:       strPtr("https://example.com/commit/" + id),
			Author:    &Author{Name: strPtr("octocat")},
			Added:     []string{"a.go", "b.go"},
			Removed:   []string{},
			Modified:  []string{"c.go"},
			Timestamp: strPtr("2024-01-01T00:00:00Z"),
		})
	}

	return &PushEvent{
		Repository: &Repository{Name: strPtr("repo")},
		Ref:        strPtr("refs/heads/main"),
		Commits:    commits,
	}
}

func newTestShipper(t *testing.T, engine Engine, mutate ...func(*BulkOptions)) *Shipper {
	t.Helper()

	opts, err := NewBulkOptions(IndexName, RefreshPolicyFalse, false)
	require.NoError(t, err)

	for _, m := range mutate {
		m(opts)
	}

	shipper, err := NewShipper(engine, opts, zerolog.Nop())
	require.NoError(t, err)

	return shipper
}

func newTestHandler(t *testing.T, engine Engine, mutate ...func(*BulkOptions)) *Handler {
	t.Helper()

	h, err := NewHandler(newTestShipper(t, engine, mutate...), zerolog.Nop())
	require.NoError(t, err)

	return h
}

func newTestEngine(t *testing.T, srv *estest.Server) *ElasticsearchEngine {
	t.Helper()

	engine, err := NewElasticsearchEngine(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		Username:     "elastic",
		Password:     "changeme",
		DisableRetry: true,
	})
	require.NoError(t, err)

	return engine
}
