package pushindexer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// Engine is the subset of the search engine API the ingestor relies on.
type Engine interface {
	// Ping returns true when the engine answered the health check.
	Ping(ctx context.Context) (bool, error)

	// IndexExists returns true when the index exists.
	IndexExists(ctx context.Context, index string) (bool, error)

	// CreateIndex creates the index and returns the acknowledged flag.
	CreateIndex(ctx context.Context, index string, schema IndexSchema) (bool, error)

	// Bulk submits the NDJSON body as a single bulk request.
	Bulk(ctx context.Context, index string, body []byte, refresh RefreshPolicy) (*esutil.BulkIndexerResponse, error)
}

// ElasticsearchEngine implements Engine with the official client.
type ElasticsearchEngine struct {
	client *elasticsearch.Client
}

//////
// Exported functionalities.
//////

// Ping issues a single health check request.
func (e *ElasticsearchEngine) Ping(ctx context.Context) (bool, error) {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return false, ErrorCatalog.
			MustGet(ErrFailedToPing).
			NewFailedToError(customerror.WithError(err))
	}

	defer res.Body.Close()

	return !res.IsError(), nil
}

// IndexExists checks the index metadata.
func (e *ElasticsearchEngine) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := e.client.Indices.Exists(
		[]string{index},
		e.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, ErrorCatalog.
			MustGet(ErrFailedToCheckIndex).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithField("index", index),
			)
	}

	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, ErrorCatalog.
			MustGet(ErrFailedToCheckIndex).
			NewFailedToError(
				customerror.WithField("index", index),
				customerror.WithField("response", res.String()),
			)
	}
}

// CreateIndex creates the index with the given schema.
//
// NOTE: Losing a creation race against a concurrent invocation is reported
// as acknowledged, the index is there either way.
func (e *ElasticsearchEngine) CreateIndex(ctx context.Context, index string, schema IndexSchema) (bool, error) {
	body, err := json.Marshal(schema)
	if err != nil {
		return false, ErrorCatalog.
			MustGet(ErrFailedToConvertToJSON).
			NewFailedToError(customerror.WithError(err))
	}

	res, err := e.client.Indices.Create(
		index,
		e.client.Indices.Create.WithContext(ctx),
		e.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return false, ErrorCatalog.
			MustGet(ErrFailedToCreateIndex).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithField("index", index),
			)
	}

	defer res.Body.Close()

	if res.IsError() {
		var errRes ErrorResponse

		if err := json.NewDecoder(res.Body).Decode(&errRes); err == nil &&
			errRes.Error != nil &&
			errRes.Error.Type == ErrorTypeResourceAlreadyExists {
			return true, nil
		}

		return false, ErrorCatalog.
			MustGet(ErrFailedToCreateIndex).
			NewFailedToError(
				customerror.WithField("index", index),
				customerror.WithField("status", res.StatusCode),
			)
	}

	var createRes CreateIndexResponse

	if err := json.NewDecoder(res.Body).Decode(&createRes); err != nil {
		return false, ErrorCatalog.
			MustGet(ErrFailedToDecodeResponse).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithTag("indices.create"),
			)
	}

	return createRes.Acknowledged, nil
}

// Bulk submits the body as one bulk request and decodes the per item
// response.
func (e *ElasticsearchEngine) Bulk(
	ctx context.Context,
	index string,
	body []byte,
	refresh RefreshPolicy,
) (*esutil.BulkIndexerResponse, error) {
	opts := []func(*esapi.BulkRequest){
		e.client.Bulk.WithContext(ctx),
		e.client.Bulk.WithIndex(index),
	}

	if refresh != "" {
		opts = append(opts, e.client.Bulk.WithRefresh(refresh))
	}

	res, err := e.client.Bulk(bytes.NewReader(body), opts...)
	if err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToBulkIndexDocuments).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithTag("bulk"),
			)
	}

	defer res.Body.Close()

	if res.IsError() {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToBulkIndexDocuments).
			NewFailedToError(
				customerror.WithField("status", res.StatusCode),
				customerror.WithField("response", res.String()),
				customerror.WithTag("bulk"),
			)
	}

	var bulkRes esutil.BulkIndexerResponse

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToDecodeResponse).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithTag("bulk"),
			)
	}

	return &bulkRes, nil
}

//////
// Factory.
//////

// NewElasticsearchEngine returns an Engine backed by a new client. No request
// is issued, reachability is checked on every shipment instead.
func NewElasticsearchEngine(esConfig elasticsearch.Config) (*ElasticsearchEngine, error) {
	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToCreateClient).
			NewFailedToError(customerror.WithError(err))
	}

	return &ElasticsearchEngine{
		client: client,
	}, nil
}
