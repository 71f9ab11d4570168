package pushindexer

import (
	"github.com/thalesfsp/customerror"
	"github.com/thalesfsp/pushindexer/internal/shared"
)

//////
// Const, vars, types.
//////

const (
	ErrEngineRequired             = "ERR_ENGINE_REQUIRED"                // Required.
	ErrFailedToBulkIndexDocuments = "ERR_FAILED_TO_BULK_INDEX_DOCUMENTS" // FailedTo.
	ErrFailedToCheckIndex         = "ERR_FAILED_TO_CHECK_INDEX"          // FailedTo.
	ErrFailedToConvertToJSON      = "ERR_FAILED_TO_CONVERT_TO_JSON"      // FailedTo.
	ErrFailedToCreateClient       = "ERR_FAILED_TO_CREATE_CLIENT"        // FailedTo.
	ErrFailedToCreateIndex        = "ERR_FAILED_TO_CREATE_INDEX"         // FailedTo.
	ErrFailedToDecodeResponse     = "ERR_FAILED_TO_DECODE_RESPONSE"      // FailedTo.
	ErrFailedToIndexDocument      = "ERR_FAILED_TO_INDEX_DOCUMENT"       // FailedTo.
	ErrFailedToPing               = "ERR_FAILED_TO_PING"                 // FailedTo.
	ErrIndexNameRequired          = "ERR_INDEX_NAME_REQUIRED"            // Required.
	ErrIndexNotAcknowledged       = "ERR_INDEX_NOT_ACKNOWLEDGED"         // FailedTo.
	ErrInvalidBulkOptions         = "ERR_INVALID_BULK_OPTIONS"           // Invalid.
	ErrMalformedEvent             = "ERR_MALFORMED_EVENT"                // Invalid.
	ErrShipperRequired            = "ERR_SHIPPER_REQUIRED"               // Required.
	ErrUnreachable                = "ERR_UNREACHABLE"                    // FailedTo.
)

// ErrorCatalog is the error catalog for the ingestor.
var ErrorCatalog = customerror.
	MustNewCatalog(shared.Name).
	MustSet(ErrEngineRequired, "engine").
	MustSet(ErrFailedToBulkIndexDocuments, "bulk index documents").
	MustSet(ErrFailedToCheckIndex, "check index existence").
	MustSet(ErrFailedToConvertToJSON, "convert to JSON").
	MustSet(ErrFailedToCreateClient, "create client").
	MustSet(ErrFailedToCreateIndex, "create index").
	MustSet(ErrFailedToDecodeResponse, "decode engine response").
	MustSet(ErrFailedToIndexDocument, "index document").
	MustSet(ErrFailedToPing, "ping").
	MustSet(ErrIndexNameRequired, "index name").
	MustSet(ErrIndexNotAcknowledged, "get index creation acknowledged").
	MustSet(ErrInvalidBulkOptions, "bulk options").
	MustSet(ErrMalformedEvent, "push event").
	MustSet(ErrShipperRequired, "shipper").
	MustSet(ErrUnreachable, "reach elasticsearch")

//////
// Exported functionalities.
//////

// MustGet returns a custom error from the error catalog.
func MustGet(errorCode string, opts ...customerror.Option) *customerror.CustomError {
	return ErrorCatalog.MustGet(errorCode, opts...)
}
