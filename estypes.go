package pushindexer

//////
// Indices create.
//////

// CreateIndexResponse represents the response from the create index API.
type CreateIndexResponse struct {
	Acknowledged       bool   `json:"acknowledged"`
	ShardsAcknowledged bool   `json:"shards_acknowledged"`
	Index              string `json:"index"`
}

//////
// Errors.
//////

// ErrorTypeResourceAlreadyExists is returned when creating an index that
// already exists.
const ErrorTypeResourceAlreadyExists = "resource_already_exists_exception"

// ErrorResponse represents an Elasticsearch error body.
type ErrorResponse struct {
	Error  *ErrorCause `json:"error"`
	Status int         `json:"status"`
}

// ErrorCause describes why a request failed.
type ErrorCause struct {
	Type     string      `json:"type"`
	Reason   string      `json:"reason"`
	Index    string      `json:"index,omitempty"`
	CausedBy *ErrorCause `json:"caused_by,omitempty"`
}
