package pushindexer

//////
// Const, vars, and types.
//////

// IndexName is the default index commit documents are shipped to.
const IndexName = "github_commit_details"

// Placeholder stored in place of empty string fields.
const Placeholder = "None"

//////
// Documents.
//////

// CommitDocument is the flattened, engine-ready record of a single commit.
type CommitDocument struct {
	RepositoryName string `json:"repository_name"`
	BranchName     string `json:"branch_name"`
	CommitSHA      string `json:"commit_sha"`
	CommitMessage  string `json:"commit_message"`
	AuthorName     string `json:"author_name"`
	CommitURL      string `json:"commit_url"`
	AddedFiles     string `json:"added_files"`
	RemovedFiles   string `json:"removed_files"`
	ModifiedFiles  string `json:"modified_files"`
	Date           string `json:"date"`
}

// ActionMeta is the bulk action line preceding a document.
//
// NOTE: An empty ID is omitted, the engine then assigns one. The bulk API
// rejects a present but empty `_id`.
type ActionMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id,omitempty"`
}

// Action pairs a bulk index action with its document.
type Action struct {
	Meta     ActionMeta
	Document CommitDocument
}

//////
// Bulk results.
//////

// FailedItem contains information about a document that failed to index.
type FailedItem struct {
	ID     string
	Reason string
	Status int
	Type   string
}

// Reason classifies a soft shipping failure.
type Reason = string

const (
	// ReasonUnreachable means the engine did not answer the ping.
	ReasonUnreachable Reason = "unreachable"

	// ReasonIndexCreationFailed means the create-index call wasn't
	// acknowledged.
	ReasonIndexCreationFailed Reason = "index_creation_failed"

	// ReasonBulkWriteError means at least one document was rejected. Only
	// reported when strict bulk is enabled.
	ReasonBulkWriteError Reason = "bulk_write_error"
)

// ShipResult is the outcome of a shipping attempt.
//
// NOTE: Soft failures are reported here, with `Shipped` set to false. Hard
// failures are returned as errors instead.
type ShipResult struct {
	// Shipped is true when the engine accepted the bulk call.
	Shipped bool

	// Reason of the soft failure, empty on success.
	Reason Reason

	// Err describes the soft failure, nil on success.
	Err error

	// FailedItems rejected by the engine. In legacy mode they are reported
	// but don't fail the shipment.
	FailedItems []FailedItem

	// Metrics snapshot for this attempt.
	Metrics *Metrics
}
