package pushindexer

import (
	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// RefreshPolicy defines the refresh policy for the bulk request.
type RefreshPolicy = string

const (
	// RefreshPolicyFalse is the default refresh policy, no refresh is forced
	// after a operation.
	RefreshPolicyFalse RefreshPolicy = "false"

	// RefreshPolicyTrue forces an immediate refresh after a operation.
	RefreshPolicyTrue RefreshPolicy = "true"

	// RefreshPolicyWaitFor waits for a refresh before completing the operation.
	RefreshPolicyWaitFor RefreshPolicy = "wait_for"
)

// BulkOptions defines how commits are shipped.
//
// NOTE: Use NewBulkOptions() to create a new BulkOptions struct!
type BulkOptions struct {
	// Index documents are shipped to.
	Index string `json:"index" validate:"required"`

	// RefreshPolicy of the bulk request.
	RefreshPolicy RefreshPolicy `json:"refreshPolicy" validate:"required,oneof=false true wait_for"`

	// Schema used when the index has to be created.
	Schema IndexSchema `json:"schema"`

	// Strict surfaces documents rejected by the engine as a failed shipment.
	// When false, any accepted bulk call is a success.
	Strict bool `json:"strict"`

	// SkipReachabilityCheck proceeds without pinging the engine first.
	// Reproduces historical deployments where the check never ran.
	SkipReachabilityCheck bool `json:"skipReachabilityCheck"`
}

//////
// Factory.
//////

// NewBulkOptions returns validated bulk options with the default schema.
func NewBulkOptions(
	// Index name.
	indexName string,

	// Refresh policy.
	refreshPolicy RefreshPolicy,

	// Report per document failures.
	strict bool,
) (*BulkOptions, error) {
	if refreshPolicy == "" {
		refreshPolicy = RefreshPolicyFalse
	}

	bO := &BulkOptions{
		Index:         indexName,
		RefreshPolicy: refreshPolicy,
		Schema:        DefaultIndexSchema(),
		Strict:        strict,
	}

	if err := process(bO); err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrInvalidBulkOptions).
			NewInvalidError(customerror.WithError(err))
	}

	return bO, nil
}
