package pushindexer

import (
	"bytes"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// bulkActionLine is the action line of the bulk NDJSON stream.
type bulkActionLine struct {
	Index ActionMeta `json:"index"`
}

//////
// Bulk body process.
//////

// EncodeBulkBody flattens actions into the interleaved NDJSON stream the bulk
// API expects: an action line followed by its document, one per line.
func EncodeBulkBody(actions []Action) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)

	// Commit messages and paths are stored as is.
	enc.SetEscapeHTML(false)

	for _, action := range actions {
		// Encode appends the trailing newline.
		if err := enc.Encode(bulkActionLine{Index: action.Meta}); err != nil {
			return nil, ErrorCatalog.
				MustGet(ErrFailedToConvertToJSON).
				NewFailedToError(
					customerror.WithError(err),
					customerror.WithField("docID", action.Meta.ID),
				)
		}

		if err := enc.Encode(action.Document); err != nil {
			return nil, ErrorCatalog.
				MustGet(ErrFailedToConvertToJSON).
				NewFailedToError(
					customerror.WithError(err),
					customerror.WithField("docID", action.Meta.ID),
				)
		}
	}

	return buf.Bytes(), nil
}

//////
// Bulk response process.
//////

// failedItems extracts the documents the engine rejected from a bulk
// response.
func failedItems(res *esutil.BulkIndexerResponse) []FailedItem {
	failed := make([]FailedItem, 0)

	if res == nil {
		return failed
	}

	for _, item := range res.Items {
		for _, info := range item {
			if info.Status >= 200 && info.Status < 300 && info.Error.Type == "" {
				continue
			}

			failed = append(failed, FailedItem{
				ID:     info.DocumentID,
				Reason: info.Error.Reason,
				Status: info.Status,
				Type:   info.Error.Type,
			})
		}
	}

	return failed
}
