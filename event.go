package pushindexer

import (
	"encoding/json"

	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// Author of a commit.
type Author struct {
	// Name may be empty but must be present.
	Name *string `json:"name" validate:"required"`
}

// Repository the push happened on.
type Repository struct {
	// Name may be empty but must be present.
	Name *string `json:"name" validate:"required"`
}

// Commit as delivered by the push event.
//
// NOTE: String fields can legitimately be empty but the key itself must be
// present in the payload. A non-empty timestamp must be ISO-8601.
type Commit struct {
	ID        *string  `json:"id"        validate:"required"`
	Message   *string  `json:"message"   validate:"required"`
	URL       *string  `json:"url"       validate:"required"`
	Author    *Author  `json:"author"    validate:"required"`
	Added     []string `json:"added"     validate:"required"`
	Removed   []string `json:"removed"   validate:"required"`
	Modified  []string `json:"modified"  validate:"required"`
	Timestamp *string  `json:"timestamp" validate:"required,iso8601"`
}

// PushEvent is a source-control notification describing the commits
// appended to a branch.
type PushEvent struct {
	Repository *Repository `json:"repository" validate:"required"`
	Ref        *string     `json:"ref"        validate:"required"`
	Commits    []Commit    `json:"commits"    validate:"required,dive"`
}

// Envelope is the event-bus wrapper around a push event.
type Envelope struct {
	Detail *PushEvent `json:"detail" validate:"required"`
}

//////
// Exported functionalities.
//////

// ParseEnvelope decodes and validates an event-bus envelope, returning the
// push event it carries.
func ParseEnvelope(payload []byte) (*PushEvent, error) {
	var envelope Envelope

	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, malformedEventError(err)
	}

	if err := process(&envelope); err != nil {
		return nil, malformedEventError(err)
	}

	return envelope.Detail, nil
}

// ParsePushEvent decodes and validates a bare push event, as delivered by a
// webhook.
func ParsePushEvent(payload []byte) (*PushEvent, error) {
	var event PushEvent

	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, malformedEventError(err)
	}

	if err := ValidateEvent(&event); err != nil {
		return nil, err
	}

	return &event, nil
}

// ValidateEvent checks every required field of the push event is present.
func ValidateEvent(event *PushEvent) error {
	if event == nil {
		return ErrorCatalog.
			MustGet(ErrMalformedEvent).
			NewRequiredError()
	}

	if err := process(event); err != nil {
		return malformedEventError(err)
	}

	return nil
}

//////
// Helpers.
//////

func malformedEventError(err error) error {
	return ErrorCatalog.
		MustGet(ErrMalformedEvent).
		NewInvalidError(
			customerror.WithError(err),
			customerror.WithTag("validation"),
		)
}
