package pushindexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	event, err := ParseEnvelope([]byte(samplePayload))
	require.NoError(t, err)

	assert.Equal(t, "r", *event.Repository.Name)
	assert.Equal(t, "refs/heads/main", *event.Ref)
	require.Len(t, event.Commits, 1)

	commit := event.Commits[0]

	assert.Equal(t, "abc", *commit.ID)
	require.NotNil(t, commit.Message)
	assert.Equal(t, "", *commit.Message)
	assert.Equal(t, []string{"x.txt"}, commit.Removed)
	assert.Equal(t, []string{}, commit.Added)
}

func TestParseEnvelope_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{
			name:    "not JSON",
			payload: `{"detail":`,
			field:   "",
		},
		{
			name:    "missing detail",
			payload: `{"source":"aws.events"}`,
			field:   "detail is required",
		},
		{
			name:    "missing commits",
			payload: `{"detail":{"repository":{"name":"r"},"ref":"refs/heads/main"}}`,
			field:   "detail.commits is required",
		},
		{
			name:    "missing repository",
			payload: `{"detail":{"ref":"refs/heads/main","commits":[]}}`,
			field:   "detail.repository is required",
		},
		{
			name:    "missing ref",
			payload: `{"detail":{"repository":{"name":"r"},"commits":[]}}`,
			field:   "detail.ref is required",
		},
		{
			name: "missing commit message",
			payload: `{"detail":{"repository":{"name":"r"},"ref":"refs/heads/main","commits":[
				{"id":"abc","author":{"name":"a"},"url":"u","added":[],"removed":[],"modified":[],"timestamp":"2024-01-01T00:00:00Z"}
			]}}`,
			field: "detail.commits[0].message is required",
		},
		{
			name: "missing author name",
			payload: `{"detail":{"repository":{"name":"r"},"ref":"refs/heads/main","commits":[
				{"id":"abc","message":"m","author":{},"url":"u","added":[],"removed":[],"modified":[],"timestamp":"2024-01-01T00:00:00Z"}
			]}}`,
			field: "detail.commits[0].author.name is required",
		},
		{
			name: "missing file lists",
			payload: `{"detail":{"repository":{"name":"r"},"ref":"refs/heads/main","commits":[
				{"id":"abc","message":"m","author":{"name":"a"},"url":"u","timestamp":"2024-01-01T00:00:00Z"}
			]}}`,
			field: "detail.commits[0].added is required",
		},
		{
			name: "invalid timestamp",
			payload: `{"detail":{"repository":{"name":"r"},"ref":"refs/heads/main","commits":[
				{"id":"abc","message":"m","author":{"name":"a"},"url":"u","added":[],"removed":[],"modified":[],"timestamp":"yesterday"}
			]}}`,
			field: "detail.commits[0].timestamp must be an ISO-8601 timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseEnvelope([]byte(tt.payload))

			assert.Nil(t, event)
			require.Error(t, err)

			if tt.field != "" {
				assert.ErrorContains(t, err, tt.field)
			}
		})
	}
}

func TestParseEnvelope_ReportsEveryMissingField(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{"detail":{"repository":{"name":"r"}}}`))
	require.Error(t, err)

	assert.ErrorContains(t, err, "detail.ref is required")
	assert.ErrorContains(t, err, "detail.commits is required")
}

func TestParsePushEvent(t *testing.T) {
	event, err := ParsePushEvent([]byte(`{
		"ref": "refs/heads/feature/foo",
		"repository": {"name": "r", "full_name": "o/r"},
		"commits": [{
			"id": "abc", "message": "m", "url": "u",
			"author": {"name": "a", "email": "a@example.com"},
			"added": [], "removed": [], "modified": ["m.go"],
			"timestamp": "2024-01-01T10:00:00+02:00"
		}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "foo", BranchName(*event.Ref))
	assert.Equal(t, []string{"m.go"}, event.Commits[0].Modified)

	_, err = ParsePushEvent([]byte(`{"ref":"refs/heads/main"}`))
	assert.ErrorContains(t, err, "commits is required")
}

func TestValidateEvent(t *testing.T) {
	assert.NoError(t, ValidateEvent(sampleEvent("c1")))
	assert.NoError(t, ValidateEvent(sampleEvent()))
	assert.Error(t, ValidateEvent(nil))

	event := sampleEvent("c1")
	event.Commits[0].ID = nil

	assert.ErrorContains(t, ValidateEvent(event), "commits[0].id is required")
}

func TestParseEnvelope_EmptyFieldsArePresent(t *testing.T) {
	event, err := ParseEnvelope([]byte(`{"detail":{"repository":{"name":""},"ref":"","commits":[
		{"id":"","message":"","author":{"name":""},"url":"","added":[],"removed":[],"modified":[],"timestamp":""}
	]}}`))
	require.NoError(t, err)

	assert.Equal(t, "", *event.Repository.Name)
	assert.Equal(t, "", *event.Ref)
	assert.Equal(t, "", *event.Commits[0].ID)
	assert.Equal(t, "", *event.Commits[0].Timestamp)
}

func TestParseEnvelope_Timestamps(t *testing.T) {
	tests := []struct {
		timestamp string
		valid     bool
	}{
		{timestamp: "2024-01-01T00:00:00Z", valid: true},
		{timestamp: "2024-01-01T10:00:00+02:00", valid: true},
		{timestamp: "2024-01-01T10:00:00.123456Z", valid: true},
		{timestamp: "2024-01-01T00:00:00", valid: true},
		{timestamp: "2024-01-01T00:00:00.5", valid: true},
		{timestamp: "2024-01-01T00:00", valid: true},
		{timestamp: "2024-01-01", valid: true},
		{timestamp: "", valid: true},
		{timestamp: "yesterday", valid: false},
		{timestamp: "01/02/2024", valid: false},
		{timestamp: "2024-13-01T00:00:00", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.timestamp, func(t *testing.T) {
			event := sampleEvent("c1")
			event.Commits[0].Timestamp = strPtr(tt.timestamp)

			err := ValidateEvent(event)

			if tt.valid {
				assert.NoError(t, err)
				return
			}

			assert.ErrorContains(t, err, "commits[0].timestamp must be an ISO-8601 timestamp")
		})
	}
}
