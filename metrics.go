package pushindexer

import (
	"sync"
)

//////
// Const, vars, and types.
//////

// Status represents the status of a shipping attempt.
type Status = string

const (
	// StatusRunning represents a running status.
	StatusRunning Status = "running"

	// StatusDone represents a done status.
	StatusDone Status = "done"

	// StatusFailed represents a failed status.
	StatusFailed Status = "failed"
)

// Metrics contains metrics for a shipping attempt.
//
// WARN: Changes here requires changes in GetMetrics(), Update* and NewMetrics()
// functions.
//
// NOTE: Use NewMetrics() to create a new Metrics struct!
type Metrics struct {
	// Status of the process.
	Status Status `json:"status"`

	// Bulk metrics.
	BytesProcessed int64 `json:"bytesProcessed"`
	DocsFailed     int64 `json:"docsFailed"`
	DocsProcessed  int64 `json:"docsProcessed"`
	DocsSucceeded  int64 `json:"docsSucceeded"`
	ErrorCount     int64 `json:"errorCount"`

	// IndexCreated is true when the attempt had to provision the index.
	IndexCreated bool `json:"indexCreated"`

	mu sync.Mutex `json:"-"`
}

//////
// Methods.
//////

// UpdateStatus updates the status.
func (m *Metrics) UpdateStatus(status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Status = status
}

// UpdateBytesProcessed updates the number of bytes processed.
func (m *Metrics) UpdateBytesProcessed(delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BytesProcessed += delta
}

// UpdateDocsProcessed increases the number of documents processed by delta.
func (m *Metrics) UpdateDocsProcessed(delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DocsProcessed += delta
}

// IncreaseDocsFailed increases the number of documents that failed.
func (m *Metrics) IncreaseDocsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DocsFailed++
}

// IncreaseDocsSucceeded increases the number of documents that succeeded.
func (m *Metrics) IncreaseDocsSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DocsSucceeded++
}

// IncrementErrorCount increments the error count.
func (m *Metrics) IncrementErrorCount() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ErrorCount++
}

// MarkIndexCreated records that the index was provisioned.
func (m *Metrics) MarkIndexCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IndexCreated = true
}

// GetMetrics returns a copy of the Metrics struct.
func (m *Metrics) GetMetrics() *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &Metrics{
		Status: m.Status,

		BytesProcessed: m.BytesProcessed,
		DocsFailed:     m.DocsFailed,
		DocsProcessed:  m.DocsProcessed,
		DocsSucceeded:  m.DocsSucceeded,
		ErrorCount:     m.ErrorCount,

		IndexCreated: m.IndexCreated,
	}
}

//////
// Factory.
//////

// NewMetrics creates a new Metrics struct.
func NewMetrics() *Metrics {
	return &Metrics{
		Status: StatusRunning,

		BytesProcessed: 0,
		DocsFailed:     0,
		DocsProcessed:  0,
		DocsSucceeded:  0,
		ErrorCount:     0,

		IndexCreated: false,

		mu: sync.Mutex{},
	}
}
