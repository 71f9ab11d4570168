// Package estest provides an in-memory Elasticsearch HTTP API double for
// tests. It speaks just enough of the API for the ingestor: ping, index
// exists, index create and bulk.
package estest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Document is a document received through the bulk API.
type Document struct {
	Index  string
	ID     string
	Source map[string]any
}

// Server is a fake Elasticsearch cluster. Configure the exported fields
// before issuing requests.
type Server struct {
	*httptest.Server

	// Unreachable makes ping answer 503.
	Unreachable bool

	// NotAcknowledged makes index creation answer acknowledged=false.
	NotAcknowledged bool

	// AlreadyExists makes index creation fail with
	// resource_already_exists_exception, as when losing a creation race.
	AlreadyExists bool

	// Rejected maps document IDs to the reason the bulk API rejects them.
	Rejected map[string]string

	// BulkStatus overrides the bulk response status code when set.
	BulkStatus int

	mu         sync.Mutex
	calls      []string
	indices    map[string][]byte
	documents  []Document
	bulkBodies [][]byte
}

// NewServer starts a fake cluster. It is closed when the test ends.
func NewServer(t interface {
	Helper()
	Cleanup(func())
}) *Server {
	t.Helper()

	s := &Server{
		Rejected: map[string]string{},
		indices:  map[string][]byte{},
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))

	t.Cleanup(s.Close)

	return s
}

// WithIndex marks index as existing.
func (s *Server) WithIndex(index string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.indices[index] = []byte("{}")

	return s
}

// SetUnreachable toggles the ping answer while the server is in use.
func (s *Server) SetUnreachable(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Unreachable = v
}

// Calls returns every request received, as "METHOD /path".
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.calls...)
}

// Documents returns the documents received through bulk requests, in order.
func (s *Server) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Document(nil), s.documents...)
}

// BulkBodies returns the raw body of every bulk request.
func (s *Server) BulkBodies() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([][]byte(nil), s.bulkBodies...)
}

// IndexBody returns the body the index was created with, nil if it wasn't
// created through the API.
func (s *Server) IndexBody(index string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.indices[index]
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, r.Method+" "+r.URL.Path)

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodHead && path == "":
		if s.Unreachable {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodHead:
		if _, ok := s.indices[path]; ok {
			w.WriteHeader(http.StatusOK)
			return
		}

		w.WriteHeader(http.StatusNotFound)

	case r.Method == http.MethodPut:
		s.createIndex(w, r, path)

	case r.Method == http.MethodPost && strings.HasSuffix(path, "_bulk"):
		s.bulk(w, r, strings.TrimSuffix(strings.TrimSuffix(path, "_bulk"), "/"))

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, `{"error":{"type":"illegal_argument_exception","reason":"unhandled %s %s"},"status":404}`, r.Method, r.URL.Path)
	}
}

func (s *Server) createIndex(w http.ResponseWriter, r *http.Request, index string) {
	body, _ := io.ReadAll(r.Body)

	if _, ok := s.indices[index]; ok || s.AlreadyExists {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprintf(w, `{"error":{"type":"resource_already_exists_exception","reason":"index [%s] already exists","index":%q},"status":400}`, index, index)
		return
	}

	if s.NotAcknowledged {
		_, _ = fmt.Fprintf(w, `{"acknowledged":false,"shards_acknowledged":false,"index":%q}`, index)
		return
	}

	s.indices[index] = body

	_, _ = fmt.Fprintf(w, `{"acknowledged":true,"shards_acknowledged":true,"index":%q}`, index)
}

//nolint:gocognit
func (s *Server) bulk(w http.ResponseWriter, r *http.Request, defaultIndex string) {
	body, _ := io.ReadAll(r.Body)

	s.bulkBodies = append(s.bulkBodies, body)

	if s.BulkStatus != 0 {
		w.WriteHeader(s.BulkStatus)
		_, _ = fmt.Fprintf(w, `{"error":{"type":"illegal_argument_exception","reason":"forced"},"status":%d}`, s.BulkStatus)
		return
	}

	type actionLine struct {
		Index struct {
			Index string `json:"_index"`
			ID    string `json:"_id"`
		} `json:"index"`
	}

	items := []map[string]any{}
	hasErrors := false

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)

	for scanner.Scan() {
		var action actionLine

		if err := json.Unmarshal(scanner.Bytes(), &action); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprintf(w, `{"error":{"type":"parse_exception","reason":%q},"status":400}`, err.Error())
			return
		}

		if !scanner.Scan() {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprint(w, `{"error":{"type":"parse_exception","reason":"missing document"},"status":400}`)
			return
		}

		var source map[string]any

		_ = json.Unmarshal(scanner.Bytes(), &source)

		index := action.Index.Index
		if index == "" {
			index = defaultIndex
		}

		if reason, ok := s.Rejected[action.Index.ID]; ok {
			hasErrors = true

			items = append(items, map[string]any{"index": map[string]any{
				"_index": index,
				"_id":    action.Index.ID,
				"status": http.StatusBadRequest,
				"error": map[string]any{
					"type":   "mapper_parsing_exception",
					"reason": reason,
				},
			}})

			continue
		}

		s.documents = append(s.documents, Document{Index: index, ID: action.Index.ID, Source: source})

		items = append(items, map[string]any{"index": map[string]any{
			"_index":   index,
			"_id":      action.Index.ID,
			"status":   http.StatusCreated,
			"result":   "created",
			"_version": 1,
		}})
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"took":   1,
		"errors": hasErrors,
		"items":  items,
	})
}
