// Package testserver provides a stub target service for local
// benchmark runs and tests. It mimics the document-store surface the
// benchmark actions exercise, plus a few failure-injection endpoints.
package testserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Server is a configurable HTTP test server.
type Server struct {
	mux   *http.ServeMux
	docID atomic.Int64
}

// NewServer creates a test server with all endpoints configured.
func NewServer() *Server {
	s := &Server{
		mux: http.NewServeMux(),
	}
	s.registerHandlers()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerHandlers() {
	s.mux.HandleFunc("/_bulk", s.handleBulk)
	s.mux.HandleFunc("/status/", s.handleStatus)
	s.mux.HandleFunc("/delay/", s.handleDelay)
	s.mux.HandleFunc("/", s.handleRoot)
}

// handleRoot dispatches the document-store style paths: the ping
// endpoint at /, index creation at PUT /{index}, and document
// indexing at POST /{index}/_doc.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		s.handlePing(w, r)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 1 && r.Method == http.MethodPut:
		s.handleCreateIndex(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "_doc" && r.Method == http.MethodPost:
		s.handleIndexDoc(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

// handlePing answers the root endpoint with service identity.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"name":    "testserver",
		"version": map[string]interface{}{"number": "8.0.0"},
		"tagline": "you know, for benchmarks",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleCreateIndex acknowledges index creation. ?ack=false forces an
// unacknowledged answer for failure-path tests.
func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request, index string) {
	ack := r.URL.Query().Get("ack") != "false"

	response := map[string]interface{}{
		"acknowledged": ack,
		"index":        index,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleIndexDoc stores nothing and answers like a document store
// would: 201 with the assigned id.
func (s *Server) handleIndexDoc(w http.ResponseWriter, r *http.Request, index string) {
	if _, err := io.ReadAll(r.Body); err != nil {
		http.Error(w, "failed to read body", http.StatusInternalServerError)
		return
	}

	id := s.docID.Add(1)
	response := map[string]interface{}{
		"_index":  index,
		"_id":     strconv.FormatInt(id, 10),
		"result":  "created",
		"version": 1,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// handleBulk accepts an NDJSON bulk body and acknowledges every
// action/document pair. ?errors=true rejects every document, for
// failure-path tests.
func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusInternalServerError)
		return
	}

	lines := 0
	for _, line := range strings.Split(string(body), "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	docs := lines / 2

	reject := r.URL.Query().Get("errors") == "true"
	status := http.StatusCreated
	if reject {
		status = http.StatusTooManyRequests
	}

	items := make([]map[string]interface{}, 0, docs)
	for i := 0; i < docs; i++ {
		items = append(items, map[string]interface{}{
			"index": map[string]interface{}{
				"_id":    strconv.Itoa(i),
				"status": status,
			},
		})
	}

	response := map[string]interface{}{
		"took":   1,
		"errors": reject,
		"items":  items,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleStatus returns the specified HTTP status code.
// Example: GET /status/404 returns 404 Not Found
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/status/")
	code, err := strconv.Atoi(path)
	if err != nil || code < 100 || code > 599 {
		http.Error(w, "invalid status code", http.StatusBadRequest)
		return
	}
	w.WriteHeader(code)
	fmt.Fprintf(w, "%d %s", code, http.StatusText(code))
}

// handleDelay waits for the specified duration before responding.
// Example: GET /delay/100 waits 100ms
func (s *Server) handleDelay(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/delay/")
	ms, err := strconv.Atoi(path)
	if err != nil || ms < 0 {
		http.Error(w, "invalid delay", http.StatusBadRequest)
		return
	}

	time.Sleep(time.Duration(ms) * time.Millisecond)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "delayed %dms", ms)
}
