// Package ankifake serves a minimal in-memory AnkiConnect endpoint for tests.
package ankifake

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Request is one request received by the fake.
type Request struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params"`
	Key     string          `json:"key"`
}

type note struct {
	id     int64
	deck   string
	fields map[string]string
}

// Server is a fake AnkiConnect endpoint backed by in-memory decks.
type Server struct {
	server *httptest.Server

	mu       sync.Mutex
	notes    map[int64]note
	order    []int64
	requests []Request

	apiKey       string
	failStatus   int
	failuresLeft int
	apiErrors    map[string]string
}

// New starts a fake server and registers its shutdown with t.Cleanup.
func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		notes:     make(map[int64]note),
		apiErrors: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Post("/", s.handle)

	s.server = httptest.NewServer(r)
	t.Cleanup(s.server.Close)

	return s
}

// URL returns the endpoint address.
func (s *Server) URL() string {
	return s.server.URL
}

// AddNote stores a note with Front and Back fields in deck.
func (s *Server) AddNote(deck string, id int64, front, back string) {
	s.AddNoteFields(deck, id, map[string]string{"Front": front, "Back": back})
}

// AddNoteFields stores a note with arbitrary fields in deck.
func (s *Server) AddNoteFields(deck string, id int64, fields map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notes[id]; !exists {
		s.order = append(s.order, id)
	}
	s.notes[id] = note{id: id, deck: deck, fields: fields}
}

// RequireKey makes every request without the given key fail.
func (s *Server) RequireKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
}

// FailNext answers the next n requests with the given HTTP status.
func (s *Server) FailNext(n, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failuresLeft = n
	s.failStatus = status
}

// SetAPIError makes the given action answer with an error field.
func (s *Server) SetAPIError(action, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiErrors[action] = message
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestCount returns the number of requests received so far.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)

	if s.failuresLeft > 0 {
		s.failuresLeft--
		http.Error(w, "injected failure", s.failStatus)
		return
	}

	if s.apiKey != "" && req.Key != s.apiKey {
		respond(w, nil, "valid api key must be provided")
		return
	}
	if msg, ok := s.apiErrors[req.Action]; ok {
		respond(w, nil, msg)
		return
	}

	switch req.Action {
	case "version":
		respond(w, 6, "")
	case "findNotes":
		s.findNotes(w, req)
	case "notesInfo":
		s.notesInfo(w, req)
	default:
		respond(w, nil, "unsupported action")
	}
}

func (s *Server) findNotes(w http.ResponseWriter, req Request) {
	var params struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		respond(w, nil, "invalid params")
		return
	}

	deck, ok := parseDeckQuery(params.Query)
	ids := []int64{}
	if ok {
		for _, id := range s.order {
			if s.notes[id].deck == deck {
				ids = append(ids, id)
			}
		}
	}
	respond(w, ids, "")
}

func (s *Server) notesInfo(w http.ResponseWriter, req Request) {
	var params struct {
		Notes []int64 `json:"notes"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		respond(w, nil, "invalid params")
		return
	}

	type field struct {
		Value string `json:"value"`
		Order int    `json:"order"`
	}

	result := make([]map[string]any, 0, len(params.Notes))
	for _, id := range params.Notes {
		n, ok := s.notes[id]
		if !ok {
			// AnkiConnect answers unknown IDs with an empty object.
			result = append(result, map[string]any{})
			continue
		}

		fields := make(map[string]field, len(n.fields))
		order := 0
		for name, value := range n.fields {
			fields[name] = field{Value: value, Order: order}
			order++
		}
		result = append(result, map[string]any{
			"noteId":    n.id,
			"modelName": "Basic",
			"tags":      []string{},
			"fields":    fields,
		})
	}
	respond(w, result, "")
}

// parseDeckQuery reads a query of the form deck:"name".
func parseDeckQuery(query string) (string, bool) {
	if !strings.HasPrefix(query, `deck:"`) || !strings.HasSuffix(query, `"`) || len(query) < len(`deck:""`) {
		return "", false
	}
	inner := query[len(`deck:"`) : len(query)-1]
	inner = strings.ReplaceAll(inner, `\"`, `"`)
	inner = strings.ReplaceAll(inner, `\\`, `\`)
	return inner, true
}

func respond(w http.ResponseWriter, result any, errMsg string) {
	body := map[string]any{"result": result, "error": nil}
	if errMsg != "" {
		body["error"] = errMsg
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
