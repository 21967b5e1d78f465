package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"rostersearch/internal/engine"
	"rostersearch/internal/worker"
)

// server exposes the worker over HTTP. The worker is single-threaded by
// contract, so every request takes the mutex.
type server struct {
	mu sync.Mutex
	w  *worker.Worker
}

func runServe(addr, dataset string) error {
	w, err := newWorker(dataset)
	if err != nil {
		return err
	}
	s := &server{w: w}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.search)
	mux.HandleFunc("/init", s.init)
	mux.HandleFunc("/ping", s.ping)

	fmt.Printf("Listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func errWriter(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *server) handle(req worker.Request) worker.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Handle(req)
}

func writeResponse(w http.ResponseWriter, resp worker.Response) {
	w.Header().Set("Content-Type", "application/json")
	if resp.Type == worker.TypeError {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(resp)
}

// search handles POST /search with an engine request as the JSON body.
// NowTs defaults to the server clock when the caller omits it.
func (s *server) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		errWriter(w, http.StatusMethodNotAllowed, errors.New("unsupported method"))
		return
	}

	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errWriter(w, http.StatusBadRequest, fmt.Errorf("invalid JSON payload: %w", err))
		return
	}
	if req.NowTs == 0 {
		req.NowTs = time.Now().UnixMilli()
	}

	writeResponse(w, s.handle(worker.Request{
		ID:      r.URL.Query().Get("id"),
		Type:    worker.TypeSearch,
		Payload: &req,
	}))
}

// init handles POST /init with {"url": "<dataset-url-or-path>"}.
func (s *server) init(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		errWriter(w, http.StatusMethodNotAllowed, errors.New("unsupported method"))
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errWriter(w, http.StatusBadRequest, fmt.Errorf("invalid JSON payload: %w", err))
		return
	}
	if req.URL == "" {
		errWriter(w, http.StatusBadRequest, errors.New("`url` is required"))
		return
	}

	writeResponse(w, s.handle(worker.Request{
		ID:   r.URL.Query().Get("id"),
		Type: worker.TypeInit,
		URL:  req.URL,
	}))
}

func (s *server) ping(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		errWriter(w, http.StatusMethodNotAllowed, errors.New("unsupported method"))
		return
	}
	writeResponse(w, s.handle(worker.Request{Type: worker.TypePing}))
}
