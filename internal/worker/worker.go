// Package worker exposes the search engine behind a message-passing
// boundary: one request in, exactly one response out, with the caller's
// correlation id echoed back.
package worker

import (
	"fmt"

	"rostersearch/internal/engine"
	"rostersearch/internal/record"
)

// Request kinds.
const (
	TypeInit   = "init"
	TypeSearch = "search"
	TypePing   = "ping"
)

// Response kinds.
const (
	TypeReady  = "ready"
	TypeResult = "result"
	TypePong   = "pong"
	TypeError  = "error"
)

// NotReadyWarning is the soft response for a search issued before the first
// successful init.
const NotReadyWarning = "Search worker not ready."

// Request is one message to the worker.
type Request struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	URL     string          `json:"url,omitempty"`
	Payload *engine.Request `json:"payload,omitempty"`
}

// Response is the single reply to a Request.
type Response struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Count   int            `json:"count,omitempty"`
	Ready   bool           `json:"ready"`
	Payload *engine.Result `json:"payload,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Loader fetches a dataset; swapped out in tests.
type Loader func(url string) (*record.Dataset, error)

// Worker drives one engine to completion per request. It is single-threaded
// by contract: callers serialize requests.
type Worker struct {
	eng    *engine.Engine
	loader Loader
	ready  bool
}

// New creates a worker in the not-ready state.
func New(cfg engine.Config) *Worker {
	return &Worker{
		eng:    engine.New(cfg),
		loader: record.Load,
	}
}

// NewWithLoader creates a worker with a custom dataset loader.
func NewWithLoader(cfg engine.Config, loader Loader) *Worker {
	return &Worker{
		eng:    engine.New(cfg),
		loader: loader,
	}
}

// Ready reports whether an init has succeeded.
func (w *Worker) Ready() bool {
	return w.ready
}

// Engine exposes the underlying engine for in-process front ends (REPL).
func (w *Worker) Engine() *engine.Engine {
	return w.eng
}

// Handle processes one request and returns its response. A panic during
// processing becomes an error response; the cache is only mutated after a
// result set is fully computed, so a failed search leaves no partial state.
func (w *Worker) Handle(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = Response{ID: req.ID, Type: TypeError, Ready: w.ready, Error: fmt.Sprintf("%v", r)}
		}
	}()

	switch req.Type {
	case TypeInit:
		return w.handleInit(req)
	case TypeSearch:
		return w.handleSearch(req)
	case TypePing:
		return Response{ID: req.ID, Type: TypePong, Ready: w.ready}
	default:
		return Response{ID: req.ID, Type: TypeError, Ready: w.ready, Error: fmt.Sprintf("unknown request type %q", req.Type)}
	}
}

// handleInit loads and prepares the dataset, replacing the record collection
// wholesale and clearing the cache. A failed load leaves the previous state
// untouched and the worker retryable.
func (w *Worker) handleInit(req Request) Response {
	ds, err := w.loader(req.URL)
	if err != nil {
		return Response{ID: req.ID, Type: TypeError, Ready: w.ready, Error: err.Error()}
	}

	prepared := record.Prepare(ds.Records)
	if err := w.eng.SetRecords(prepared); err != nil {
		return Response{ID: req.ID, Type: TypeError, Ready: w.ready, Error: err.Error()}
	}

	w.ready = true
	return Response{ID: req.ID, Type: TypeReady, Ready: true, Count: w.eng.Count()}
}

func (w *Worker) handleSearch(req Request) Response {
	if !w.ready {
		return Response{ID: req.ID, Type: TypeResult, Payload: &engine.Result{
			Names:       []string{},
			Suggestions: []engine.Suggestion{},
			Warning:     NotReadyWarning,
		}}
	}
	if req.Payload == nil {
		return Response{ID: req.ID, Type: TypeError, Ready: true, Error: "search request missing payload"}
	}

	result := w.eng.Search(*req.Payload)
	return Response{ID: req.ID, Type: TypeResult, Ready: true, Payload: &result}
}
