package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rostersearch/internal/engine"
	"rostersearch/internal/record"
	"rostersearch/internal/worker"
)

func testServer() *server {
	loader := func(url string) (*record.Dataset, error) {
		return &record.Dataset{Records: []record.Raw{
			{Name: "Alice Johnson", HomeOrg: "OSU - Medical Center", Roles: []string{"Research Assistant"}, TotalPay: 52000, IsActive: true},
			{Name: "Bob Anderson", HomeOrg: "Athletics", Roles: []string{"Assistant Coach"}, TotalPay: 90000},
		}}, nil
	}
	return &server{w: worker.NewWithLoader(engine.DefaultConfig(), loader)}
}

func TestPingHandler(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	s.ping(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 OK; got %d", rr.Code)
	}
	var resp worker.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Type != worker.TypePong || resp.Ready {
		t.Errorf("expected not-ready pong; got %+v", resp)
	}
}

func TestInitAndSearchHandlers(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodPost, "/init", strings.NewReader(`{"url":"roster.json"}`))
	rr := httptest.NewRecorder()
	s.init(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("init: expected 200 OK; got %d", rr.Code)
	}
	var initResp worker.Response
	if err := json.NewDecoder(rr.Body).Decode(&initResp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if initResp.Type != worker.TypeReady || initResp.Count != 2 {
		t.Fatalf("init response = %+v", initResp)
	}

	req = httptest.NewRequest(http.MethodPost, "/search?id=req-1", strings.NewReader(`{"query":"anderson"}`))
	rr = httptest.NewRecorder()
	s.search(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("search: expected 200 OK; got %d", rr.Code)
	}
	var searchResp worker.Response
	if err := json.NewDecoder(rr.Body).Decode(&searchResp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if searchResp.ID != "req-1" {
		t.Errorf("expected echoed id req-1; got %q", searchResp.ID)
	}
	if searchResp.Payload == nil || len(searchResp.Payload.Names) != 1 || searchResp.Payload.Names[0] != "Bob Anderson" {
		t.Errorf("search payload = %+v", searchResp.Payload)
	}
}

func TestSearchHandlerBadRequests(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rr := httptest.NewRecorder()
	s.search(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /search: expected 405; got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("{not json"))
	rr = httptest.NewRecorder()
	s.search(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad JSON: expected 400; got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/init", strings.NewReader(`{"url":""}`))
	rr = httptest.NewRecorder()
	s.init(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty url: expected 400; got %d", rr.Code)
	}
}
