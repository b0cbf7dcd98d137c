package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/router"
)

func newTestServer(t *testing.T, registry *Registry) (*router.Router, *emitter.Emitter) {
	t.Helper()
	em := emitter.New()
	service := NewSearchService(em, logger.NewNop(), registry, 20)
	r := router.New()
	NewSearchController(service).Routes(r.Group("/api"))
	return r, em
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchEndpoint(t *testing.T) {
	registry := newTestRegistry()
	registry.Register("tasks", static(Record{ID: "t1", Title: "Review Q4 Reports", Type: TypeTask}))
	registry.Register("calendar", static(Record{ID: "e1", Title: "Team Standup", Type: TypeEvent}))
	r, em := newTestServer(t, registry)

	queries := 0
	em.On(SearchEvent, func(any) { queries++ })

	w := do(r, http.MethodGet, "/api/search?q=standup", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var resp SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].ID != "e1" || resp.Results[0].Widget != "calendar" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Summary != "1 result across 1 source" {
		t.Fatalf("summary = %q", resp.Summary)
	}
	if queries != 1 {
		t.Fatalf("search event emitted %d times", queries)
	}

	w = do(r, http.MethodGet, "/api/search?q=", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":0`) {
		t.Fatalf("empty query: %d %s", w.Code, w.Body)
	}
}

func TestSearchEndpointRejectsBadFilters(t *testing.T) {
	r, _ := newTestServer(t, newTestRegistry())

	for _, target := range []string{
		"/api/search?q=x&types=spaceship",
		"/api/search?q=x&from=yesterday",
		"/api/search?q=x&limit=-1",
	} {
		if w := do(r, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", target, w.Code)
		}
	}
}

func TestSelectEndpoint(t *testing.T) {
	registry := newTestRegistry()
	opened := false
	registry.Register("quickActions", static(Record{
		ID: "time-off", Title: "Request time off", Type: TypeAction,
		Action: func() { opened = true },
	}))
	r, _ := newTestServer(t, registry)

	w := do(r, http.MethodPost, "/api/search/select", `{"widget":"quickActions","id":"time-off"}`)
	if w.Code != http.StatusOK || !opened {
		t.Fatalf("status = %d, opened = %v: %s", w.Code, opened, w.Body)
	}
	if !strings.Contains(w.Body.String(), `"invoked":true`) {
		t.Fatalf("body = %s", w.Body)
	}

	if w := do(r, http.MethodPost, "/api/search/select", `{"widget":"quickActions","id":"nope"}`); w.Code != http.StatusNotFound {
		t.Fatalf("missing record status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/search/select", `{"widget":"quickActions"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid body status = %d", w.Code)
	}
}

func TestSuggestionsAndSourcesEndpoints(t *testing.T) {
	registry := newTestRegistry()
	registry.Register("news", static(Record{ID: "n1", Title: "Benefits enrollment opens"}))
	r, _ := newTestServer(t, registry)

	w := do(r, http.MethodGet, "/api/search/suggestions?q=ben", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"benefits"`) {
		t.Fatalf("suggestions: %d %s", w.Code, w.Body)
	}

	w = do(r, http.MethodGet, "/api/search/sources", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"widget":"news"`) {
		t.Fatalf("sources: %d %s", w.Code, w.Body)
	}
}
