package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChiPattern(t *testing.T) {
	cases := map[string]string{
		"":                       "/",
		"/tasks/:id":             "/tasks/{id}",
		"/tasks/:id/priority":    "/tasks/{id}/priority",
		"/_nuxt/*filepath":       "/_nuxt/*",
		"/dashboard/widgets/:id": "/dashboard/widgets/{id}",
	}
	for in, want := range cases {
		if got := chiPattern(in); got != want {
			t.Errorf("chiPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGroupRoutesAndParams(t *testing.T) {
	r := New()
	api := r.Group("/api")
	api.GET("/tasks/:id", func(c *Context) error {
		return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id"), "q": c.Query("q")})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/42?q=x", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"id":"42"`) || !strings.Contains(body, `"q":"x"`) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestMiddlewareAddedAfterRoutesStillApplies(t *testing.T) {
	r := New()
	r.GET("/ping", func(c *Context) error {
		v, _ := c.Get("seen")
		return c.JSON(http.StatusOK, map[string]any{"seen": v})
	})
	r.Use(func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			c.Set("seen", true)
			return next(c)
		}
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if !strings.Contains(rec.Body.String(), `"seen":true`) {
		t.Fatalf("middleware did not run: %s", rec.Body.String())
	}
}

func TestHandlerErrorRendersJSON(t *testing.T) {
	r := New()
	r.GET("/boom", func(c *Context) error { return errors.New("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kaboom") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestShouldBindJSONValidates(t *testing.T) {
	type payload struct {
		Title string `json:"title" binding:"required,max=10"`
	}

	cases := []struct {
		body    string
		wantErr bool
	}{
		{`{"title":"ok"}`, false},
		{`{"title":""}`, true},
		{`{"title":"this is far too long"}`, true},
		{`not json`, true},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		c := NewContext(httptest.NewRecorder(), req)
		var p payload
		err := c.ShouldBindJSON(&p)
		if (err != nil) != tc.wantErr {
			t.Errorf("body %q: err = %v, wantErr %v", tc.body, err, tc.wantErr)
		}
	}
}

func TestNotFoundFallback(t *testing.T) {
	r := New()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
