package activities

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"intranet/core/database"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/module"
	"intranet/core/router"
)

type described struct {
	Id string `json:"id"`
}

func (d described) ActivityEntry() Entry {
	return Entry{UserId: 4, EntityId: d.Id, Description: "did " + d.Id}
}

func newTestModule(t *testing.T) (*Module, *emitter.Emitter) {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	em := emitter.New()
	mod := Init(module.Dependencies{DB: db.DB, Emitter: em, Logger: logger.NewNop()})
	if err := mod.Migrate(); err != nil {
		t.Fatal(err)
	}
	if err := mod.Init(); err != nil {
		t.Fatal(err)
	}
	return mod, em
}

func TestSubscribedEventsAreRecorded(t *testing.T) {
	mod, em := newTestModule(t)

	em.Emit("tasks.moved", described{Id: "7"})
	em.Emit("dashboard.reset", nil)
	em.Emit("users.login", described{Id: "ignored"})

	items, err := mod.Service.Recent(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("recorded %d activities, want 2", len(items))
	}

	reset, moved := items[0], items[1]
	if reset.EntityType != "dashboard" || reset.Action != "reset" || reset.Description != "Dashboard reset" {
		t.Errorf("reset = %+v", reset)
	}
	if moved.EntityType != "tasks" || moved.Action != "moved" || moved.UserId != 4 || moved.EntityId != "7" || moved.Description != "did 7" {
		t.Errorf("moved = %+v", moved)
	}

	var meta map[string]string
	if err := json.Unmarshal(moved.Metadata, &meta); err != nil || meta["id"] != "7" {
		t.Errorf("metadata = %s, %v", moved.Metadata, err)
	}
}

func TestRecentFiltersAndLimits(t *testing.T) {
	mod, _ := newTestModule(t)
	for _, event := range []string{"tasks.moved", "tasks.create", "news.published", "recognition.create"} {
		if _, err := mod.Service.Record(event, nil); err != nil {
			t.Fatal(err)
		}
	}

	items, err := mod.Service.Recent(10, "tasks")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Action != "create" {
		t.Fatalf("tasks activities = %+v", items)
	}

	items, _ = mod.Service.Recent(1, "")
	if len(items) != 1 || items[0].EntityType != "recognition" {
		t.Fatalf("limited = %+v", items)
	}
}

func TestRecentEndpoint(t *testing.T) {
	mod, _ := newTestModule(t)
	if _, err := mod.Service.Record("actions.invoked", described{Id: "book-room"}); err != nil {
		t.Fatal(err)
	}

	r := router.New()
	mod.Routes(r.Group("/api"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activities/recent?limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var body []Activity
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 || body[0].EntityId != "book-room" {
		t.Fatalf("body = %+v", body)
	}
}
