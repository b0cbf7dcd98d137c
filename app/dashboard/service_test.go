package dashboard

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"intranet/core/app/search"
	"intranet/core/database"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/module"
	"intranet/core/router"
)

func newTestModule(t *testing.T) (*Module, *search.Registry, *emitter.Emitter) {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	em := emitter.New()
	registry := search.NewRegistry(logger.NewNop())
	sources := map[string]search.Producer{
		"tasks": func() ([]search.Record, error) {
			return []search.Record{{ID: "t1", Title: "Review Q4 Reports", Type: search.TypeTask}}, nil
		},
		"analytics": func() ([]search.Record, error) {
			return []search.Record{{ID: "a1", Title: "Completion rate", Type: search.TypeAnalytics}}, nil
		},
	}

	mod := Init(module.Dependencies{DB: db.DB, Emitter: em, Logger: logger.NewNop()}, registry, sources)
	if err := mod.Migrate(); err != nil {
		t.Fatal(err)
	}
	if err := mod.Init(); err != nil {
		t.Fatal(err)
	}
	return mod, registry, em
}

func TestSeedMountsVisibleSources(t *testing.T) {
	mod, registry, _ := newTestModule(t)

	items, err := mod.Service.Layout()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != len(Kinds) {
		t.Fatalf("seeded %d widgets", len(items))
	}
	if !registry.Has("tasks") || registry.Has("analytics") {
		t.Fatalf("registered sources = %v", registry.Names())
	}

	// seeding twice keeps the stored layout
	if err := mod.Service.Seed(); err != nil {
		t.Fatal(err)
	}
	again, _ := mod.Service.Layout()
	if len(again) != len(items) {
		t.Fatalf("reseed duplicated widgets: %d", len(again))
	}
}

func TestDropPersistsAndEmits(t *testing.T) {
	mod, _, em := newTestModule(t)
	var events []SwapPayload
	em.On(SwapEvent, func(data any) { events = append(events, data.(SwapPayload)) })

	before, _ := mod.Service.Layout()
	resp, err := mod.Service.Drop(&DropRequest{DraggedId: "tasks", TargetId: "news"})
	if err != nil || !resp.Changed {
		t.Fatalf("drop = %+v, %v", resp, err)
	}

	after, _ := mod.Service.Layout()
	if positionOf(after, "tasks") != positionOf(before, "news") || positionOf(after, "news") != positionOf(before, "tasks") {
		t.Fatal("swap not persisted")
	}
	if len(events) != 1 || events[0].DraggedId != "tasks" {
		t.Fatalf("events = %+v", events)
	}

	resp, err = mod.Service.Drop(&DropRequest{DraggedId: "tasks", TargetId: "tasks"})
	if err != nil || resp.Changed || len(events) != 1 {
		t.Fatalf("self drop = %+v, %v, events %d", resp, err, len(events))
	}
}

func TestVisibilityMountsAndUnmounts(t *testing.T) {
	mod, registry, _ := newTestModule(t)

	if _, err := mod.Service.SetVisibility("tasks", false); err != nil {
		t.Fatal(err)
	}
	if registry.Has("tasks") {
		t.Fatal("hidden widget still searchable")
	}
	if got := registry.Search("reports", nil, 0); len(got) != 0 {
		t.Fatalf("unexpected results %+v", got)
	}

	if _, err := mod.Service.SetVisibility("analytics", true); err != nil {
		t.Fatal(err)
	}
	if got := registry.Search("completion", nil, 0); len(got) != 1 {
		t.Fatalf("shown widget not searchable: %+v", got)
	}

	if _, err := mod.Service.SetVisibility("weather", true); err != ErrWidgetNotFound {
		t.Fatalf("err = %v", err)
	}

	if _, err := mod.Service.Reset(); err != nil {
		t.Fatal(err)
	}
	if !registry.Has("tasks") || registry.Has("analytics") {
		t.Fatalf("reset sources = %v", registry.Names())
	}
}

func TestAddSourceMountsOnNextSync(t *testing.T) {
	mod, registry, _ := newTestModule(t)
	if registry.Has("directory") {
		t.Fatal("directory mounted without a source")
	}

	mod.Service.AddSource("directory", func() ([]search.Record, error) {
		return []search.Record{{ID: "u1", Title: "Ada Lovelace", Type: search.TypePerson}}, nil
	})
	if err := mod.Service.Mount(); err != nil {
		t.Fatal(err)
	}
	if got := registry.Search("lovelace", nil, 0); len(got) != 1 {
		t.Fatalf("directory not searchable: %+v", got)
	}
}

func TestResetAlongsideLayoutRequests(t *testing.T) {
	mod, _, _ := newTestModule(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := mod.Service.Reset()
			errs <- err
		}()
		go func() {
			defer wg.Done()
			resp, err := mod.Service.Placements(1200)
			if err == nil && resp.Grid != DefaultGrid {
				err = fmt.Errorf("grid = %+v", resp.Grid)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestDashboardEndpoints(t *testing.T) {
	mod, _, _ := newTestModule(t)
	r := router.New()
	mod.Routes(r.Group("/api"))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/layout?width=1200", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"placement"`) {
		t.Fatalf("layout: %d %s", w.Code, w.Body)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/dashboard/drop", strings.NewReader(`{"dragged_id":"tasks","target_id":"news"}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"changed":true`) {
		t.Fatalf("drop: %d %s", w.Code, w.Body)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/dashboard/widgets/weather/visibility", strings.NewReader(`{"visible":true}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("visibility of unknown widget: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard/layout?width=abc", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad width: %d", w.Code)
	}
}
