package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intranet/app/models"
	"intranet/core/app/search"
	"intranet/core/database"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/router"
)

type fakeSource struct {
	events []ExternalEvent
	err    error
	from   time.Time
	to     time.Time
}

func (f *fakeSource) Name() string { return "google" }

func (f *fakeSource) Fetch(_ context.Context, from, to time.Time) ([]ExternalEvent, error) {
	f.from, f.to = from, to
	return f.events, f.err
}

var day = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, source Source) (*EventService, *emitter.Emitter) {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.DB.AutoMigrate(&models.Event{}); err != nil {
		t.Fatal(err)
	}

	em := emitter.New()
	s := NewEventService(db.DB, em, logger.NewNop(), source)
	s.now = func() time.Time { return day }
	return s, em
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	s, em := newTestService(t, nil)
	created := 0
	em.On(CreateEventEvent, func(any) { created++ })

	item, err := s.Create(&models.CreateEventRequest{Title: "Standup", StartsAt: day.Add(9 * time.Hour)}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !item.EndsAt.Equal(day.Add(10*time.Hour)) || item.Source != portalSource || item.OrganizerId != 2 {
		t.Fatalf("unexpected event %+v", item)
	}

	_, err = s.Create(&models.CreateEventRequest{Title: "Backwards", StartsAt: day.Add(9 * time.Hour), EndsAt: day}, 2)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if created != 1 {
		t.Fatalf("create events = %d", created)
	}
}

func TestListWindowOverlap(t *testing.T) {
	s, _ := newTestService(t, nil)
	for _, req := range []models.CreateEventRequest{
		{Title: "Monday", StartsAt: day.Add(9 * time.Hour)},
		{Title: "Offsite", StartsAt: day.Add(-24 * time.Hour), EndsAt: day.Add(30 * time.Hour)},
		{Title: "Next week", StartsAt: day.AddDate(0, 0, 7)},
	} {
		if _, err := s.Create(&req, 1); err != nil {
			t.Fatal(err)
		}
	}

	items, err := s.List(day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	var titles []string
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	if got := strings.Join(titles, ","); got != "Offsite,Monday" {
		t.Fatalf("window = %s", got)
	}
}

func TestSyncUpsertsByExternalId(t *testing.T) {
	source := &fakeSource{events: []ExternalEvent{
		{Id: "g1", Title: "All hands", StartsAt: day.Add(15 * time.Hour), EndsAt: day.Add(16 * time.Hour)},
		{Id: "g2", Title: "Holiday", StartsAt: day.AddDate(0, 0, 2), EndsAt: day.AddDate(0, 0, 3), AllDay: true},
	}}
	s, em := newTestService(t, source)
	var synced []any
	em.On(SyncedEvent, func(data any) { synced = append(synced, data) })

	first, err := s.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.Created != 2 || first.Updated != 0 {
		t.Fatalf("first sync = %+v", first)
	}
	if !source.from.Equal(day.AddDate(0, 0, -7)) || !source.to.Equal(day.Add(s.SyncWindow)) {
		t.Fatalf("window = %v..%v", source.from, source.to)
	}

	source.events[0].Title = "All hands (moved)"
	second, err := s.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second.Created != 0 || second.Updated != 2 {
		t.Fatalf("second sync = %+v", second)
	}

	items, _ := s.List(time.Time{}, time.Time{})
	if len(items) != 2 || items[0].Title != "All hands (moved)" || !items[1].AllDay {
		t.Fatalf("stored = %+v", items)
	}
	if len(synced) != 2 {
		t.Fatalf("synced events = %d", len(synced))
	}
}

func TestSyncErrors(t *testing.T) {
	s, _ := newTestService(t, nil)
	if _, err := s.Sync(context.Background()); !errors.Is(err, ErrSyncDisabled) {
		t.Fatalf("err = %v", err)
	}

	boom := errors.New("quota exceeded")
	s, _ = newTestService(t, &fakeSource{err: boom})
	if _, err := s.Sync(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecordsUseStartAsDate(t *testing.T) {
	s, _ := newTestService(t, nil)
	start := day.Add(11 * time.Hour)
	if _, err := s.Create(&models.CreateEventRequest{Title: "Lunch and learn", Location: "Room 4", StartsAt: start}, 1); err != nil {
		t.Fatal(err)
	}

	records, err := s.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d", len(records))
	}
	r := records[0]
	date, ok := r.Metadata["date"].(time.Time)
	if !ok || !date.Equal(start) {
		t.Fatalf("date metadata = %v", r.Metadata["date"])
	}
	if r.Type != search.TypeEvent || r.Widget != "calendar" || r.Description != "Room 4" {
		t.Fatalf("unexpected record %+v", r)
	}
}

func TestEventEndpoints(t *testing.T) {
	s, _ := newTestService(t, nil)
	r := router.New()
	NewEventController(s).Routes(r.Group("/api"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events",
		strings.NewReader(`{"title":"Retro","starts_at":"2024-06-03T14:00:00Z"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?from=2024-06-03&to=2024-06-03", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Retro") {
		t.Fatalf("list status = %d body=%s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?from=yesterday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad window status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events/sync", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("sync status = %d", rec.Code)
	}
}
