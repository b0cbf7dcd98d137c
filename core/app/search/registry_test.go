package search

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"intranet/core/logger"
)

func static(records ...Record) Producer {
	return func() ([]Record, error) { return records, nil }
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIds(t *testing.T, got []Record, want ...string) {
	t.Helper()
	gotIds := ids(got)
	if len(gotIds) != len(want) {
		t.Fatalf("got %v, want %v", gotIds, want)
	}
	for i := range want {
		if gotIds[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIds, want)
		}
	}
}

func newTestRegistry() *Registry {
	return NewRegistry(logger.NewNop())
}

func TestRegisterReplacesProducer(t *testing.T) {
	r := newTestRegistry()
	r.Register("tasks", static(Record{ID: "old", Title: "Quarterly budget"}))
	r.Register("tasks", static(Record{ID: "new", Title: "Quarterly planning"}))

	equalIds(t, r.Search("quarterly", nil, 0), "new")
	if names := r.Names(); len(names) != 1 || names[0] != "tasks" {
		t.Fatalf("names = %v", names)
	}
}

func TestUnregisterRemovesContribution(t *testing.T) {
	r := newTestRegistry()
	r.Register("calendar", static(Record{ID: "e1", Title: "Team Standup", Type: TypeEvent}))

	equalIds(t, r.Search("standup", nil, 0), "e1")

	r.Unregister("calendar")
	if got := r.Search("standup", nil, 0); len(got) != 0 {
		t.Fatalf("expected no results after unregister, got %v", ids(got))
	}

	// unknown names are a no-op
	r.Unregister("calendar")
	r.Unregister("never-registered")
}

func TestFailingProducerIsIsolated(t *testing.T) {
	r := newTestRegistry()
	r.Register("broken", func() ([]Record, error) { return nil, errors.New("backend down") })
	r.Register("panicky", func() ([]Record, error) { panic("nil map") })
	r.Register("news", static(Record{ID: "n1", Title: "Office move update", Type: TypeNews}))

	equalIds(t, r.Search("office", nil, 0), "n1")
	if got := r.Suggestions("off", 5); len(got) != 1 || got[0] != "office" {
		t.Fatalf("suggestions = %v", got)
	}
}

func TestEmptyQueryReturnsEmptyList(t *testing.T) {
	r := newTestRegistry()
	r.Register("tasks", static(Record{ID: "t1", Title: "Anything"}))

	for _, q := range []string{"", "   ", "--"} {
		got := r.Search(q, nil, 10)
		if got == nil || len(got) != 0 {
			t.Fatalf("Search(%q) = %#v, want empty non-nil list", q, got)
		}
	}
}

func TestCloserTitleRanksFirst(t *testing.T) {
	r := newTestRegistry()
	r.Register("rooms", static(
		Record{ID: "long", Title: "Booking the room today"},
		Record{ID: "exact", Title: "Book Room"},
	))

	matches := r.Matches("book room", nil, 0)
	if len(matches) != 2 {
		t.Fatalf("expected both records, got %d", len(matches))
	}
	if matches[0].Record.ID != "exact" {
		t.Fatalf("expected exact title first, got %s", matches[0].Record.ID)
	}
	if matches[0].Score > matches[1].Score {
		t.Fatalf("scores out of order: %v > %v", matches[0].Score, matches[1].Score)
	}
}

func TestSearchAcrossSources(t *testing.T) {
	r := newTestRegistry()
	r.Register("tasks", static(Record{
		ID: "t1", Title: "Review Q4 Reports", Type: TypeTask,
		Content: "Finance deck", Category: "Work",
	}))
	r.Register("events", static(Record{
		ID: "e1", Title: "Team Standup", Type: TypeEvent,
		Content: "Daily sync", Category: "Meeting",
	}))

	tests := []struct {
		query string
		want  []string
	}{
		{"standup", []string{"e1"}},
		{"report", []string{"t1"}},
		{"xyz123", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			equalIds(t, r.Search(tt.query, nil, 0), tt.want...)
		})
	}
}

func TestWidgetDefaultsToSourceName(t *testing.T) {
	r := newTestRegistry()
	r.Register("directory", static(Record{ID: "p1", Title: "Ada Lovelace", Type: TypePerson}))

	got := r.Search("lovelace", nil, 0)
	if len(got) != 1 || got[0].Widget != "directory" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestFieldWeights(t *testing.T) {
	r := newTestRegistry()
	r.Register("mixed", static(
		Record{ID: "category", Title: "Q3", Category: "Payroll"},
		Record{ID: "content", Title: "Q2", Content: "payroll"},
		Record{ID: "title", Title: "Payroll"},
		Record{ID: "description", Title: "Q1", Description: "payroll"},
	))

	equalIds(t, r.Search("payroll", nil, 0), "title", "description", "content", "category")
}

func TestThreshold(t *testing.T) {
	r := newTestRegistry()
	r.Register("tasks", static(Record{ID: "t1", Title: "Reports"}))

	// one substitution in six letters
	if got := r.Search("raport", nil, 0); len(got) != 1 {
		t.Fatalf("expected typo to match at default threshold, got %v", ids(got))
	}

	r.SetThreshold(0.1)
	if got := r.Search("raport", nil, 0); len(got) != 0 {
		t.Fatalf("expected strict threshold to reject typo, got %v", ids(got))
	}
	if r.Threshold() != 0.1 {
		t.Fatalf("threshold = %v", r.Threshold())
	}

	r.SetThreshold(0)
	if r.Threshold() != 0 {
		t.Fatalf("threshold = %v, want 0", r.Threshold())
	}
	if got := r.Search("raport", nil, 0); len(got) != 0 {
		t.Fatalf("exact threshold matched a typo: %v", ids(got))
	}
	if got := r.Search("reports", nil, 0); len(got) != 1 {
		t.Fatalf("exact threshold rejected an exact title, got %v", ids(got))
	}

	for _, bad := range []float64{5, -0.1} {
		r.SetThreshold(bad)
		if r.Threshold() != DefaultThreshold {
			t.Fatalf("out of range threshold %v should fall back, got %v", bad, r.Threshold())
		}
	}
}

func TestFilters(t *testing.T) {
	jan := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	r := newTestRegistry()
	r.Register("tasks", static(
		Record{ID: "t-jan", Title: "Planning review", Type: TypeTask, Metadata: map[string]any{"date": jan}},
		Record{ID: "t-nodate", Title: "Planning offsite", Type: TypeTask},
	))
	r.Register("news", static(
		Record{ID: "n-mar", Title: "Planning results", Type: TypeNews, Metadata: map[string]any{"createdAt": mar.Format(time.RFC3339)}},
		Record{ID: "n-bad", Title: "Planning notes", Type: TypeNews, Metadata: map[string]any{"date": "someday"}},
		// unparseable date falls through to createdAt
		Record{ID: "n-fallback", Title: "Planning recap", Type: TypeNews, Metadata: map[string]any{"date": "someday", "createdAt": mar}},
	))

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filters *Filters
		want    []string
	}{
		{"types", &Filters{Types: []RecordType{TypeNews}}, []string{"n-bad", "n-fallback", "n-mar"}},
		{"widgets", &Filters{Widgets: []string{"tasks"}}, []string{"t-jan", "t-nodate"}},
		{"from keeps undated", &Filters{DateFrom: &from}, []string{"n-bad", "n-fallback", "n-mar", "t-nodate"}},
		{"window", &Filters{DateFrom: &from, DateTo: &to}, []string{"n-bad", "t-nodate"}},
		{"combined", &Filters{Types: []RecordType{TypeTask}, DateTo: &to}, []string{"t-jan", "t-nodate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Search("planning", tt.filters, 0)
			// all titles score equally, so compare as sets
			gotSet := make(map[string]bool)
			for _, id := range ids(got) {
				gotSet[id] = true
			}
			if len(gotSet) != len(tt.want) {
				t.Fatalf("got %v, want %v", ids(got), tt.want)
			}
			for _, id := range tt.want {
				if !gotSet[id] {
					t.Fatalf("got %v, want %v", ids(got), tt.want)
				}
			}
		})
	}
}

func TestLimitAppliesAfterFilters(t *testing.T) {
	r := newTestRegistry()
	var records []Record
	for i := range 10 {
		typ := TypeTask
		if i%2 == 0 {
			typ = TypeNews
		}
		records = append(records, Record{ID: fmt.Sprintf("r%d", i), Title: "Holiday schedule", Type: typ})
	}
	r.Register("mixed", static(records...))

	got := r.Search("holiday", &Filters{Types: []RecordType{TypeTask}}, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for _, rec := range got {
		if rec.Type != TypeTask {
			t.Fatalf("filter leaked %+v", rec)
		}
	}
}

func TestSuggestions(t *testing.T) {
	r := newTestRegistry()
	r.Register("tasks", static(
		Record{ID: "1", Title: "Review reports", Description: "Revenue review", Category: "Reviews"},
		Record{ID: "2", Title: "Re: retro", Category: "Rest"},
	))

	got := r.Suggestions("RE", 0)
	want := []string{"review", "reports", "revenue", "reviews", "retro"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if got := r.Suggestions("re", 2); len(got) != 2 {
		t.Fatalf("limit ignored: %v", got)
	}
	if got := r.Suggestions("", 5); len(got) != 0 {
		t.Fatalf("empty prefix should suggest nothing, got %v", got)
	}
}

func TestSelectInvokesAction(t *testing.T) {
	r := newTestRegistry()
	invoked := 0
	r.Register("quickActions", func() ([]Record, error) {
		return []Record{
			{ID: "book-room", Title: "Book a room", Type: TypeAction, Action: func() { invoked++ }},
			{ID: "broken", Title: "Broken", Type: TypeAction, Action: func() { panic("boom") }},
			{ID: "plain", Title: "No action"},
		}, nil
	})

	rec, ok := r.Select("quickActions", "book-room")
	if !ok || rec.ID != "book-room" || invoked != 1 {
		t.Fatalf("select = %+v %v, invoked %d", rec, ok, invoked)
	}
	if _, ok := r.Select("quickActions", "broken"); !ok {
		t.Fatal("a panicking action should still report the record")
	}
	if _, ok := r.Select("quickActions", "plain"); !ok {
		t.Fatal("records without actions are selectable")
	}
	if _, ok := r.Select("quickActions", "missing"); ok {
		t.Fatal("missing record selected")
	}
	if _, ok := r.Select("unknown", "book-room"); ok {
		t.Fatal("unknown widget selected")
	}
}

func TestConcurrentRegisterAndSearch(t *testing.T) {
	r := newTestRegistry()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		name := fmt.Sprintf("widget-%d", i)
		go func() {
			defer wg.Done()
			for range 50 {
				r.Register(name, static(Record{ID: name, Title: "Shared title"}))
				r.Unregister(name)
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				r.Search("shared", nil, 0)
				r.Suggestions("sha", 5)
			}
		}()
	}
	wg.Wait()
}
