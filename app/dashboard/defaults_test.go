package dashboard

import (
	"strings"
	"testing"
)

func TestEveryKindHasInfo(t *testing.T) {
	for _, k := range Kinds {
		info, ok := Lookup(k)
		if !ok {
			t.Fatalf("kind %s missing from table", k)
		}
		if info.Title == "" || info.DefaultSize.W <= 0 || info.DefaultSize.H <= 0 {
			t.Fatalf("kind %s has incomplete info %+v", k, info)
		}
	}
	if len(kinds) != len(Kinds) {
		t.Fatalf("table has %d kinds, list has %d", len(kinds), len(Kinds))
	}
	if Kind("weather").Valid() {
		t.Fatal("unknown kind reported valid")
	}
}

func TestDefaultLayout(t *testing.T) {
	grid, items, err := DefaultLayout()
	if err != nil {
		t.Fatal(err)
	}
	if grid != DefaultGrid {
		t.Fatalf("grid = %+v", grid)
	}
	if len(items) != len(Kinds) {
		t.Fatalf("expected one widget per kind, got %d", len(items))
	}

	analytics := items[len(items)-1]
	if analytics.ID != "analytics" || analytics.Visible {
		t.Fatalf("analytics should start hidden: %+v", analytics)
	}
	// stacked below the lowest placed widget, with its default size
	if analytics.Position != (Rect{X: 0, Y: 9, W: 8, H: 3}) {
		t.Fatalf("analytics position = %+v", analytics.Position)
	}
	if items[0].Title != "Quick Actions" {
		t.Fatalf("title not taken from kind: %+v", items[0])
	}
}

func TestParseLayoutErrors(t *testing.T) {
	tests := map[string]string{
		"unknown kind": "widgets:\n  - kind: weather\n",
		"duplicate":    "widgets:\n  - kind: tasks\n  - kind: tasks\n",
		"bad yaml":     "widgets: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := ParseLayout([]byte(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	grid, items, err := ParseLayout([]byte(strings.Join([]string{
		"widgets:",
		"  - id: mine",
		"    kind: news",
		"    title: Announcements",
		"    position: {x: 2, y: 1}",
	}, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	if grid != DefaultGrid || len(items) != 1 {
		t.Fatalf("grid %+v items %+v", grid, items)
	}
	if items[0].Title != "Announcements" || items[0].Position != (Rect{X: 2, Y: 1, W: 6, H: 4}) || !items[0].Visible {
		t.Fatalf("unexpected item %+v", items[0])
	}
}
