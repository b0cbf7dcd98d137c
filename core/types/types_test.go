package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateTimeJSON(t *testing.T) {
	var payload struct {
		At DateTime `json:"at"`
	}

	if err := json.Unmarshal([]byte(`{"at":"2026-03-01"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.At.Year() != 2026 || payload.At.Month() != time.March || payload.At.Day() != 1 {
		t.Fatalf("unexpected date %v", payload.At)
	}

	if err := json.Unmarshal([]byte(`{"at":null}`), &payload); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !payload.At.IsZero() {
		t.Fatal("null should reset to zero")
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"at":null}` {
		t.Fatalf("got %s", out)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 1},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.limit); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.total, c.limit, got, c.want)
		}
	}
}
