package tasks

import (
	"testing"

	"intranet/app/models"
)

func board() []models.Task {
	return []models.Task{
		{Id: 1, Title: "Draft agenda", Status: StatusTodo},
		{Id: 2, Title: "Review Q4 Reports", Status: StatusInProgress},
		{Id: 3, Title: "Book venue", Status: StatusTodo},
		{Id: 4, Title: "Send invites", Status: StatusDone},
		{Id: 5, Title: "Order catering", Status: StatusTodo},
	}
}

func order(list []models.Task) []uint {
	out := make([]uint, len(list))
	for i, t := range list {
		out[i] = t.Id
	}
	return out
}

func columnIds(list []models.Task, status Status) []uint {
	return order(Column(list, status))
}

func equal(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMoveAcrossColumnsReassignsStatus(t *testing.T) {
	list := board()
	got, changed := Move(list, DropEvent{
		SourceStatus: StatusTodo, SourceIndex: 0,
		DestStatus: StatusDone, DestIndex: 0,
		DraggedId: 1,
	})

	if !changed {
		t.Fatal("status change not reported")
	}
	if len(got) != len(list) {
		t.Fatalf("task count changed: %d", len(got))
	}
	if !equal(columnIds(got, StatusDone), []uint{1, 4}) {
		t.Fatalf("done column = %v", columnIds(got, StatusDone))
	}
	if !equal(columnIds(got, StatusTodo), []uint{3, 5}) {
		t.Fatalf("todo column = %v", columnIds(got, StatusTodo))
	}
	if list[0].Status != StatusTodo {
		t.Fatal("input modified")
	}
}

func TestMoveWithinColumn(t *testing.T) {
	got, changed := Move(board(), DropEvent{
		SourceStatus: StatusTodo, SourceIndex: 2,
		DestStatus: StatusTodo, DestIndex: 0,
		DraggedId: 5,
	})
	if changed {
		t.Fatal("reorder within a column must not report a status change")
	}
	if !equal(columnIds(got, StatusTodo), []uint{5, 1, 3}) {
		t.Fatalf("todo column = %v", columnIds(got, StatusTodo))
	}
	if !equal(order(got), []uint{5, 1, 2, 3, 4}) {
		t.Fatalf("global order = %v", order(got))
	}
}

func TestMoveBeyondColumnLengthAppendsToEnd(t *testing.T) {
	for _, index := range []int{1, 7, -3} {
		got, changed := Move(board(), DropEvent{
			SourceStatus: StatusTodo, SourceIndex: 0,
			DestStatus: StatusInProgress, DestIndex: index,
			DraggedId: 1,
		})
		if !changed {
			t.Fatalf("index %d: status change not reported", index)
		}
		ids := order(got)
		if ids[len(ids)-1] != 1 {
			t.Fatalf("index %d: expected task at global end, got %v", index, ids)
		}
		if !equal(columnIds(got, StatusInProgress), []uint{2, 1}) {
			t.Fatalf("index %d: in-progress column = %v", index, columnIds(got, StatusInProgress))
		}
	}
}

func TestMoveNoOps(t *testing.T) {
	tests := []struct {
		name string
		ev   DropEvent
	}{
		{"no destination", DropEvent{SourceStatus: StatusTodo, SourceIndex: 0, DraggedId: 1}},
		{"same slot", DropEvent{SourceStatus: StatusTodo, SourceIndex: 1, DestStatus: StatusTodo, DestIndex: 1, DraggedId: 3}},
		{"unknown task", DropEvent{SourceStatus: StatusTodo, DestStatus: StatusDone, DraggedId: 99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := board()
			got, changed := Move(list, tt.ev)
			if changed || !equal(order(got), order(list)) {
				t.Fatalf("expected no-op, got %v changed=%v", order(got), changed)
			}
			for i := range got {
				if got[i].Status != list[i].Status {
					t.Fatalf("status of %d changed", got[i].Id)
				}
			}
		})
	}
}

func TestPriorityNextCycles(t *testing.T) {
	p := PriorityLow
	var seen []Priority
	for range 4 {
		p = p.Next()
		seen = append(seen, p)
	}
	want := []Priority{PriorityMedium, PriorityHigh, PriorityLow, PriorityMedium}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v", seen)
		}
	}
	if Priority("urgent").Next() != PriorityLow {
		t.Fatal("unknown priority should restart at low")
	}
}
