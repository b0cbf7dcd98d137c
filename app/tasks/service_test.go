package tasks

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intranet/app/models"
	"intranet/core/database"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/module"
	"intranet/core/router"
)

type recorder struct {
	events map[string][]any
}

func record(em *emitter.Emitter, names ...string) *recorder {
	r := &recorder{events: make(map[string][]any)}
	for _, name := range names {
		em.On(name, func(data any) { r.events[name] = append(r.events[name], data) })
	}
	return r
}

func newTestService(t *testing.T) (*Module, *emitter.Emitter) {
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
	return mod, em
}

func seed(t *testing.T, s *TaskService, specs ...models.CreateTaskRequest) []models.Task {
	t.Helper()
	var created []models.Task
	for i := range specs {
		item, err := s.Create(&specs[i])
		if err != nil {
			t.Fatal(err)
		}
		created = append(created, *item)
	}
	return created
}

func TestCreateAppendsWithDefaults(t *testing.T) {
	mod, _ := newTestService(t)
	created := seed(t, mod.Service,
		models.CreateTaskRequest{Title: "First"},
		models.CreateTaskRequest{Title: "Second", Status: StatusDone, Priority: PriorityHigh},
	)

	if created[0].Status != StatusTodo || created[0].Priority != PriorityMedium || created[0].Position != 0 {
		t.Fatalf("defaults not applied: %+v", created[0])
	}
	if created[1].Position != 1 {
		t.Fatalf("second position = %d", created[1].Position)
	}
}

func TestServiceMoveEmitsStatusChangeOnlyAcrossColumns(t *testing.T) {
	mod, em := newTestService(t)
	rec := record(em, MovedEvent, StatusChangedEvent)
	created := seed(t, mod.Service,
		models.CreateTaskRequest{Title: "Draft agenda"},
		models.CreateTaskRequest{Title: "Book venue"},
		models.CreateTaskRequest{Title: "Send invites", Status: StatusDone},
	)

	// reorder inside todo
	resp, err := mod.Service.Move(DropEvent{
		SourceStatus: StatusTodo, SourceIndex: 1, DestStatus: StatusTodo, DestIndex: 0, DraggedId: created[1].Id,
	})
	if err != nil || !resp.Applied || resp.StatusChanged {
		t.Fatalf("reorder = %+v, %v", resp, err)
	}
	if len(rec.events[MovedEvent]) != 1 || len(rec.events[StatusChangedEvent]) != 0 {
		t.Fatalf("events after reorder: %v", rec.events)
	}

	// todo -> done
	resp, err = mod.Service.Move(DropEvent{
		SourceStatus: StatusTodo, SourceIndex: 0, DestStatus: StatusDone, DestIndex: 0, DraggedId: created[1].Id,
	})
	if err != nil || !resp.StatusChanged {
		t.Fatalf("cross move = %+v, %v", resp, err)
	}
	changes := rec.events[StatusChangedEvent]
	if len(changes) != 1 {
		t.Fatalf("status changes = %v", changes)
	}
	change := changes[0].(StatusChange)
	if change.From != StatusTodo || change.To != StatusDone || change.TaskId != created[1].Id {
		t.Fatalf("change = %+v", change)
	}

	board, err := mod.Service.Board()
	if err != nil {
		t.Fatal(err)
	}
	done := board.Columns[2]
	if done.Status != StatusDone || done.Count != 2 || done.Tasks[0].Id != created[1].Id {
		t.Fatalf("done column = %+v", done)
	}
	if board.Total != 3 {
		t.Fatalf("total = %d", board.Total)
	}

	// persisted positions are contiguous
	list, _ := mod.Service.List()
	for i, task := range list {
		if task.Position != i {
			t.Fatalf("position of %d = %d, want %d", task.Id, task.Position, i)
		}
	}
}

func TestServiceMoveNoOpAndInvalidStatus(t *testing.T) {
	mod, em := newTestService(t)
	rec := record(em, MovedEvent)
	created := seed(t, mod.Service, models.CreateTaskRequest{Title: "Only"})

	resp, err := mod.Service.Move(DropEvent{SourceStatus: StatusTodo, DraggedId: created[0].Id})
	if err != nil || resp.Applied {
		t.Fatalf("drop outside = %+v, %v", resp, err)
	}
	if len(rec.events[MovedEvent]) != 0 {
		t.Fatal("no-op emitted a move")
	}

	if _, err := mod.Service.Move(DropEvent{DestStatus: "blocked", DraggedId: created[0].Id}); err != ErrInvalidStatus {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdateStatusEmitsChange(t *testing.T) {
	mod, em := newTestService(t)
	rec := record(em, StatusChangedEvent)
	created := seed(t, mod.Service, models.CreateTaskRequest{Title: "Write report", AssigneeId: 7})

	title := "Write the report"
	if _, err := mod.Service.Update(created[0].Id, &models.UpdateTaskRequest{Title: &title}); err != nil {
		t.Fatal(err)
	}
	if len(rec.events[StatusChangedEvent]) != 0 {
		t.Fatal("title edit reported a status change")
	}

	status := StatusInProgress
	item, err := mod.Service.Update(created[0].Id, &models.UpdateTaskRequest{Status: &status})
	if err != nil || item.Status != StatusInProgress {
		t.Fatalf("update = %+v, %v", item, err)
	}
	if got := rec.events[StatusChangedEvent]; len(got) != 1 || got[0].(StatusChange).AssigneeId != 7 {
		t.Fatalf("changes = %v", got)
	}

	if _, err := mod.Service.Update(999, &models.UpdateTaskRequest{Title: &title}); err != ErrTaskNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestCyclePriorityAndReminders(t *testing.T) {
	mod, em := newTestService(t)
	rec := record(em, DueSoonEvent)

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	soon := now.Add(6 * time.Hour)
	later := now.Add(72 * time.Hour)
	created := seed(t, mod.Service,
		models.CreateTaskRequest{Title: "Due soon", Priority: PriorityHigh, DueDate: &soon, AssigneeId: 3},
		models.CreateTaskRequest{Title: "Due later", DueDate: &later},
		models.CreateTaskRequest{Title: "Done already", Status: StatusDone, DueDate: &soon},
	)

	item, err := mod.Service.CyclePriority(created[0].Id)
	if err != nil || item.Priority != PriorityLow {
		t.Fatalf("cycle = %+v, %v", item, err)
	}

	count, err := mod.Service.RemindDueSoon(now, 24*time.Hour)
	if err != nil || count != 1 {
		t.Fatalf("reminders = %d, %v", count, err)
	}
	if due := rec.events[DueSoonEvent][0].(DueSoon); due.TaskId != created[0].Id || due.AssigneeId != 3 {
		t.Fatalf("due = %+v", due)
	}

	// reminders are sent once
	if count, _ := mod.Service.RemindDueSoon(now, 24*time.Hour); count != 0 {
		t.Fatalf("second run reminded %d tasks", count)
	}
}

func TestRecords(t *testing.T) {
	mod, _ := newTestService(t)
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	seed(t, mod.Service,
		models.CreateTaskRequest{Title: "Review Q4 Reports", DueDate: &due, Category: "Finance"},
		models.CreateTaskRequest{Title: "No due date"},
	)

	records, err := mod.Service.Records()
	if err != nil || len(records) != 2 {
		t.Fatalf("records = %+v, %v", records, err)
	}
	if records[0].Type != "task" || records[0].Category != "Finance" {
		t.Fatalf("record = %+v", records[0])
	}
	if date, ok := records[0].Metadata["date"].(time.Time); !ok || !date.Equal(due) {
		t.Fatalf("date = %v", records[0].Metadata["date"])
	}
	if _, ok := records[1].Metadata["date"]; ok {
		t.Fatal("undated task has a date")
	}
	if records[1].Category != "Tasks" {
		t.Fatalf("default category = %q", records[1].Category)
	}
}

func TestTaskEndpoints(t *testing.T) {
	mod, _ := newTestService(t)
	r := router.New()
	mod.Routes(r.Group("/api"))

	send := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := send(http.MethodPost, "/api/tasks", `{"title":"Plan offsite"}`); w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body)
	}
	if w := send(http.MethodPost, "/api/tasks", `{"title":"Bad","status":"blocked"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: %d", w.Code)
	}
	w := send(http.MethodPost, "/api/tasks/move", `{"source_status":"todo","source_index":0,"dest_status":"done","dest_index":5,"dragged_id":1}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status_changed":true`) {
		t.Fatalf("move: %d %s", w.Code, w.Body)
	}
	if w := send(http.MethodPost, "/api/tasks/1/priority", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"priority":"high"`) {
		t.Fatalf("priority: %d %s", w.Code, w.Body)
	}
	if w := send(http.MethodDelete, "/api/tasks/1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := send(http.MethodGet, "/api/tasks/1", ""); w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: %d", w.Code)
	}
}
