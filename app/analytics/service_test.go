package analytics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intranet/app/models"
	"intranet/core/database"
	"intranet/core/logger"
	"intranet/core/router"
)

// Wednesday
var now = time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *AnalyticsService {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.DB.AutoMigrate(&models.Task{}, &models.Kudos{}, &models.Event{}, &models.Post{}); err != nil {
		t.Fatal(err)
	}
	s := NewAnalyticsService(db.DB, logger.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestSummary(t *testing.T) {
	s := newTestService(t)
	yesterday := now.Add(-24 * time.Hour)
	tasks := []models.Task{
		{Title: "a", Status: models.TaskStatusDone, Priority: models.TaskPriorityHigh},
		{Title: "b", Status: models.TaskStatusTodo, Priority: models.TaskPriorityHigh, DueDate: &yesterday},
		{Title: "c", Status: models.TaskStatusInProgress, Priority: models.TaskPriorityLow},
		{Title: "d", Status: models.TaskStatusDone, Priority: models.TaskPriorityMedium, DueDate: &yesterday},
	}
	if err := s.DB.Create(&tasks).Error; err != nil {
		t.Fatal(err)
	}
	kudos := []models.Kudos{
		{Badge: models.BadgeHelpful, CreatedAt: now.Add(-time.Hour)},
		{Badge: models.BadgeHelpful, CreatedAt: now.AddDate(0, 0, -10)},
	}
	if err := s.DB.Create(&kudos).Error; err != nil {
		t.Fatal(err)
	}
	events := []models.Event{
		{Title: "soon", StartsAt: now.Add(48 * time.Hour), EndsAt: now.Add(49 * time.Hour)},
		{Title: "later", StartsAt: now.AddDate(0, 1, 0), EndsAt: now.AddDate(0, 1, 0)},
	}
	if err := s.DB.Create(&events).Error; err != nil {
		t.Fatal(err)
	}

	sum, err := s.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalTasks != 4 || sum.TasksByStatus["done"] != 2 || sum.CompletionRate != 0.5 {
		t.Fatalf("task metrics = %+v", sum)
	}
	if sum.OpenByPriority["high"] != 1 || sum.OpenByPriority["low"] != 1 || sum.OpenByPriority["medium"] != 0 {
		t.Fatalf("open by priority = %v", sum.OpenByPriority)
	}
	if sum.OverdueTasks != 1 || sum.KudosThisWeek != 1 || sum.UpcomingEvents != 1 {
		t.Fatalf("counts = %+v", sum)
	}
}

func TestStartOfWeekIsMonday(t *testing.T) {
	cases := map[time.Time]time.Time{
		now: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC): time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC): time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		if got := startOfWeek(in); !got.Equal(want) {
			t.Errorf("startOfWeek(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRecordsAndEndpoint(t *testing.T) {
	s := newTestService(t)
	records, err := s.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 || records[0].Description != "0% of 0 tasks done" {
		t.Fatalf("records = %+v", records)
	}

	r := router.New()
	NewAnalyticsController(s).Routes(r.Group("/api"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
