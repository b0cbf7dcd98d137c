package analytics

import (
	"fmt"
	"math"
	"time"

	"intranet/app/models"
	"intranet/core/app/search"
	"intranet/core/logger"

	"gorm.io/gorm"
)

// Summary is the analytics widget payload
type Summary struct {
	TotalTasks     int64            `json:"total_tasks"`
	TasksByStatus  map[string]int64 `json:"tasks_by_status"`
	OpenByPriority map[string]int64 `json:"open_by_priority"`
	CompletionRate float64          `json:"completion_rate"`
	OverdueTasks   int64            `json:"overdue_tasks"`
	KudosThisWeek  int64            `json:"kudos_this_week"`
	UpcomingEvents int64            `json:"upcoming_events"`
	NewsThisMonth  int64            `json:"news_this_month"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

type AnalyticsService struct {
	DB     *gorm.DB
	Logger logger.Logger
	now    func() time.Time
}

func NewAnalyticsService(db *gorm.DB, logger logger.Logger) *AnalyticsService {
	return &AnalyticsService{
		DB:     db,
		Logger: logger,
		now:    time.Now,
	}
}

type countRow struct {
	Label string
	Total int64
}

// Summary derives the dashboard metrics from tasks, kudos, events and news
func (s *AnalyticsService) Summary() (*Summary, error) {
	now := s.now()
	out := &Summary{
		TasksByStatus:  make(map[string]int64),
		OpenByPriority: make(map[string]int64),
		GeneratedAt:    now,
	}
	for _, status := range models.TaskStatuses {
		out.TasksByStatus[string(status)] = 0
	}

	var rows []countRow
	if err := s.DB.Model(&models.Task{}).Select("status AS label, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		s.Logger.Error("failed to count tasks by status", logger.Err(err))
		return nil, err
	}
	for _, row := range rows {
		out.TasksByStatus[row.Label] = row.Total
		out.TotalTasks += row.Total
	}
	if out.TotalTasks > 0 {
		rate := float64(out.TasksByStatus[string(models.TaskStatusDone)]) / float64(out.TotalTasks)
		out.CompletionRate = math.Round(rate*1000) / 1000
	}

	rows = nil
	if err := s.DB.Model(&models.Task{}).Select("priority AS label, COUNT(*) AS total").
		Where("status <> ?", models.TaskStatusDone).Group("priority").Scan(&rows).Error; err != nil {
		s.Logger.Error("failed to count tasks by priority", logger.Err(err))
		return nil, err
	}
	for _, row := range rows {
		out.OpenByPriority[row.Label] = row.Total
	}

	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&out.OverdueTasks, s.DB.Model(&models.Task{}).Where("status <> ? AND due_date IS NOT NULL AND due_date < ?", models.TaskStatusDone, now)},
		{&out.KudosThisWeek, s.DB.Model(&models.Kudos{}).Where("created_at >= ?", startOfWeek(now))},
		{&out.UpcomingEvents, s.DB.Model(&models.Event{}).Where("starts_at >= ? AND starts_at < ?", now, now.AddDate(0, 0, 7))},
		{&out.NewsThisMonth, s.DB.Model(&models.Post{}).Where("published = ? AND published_at >= ?", true, startOfMonth(now))},
	}
	for _, c := range counts {
		if err := c.query.Count(c.target).Error; err != nil {
			s.Logger.Error("failed to compute analytics", logger.Err(err))
			return nil, err
		}
	}
	return out, nil
}

// Records turns the summary into searchable metric cards
func (s *AnalyticsService) Records() ([]search.Record, error) {
	sum, err := s.Summary()
	if err != nil {
		return nil, err
	}
	open := sum.TotalTasks - sum.TasksByStatus[string(models.TaskStatusDone)]
	metric := func(id, title, description string, value any) search.Record {
		return search.Record{
			ID:          id,
			Title:       title,
			Description: description,
			Type:        search.TypeAnalytics,
			Category:    "Analytics",
			Widget:      "analytics",
			Metadata:    map[string]any{"value": value, "date": sum.GeneratedAt},
		}
	}
	return []search.Record{
		metric("completion-rate", "Task completion rate",
			fmt.Sprintf("%.0f%% of %d tasks done", sum.CompletionRate*100, sum.TotalTasks), sum.CompletionRate),
		metric("open-tasks", "Open tasks",
			fmt.Sprintf("%d open, %d high priority", open, sum.OpenByPriority[string(models.TaskPriorityHigh)]), open),
		metric("overdue-tasks", "Overdue tasks", fmt.Sprintf("%d tasks past their due date", sum.OverdueTasks), sum.OverdueTasks),
		metric("kudos-week", "Kudos this week", fmt.Sprintf("%d kudos given since Monday", sum.KudosThisWeek), sum.KudosThisWeek),
		metric("upcoming-events", "Upcoming events", fmt.Sprintf("%d events in the next 7 days", sum.UpcomingEvents), sum.UpcomingEvents),
	}, nil
}

func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
