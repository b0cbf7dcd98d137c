package tasks

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"intranet/app/models"
	"intranet/core/app/activities"
	"intranet/core/app/notifications"
	"intranet/core/app/search"
	"intranet/core/emitter"
	"intranet/core/logger"

	"gorm.io/gorm"
)

const (
	CreateTaskEvent    = "tasks.create"
	UpdateTaskEvent    = "tasks.update"
	DeleteTaskEvent    = "tasks.delete"
	MovedEvent         = "tasks.moved"
	StatusChangedEvent = "tasks.status_changed"
	DueSoonEvent       = "tasks.due_soon"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid task status")
)

// StatusChange is emitted when a task lands in another column
type StatusChange struct {
	TaskId     uint   `json:"task_id"`
	Title      string `json:"title"`
	From       Status `json:"from"`
	To         Status `json:"to"`
	AssigneeId uint   `json:"assignee_id"`
}

// Notices alerts the assignee that their task changed column
func (c StatusChange) Notices() []notifications.Notice {
	return []notifications.Notice{{
		UserId:    c.AssigneeId,
		Title:     "Task moved to " + c.To.Label(),
		Body:      fmt.Sprintf("%q moved from %s to %s", c.Title, c.From.Label(), c.To.Label()),
		Type:      "task",
		ActionUrl: fmt.Sprintf("/tasks/%d", c.TaskId),
	}}
}

// Moved is emitted after every applied drop
type Moved struct {
	TaskId   uint   `json:"task_id"`
	Title    string `json:"title"`
	Status   Status `json:"status"`
	Position int    `json:"position"`
}

func (m Moved) ActivityEntry() activities.Entry {
	return activities.Entry{
		EntityId:    strconv.FormatUint(uint64(m.TaskId), 10),
		Description: fmt.Sprintf("%q moved to %s", m.Title, m.Status.Label()),
	}
}

// DueSoon is emitted by the reminder job for each task about to be due
type DueSoon struct {
	TaskId     uint      `json:"task_id"`
	Title      string    `json:"title"`
	DueDate    time.Time `json:"due_date"`
	AssigneeId uint      `json:"assignee_id"`
}

// Notices reminds the assignee of the due date
func (d DueSoon) Notices() []notifications.Notice {
	return []notifications.Notice{{
		UserId:    d.AssigneeId,
		Title:     "Task due soon",
		Body:      fmt.Sprintf("%q is due %s", d.Title, d.DueDate.Format("Mon Jan 2 15:04")),
		Type:      "reminder",
		ActionUrl: fmt.Sprintf("/tasks/%d", d.TaskId),
	}}
}

type TaskService struct {
	DB      *gorm.DB
	Emitter *emitter.Emitter
	Logger  logger.Logger
}

func NewTaskService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger) *TaskService {
	return &TaskService{
		DB:      db,
		Logger:  logger,
		Emitter: emitter,
	}
}

// List returns every task in global board order
func (s *TaskService) List() ([]models.Task, error) {
	var list []models.Task
	if err := s.DB.Order("position ASC, id ASC").Find(&list).Error; err != nil {
		s.Logger.Error("failed to list tasks", logger.Err(err))
		return nil, err
	}
	return list, nil
}

// Board groups tasks into their status columns
func (s *TaskService) Board() (*BoardResponse, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	board := &BoardResponse{Columns: make([]BoardColumn, 0, len(models.TaskStatuses)), Total: len(list)}
	for _, status := range models.TaskStatuses {
		column := Column(list, status)
		board.Columns = append(board.Columns, BoardColumn{
			Status: status,
			Title:  status.Label(),
			Tasks:  column,
			Count:  len(column),
		})
	}
	return board, nil
}

func (s *TaskService) GetById(id uint) (*models.Task, error) {
	var item models.Task
	if err := s.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *TaskService) Create(req *models.CreateTaskRequest) (*models.Task, error) {
	item := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssigneeId:  req.AssigneeId,
	}
	if item.Status == "" {
		item.Status = StatusTodo
	}
	if item.Priority == "" {
		item.Priority = PriorityMedium
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var last struct{ Max *int }
		if err := tx.Model(&models.Task{}).Select("MAX(position) AS max").Scan(&last).Error; err != nil {
			return err
		}
		if last.Max != nil {
			item.Position = *last.Max + 1
		}
		return tx.Create(item).Error
	})
	if err != nil {
		s.Logger.Error("failed to create task", logger.Err(err))
		return nil, err
	}

	s.Emitter.Emit(CreateTaskEvent, item)
	return item, nil
}

func (s *TaskService) Update(id uint, req *models.UpdateTaskRequest) (*models.Task, error) {
	item, err := s.GetById(id)
	if err != nil {
		return nil, err
	}
	previous := item.Status

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
		updates["reminded_at"] = nil
	}
	if req.AssigneeId != nil {
		updates["assignee_id"] = *req.AssigneeId
	}

	if len(updates) > 0 {
		if err := s.DB.Model(item).Updates(updates).Error; err != nil {
			s.Logger.Error("failed to update task", logger.Uint("id", id), logger.Err(err))
			return nil, err
		}
	}

	item, err = s.GetById(id)
	if err != nil {
		return nil, err
	}
	s.Emitter.Emit(UpdateTaskEvent, item)
	if item.Status != previous {
		s.Emitter.Emit(StatusChangedEvent, StatusChange{
			TaskId: item.Id, Title: item.Title, From: previous, To: item.Status, AssigneeId: item.AssigneeId,
		})
	}
	return item, nil
}

func (s *TaskService) Delete(id uint) error {
	item, err := s.GetById(id)
	if err != nil {
		return err
	}
	if err := s.DB.Delete(item).Error; err != nil {
		s.Logger.Error("failed to delete task", logger.Uint("id", id), logger.Err(err))
		return err
	}
	s.Emitter.Emit(DeleteTaskEvent, item)
	return nil
}

// Move applies a board drop and persists the new global order
func (s *TaskService) Move(ev DropEvent) (*MoveResponse, error) {
	if ev.DestStatus != "" && !ev.DestStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	var (
		moved         []models.Task
		statusChanged bool
		applied       bool
		before        models.Task
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var list []models.Task
		if err := tx.Order("position ASC, id ASC").Find(&list).Error; err != nil {
			return err
		}
		for _, task := range list {
			if task.Id == ev.DraggedId {
				before = task
			}
		}

		moved, statusChanged = Move(list, ev)
		applied = !sameOrder(list, moved) || statusChanged
		if !applied {
			return nil
		}

		current := make(map[uint]models.Task, len(list))
		for _, task := range list {
			current[task.Id] = task
		}
		for i := range moved {
			moved[i].Position = i
			old := current[moved[i].Id]
			if old.Position == i && old.Status == moved[i].Status {
				continue
			}
			if err := tx.Model(&models.Task{}).Where("id = ?", moved[i].Id).
				Updates(map[string]any{"position": i, "status": moved[i].Status}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.Logger.Error("failed to move task", logger.Uint("id", ev.DraggedId), logger.Err(err))
		return nil, err
	}

	response := &MoveResponse{StatusChanged: statusChanged, Applied: applied}
	if !applied {
		response.Board, err = s.Board()
		return response, err
	}

	for _, task := range moved {
		if task.Id != ev.DraggedId {
			continue
		}
		s.Emitter.Emit(MovedEvent, Moved{TaskId: task.Id, Title: task.Title, Status: task.Status, Position: task.Position})
		if statusChanged {
			s.Emitter.Emit(StatusChangedEvent, StatusChange{
				TaskId: task.Id, Title: task.Title, From: before.Status, To: task.Status, AssigneeId: task.AssigneeId,
			})
		}
	}

	response.Board, err = s.Board()
	return response, err
}

// CyclePriority advances the priority of a task low, medium, high, low
func (s *TaskService) CyclePriority(id uint) (*models.Task, error) {
	item, err := s.GetById(id)
	if err != nil {
		return nil, err
	}
	next := item.Priority.Next()
	if err := s.DB.Model(item).Update("priority", next).Error; err != nil {
		return nil, err
	}
	item.Priority = next
	s.Emitter.Emit(UpdateTaskEvent, item)
	return item, nil
}

// RemindDueSoon emits DueSoonEvent once for each open task due before now+within
func (s *TaskService) RemindDueSoon(now time.Time, within time.Duration) (int, error) {
	var due []models.Task
	err := s.DB.Where("status <> ? AND due_date IS NOT NULL AND due_date <= ? AND reminded_at IS NULL",
		StatusDone, now.Add(within)).Order("due_date ASC").Find(&due).Error
	if err != nil {
		return 0, err
	}

	for _, task := range due {
		if err := s.DB.Model(&models.Task{}).Where("id = ?", task.Id).Update("reminded_at", now).Error; err != nil {
			return 0, err
		}
		s.Emitter.Emit(DueSoonEvent, DueSoon{
			TaskId: task.Id, Title: task.Title, DueDate: *task.DueDate, AssigneeId: task.AssigneeId,
		})
	}
	if len(due) > 0 {
		s.Logger.Info("task reminders sent", logger.Int("count", len(due)))
	}
	return len(due), nil
}

// Records exposes the tasks to the dashboard search
func (s *TaskService) Records() ([]search.Record, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	records := make([]search.Record, 0, len(list))
	for _, task := range list {
		metadata := map[string]any{
			"priority":  string(task.Priority),
			"status":    string(task.Status),
			"createdAt": task.CreatedAt,
		}
		if task.DueDate != nil {
			metadata["date"] = *task.DueDate
		}
		category := task.Category
		if category == "" {
			category = "Tasks"
		}
		records = append(records, search.Record{
			ID:          strconv.FormatUint(uint64(task.Id), 10),
			Title:       task.Title,
			Description: task.Description,
			Content:     fmt.Sprintf("%s priority, %s", task.Priority, task.Status.Label()),
			Type:        search.TypeTask,
			Category:    category,
			Widget:      "tasks",
			Metadata:    metadata,
		})
	}
	return records, nil
}

func sameOrder(a, b []models.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Id != b[i].Id {
			return false
		}
	}
	return true
}
