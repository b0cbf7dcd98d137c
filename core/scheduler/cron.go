package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"intranet/core/logger"

	"github.com/robfig/cron/v3"
)

// CronTask is a named job run on a cron schedule
type CronTask struct {
	Name        string
	Description string
	CronExpr    string
	Handler     func(ctx context.Context) error
	Enabled     bool
	Timeout     time.Duration

	entryId cron.EntryID
	lastRun time.Time
	lastErr error
}

// TaskStatus is a snapshot of a registered task
type TaskStatus struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CronExpr    string    `json:"cron_expr"`
	Enabled     bool      `json:"enabled"`
	LastRun     time.Time `json:"last_run"`
	NextRun     time.Time `json:"next_run"`
	LastError   string    `json:"last_error,omitempty"`
}

// CronScheduler runs registered tasks with robfig/cron
type CronScheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	logger logger.Logger
	tasks  map[string]*CronTask
}

// NewCronScheduler creates a scheduler; tasks panicking inside a run are recovered
func NewCronScheduler(log logger.Logger) *CronScheduler {
	return &CronScheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		logger: log,
		tasks:  make(map[string]*CronTask),
	}
}

// RegisterTask adds task to the schedule. Disabled tasks are recorded but never run.
func (s *CronScheduler) RegisterTask(task *CronTask) error {
	if task == nil || task.Name == "" {
		return errors.New("cron task requires a name")
	}
	if task.Handler == nil {
		return fmt.Errorf("cron task %s has no handler", task.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.Name]; exists {
		return fmt.Errorf("cron task %s already registered", task.Name)
	}

	if task.Enabled {
		entryId, err := s.cron.AddFunc(task.CronExpr, func() { s.execute(task) })
		if err != nil {
			return fmt.Errorf("invalid cron expression for %s: %w", task.Name, err)
		}
		task.entryId = entryId
	}

	s.tasks[task.Name] = task
	return nil
}

// RunNow executes a task immediately, outside its schedule
func (s *CronScheduler) RunNow(name string) error {
	s.mu.Lock()
	task, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("cron task %s not found", name)
	}
	return s.execute(task)
}

func (s *CronScheduler) execute(task *CronTask) error {
	timeout := task.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	err := task.Handler(ctx)

	s.mu.Lock()
	task.lastRun = start
	task.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("cron task failed",
			logger.String("task", task.Name),
			logger.Duration("duration", time.Since(start)),
			logger.Err(err))
		return err
	}
	s.logger.Info("cron task finished",
		logger.String("task", task.Name),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// Tasks returns the status of every registered task
func (s *CronScheduler) Tasks() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]TaskStatus, 0, len(s.tasks))
	for _, task := range s.tasks {
		status := TaskStatus{
			Name:        task.Name,
			Description: task.Description,
			CronExpr:    task.CronExpr,
			Enabled:     task.Enabled,
			LastRun:     task.lastRun,
		}
		if task.Enabled {
			status.NextRun = s.cron.Entry(task.entryId).Next
		}
		if task.lastErr != nil {
			status.LastError = task.lastErr.Error()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Run starts the scheduler and blocks until ctx is done
func (s *CronScheduler) Run(ctx context.Context) error {
	s.cron.Start()
	s.logger.Info("scheduler started", logger.Int("tasks", len(s.tasks)))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}
