package tasks

import "intranet/app/models"

type (
	Status   = models.TaskStatus
	Priority = models.TaskPriority
)

const (
	StatusTodo       = models.TaskStatusTodo
	StatusInProgress = models.TaskStatusInProgress
	StatusDone       = models.TaskStatusDone

	PriorityLow    = models.TaskPriorityLow
	PriorityMedium = models.TaskPriorityMedium
	PriorityHigh   = models.TaskPriorityHigh
)

// DropEvent is a card released on the board. Indexes count cards of one
// status only. An empty DestStatus means the card was dropped outside any column.
type DropEvent struct {
	SourceStatus Status `json:"source_status"`
	SourceIndex  int    `json:"source_index"`
	DestStatus   Status `json:"dest_status"`
	DestIndex    int    `json:"dest_index"`
	DraggedId    uint   `json:"dragged_id"`
}

// Move applies ev to the globally ordered list and reports whether the card's
// status changed. The dragged card is inserted before the DestIndex-th card of
// the destination column; an index past the column end or negative appends the
// card to the end of the whole list. Unknown cards and drops without a
// destination leave the list as it was. The input slice is never modified.
func Move(list []models.Task, ev DropEvent) ([]models.Task, bool) {
	out := make([]models.Task, len(list))
	copy(out, list)

	if ev.DestStatus == "" {
		return out, false
	}
	if ev.SourceStatus == ev.DestStatus && ev.SourceIndex == ev.DestIndex {
		return out, false
	}

	from := -1
	for i, task := range out {
		if task.Id == ev.DraggedId {
			from = i
			break
		}
	}
	if from < 0 {
		return out, false
	}

	task := out[from]
	out = append(out[:from], out[from+1:]...)

	statusChanged := task.Status != ev.DestStatus
	task.Status = ev.DestStatus

	at := len(out)
	if ev.DestIndex >= 0 {
		seen := 0
		for i, other := range out {
			if other.Status != ev.DestStatus {
				continue
			}
			if seen == ev.DestIndex {
				at = i
				break
			}
			seen++
		}
	}

	out = append(out, models.Task{})
	copy(out[at+1:], out[at:])
	out[at] = task
	return out, statusChanged
}

// Column returns the cards of one status in board order
func Column(list []models.Task, status Status) []models.Task {
	column := []models.Task{}
	for _, task := range list {
		if task.Status == status {
			column = append(column, task)
		}
	}
	return column
}
