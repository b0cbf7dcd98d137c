package tasks

import "intranet/app/models"

// BoardColumn is one status column of the board
type BoardColumn struct {
	Status Status        `json:"status"`
	Title  string        `json:"title"`
	Tasks  []models.Task `json:"tasks"`
	Count  int           `json:"count"`
}

// BoardResponse is the body of GET /tasks
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
	Total   int           `json:"total"`
}

// MoveResponse reports the outcome of a drop and the resulting board
type MoveResponse struct {
	Applied       bool           `json:"applied"`
	StatusChanged bool           `json:"status_changed"`
	Board         *BoardResponse `json:"board"`
}
