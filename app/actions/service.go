package actions

import (
	"errors"

	"intranet/core/app/activities"
	"intranet/core/app/search"
	"intranet/core/emitter"
	"intranet/core/logger"
)

const InvokedEvent = "actions.invoked"

var ErrActionNotFound = errors.New("action not found")

// Invocation is emitted when a quick action is triggered
type Invocation struct {
	ActionId string `json:"action_id"`
	Title    string `json:"title"`
	Dialog   string `json:"dialog"`
	UserId   uint   `json:"user_id"`
	Via      string `json:"via"`
}

// TargetUserId sends the dialog-open push only to the user who triggered it
func (i Invocation) TargetUserId() uint {
	return i.UserId
}

func (i Invocation) ActivityEntry() activities.Entry {
	return activities.Entry{UserId: i.UserId, EntityId: i.ActionId, Description: "Opened " + i.Title}
}

type ActionService struct {
	Emitter *emitter.Emitter
	Logger  logger.Logger
}

func NewActionService(emitter *emitter.Emitter, logger logger.Logger) *ActionService {
	return &ActionService{
		Emitter: emitter,
		Logger:  logger,
	}
}

// List ranks the catalog against query
func (s *ActionService) List(query string) []Ranked {
	return Rank(Catalog(), query)
}

// Invoke triggers the action with id on behalf of userId
func (s *ActionService) Invoke(id string, userId uint, via string) (*Invocation, error) {
	action, ok := Find(id)
	if !ok {
		return nil, ErrActionNotFound
	}
	inv := &Invocation{
		ActionId: action.Id,
		Title:    action.Title,
		Dialog:   action.Dialog,
		UserId:   userId,
		Via:      via,
	}
	s.Logger.Debug("quick action invoked", logger.String("action", id), logger.Uint("user_id", userId), logger.String("via", via))
	s.Emitter.Emit(InvokedEvent, *inv)
	return inv, nil
}

// Records exposes the catalog to the dashboard search. Selecting a record invokes the action.
func (s *ActionService) Records() ([]search.Record, error) {
	items := Catalog()
	records := make([]search.Record, len(items))
	for i, item := range items {
		id := item.Id
		records[i] = search.Record{
			ID:          id,
			Title:       item.Title,
			Description: item.Description,
			Type:        search.TypeAction,
			Category:    item.Category,
			Widget:      "quickActions",
			Metadata: map[string]any{
				"dialog":   item.Dialog,
				"keywords": item.Keywords,
			},
			Action: func() {
				if _, err := s.Invoke(id, 0, "search"); err != nil {
					s.Logger.Warn("quick action from search failed", logger.String("action", id), logger.Err(err))
				}
			},
		}
	}
	return records, nil
}
