package activities

import (
	"encoding/json"
	"strings"

	"intranet/core/emitter"
	"intranet/core/logger"

	"gorm.io/gorm"
)

const CreateActivityEvent = "activities.create"

type ActivityService struct {
	DB      *gorm.DB
	Emitter *emitter.Emitter
	Logger  logger.Logger
}

func NewActivityService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger) *ActivityService {
	return &ActivityService{
		DB:      db,
		Logger:  logger,
		Emitter: emitter,
	}
}

// Subscribe records an activity for each of the given events.
// It returns a function that removes the subscriptions.
func (s *ActivityService) Subscribe(events ...string) func() {
	var offs []func()
	for _, event := range events {
		event := event
		offs = append(offs, s.Emitter.On(event, func(data any) {
			if _, err := s.Record(event, data); err != nil {
				s.Logger.Error("failed to record activity", logger.String("event", event), logger.Err(err))
			}
		}))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// Record stores an activity for event. The entity type and action come from the
// event name ("tasks.moved" is entity "tasks", action "moved").
func (s *ActivityService) Record(event string, data any) (*Activity, error) {
	entity, action, found := strings.Cut(event, ".")
	if !found {
		action = event
	}

	item := &Activity{EntityType: entity, Action: action}
	if d, ok := data.(Describer); ok {
		entry := d.ActivityEntry()
		item.UserId = entry.UserId
		item.EntityId = entry.EntityId
		item.Description = entry.Description
	}
	if item.Description == "" && entity != "" {
		item.Description = strings.ToUpper(entity[:1]) + entity[1:] + " " + strings.ReplaceAll(action, "_", " ")
	}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			item.Metadata = raw
		}
	}

	if err := s.DB.Create(item).Error; err != nil {
		return nil, err
	}
	s.Emitter.Emit(CreateActivityEvent, item)
	return item, nil
}

// Recent returns the newest activities, optionally of one entity type
func (s *ActivityService) Recent(limit int, entityType string) ([]Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := s.DB.Order("created_at DESC, id DESC").Limit(limit)
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	var items []Activity
	if err := query.Find(&items).Error; err != nil {
		s.Logger.Error("failed to get activities", logger.Err(err))
		return nil, err
	}
	return items, nil
}
