package events

import (
	"context"
	"errors"
	"strconv"
	"time"

	"intranet/app/models"
	"intranet/core/app/search"
	"intranet/core/emitter"
	"intranet/core/logger"

	"gorm.io/gorm"
)

const (
	CreateEventEvent = "events.create"
	DeleteEventEvent = "events.delete"
	SyncedEvent      = "events.synced"

	portalSource = "portal"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidRange  = errors.New("event ends before it starts")
	ErrSyncDisabled  = errors.New("calendar sync is not configured")
)

// SyncResult reports what an import changed
type SyncResult struct {
	Source  string `json:"source"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
}

type EventService struct {
	DB      *gorm.DB
	Emitter *emitter.Emitter
	Logger  logger.Logger
	Source  Source
	// SyncWindow is how far ahead an import looks; it always includes the past week
	SyncWindow time.Duration
	now        func() time.Time
}

func NewEventService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger, source Source) *EventService {
	return &EventService{
		DB:         db,
		Emitter:    emitter,
		Logger:     logger,
		Source:     source,
		SyncWindow: 90 * 24 * time.Hour,
		now:        time.Now,
	}
}

// List returns events overlapping [from, to]; zero bounds are open
func (s *EventService) List(from, to time.Time) ([]models.Event, error) {
	query := s.DB.Model(&models.Event{})
	if !from.IsZero() {
		query = query.Where("ends_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("starts_at <= ?", to)
	}
	var items []models.Event
	if err := query.Order("starts_at ASC, id ASC").Find(&items).Error; err != nil {
		s.Logger.Error("failed to list events", logger.Err(err))
		return nil, err
	}
	return items, nil
}

// Upcoming returns up to limit events that have not ended yet
func (s *EventService) Upcoming(limit int) ([]models.Event, error) {
	var items []models.Event
	err := s.DB.Where("ends_at >= ?", s.now()).Order("starts_at ASC").Limit(limit).Find(&items).Error
	return items, err
}

func (s *EventService) GetById(id uint) (*models.Event, error) {
	item := &models.Event{}
	if err := s.DB.First(item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *EventService) Create(req *models.CreateEventRequest, organizerId uint) (*models.Event, error) {
	item := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		AllDay:      req.AllDay,
		OrganizerId: organizerId,
		Source:      portalSource,
	}
	if item.EndsAt.IsZero() {
		item.EndsAt = item.StartsAt.Add(time.Hour)
	}
	if item.EndsAt.Before(item.StartsAt) {
		return nil, ErrInvalidRange
	}

	if err := s.DB.Create(item).Error; err != nil {
		s.Logger.Error("failed to create event", logger.Err(err))
		return nil, err
	}
	s.Emitter.Emit(CreateEventEvent, item)
	return item, nil
}

func (s *EventService) Delete(id uint) error {
	item, err := s.GetById(id)
	if err != nil {
		return err
	}
	if err := s.DB.Delete(item).Error; err != nil {
		s.Logger.Error("failed to delete event", logger.Uint("id", id), logger.Err(err))
		return err
	}
	s.Emitter.Emit(DeleteEventEvent, item)
	return nil
}

// Sync imports the configured outside calendar, updating entries it has seen before
func (s *EventService) Sync(ctx context.Context) (*SyncResult, error) {
	if s.Source == nil {
		return nil, ErrSyncDisabled
	}
	now := s.now()
	fetched, err := s.Source.Fetch(ctx, now.AddDate(0, 0, -7), now.Add(s.SyncWindow))
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Source: s.Source.Name()}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, ext := range fetched {
			var item models.Event
			err := tx.Where("source = ? AND external_id = ?", result.Source, ext.Id).First(&item).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				item = models.Event{Source: result.Source, ExternalId: ext.Id, Category: "Company"}
				result.Created++
			case err != nil:
				return err
			default:
				result.Updated++
			}
			item.Title = ext.Title
			item.Description = ext.Description
			item.Location = ext.Location
			item.StartsAt = ext.StartsAt
			item.EndsAt = ext.EndsAt
			item.AllDay = ext.AllDay
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.Logger.Error("failed to store imported events", logger.String("source", result.Source), logger.Err(err))
		return nil, err
	}

	s.Logger.Info("calendar synced",
		logger.String("source", result.Source),
		logger.Int("created", result.Created),
		logger.Int("updated", result.Updated))
	s.Emitter.Emit(SyncedEvent, result)
	return result, nil
}

// Records exposes calendar events to the dashboard search
func (s *EventService) Records() ([]search.Record, error) {
	items, err := s.List(time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	records := make([]search.Record, len(items))
	for i, item := range items {
		category := item.Category
		if category == "" {
			category = "Calendar"
		}
		records[i] = search.Record{
			ID:          strconv.FormatUint(uint64(item.Id), 10),
			Title:       item.Title,
			Description: item.Location,
			Content:     item.Description,
			Type:        search.TypeEvent,
			Category:    category,
			Widget:      "calendar",
			Metadata: map[string]any{
				"date":     item.StartsAt,
				"ends_at":  item.EndsAt,
				"all_day":  item.AllDay,
				"location": item.Location,
			},
		}
	}
	return records, nil
}
