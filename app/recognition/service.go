package recognition

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"intranet/app/models"
	"intranet/core/app/search"
	"intranet/core/emitter"
	"intranet/core/logger"

	"gorm.io/gorm"
)

const (
	CreateKudosEvent = "recognition.create"
)

var (
	ErrSelfKudos    = errors.New("kudos cannot be given to yourself")
	ErrInvalidBadge = errors.New("unknown badge")
)

// Directory resolves display names of colleagues
type Directory interface {
	DisplayName(userId uint) (string, bool)
}

type KudosService struct {
	DB        *gorm.DB
	Emitter   *emitter.Emitter
	Logger    logger.Logger
	Directory Directory
}

func NewKudosService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger, directory Directory) *KudosService {
	return &KudosService{
		DB:        db,
		Emitter:   emitter,
		Logger:    logger,
		Directory: directory,
	}
}

func (s *KudosService) Create(req *models.CreateKudosRequest, fromUserId uint) (*models.Kudos, error) {
	if !req.Badge.Valid() {
		return nil, ErrInvalidBadge
	}
	if fromUserId != 0 && fromUserId == req.ToUserId {
		return nil, ErrSelfKudos
	}

	item := &models.Kudos{
		FromUserId: fromUserId,
		FromName:   s.name(fromUserId),
		ToUserId:   req.ToUserId,
		ToName:     s.name(req.ToUserId),
		Badge:      req.Badge,
		Message:    req.Message,
	}
	if err := s.DB.Create(item).Error; err != nil {
		s.Logger.Error("failed to create kudos", logger.Err(err))
		return nil, err
	}

	s.Emitter.Emit(CreateKudosEvent, item)
	return item, nil
}

// List returns the newest kudos first, optionally only those received by toUserId
func (s *KudosService) List(limit int, toUserId uint) ([]models.Kudos, error) {
	query := s.DB.Order("created_at DESC, id DESC")
	if toUserId != 0 {
		query = query.Where("to_user_id = ?", toUserId)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var items []models.Kudos
	if err := query.Find(&items).Error; err != nil {
		s.Logger.Error("failed to list kudos", logger.Err(err))
		return nil, err
	}
	return items, nil
}

// CountSince counts kudos given at or after since
func (s *KudosService) CountSince(since time.Time) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Kudos{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// Records exposes kudos to the dashboard search
func (s *KudosService) Records() ([]search.Record, error) {
	items, err := s.List(0, 0)
	if err != nil {
		return nil, err
	}
	records := make([]search.Record, len(items))
	for i, item := range items {
		records[i] = search.Record{
			ID:          strconv.FormatUint(uint64(item.Id), 10),
			Title:       fmt.Sprintf("%s for %s", item.Badge.Label(), item.ToName),
			Description: "From " + item.FromName,
			Content:     item.Message,
			Type:        search.TypeRecognition,
			Category:    item.Badge.Label(),
			Widget:      "recognition",
			Metadata: map[string]any{
				"createdAt":  item.CreatedAt,
				"to_user_id": item.ToUserId,
				"badge":      string(item.Badge),
			},
		}
	}
	return records, nil
}

func (s *KudosService) name(userId uint) string {
	if userId == 0 {
		return "Someone"
	}
	if s.Directory != nil {
		if name, ok := s.Directory.DisplayName(userId); ok {
			return name
		}
	}
	return fmt.Sprintf("User #%d", userId)
}
