package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"intranet/core/app/users"
	"intranet/core/email"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/types"

	"github.com/gertd/go-pluralize"
	"gorm.io/gorm"
)

const (
	CreateNotificationEvent = "notifications.create"
	ReadNotificationEvent   = "notifications.read"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Recipients resolves user ids to mail addresses
type Recipients interface {
	Recipients(ids []uint) ([]users.Recipient, error)
}

type NotificationService struct {
	DB         *gorm.DB
	Emitter    *emitter.Emitter
	Logger     logger.Logger
	Sender     email.Sender
	Recipients Recipients
	pluralize  *pluralize.Client
	now        func() time.Time
}

func NewNotificationService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger, sender email.Sender, recipients Recipients) *NotificationService {
	return &NotificationService{
		DB:         db,
		Logger:     logger,
		Emitter:    emitter,
		Sender:     sender,
		Recipients: recipients,
		pluralize:  pluralize.NewClient(),
		now:        time.Now,
	}
}

// Subscribe turns the given events into notifications when their payload is a Noticer.
// It returns a function that removes the subscriptions.
func (s *NotificationService) Subscribe(events ...string) func() {
	var offs []func()
	for _, event := range events {
		event := event
		offs = append(offs, s.Emitter.On(event, func(data any) {
			noticer, ok := data.(Noticer)
			if !ok {
				return
			}
			for _, notice := range noticer.Notices() {
				if notice.UserId == 0 {
					continue
				}
				if _, err := s.Notify(notice); err != nil {
					s.Logger.Error("failed to create notification",
						logger.String("event", event), logger.Uint("user_id", notice.UserId), logger.Err(err))
				}
			}
		}))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// Notify stores a notification and pushes it to the owner
func (s *NotificationService) Notify(notice Notice) (*Notification, error) {
	item := &Notification{
		UserId:    notice.UserId,
		Title:     notice.Title,
		Body:      notice.Body,
		Type:      notice.Type,
		ActionUrl: notice.ActionUrl,
	}
	if item.Type == "" {
		item.Type = "info"
	}
	if err := s.DB.Create(item).Error; err != nil {
		return nil, err
	}
	s.Emitter.Emit(CreateNotificationEvent, item)
	return item, nil
}

// List returns a page of the user's notifications, newest first
func (s *NotificationService) List(userId uint, page, limit *int, unreadOnly bool) (*types.PaginatedResponse, error) {
	p, l := types.Paginate(page, limit)

	query := s.DB.Model(&Notification{}).Where("user_id = ?", userId)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.Logger.Error("failed to count notifications", logger.Err(err))
		return nil, err
	}

	var items []Notification
	if err := query.Order("created_at DESC, id DESC").Offset((p - 1) * l).Limit(l).Find(&items).Error; err != nil {
		s.Logger.Error("failed to get notifications", logger.Err(err))
		return nil, err
	}

	return &types.PaginatedResponse{
		Data: items,
		Pagination: types.Pagination{
			Total:      int(total),
			Page:       p,
			PageSize:   l,
			TotalPages: types.TotalPages(total, l),
		},
	}, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(userId, id uint) (*Notification, error) {
	item := &Notification{}
	if err := s.DB.Where("id = ? AND user_id = ?", id, userId).First(item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if item.IsRead {
		return item, nil
	}
	now := s.now()
	item.IsRead = true
	item.ReadAt = &now
	if err := s.DB.Save(item).Error; err != nil {
		return nil, err
	}
	s.Emitter.Emit(ReadNotificationEvent, item)
	return item, nil
}

// MarkAllRead marks every unread notification of the user as read
func (s *NotificationService) MarkAllRead(userId uint) (int64, error) {
	result := s.DB.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Updates(map[string]any{"is_read": true, "read_at": s.now()})
	if result.Error != nil {
		s.Logger.Error("failed to mark notifications read", logger.Uint("user_id", userId), logger.Err(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UnreadCount returns the number of unread notifications of the user
func (s *NotificationService) UnreadCount(userId uint) (int64, error) {
	var count int64
	err := s.DB.Model(&Notification{}).Where("user_id = ? AND is_read = ?", userId, false).Count(&count).Error
	return count, err
}

type unreadRow struct {
	UserId uint
	Total  int64
}

// SendDigest emails every user with unread notifications a summary count.
// It returns the number of emails sent.
func (s *NotificationService) SendDigest(ctx context.Context) (int, error) {
	if s.Sender == nil || s.Recipients == nil {
		return 0, nil
	}

	var rows []unreadRow
	if err := s.DB.WithContext(ctx).Model(&Notification{}).
		Select("user_id, COUNT(*) AS total").
		Where("is_read = ?", false).
		Group("user_id").Scan(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	counts := make(map[uint]int64, len(rows))
	ids := make([]uint, len(rows))
	for i, row := range rows {
		counts[row.UserId] = row.Total
		ids[i] = row.UserId
	}
	recipients, err := s.Recipients.Recipients(ids)
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error
	for _, r := range recipients {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		n := int(counts[r.Id])
		unread := fmt.Sprintf("%d unread %s", n, s.pluralize.Pluralize("notification", n, false))
		msg := &email.Message{
			To:       []string{r.Email},
			Subject:  fmt.Sprintf("You have %s", unread),
			TextBody: fmt.Sprintf("Hi %s,\n\nYou have %s waiting in the intranet portal.\n", r.Name, unread),
			Tag:      "digest",
		}
		if err := s.Sender.Send(msg); err != nil {
			s.Logger.Error("failed to send digest", logger.Uint("user_id", r.Id), logger.Err(err))
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
