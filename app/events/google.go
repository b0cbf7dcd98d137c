package events

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ExternalEvent is a calendar entry read from an outside calendar
type ExternalEvent struct {
	Id          string
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	AllDay      bool
}

// Source lists events of an outside calendar within a window
type Source interface {
	Name() string
	Fetch(ctx context.Context, from, to time.Time) ([]ExternalEvent, error)
}

// GoogleCalendar reads a public or shared Google calendar with an API key
type GoogleCalendar struct {
	calendarId string
	opts       []option.ClientOption
}

// NewGoogleCalendar creates a source for calendarId. Extra options are passed to the client.
func NewGoogleCalendar(apiKey, calendarId string, opts ...option.ClientOption) *GoogleCalendar {
	return &GoogleCalendar{
		calendarId: calendarId,
		opts:       append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...),
	}
}

func (g *GoogleCalendar) Name() string { return "google" }

func (g *GoogleCalendar) Fetch(ctx context.Context, from, to time.Time) ([]ExternalEvent, error) {
	svc, err := calendar.NewService(ctx, g.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	var out []ExternalEvent
	call := svc.Events.List(g.calendarId).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	err = call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			if item.Status == "cancelled" || item.Start == nil {
				continue
			}
			start, allDay, err := parseEventTime(item.Start)
			if err != nil {
				return err
			}
			end := start
			if item.End != nil {
				if end, _, err = parseEventTime(item.End); err != nil {
					return err
				}
			}
			out = append(out, ExternalEvent{
				Id:          item.Id,
				Title:       item.Summary,
				Description: item.Description,
				Location:    item.Location,
				StartsAt:    start,
				EndsAt:      end,
				AllDay:      allDay,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return out, nil
}

// parseEventTime reads either a timed or an all-day boundary
func parseEventTime(t *calendar.EventDateTime) (time.Time, bool, error) {
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		return parsed, false, err
	}
	parsed, err := time.Parse(time.DateOnly, t.Date)
	return parsed, true, err
}
