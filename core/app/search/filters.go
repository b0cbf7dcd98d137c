package search

import (
	"slices"
	"time"

	"intranet/core/types"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Empty reports whether f filters nothing
func (f *Filters) Empty() bool {
	return f == nil || (len(f.Types) == 0 && len(f.Widgets) == 0 && f.DateFrom == nil && f.DateTo == nil)
}

// Allows reports whether r passes every filter. Records without a usable date pass the date range.
func (f *Filters) Allows(r Record) bool {
	if f == nil {
		return true
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, r.Type) {
		return false
	}
	if len(f.Widgets) > 0 && !slices.Contains(f.Widgets, r.Widget) {
		return false
	}
	if f.DateFrom == nil && f.DateTo == nil {
		return true
	}

	date, ok := recordDate(r)
	if !ok {
		return true
	}
	if f.DateFrom != nil && date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && date.After(*f.DateTo) {
		return false
	}
	return true
}

// recordDate reads metadata "date", falling back to "createdAt"
func recordDate(r Record) (time.Time, bool) {
	for _, key := range []string{"date", "createdAt"} {
		value, exists := r.Metadata[key]
		if !exists {
			continue
		}
		if date, ok := toTime(value); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case types.DateTime:
		return v.Time, !v.IsZero()
	case *types.DateTime:
		if v == nil {
			return time.Time{}, false
		}
		return v.Time, !v.IsZero()
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
