package search

import "time"

// RecordType tags a record with the kind of content it points at
type RecordType string

const (
	TypeTask        RecordType = "task"
	TypeNews        RecordType = "news"
	TypeEvent       RecordType = "event"
	TypePerson      RecordType = "person"
	TypeAction      RecordType = "action"
	TypeRecognition RecordType = "recognition"
	TypeAnalytics   RecordType = "analytics"
)

// RecordTypes lists every known record type
var RecordTypes = []RecordType{
	TypeTask, TypeNews, TypeEvent, TypePerson, TypeAction, TypeRecognition, TypeAnalytics,
}

// Valid reports whether t is one of RecordTypes
func (t RecordType) Valid() bool {
	for _, known := range RecordTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Record is one searchable unit contributed by a widget. Records are rebuilt on
// every query and carry no identity beyond ID within their widget.
type Record struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Content     string         `json:"content"`
	Type        RecordType     `json:"type"`
	Category    string         `json:"category"`
	Widget      string         `json:"widget"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	// Action runs when the record is selected. It belongs to the producing widget.
	Action func() `json:"-"`
}

// Selectable reports whether the record has an action
func (r Record) Selectable() bool {
	return r.Action != nil
}

// Producer returns the current records of one widget
type Producer func() ([]Record, error)

// Filters narrow a result set after ranking. Empty sets and nil bounds do not filter.
type Filters struct {
	Types    []RecordType
	Widgets  []string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Match is a ranked record; lower scores are better, 0 is exact
type Match struct {
	Record Record
	Score  float64
}

// Contributor is implemented by modules that feed records to dashboard widgets
type Contributor interface {
	SearchProducers() map[string]Producer
}
