package dashboard

// Kind is the closed set of widget types the portal can render
type Kind string

const (
	KindTasks        Kind = "tasks"
	KindNews         Kind = "news"
	KindCalendar     Kind = "calendar"
	KindDirectory    Kind = "directory"
	KindRecognition  Kind = "recognition"
	KindQuickActions Kind = "quick-actions"
	KindAnalytics    Kind = "analytics"
	KindTimeTracking Kind = "time-tracking"
	KindWellness     Kind = "wellness"
)

// KindInfo describes how a widget kind is shown and what it contributes to search
type KindInfo struct {
	Title       string
	DefaultSize Rect
	// SearchSource is the registry name of the widget's producer, empty when it has none
	SearchSource string
}

var kinds = map[Kind]KindInfo{
	KindTasks:        {Title: "My Tasks", DefaultSize: Rect{W: 6, H: 4}, SearchSource: "tasks"},
	KindNews:         {Title: "Company News", DefaultSize: Rect{W: 6, H: 4}, SearchSource: "news"},
	KindCalendar:     {Title: "Upcoming Events", DefaultSize: Rect{W: 4, H: 3}, SearchSource: "calendar"},
	KindDirectory:    {Title: "People", DefaultSize: Rect{W: 4, H: 3}, SearchSource: "directory"},
	KindRecognition:  {Title: "Kudos", DefaultSize: Rect{W: 4, H: 3}, SearchSource: "recognition"},
	KindQuickActions: {Title: "Quick Actions", DefaultSize: Rect{W: 4, H: 2}, SearchSource: "quickActions"},
	KindAnalytics:    {Title: "Analytics", DefaultSize: Rect{W: 8, H: 3}, SearchSource: "analytics"},
	KindTimeTracking: {Title: "Time Tracking", DefaultSize: Rect{W: 4, H: 2}},
	KindWellness:     {Title: "Wellness Hub", DefaultSize: Rect{W: 4, H: 2}},
}

// Kinds lists every widget kind in display order
var Kinds = []Kind{
	KindTasks, KindNews, KindCalendar, KindDirectory, KindRecognition,
	KindQuickActions, KindAnalytics, KindTimeTracking, KindWellness,
}

// Lookup returns the description of k
func Lookup(k Kind) (KindInfo, bool) {
	info, ok := kinds[k]
	return info, ok
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}
