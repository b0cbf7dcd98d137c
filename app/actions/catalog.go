package actions

// Action is a quick action exposed in the command palette
type Action struct {
	Id          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Dialog      string   `json:"dialog"`
	Keywords    []string `json:"keywords,omitempty"`
}

var catalog = []Action{
	{Id: "book-room", Title: "Book a Meeting Room", Description: "Reserve a room for a meeting", Category: "Workplace", Dialog: "room-booking", Keywords: []string{"reserve", "conference"}},
	{Id: "request-time-off", Title: "Request Time Off", Description: "Submit a vacation or leave request", Category: "HR", Dialog: "time-off", Keywords: []string{"vacation", "leave", "holiday", "pto"}},
	{Id: "log-time", Title: "Log Time", Description: "Record hours against a project", Category: "Time Tracking", Dialog: "time-tracking", Keywords: []string{"timesheet", "hours"}},
	{Id: "submit-expense", Title: "Submit Expense", Description: "File a receipt for reimbursement", Category: "Finance", Dialog: "expense", Keywords: []string{"receipt", "reimbursement"}},
	{Id: "it-support", Title: "IT Support Ticket", Description: "Report a hardware or software problem", Category: "IT", Dialog: "it-ticket", Keywords: []string{"helpdesk", "laptop", "password"}},
	{Id: "wellness-check-in", Title: "Wellness Check-in", Description: "Share how you are feeling this week", Category: "Wellness", Dialog: "wellness", Keywords: []string{"mood", "health"}},
	{Id: "give-kudos", Title: "Give Kudos", Description: "Recognize a colleague", Category: "Recognition", Dialog: "recognition", Keywords: []string{"thanks", "appreciation"}},
	{Id: "new-task", Title: "Create Task", Description: "Add a task to the board", Category: "Tasks", Dialog: "task-form", Keywords: []string{"todo"}},
	{Id: "view-calendar", Title: "Open Calendar", Description: "See upcoming company events", Category: "Calendar", Dialog: "calendar", Keywords: []string{"events", "schedule"}},
	{Id: "view-alerts", Title: "View Alerts", Description: "Open unread notifications", Category: "Notifications", Dialog: "alerts", Keywords: []string{"notifications", "inbox"}},
}

// Catalog returns a copy of every quick action in display order
func Catalog() []Action {
	out := make([]Action, len(catalog))
	copy(out, catalog)
	return out
}

// Find returns the action with id
func Find(id string) (Action, bool) {
	for _, a := range catalog {
		if a.Id == id {
			return a, true
		}
	}
	return Action{}, false
}
