package dashboard

// DropRequest is a widget released over another widget
type DropRequest struct {
	DraggedId string `json:"dragged_id" example:"tasks"`
	TargetId  string `json:"target_id" example:"news"`
}

// DropResponse carries the layout after a drop
type DropResponse struct {
	Widgets []Item `json:"widgets"`
	Changed bool   `json:"changed"`
}

// VisibilityRequest shows or hides a widget
type VisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// PlacedWidget is a visible widget with its absolute box
type PlacedWidget struct {
	Item
	Placement Placement `json:"placement"`
}

// LayoutResponse is the body of GET /dashboard/layout
type LayoutResponse struct {
	Grid    Grid           `json:"grid"`
	Width   float64        `json:"width"`
	Widgets []PlacedWidget `json:"widgets"`
}

// DashboardResponse is the body of GET /dashboard
type DashboardResponse struct {
	Grid    Grid     `json:"grid"`
	Widgets []Item   `json:"widgets"`
	Sources []string `json:"sources"`
}
