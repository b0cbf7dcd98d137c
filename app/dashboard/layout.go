package dashboard

// Rect is a widget position in grid cells
type Rect struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Item is a widget placed on the dashboard grid. Items may overlap; nothing
// here enforces a free layout.
type Item struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Title    string `json:"title"`
	Position Rect   `json:"position"`
	Visible  bool   `json:"visible"`
}

// Drop swaps the full rectangles of the dragged and target items and returns
// the new layout. It is a no-op when either item is missing or hidden, or when
// they are the same item. The input slice is never modified.
func Drop(items []Item, draggedID, targetID string) ([]Item, bool) {
	out := make([]Item, len(items))
	copy(out, items)

	if draggedID == "" || targetID == "" || draggedID == targetID {
		return out, false
	}

	dragged, target := -1, -1
	for i, item := range out {
		switch item.ID {
		case draggedID:
			dragged = i
		case targetID:
			target = i
		}
	}
	if dragged < 0 || target < 0 || !out[dragged].Visible || !out[target].Visible {
		return out, false
	}

	out[dragged].Position, out[target].Position = out[target].Position, out[dragged].Position
	return out, true
}

// Grid converts cell rectangles into container coordinates
type Grid struct {
	Columns   int     `json:"columns" yaml:"columns"`
	RowHeight float64 `json:"row_height" yaml:"row_height"`
	Gap       float64 `json:"gap" yaml:"gap"`
}

// DefaultGrid is the 12 column portal grid
var DefaultGrid = Grid{Columns: 12, RowHeight: 80, Gap: 16}

// Placement is the absolute box of a widget. Percentages are relative to the container width.
type Placement struct {
	Left         float64 `json:"left"`
	Top          float64 `json:"top"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	LeftPercent  float64 `json:"left_percent"`
	WidthPercent float64 `json:"width_percent"`
}

// Project maps r onto a container of the given pixel width
func (g Grid) Project(r Rect, containerWidth float64) Placement {
	columns := g.Columns
	if columns <= 0 {
		columns = DefaultGrid.Columns
	}
	columnWidth := containerWidth / float64(columns)

	p := Placement{
		Left:         float64(r.X) * columnWidth,
		Top:          float64(r.Y) * (g.RowHeight + g.Gap),
		Width:        float64(r.W)*columnWidth - g.Gap,
		Height:       float64(r.H)*g.RowHeight + float64(max(r.H-1, 0))*g.Gap,
		LeftPercent:  float64(r.X) * 100 / float64(columns),
		WidthPercent: float64(r.W) * 100 / float64(columns),
	}
	if p.Width < 0 {
		p.Width = 0
	}
	return p
}
