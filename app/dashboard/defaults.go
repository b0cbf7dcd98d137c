package dashboard

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type layoutFile struct {
	Grid    *Grid        `yaml:"grid"`
	Widgets []widgetSpec `yaml:"widgets"`
}

type widgetSpec struct {
	ID       string `yaml:"id"`
	Kind     Kind   `yaml:"kind"`
	Title    string `yaml:"title"`
	Position *Rect  `yaml:"position"`
	Visible  *bool  `yaml:"visible"`
}

// DefaultLayout returns the built-in grid and widgets
func DefaultLayout() (Grid, []Item, error) {
	return ParseLayout(defaultsYAML)
}

// ParseLayout reads a YAML layout. Widgets without a title or size take them
// from their kind; widgets without a position are stacked below the others.
func ParseLayout(data []byte) (Grid, []Item, error) {
	var file layoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Grid{}, nil, fmt.Errorf("failed to parse dashboard layout: %w", err)
	}

	grid := DefaultGrid
	if file.Grid != nil {
		grid = *file.Grid
	}

	items := make([]Item, 0, len(file.Widgets))
	seen := make(map[string]bool)
	var unplaced []int
	bottom := 0

	for _, spec := range file.Widgets {
		info, ok := Lookup(spec.Kind)
		if !ok {
			return Grid{}, nil, fmt.Errorf("unknown widget kind %q", spec.Kind)
		}
		id := spec.ID
		if id == "" {
			id = string(spec.Kind)
		}
		if seen[id] {
			return Grid{}, nil, fmt.Errorf("duplicate widget id %q", id)
		}
		seen[id] = true

		item := Item{
			ID:      id,
			Kind:    spec.Kind,
			Title:   spec.Title,
			Visible: spec.Visible == nil || *spec.Visible,
		}
		if item.Title == "" {
			item.Title = info.Title
		}
		if spec.Position != nil {
			item.Position = *spec.Position
			if item.Position.W <= 0 || item.Position.H <= 0 {
				item.Position.W, item.Position.H = info.DefaultSize.W, info.DefaultSize.H
			}
			bottom = max(bottom, item.Position.Y+item.Position.H)
		} else {
			item.Position = Rect{W: info.DefaultSize.W, H: info.DefaultSize.H}
			unplaced = append(unplaced, len(items))
		}
		items = append(items, item)
	}

	for _, i := range unplaced {
		items[i].Position.Y = bottom
		bottom += items[i].Position.H
	}
	return grid, items, nil
}
