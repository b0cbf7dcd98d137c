package dashboard

import (
	"errors"
	"sync"

	"intranet/app/models"
	"intranet/core/app/activities"
	"intranet/core/app/search"
	"intranet/core/emitter"
	"intranet/core/logger"

	"gorm.io/gorm"
)

const (
	SwapEvent       = "dashboard.swapped"
	VisibilityEvent = "dashboard.visibility"
	ResetEvent      = "dashboard.reset"
)

var ErrWidgetNotFound = errors.New("widget not found")

// SwapPayload is emitted after two widgets exchanged positions
type SwapPayload struct {
	DraggedId string `json:"dragged_id"`
	TargetId  string `json:"target_id"`
}

func (p SwapPayload) ActivityEntry() activities.Entry {
	return activities.Entry{EntityId: p.DraggedId, Description: "Swapped widgets " + p.DraggedId + " and " + p.TargetId}
}

// VisibilityPayload is emitted when a widget is shown or hidden
type VisibilityPayload struct {
	WidgetId string `json:"widget_id"`
	Visible  bool   `json:"visible"`
}

type DashboardService struct {
	DB       *gorm.DB
	Emitter  *emitter.Emitter
	Logger   logger.Logger
	Registry *search.Registry
	Grid     Grid

	mu      sync.Mutex
	sources map[string]search.Producer
}

func NewDashboardService(db *gorm.DB, emitter *emitter.Emitter, logger logger.Logger, registry *search.Registry, sources map[string]search.Producer) *DashboardService {
	if sources == nil {
		sources = make(map[string]search.Producer)
	}
	return &DashboardService{
		DB:       db,
		Emitter:  emitter,
		Logger:   logger,
		Registry: registry,
		Grid:     DefaultGrid,
		sources:  sources,
	}
}

// AddSource makes producer available to widgets whose kind names source.
// It takes effect on the next Mount, visibility change or reset.
func (s *DashboardService) AddSource(source string, producer search.Producer) {
	s.mu.Lock()
	s.sources[source] = producer
	s.mu.Unlock()
}

// Seed stores the default layout when no widgets are persisted. Grid is
// assigned here only, before the service handles requests.
func (s *DashboardService) Seed() error {
	grid, _, err := DefaultLayout()
	if err != nil {
		return err
	}
	s.Grid = grid

	var count int64
	if err := s.DB.Model(&models.DashboardWidget{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.writeDefaults(s.DB)
}

func (s *DashboardService) writeDefaults(tx *gorm.DB) error {
	_, items, err := DefaultLayout()
	if err != nil {
		return err
	}

	rows := make([]models.DashboardWidget, len(items))
	for i, item := range items {
		rows[i] = toModel(item, i)
	}
	return tx.Create(&rows).Error
}

// Layout returns every widget in display order
func (s *DashboardService) Layout() ([]Item, error) {
	var rows []models.DashboardWidget
	if err := s.DB.Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		s.Logger.Error("failed to load dashboard layout", logger.Err(err))
		return nil, err
	}
	items := make([]Item, len(rows))
	for i, row := range rows {
		items[i] = fromModel(row)
	}
	return items, nil
}

// Placements projects the visible widgets onto a container of the given width
func (s *DashboardService) Placements(width float64) (*LayoutResponse, error) {
	items, err := s.Layout()
	if err != nil {
		return nil, err
	}
	response := &LayoutResponse{Grid: s.Grid, Width: width, Widgets: []PlacedWidget{}}
	for _, item := range items {
		if !item.Visible {
			continue
		}
		response.Widgets = append(response.Widgets, PlacedWidget{
			Item:      item,
			Placement: s.Grid.Project(item.Position, width),
		})
	}
	return response, nil
}

// Drop swaps two widgets and persists the result. Invalid drops leave the layout untouched.
func (s *DashboardService) Drop(req *DropRequest) (*DropResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Layout()
	if err != nil {
		return nil, err
	}
	updated, changed := Drop(items, req.DraggedId, req.TargetId)
	if !changed {
		return &DropResponse{Widgets: updated, Changed: false}, nil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range updated {
			if item.ID != req.DraggedId && item.ID != req.TargetId {
				continue
			}
			if err := tx.Model(&models.DashboardWidget{}).
				Where("widget_key = ?", item.ID).
				Updates(map[string]any{
					"x": item.Position.X,
					"y": item.Position.Y,
					"w": item.Position.W,
					"h": item.Position.H,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.Logger.Error("failed to persist widget swap",
			logger.String("dragged", req.DraggedId),
			logger.String("target", req.TargetId),
			logger.Err(err))
		return nil, err
	}

	s.Emitter.Emit(SwapEvent, SwapPayload{DraggedId: req.DraggedId, TargetId: req.TargetId})
	return &DropResponse{Widgets: updated, Changed: true}, nil
}

// SetVisibility shows or hides a widget and mounts or unmounts its search source
func (s *DashboardService) SetVisibility(id string, visible bool) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row models.DashboardWidget
	if err := s.DB.Where("widget_key = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWidgetNotFound
		}
		return nil, err
	}
	if err := s.DB.Model(&row).Update("visible", visible).Error; err != nil {
		return nil, err
	}
	row.Visible = visible

	if err := s.syncSources(); err != nil {
		return nil, err
	}

	item := fromModel(row)
	s.Emitter.Emit(VisibilityEvent, VisibilityPayload{WidgetId: id, Visible: visible})
	return &item, nil
}

// Reset restores the default layout
func (s *DashboardService) Reset() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.DashboardWidget{}).Error; err != nil {
			return err
		}
		return s.writeDefaults(tx)
	})
	if err != nil {
		return nil, err
	}
	if err := s.syncSources(); err != nil {
		return nil, err
	}

	s.Emitter.Emit(ResetEvent, nil)
	return s.Layout()
}

// Mount registers the search sources of every visible widget
func (s *DashboardService) Mount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncSources()
}

// syncSources registers producers of visible widgets and unregisters the rest.
// Callers hold s.mu.
func (s *DashboardService) syncSources() error {
	if s.Registry == nil {
		return nil
	}
	items, err := s.Layout()
	if err != nil {
		return err
	}

	mounted := make(map[string]bool)
	for _, item := range items {
		info, ok := Lookup(item.Kind)
		if !ok || info.SearchSource == "" || !item.Visible {
			continue
		}
		producer, ok := s.sources[info.SearchSource]
		if !ok {
			continue
		}
		mounted[info.SearchSource] = true
		s.Registry.Register(info.SearchSource, producer)
	}
	for source := range s.sources {
		if !mounted[source] {
			s.Registry.Unregister(source)
		}
	}
	return nil
}

func toModel(item Item, order int) models.DashboardWidget {
	return models.DashboardWidget{
		WidgetKey: item.ID,
		Kind:      string(item.Kind),
		Title:     item.Title,
		X:         item.Position.X,
		Y:         item.Position.Y,
		W:         item.Position.W,
		H:         item.Position.H,
		Visible:   item.Visible,
		SortOrder: order,
	}
}

func fromModel(row models.DashboardWidget) Item {
	return Item{
		ID:       row.WidgetKey,
		Kind:     Kind(row.Kind),
		Title:    row.Title,
		Position: Rect{X: row.X, Y: row.Y, W: row.W, H: row.H},
		Visible:  row.Visible,
	}
}
