package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"intranet/core/emitter"
	"intranet/core/logger"

	"github.com/gertd/go-pluralize"
)

const (
	SearchEvent = "search.query"
	SelectEvent = "search.select"
)

var (
	ErrEmptyQuery     = errors.New("search query is empty")
	ErrRecordNotFound = errors.New("search record not found")
	ErrInvalidDate    = errors.New("invalid date")
	ErrUnknownType    = errors.New("unknown record type")
)

type SearchService struct {
	Emitter      *emitter.Emitter
	Logger       logger.Logger
	Registry     *Registry
	DefaultLimit int
	pluralize    *pluralize.Client
}

func NewSearchService(emitter *emitter.Emitter, logger logger.Logger, registry *Registry, defaultLimit int) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &SearchService{
		Emitter:      emitter,
		Logger:       logger,
		Registry:     registry,
		DefaultLimit: defaultLimit,
		pluralize:    pluralize.NewClient(),
	}
}

// GlobalSearch runs req against every registered widget
func (s *SearchService) GlobalSearch(req *SearchRequest) (*SearchResponse, error) {
	start := time.Now()

	filters, err := s.buildFilters(req)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.DefaultLimit
	}

	matches := s.Registry.Matches(req.Query, filters, limit)

	response := &SearchResponse{
		Query:   req.Query,
		Results: make([]Result, 0, len(matches)),
		Widgets: []string{},
	}
	seen := make(map[string]bool)
	for _, m := range matches {
		response.Results = append(response.Results, Result{
			Record:     m.Record,
			Score:      m.Score,
			Selectable: m.Record.Selectable(),
		})
		if !seen[m.Record.Widget] {
			seen[m.Record.Widget] = true
			response.Widgets = append(response.Widgets, m.Record.Widget)
		}
	}
	response.Total = len(response.Results)
	response.Summary = s.summarize(response.Total, len(response.Widgets))
	response.Duration = time.Since(start).String()

	s.Emitter.Emit(SearchEvent, response)
	return response, nil
}

// Suggest returns word completions for prefix
func (s *SearchService) Suggest(prefix string, limit int) *SuggestionsResponse {
	return &SuggestionsResponse{
		Prefix:      prefix,
		Suggestions: s.Registry.Suggestions(prefix, limit),
	}
}

// Select activates a record by widget and id
func (s *SearchService) Select(req *SelectRequest) (*SelectResponse, error) {
	record, ok := s.Registry.Select(req.Widget, req.Id)
	if !ok {
		return nil, ErrRecordNotFound
	}
	s.Logger.Info("search record selected",
		logger.String("widget", record.Widget),
		logger.String("id", record.ID))
	s.Emitter.Emit(SelectEvent, record)
	return &SelectResponse{Record: record, Invoked: record.Selectable()}, nil
}

// Sources lists registered widgets
func (s *SearchService) Sources() []Source {
	names := s.Registry.Names()
	sources := make([]Source, len(names))
	for i, name := range names {
		sources[i] = Source{Widget: name}
	}
	return sources
}

func (s *SearchService) buildFilters(req *SearchRequest) (*Filters, error) {
	filters := &Filters{Widgets: req.Widgets}
	for _, t := range req.Types {
		recordType := RecordType(strings.ToLower(strings.TrimSpace(t)))
		if !recordType.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
		}
		filters.Types = append(filters.Types, recordType)
	}

	if req.From != "" {
		from, ok := toTime(req.From)
		if !ok {
			return nil, fmt.Errorf("%w: from=%s", ErrInvalidDate, req.From)
		}
		filters.DateFrom = &from
	}
	if req.To != "" {
		to, ok := toTime(req.To)
		if !ok {
			return nil, fmt.Errorf("%w: to=%s", ErrInvalidDate, req.To)
		}
		// a bare date covers the whole day
		if len(req.To) == len("2006-01-02") {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filters.DateTo = &to
	}
	return filters, nil
}

func (s *SearchService) summarize(results, widgets int) string {
	if results == 0 {
		return "No results"
	}
	return fmt.Sprintf("%s across %s",
		s.pluralize.Pluralize("result", results, true),
		s.pluralize.Pluralize("source", widgets, true))
}
