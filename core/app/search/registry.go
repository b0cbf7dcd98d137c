package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"intranet/core/logger"
)

// DefaultSuggestionLimit is used when Suggestions is called with limit <= 0
const DefaultSuggestionLimit = 5

// Registry maps widget names to record producers and searches their union.
// The candidate set is rebuilt from the producers on every call.
type Registry struct {
	mu        sync.RWMutex
	producers map[string]Producer
	matcher   *Matcher
	logger    logger.Logger
}

// NewRegistry creates an empty registry using DefaultThreshold
func NewRegistry(log logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		producers: make(map[string]Producer),
		matcher:   NewMatcher(DefaultThreshold),
		logger:    log,
	}
}

// SetThreshold changes how close a field must be to qualify. Lower is stricter.
func (r *Registry) SetThreshold(threshold float64) {
	r.mu.Lock()
	r.matcher = NewMatcher(threshold)
	r.mu.Unlock()
}

// Threshold returns the current match threshold
func (r *Registry) Threshold() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matcher.Threshold
}

// Register sets the producer for widget, replacing any previous one
func (r *Registry) Register(widget string, producer Producer) {
	if producer == nil {
		return
	}
	r.mu.Lock()
	r.producers[widget] = producer
	r.mu.Unlock()
	r.logger.Debug("search source registered", logger.String("widget", widget))
}

// Unregister removes the producer for widget; unknown names are ignored
func (r *Registry) Unregister(widget string) {
	r.mu.Lock()
	_, existed := r.producers[widget]
	delete(r.producers, widget)
	r.mu.Unlock()
	if existed {
		r.logger.Debug("search source unregistered", logger.String("widget", widget))
	}
}

// Has reports whether widget has a producer
func (r *Registry) Has(widget string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.producers[widget]
	return ok
}

// Names returns the registered widget names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.producers))
	for name := range r.producers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search returns records matching query, best first. An empty query yields no results.
// limit <= 0 means no limit.
func (r *Registry) Search(query string, filters *Filters, limit int) []Record {
	matches := r.Matches(query, filters, limit)
	records := make([]Record, len(matches))
	for i, m := range matches {
		records[i] = m.Record
	}
	return records
}

// Matches is Search with scores
func (r *Registry) Matches(query string, filters *Filters, limit int) []Match {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return []Match{}
	}

	r.mu.RLock()
	matcher := r.matcher
	r.mu.RUnlock()

	matches := []Match{}
	for _, record := range r.collect() {
		if score, ok := matcher.Score(queryTokens, record); ok {
			matches = append(matches, Match{Record: record, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})

	if !filters.Empty() {
		filtered := matches[:0]
		for _, m := range matches {
			if filters.Allows(m.Record) {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Suggestions returns distinct lowercase words longer than two characters that
// start with prefix, drawn from titles, descriptions and categories
func (r *Registry) Suggestions(prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	seen := make(map[string]struct{})
	suggestions := []string{}
	for _, record := range r.collect() {
		for _, field := range []string{record.Title, record.Description, record.Category} {
			for _, token := range tokenize(field) {
				if len([]rune(token)) <= 2 || !strings.HasPrefix(token, prefix) {
					continue
				}
				if _, dup := seen[token]; dup {
					continue
				}
				seen[token] = struct{}{}
				suggestions = append(suggestions, token)
				if len(suggestions) == limit {
					return suggestions
				}
			}
		}
	}
	return suggestions
}

// Select finds record id of widget and runs its action. It reports false when
// the widget or record is gone.
func (r *Registry) Select(widget, id string) (Record, bool) {
	r.mu.RLock()
	producer, ok := r.producers[widget]
	r.mu.RUnlock()
	if !ok {
		return Record{}, false
	}

	for _, record := range r.produce(widget, producer) {
		if record.ID != id {
			continue
		}
		if record.Action != nil {
			r.invoke(record)
		}
		return record, true
	}
	return Record{}, false
}

// collect snapshots the producers and concatenates their output in name order
func (r *Registry) collect() []Record {
	r.mu.RLock()
	names := make([]string, 0, len(r.producers))
	snapshot := make(map[string]Producer, len(r.producers))
	for name, producer := range r.producers {
		names = append(names, name)
		snapshot[name] = producer
	}
	r.mu.RUnlock()
	sort.Strings(names)

	var records []Record
	for _, name := range names {
		records = append(records, r.produce(name, snapshot[name])...)
	}
	return records
}

// produce runs one producer, isolating its errors and panics
func (r *Registry) produce(widget string, producer Producer) (records []Record) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("search producer panicked",
				logger.String("widget", widget),
				logger.String("panic", fmt.Sprint(recovered)))
			records = nil
		}
	}()

	records, err := producer()
	if err != nil {
		r.logger.Error("search producer failed", logger.String("widget", widget), logger.Err(err))
		return nil
	}
	for i := range records {
		if records[i].Widget == "" {
			records[i].Widget = widget
		}
	}
	return records
}

func (r *Registry) invoke(record Record) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("search action panicked",
				logger.String("widget", record.Widget),
				logger.String("id", record.ID),
				logger.String("panic", fmt.Sprint(recovered)))
		}
	}()
	record.Action()
}
