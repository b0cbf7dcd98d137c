package search

// SearchResponse is the body of GET /search
type SearchResponse struct {
	Query    string   `json:"query"`    // Original search query
	Total    int      `json:"total"`    // Number of returned results
	Results  []Result `json:"results"`  // Results, best match first
	Widgets  []string `json:"widgets"`  // Widgets that contributed results
	Summary  string   `json:"summary"`  // Human readable result count
	Duration string   `json:"duration"` // Search duration
}

// Result is a record with its match score
type Result struct {
	Record
	Score      float64 `json:"score"`
	Selectable bool    `json:"selectable"`
}

// SearchRequest carries the parsed query parameters of GET /search
type SearchRequest struct {
	Query   string   `form:"q" example:"book room"`      // Search query
	Types   []string `form:"types" example:"task,event"` // Comma-separated record types
	Widgets []string `form:"widgets" example:"tasks"`    // Comma-separated widget names
	From    string   `form:"from" example:"2024-01-01"`  // Earliest metadata date
	To      string   `form:"to" example:"2024-12-31"`    // Latest metadata date
	Limit   int      `form:"limit" example:"20"`         // Maximum results
}

// SelectRequest identifies the record to activate
type SelectRequest struct {
	Widget string `json:"widget" binding:"required" example:"quickActions"`
	Id     string `json:"id" binding:"required" example:"book-room"`
}

// SelectResponse echoes the selected record
type SelectResponse struct {
	Record  Record `json:"record"`
	Invoked bool   `json:"invoked"`
}

// SuggestionsResponse is the body of GET /search/suggestions
type SuggestionsResponse struct {
	Prefix      string   `json:"prefix"`
	Suggestions []string `json:"suggestions"`
}

// Source describes a registered widget
type Source struct {
	Widget string `json:"widget"`
}
