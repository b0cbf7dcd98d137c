package search

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// DefaultThreshold admits reasonably close matches only
const DefaultThreshold = 0.4

// Key is a record field taking part in matching, with its relative weight
type Key struct {
	Name   string
	Weight float64
	Value  func(Record) string
}

// DefaultKeys weights title over description over content over category
var DefaultKeys = []Key{
	{Name: "title", Weight: 1.0, Value: func(r Record) string { return r.Title }},
	{Name: "description", Weight: 0.7, Value: func(r Record) string { return r.Description }},
	{Name: "content", Weight: 0.5, Value: func(r Record) string { return r.Content }},
	{Name: "category", Weight: 0.3, Value: func(r Record) string { return r.Category }},
}

// weightPenalty is added to a field score for a weight of 0
const weightPenalty = 0.2

// Matcher scores records against a query using token-level edit distance
type Matcher struct {
	Threshold float64
	Keys      []Key
}

// NewMatcher returns a matcher over DefaultKeys. A threshold of 0 accepts exact
// tokens only; values outside [0,1] fall back to DefaultThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{Threshold: threshold, Keys: DefaultKeys}
}

// Score returns the best weighted score of r for the query tokens and whether any field qualified
func (m *Matcher) Score(queryTokens []string, r Record) (float64, bool) {
	if len(queryTokens) == 0 {
		return 0, false
	}

	best, matched := 1.0+weightPenalty, false
	for _, key := range m.Keys {
		fieldTokens := tokenize(key.Value(r))
		if len(fieldTokens) == 0 {
			continue
		}
		score := fieldScore(queryTokens, fieldTokens)
		if score > m.Threshold {
			continue
		}
		adjusted := score + (1-key.Weight)*weightPenalty
		if adjusted < best {
			best = adjusted
		}
		matched = true
	}
	return best, matched
}

// fieldScore averages, over query tokens, the distance to the closest field token
func fieldScore(queryTokens, fieldTokens []string) float64 {
	total := 0.0
	for _, q := range queryTokens {
		closest := 1.0
		for _, t := range fieldTokens {
			if s := tokenScore(q, t); s < closest {
				closest = s
				if closest == 0 {
					break
				}
			}
		}
		total += closest
	}
	return total / float64(len(queryTokens))
}

// tokenScore is 0 for equal tokens, small when q is contained in t, and the
// normalized edit distance otherwise
func tokenScore(q, t string) float64 {
	if q == t {
		return 0
	}
	qLen, tLen := len([]rune(q)), len([]rune(t))
	if strings.Contains(t, q) {
		return 0.1 * (1 - float64(qLen)/float64(tLen))
	}

	distance := levenshtein.Distance(q, t, nil)
	if tLen > qLen {
		// typo in a prefix of a longer word, e.g. "raport" against "reports"
		if d := levenshtein.Distance(q, string([]rune(t)[:qLen]), nil); d < distance {
			distance = d
		}
	}
	score := float64(distance) / float64(qLen)
	if score > 1 {
		return 1
	}
	return score
}

// tokenize lowercases s and splits it on anything that is not a letter or digit
func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
