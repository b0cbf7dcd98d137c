package actions

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

var initAlgo sync.Once

// Ranked is an action with its palette score; higher is better
type Ranked struct {
	Action
	Score int `json:"score"`
}

// Rank orders actions by fzf match quality against query. Actions that do not
// match at all are dropped; an empty query keeps the catalog order.
func Rank(items []Action, query string) []Ranked {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Ranked, len(items))
		for i, item := range items {
			out[i] = Ranked{Action: item}
		}
		return out
	}

	initAlgo.Do(func() { algo.Init("default") })
	slab := util.MakeSlab(100*1024, 2048)
	pattern := []rune(strings.ToLower(query))

	var out []Ranked
	for _, item := range items {
		// title hits count double
		best := 2 * match(item.Title, pattern, slab)
		for _, text := range append([]string{item.Description, item.Category}, item.Keywords...) {
			best = max(best, match(text, pattern, slab))
		}
		if best > 0 {
			out = append(out, Ranked{Action: item, Score: best})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func match(text string, pattern []rune, slab *util.Slab) int {
	chars := util.ToChars([]byte(text))
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
	if result.Start < 0 {
		return 0
	}
	return result.Score
}
