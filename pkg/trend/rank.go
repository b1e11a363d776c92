package trend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elonfeng/aitrending/pkg/source"
)

// SortMode selects the ranking comparator.
type SortMode string

const (
	SortComposite SortMode = "composite"
	SortTrend     SortMode = "trend"
	SortStars     SortMode = "stars"
)

// AllSortModes returns the sort modes in display order.
func AllSortModes() []SortMode {
	return []SortMode{SortComposite, SortTrend, SortStars}
}

// ParseSortMode validates a sort mode string. Empty means composite.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortComposite, nil
	case SortComposite, SortTrend, SortStars:
		return m, nil
	}
	return "", fmt.Errorf("unknown sort mode %q (want composite, trend or stars)", s)
}

// Ranked is a record with its position and composite score.
type Ranked struct {
	source.Repo
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// Rank orders a copy of repos by mode, descending. Ties keep input order.
// Composite scores are always computed against maxima of exactly this set.
func Rank(repos []source.Repo, mode SortMode) []Ranked {
	m := Aggregate(repos)

	ranked := make([]Ranked, len(repos))
	for i, r := range repos {
		ranked[i] = Ranked{Repo: r, Score: Score(r, m)}
	}

	less := comparator(ranked, mode)
	sort.SliceStable(ranked, less)

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func comparator(ranked []Ranked, mode SortMode) func(i, j int) bool {
	switch mode {
	case SortTrend:
		return func(i, j int) bool { return ranked[i].Growth > ranked[j].Growth }
	case SortStars:
		return func(i, j int) bool { return ranked[i].Stars > ranked[j].Stars }
	default:
		return func(i, j int) bool { return ranked[i].Score > ranked[j].Score }
	}
}

// Top returns at most limit entries; limit <= 0 means all.
func Top(ranked []Ranked, limit int) []Ranked {
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
