package trend

import (
	"math"
	"strings"
	"time"

	"github.com/elonfeng/aitrending/pkg/source"
)

// Composite score weights. Growth dominates: this is a trending surface,
// not a popularity ranking.
const (
	WeightRecency = 0.10
	WeightStars   = 0.30
	WeightGrowth  = 0.40
	WeightForks   = 0.20
)

// lastSeenLayouts are tried in order; zone-less layouts are read as UTC.
var lastSeenLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Recency returns the last-seen instant of a repository in epoch
// milliseconds, or 0 when it is missing or cannot be parsed.
func Recency(r source.Repo) float64 {
	s := strings.TrimSpace(r.LastSeen)
	if s == "" {
		return 0
	}
	for _, layout := range lastSeenLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		ms := float64(t.UnixMilli())
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return 0
		}
		return ms
	}
	return 0
}

// Maxima holds the normalization denominators of a working set.
// Every field is at least 1.
type Maxima struct {
	Stars   float64 `json:"stars"`
	Growth  float64 `json:"growth"`
	Forks   float64 `json:"forks"`
	Recency float64 `json:"recency"`
}

// Aggregate computes the per-metric maxima over repos, seeded with 1 so the
// scorer never divides by zero, even for an empty set.
func Aggregate(repos []source.Repo) Maxima {
	m := Maxima{Stars: 1, Growth: 1, Forks: 1, Recency: 1}
	for _, r := range repos {
		m.Stars = math.Max(m.Stars, float64(r.Stars))
		m.Growth = math.Max(m.Growth, float64(r.Growth))
		m.Forks = math.Max(m.Forks, float64(r.Forks))
		m.Recency = math.Max(m.Recency, Recency(r))
	}
	return m
}

// Score returns the weighted composite of the four normalized metrics.
// m must be computed over the same set r is ranked in; the result is in
// [0, 1] for non-negative metrics.
func Score(r source.Repo, m Maxima) float64 {
	return WeightRecency*(Recency(r)/m.Recency) +
		WeightStars*(float64(r.Stars)/m.Stars) +
		WeightGrowth*(float64(r.Growth)/m.Growth) +
		WeightForks*(float64(r.Forks)/m.Forks)
}
