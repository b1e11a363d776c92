package trend

import (
	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/montanaflynn/stats"
)

// milestoneThresholds are the star counts reported as milestones.
var milestoneThresholds = []int{100, 500, 1000, 5000, 10000, 50000, 100000}

// Milestone is the first sample at which a star threshold was reached.
type Milestone struct {
	Stars int    `json:"stars"`
	Date  string `json:"date"`
}

// GrowthSummary describes a star history series.
type GrowthSummary struct {
	Samples     int         `json:"samples"`
	FirstDate   string      `json:"first_date,omitempty"`
	LastDate    string      `json:"last_date,omitempty"`
	FirstCount  int         `json:"first_count"`
	LastCount   int         `json:"last_count"`
	Gain        int         `json:"gain"`
	MeanDelta   float64     `json:"mean_delta"`
	MedianDelta float64     `json:"median_delta"`
	MaxDelta    float64     `json:"max_delta"`
	Milestones  []Milestone `json:"milestones"`
}

// SummarizeGrowth computes gain, per-sample delta statistics and milestones
// of a chronological star history. An empty history yields a zero summary.
func SummarizeGrowth(history []source.StarHistoryPoint) GrowthSummary {
	sum := GrowthSummary{Samples: len(history), Milestones: []Milestone{}}
	if len(history) == 0 {
		return sum
	}

	first, last := history[0], history[len(history)-1]
	sum.FirstDate, sum.LastDate = first.Date, last.Date
	sum.FirstCount, sum.LastCount = first.Count, last.Count
	sum.Gain = last.Count - first.Count

	if len(history) > 1 {
		deltas := make(stats.Float64Data, 0, len(history)-1)
		for i := 1; i < len(history); i++ {
			deltas = append(deltas, float64(history[i].Count-history[i-1].Count))
		}
		// Errors only signal empty input, which is excluded above.
		sum.MeanDelta, _ = stats.Mean(deltas)
		sum.MedianDelta, _ = stats.Median(deltas)
		sum.MaxDelta, _ = stats.Max(deltas)
	}

	next := 0
	for _, p := range history {
		for next < len(milestoneThresholds) && p.Count >= milestoneThresholds[next] {
			sum.Milestones = append(sum.Milestones, Milestone{Stars: milestoneThresholds[next], Date: p.Date})
			next++
		}
	}
	return sum
}
