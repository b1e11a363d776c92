package trend

import (
	"testing"

	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.FullName()
	}
	return out
}

// TestRank tests the three comparators.
func TestRank(t *testing.T) {
	t.Run("stars descending", func(t *testing.T) {
		repos := []source.Repo{{Repo: "x", Stars: 10}, {Repo: "y", Stars: 50}, {Repo: "z", Stars: 30}}
		ranked := Rank(repos, SortStars)
		assert.Equal(t, []int{50, 30, 10}, []int{ranked[0].Stars, ranked[1].Stars, ranked[2].Stars})
		assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})
	})

	t.Run("trend descending with negative growth", func(t *testing.T) {
		repos := []source.Repo{{Repo: "x", Growth: 5}, {Repo: "y", Growth: -1}, {Repo: "z", Growth: 20}}
		ranked := Rank(repos, SortTrend)
		assert.Equal(t, []int{20, 5, -1}, []int{ranked[0].Growth, ranked[1].Growth, ranked[2].Growth})
	})

	t.Run("composite favours growth", func(t *testing.T) {
		repos := []source.Repo{
			{Owner: "o", Repo: "a", Stars: 100, Growth: 10, Forks: 5, LastSeen: "2024-01-30"},
			{Owner: "o", Repo: "b", Stars: 50, Growth: 100, Forks: 1, LastSeen: "2024-01-30"},
		}
		ranked := Rank(repos, SortComposite)
		assert.Equal(t, []string{"o/b", "o/a"}, names(ranked))
		assert.InDelta(t, 0.69, ranked[0].Score, 1e-9)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		repos := []source.Repo{
			{Owner: "o", Repo: "first", Stars: 7, Growth: 3},
			{Owner: "o", Repo: "second", Stars: 7, Growth: 3},
			{Owner: "o", Repo: "third", Stars: 7, Growth: 3},
		}
		for _, mode := range AllSortModes() {
			assert.Equal(t, []string{"o/first", "o/second", "o/third"}, names(Rank(repos, mode)), mode)
		}
	})

	t.Run("input is not reordered", func(t *testing.T) {
		repos := []source.Repo{{Repo: "x", Stars: 1}, {Repo: "y", Stars: 2}}
		Rank(repos, SortStars)
		assert.Equal(t, "x", repos[0].Repo)
	})

	t.Run("empty set", func(t *testing.T) {
		assert.Empty(t, Rank(nil, SortComposite))
	})
}

// TestRankScoresAgainstRankedSet checks that filtered sets are normalized
// against their own maxima, not the unfiltered set's.
func TestRankScoresAgainstRankedSet(t *testing.T) {
	repos := fixtureRepos()
	filtered := Filter(repos, "rag", SchemeTags)

	ranked := Rank(filtered, SortComposite)
	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.LessOrEqual(t, r.Score, 1.0)
		assert.GreaterOrEqual(t, r.Score, 0.0)
	}
	// c/serve holds both maxima of the filtered set: growth 20 and stars 30.
	assert.Equal(t, "c/serve", ranked[0].FullName())
	assert.InDelta(t, WeightStars+WeightGrowth, ranked[0].Score, 1e-9)
}

func TestParseSortMode(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected SortMode
	}{
		{"", SortComposite},
		{"composite", SortComposite},
		{"TREND", SortTrend},
		{" stars ", SortStars},
	} {
		m, err := ParseSortMode(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, m)
	}

	_, err := ParseSortMode("forks")
	assert.Error(t, err)
}

func TestTop(t *testing.T) {
	ranked := Rank(fixtureRepos(), SortStars)
	assert.Len(t, Top(ranked, 2), 2)
	assert.Len(t, Top(ranked, 0), 4)
	assert.Len(t, Top(ranked, 10), 4)
}
