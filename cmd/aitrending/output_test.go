package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/elonfeng/aitrending/internal/store"
	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/elonfeng/aitrending/pkg/trend"
	"github.com/elonfeng/aitrending/pkg/view"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestHeatLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1, hotValue},
		{0.6, hotValue},
		{0.59, warmValue},
		{0.3, warmValue},
		{0.1, coolValue},
		{0, coolValue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, heatLabel(tt.score), "score %v", tt.score)
	}
}

func TestFormatGrowth(t *testing.T) {
	assert.Equal(t, "+42", formatGrowth(42))
	assert.Equal(t, "-3", formatGrowth(-3))
	assert.Equal(t, "0", formatGrowth(0))
}

func TestSplitFullName(t *testing.T) {
	owner, repo, err := splitFullName(" acme/agent ")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "agent", repo)

	owner, repo, err = splitFullName("")
	require.NoError(t, err)
	assert.Empty(t, owner+repo)

	for _, bad := range []string{"acme", "/agent", "acme/", "a/b/c"} {
		_, _, err := splitFullName(bad)
		assert.Error(t, err, bad)
	}
}

func TestWriteDashboard(t *testing.T) {
	repos := []source.Repo{
		{Owner: "a", Repo: "hot", Language: "Go", Stars: 100, Forks: 10, Growth: 50},
		{Owner: "b", Repo: "cold", Stars: 1, Forks: 0, Growth: -2},
	}
	v := view.DashboardView{
		Range:    source.RangeDaily,
		Sort:     trend.SortComposite,
		Fallback: true,
		Total:    2,
		Repos:    trend.Rank(repos, trend.SortComposite),
	}

	var buf bytes.Buffer
	require.NoError(t, writeDashboard(&buf, v))

	out := buf.String()
	assert.Contains(t, out, "data source unavailable")
	assert.Contains(t, out, "a/hot")
	assert.Contains(t, out, "+50")
	assert.Contains(t, out, "-2")
	assert.Contains(t, out, hotValue)
	assert.Contains(t, out, "Showing 2 of 2 repositories (daily, sorted by composite)")
}

func TestWriteExplorer(t *testing.T) {
	repos := []source.Repo{{Owner: "a", Repo: "rag", Tags: []string{"RAG"}}}
	st := view.DefaultState().WithCategory("RAG")

	var buf bytes.Buffer
	require.NoError(t, writeExplorer(&buf, view.Explorer(store.WorkingSet{Range: source.RangeDaily, Repos: repos}, st)))

	out := buf.String()
	assert.Contains(t, out, "> RAG")
	assert.Contains(t, out, "Found 1 repositories")
}

func TestTaxonomyCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"taxonomy", "--json"})

	require.NoError(t, cmd.Execute())

	var tags []trend.Tag
	require.NoError(t, json.Unmarshal(buf.Bytes(), &tags))
	assert.Len(t, tags, 24)
	assert.Equal(t, "Foundation Model", tags[0].Name)
}

func TestGrowthCommandRejectsBadArgs(t *testing.T) {
	for _, args := range [][]string{
		{"growth", "not-a-repo"},
		{"growth", "a/b", "c/d"},
		{"dashboard", "extra"},
	} {
		cmd := rootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), args)
	}
}
