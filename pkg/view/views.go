package view

import (
	"time"

	"github.com/elonfeng/aitrending/internal/store"
	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/elonfeng/aitrending/pkg/trend"
)

// DashboardView is the ranked list of a working set.
type DashboardView struct {
	Range     source.TimeRange `json:"range"`
	Sort      trend.SortMode   `json:"sort"`
	FetchedAt time.Time        `json:"fetched_at"`
	Fallback  bool             `json:"fallback"`
	Total     int              `json:"total"`
	Repos     []trend.Ranked   `json:"repos"`
}

// Dashboard ranks the whole working set.
func Dashboard(ws store.WorkingSet, st State) DashboardView {
	return DashboardView{
		Range:     ws.Range,
		Sort:      st.Sort,
		FetchedAt: ws.FetchedAt,
		Fallback:  ws.Fallback,
		Total:     len(ws.Repos),
		Repos:     trend.Top(trend.Rank(ws.Repos, st.Sort), st.Limit),
	}
}

// ExplorerView is the category sidebar plus the ranked members of the
// selected category.
type ExplorerView struct {
	Scheme      trend.Scheme     `json:"scheme"`
	Category    string           `json:"category"`
	Description string           `json:"description,omitempty"`
	Sort        trend.SortMode   `json:"sort"`
	Fallback    bool             `json:"fallback"`
	Categories  []trend.Category `json:"categories"`
	Found       int              `json:"found"`
	Repos       []trend.Ranked   `json:"repos"`
}

// Explorer aggregates the categories of the working set and ranks the
// records of the selected one against their own maxima.
func Explorer(ws store.WorkingSet, st State) ExplorerView {
	category := st.Category
	if category == "" {
		category = trend.AllCategory
	}

	filtered := trend.Filter(ws.Repos, category, st.Scheme)

	v := ExplorerView{
		Scheme:     st.Scheme,
		Category:   category,
		Sort:       st.Sort,
		Fallback:   ws.Fallback,
		Categories: trend.Categories(ws.Repos, st.Scheme),
		Found:      len(filtered),
		Repos:      trend.Top(trend.Rank(filtered, st.Sort), st.Limit),
	}
	if category == trend.AllCategory {
		v.Description, _ = trend.Describe(category)
	} else if tag, ok := trend.LookupTag(category); ok && st.Scheme == trend.SchemeTags {
		v.Description = tag.Description
	}
	return v
}

// GrowthView is the top growers list with the star history of one selected
// repository.
type GrowthView struct {
	Fallback   bool                 `json:"fallback"`
	TopGrowers []trend.Ranked       `json:"top_growers"`
	Selected   *source.Repo         `json:"selected,omitempty"`
	History    bool                 `json:"has_history"`
	Summary    *trend.GrowthSummary `json:"summary,omitempty"`
}

// Growth lists the working set by growth and describes selected. A nil
// selected picks the first record of the working set as fetched.
func Growth(ws store.WorkingSet, selected *source.Repo) GrowthView {
	v := GrowthView{
		Fallback:   ws.Fallback,
		TopGrowers: trend.Rank(ws.Repos, trend.SortTrend),
	}

	if selected == nil && len(ws.Repos) > 0 {
		first := ws.Repos[0]
		selected = &first
	}
	if selected == nil {
		return v
	}

	v.Selected = selected
	if len(selected.StarHistory) > 0 {
		sum := trend.SummarizeGrowth(selected.StarHistory)
		v.History = true
		v.Summary = &sum
	}
	return v
}
