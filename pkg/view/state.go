// Package view builds the dashboard, category explorer and growth views
// from a working set, sharing one ranking implementation.
package view

import (
	"fmt"
	"strings"

	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/elonfeng/aitrending/pkg/trend"
)

// State is the selection a view is rendered with. It is a plain value:
// changing a selection produces a new State.
type State struct {
	Range    source.TimeRange `json:"range"`
	Sort     trend.SortMode   `json:"sort"`
	Category string           `json:"category"`
	Scheme   trend.Scheme     `json:"scheme"`
	Limit    int              `json:"limit,omitempty"`
}

// DefaultState is what every view starts from.
func DefaultState() State {
	return State{
		Range:    source.RangeDaily,
		Sort:     trend.SortComposite,
		Category: trend.AllCategory,
		Scheme:   trend.SchemeTags,
	}
}

// ParseState validates raw selections on top of base. Empty strings and a
// nil limit keep the base value. A limit of 0 lists everything; a negative
// one is rejected.
func ParseState(base State, rangeStr, sortStr, schemeStr, category string, limit *int) (State, error) {
	st := base
	if rangeStr != "" {
		r, err := source.ParseTimeRange(rangeStr)
		if err != nil {
			return State{}, err
		}
		st.Range = r
	}
	if sortStr != "" {
		m, err := trend.ParseSortMode(sortStr)
		if err != nil {
			return State{}, err
		}
		st.Sort = m
	}
	if schemeStr != "" {
		s, err := trend.ParseScheme(schemeStr)
		if err != nil {
			return State{}, err
		}
		st.Scheme = s
	}
	if c := strings.TrimSpace(category); c != "" {
		st.Category = c
	}
	if limit != nil {
		if *limit < 0 {
			return State{}, fmt.Errorf("limit must not be negative, got %d", *limit)
		}
		st.Limit = *limit
	}
	return st, nil
}

// WithCategory returns a copy of s selecting category.
func (s State) WithCategory(category string) State {
	s.Category = category
	return s
}

// WithSort returns a copy of s using mode.
func (s State) WithSort(mode trend.SortMode) State {
	s.Sort = mode
	return s
}
