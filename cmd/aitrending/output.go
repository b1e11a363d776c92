package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/elonfeng/aitrending/pkg/trend"
	"github.com/elonfeng/aitrending/pkg/view"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Heat labels for composite scores.
const (
	hotValue  = "Hot"
	warmValue = "Warm"
	coolValue = "Cool"
)

var (
	hotColor     = color.New(color.FgRed, color.Bold)
	warmColor    = color.New(color.FgYellow)
	coolColor    = color.New(color.FgCyan)
	gainColor    = color.New(color.FgGreen)
	lossColor    = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow, color.Bold)
)

// heatLabel buckets a composite score in [0, 1].
func heatLabel(score float64) string {
	switch {
	case score >= 0.6:
		return hotValue
	case score >= 0.3:
		return warmValue
	default:
		return coolValue
	}
}

func colorHeatLabel(score float64) string {
	text := heatLabel(score)
	switch text {
	case hotValue:
		return hotColor.Sprint(text)
	case warmValue:
		return warmColor.Sprint(text)
	default:
		return coolColor.Sprint(text)
	}
}

func formatGrowth(growth int) string {
	switch {
	case growth > 0:
		return gainColor.Sprintf("+%d", growth)
	case growth < 0:
		return lossColor.Sprintf("%d", growth)
	default:
		return "0"
	}
}

func writeFallbackNotice(w io.Writer, fallback bool) error {
	if !fallback {
		return nil
	}
	_, err := warningColor.Fprintln(w, "data source unavailable, showing built-in sample data")
	return err
}

func writeRankedTable(w io.Writer, repos []trend.Ranked) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Repository", "Language", "Stars", "Forks", "Growth", "Score", "Heat"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range repos {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			r.FullName(),
			r.Language,
			strconv.Itoa(r.Stars),
			strconv.Itoa(r.Forks),
			formatGrowth(r.Growth),
			strconv.FormatFloat(r.Score, 'f', 3, 64),
			colorHeatLabel(r.Score),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeDashboard(w io.Writer, v view.DashboardView) error {
	if err := writeFallbackNotice(w, v.Fallback); err != nil {
		return err
	}
	if err := writeRankedTable(w, v.Repos); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d repositories (%s, sorted by %s)\n", len(v.Repos), v.Total, v.Range, v.Sort)
	return err
}

func writeExplorer(w io.Writer, v view.ExplorerView) error {
	if err := writeFallbackNotice(w, v.Fallback); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Count", "Description"})

	var data [][]string
	for _, c := range v.Categories {
		name := c.Name
		if trend.Normalize(c.Name) == trend.Normalize(v.Category) {
			name = "> " + name
		}
		data = append(data, []string{name, strconv.Itoa(c.Count), c.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_ = table.Close()

	header := v.Category
	if v.Description != "" {
		header += ": " + v.Description
	}
	if _, err := fmt.Fprintf(w, "\n%s\nFound %d repositories\n", header, v.Found); err != nil {
		return err
	}
	return writeRankedTable(w, v.Repos)
}

func writeGrowth(w io.Writer, r growthReport) error {
	if err := writeFallbackNotice(w, r.Fallback); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Top Growers"); err != nil {
		return err
	}
	if err := writeRankedTable(w, r.TopGrowers); err != nil {
		return err
	}

	if r.Selected != nil {
		if _, err := fmt.Fprintf(w, "\n%s (%d stars)\n", r.Selected.FullName(), r.Selected.Stars); err != nil {
			return err
		}
		if !r.History {
			if _, err := fmt.Fprintln(w, "No star history available"); err != nil {
				return err
			}
		} else if err := writeHistory(w, r); err != nil {
			return err
		}
	}

	if len(r.Details) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"Repository", "Samples", "Gain", "Mean Δ", "Median Δ", "Max Δ"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range r.Details {
		data = append(data, []string{
			d.Repo.FullName(),
			strconv.Itoa(d.Summary.Samples),
			formatGrowth(d.Summary.Gain),
			strconv.FormatFloat(d.Summary.MeanDelta, 'f', 1, 64),
			strconv.FormatFloat(d.Summary.MedianDelta, 'f', 1, 64),
			strconv.FormatFloat(d.Summary.MaxDelta, 'f', 0, 64),
		})
	}
	if _, err := fmt.Fprintln(w, "\nStar history of top growers"); err != nil {
		return err
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeHistory(w io.Writer, r growthReport) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"Date", "Stars"})

	var data [][]string
	for _, p := range r.Selected.StarHistory {
		data = append(data, []string{p.Date, strconv.Itoa(p.Count)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := r.Summary
	if _, err := fmt.Fprintf(w, "Gained %s stars from %s to %s (mean %.1f, median %.1f per sample)\n",
		formatGrowth(s.Gain), s.FirstDate, s.LastDate, s.MeanDelta, s.MedianDelta); err != nil {
		return err
	}
	for _, m := range s.Milestones {
		if _, err := fmt.Fprintf(w, "  reached %d stars on %s\n", m.Stars, m.Date); err != nil {
			return err
		}
	}
	return nil
}

func writeTaxonomy(w io.Writer, tags []trend.Tag) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"Category", "Description"})

	var data [][]string
	for _, t := range tags {
		data = append(data, []string{t.Name, t.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
