package source

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is wrapped into every failed fetch: transport errors,
// non-success statuses and malformed JSON alike.
var ErrUnavailable = errors.New("data source unavailable")

// TimeRange selects which trending snapshot to fetch.
type TimeRange string

const (
	RangeDaily   TimeRange = "daily"
	RangeWeekly  TimeRange = "weekly"
	RangeMonthly TimeRange = "monthly"
)

// AllRanges returns all known time ranges.
func AllRanges() []TimeRange {
	return []TimeRange{RangeDaily, RangeWeekly, RangeMonthly}
}

// ParseTimeRange validates a time range string. Empty means daily.
func ParseTimeRange(s string) (TimeRange, error) {
	if s == "" {
		return RangeDaily, nil
	}
	for _, r := range AllRanges() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q (want daily, weekly or monthly)", s)
}

// StarHistoryPoint is one cumulative star count sample.
type StarHistoryPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Repo is a trending repository record as published in the snapshots.
type Repo struct {
	Owner       string             `json:"owner"`
	Repo        string             `json:"repo"`
	Description string             `json:"description"`
	Language    string             `json:"language"`
	Stars       int                `json:"stars"`
	Forks       int                `json:"forks"`
	Growth      int                `json:"growth"`
	Tags        []string           `json:"tags"`
	Topics      []string           `json:"topics,omitempty"`
	StarHistory []StarHistoryPoint `json:"star_history,omitempty"`
	LastSeen    string             `json:"last_seen,omitempty"`
}

// FullName returns owner/repo, unique within a working set.
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Repo
}

// URL returns the GitHub page of the repository.
func (r Repo) URL() string {
	return "https://github.com/" + r.FullName()
}

// Fetcher reads repository records from the snapshot host.
type Fetcher interface {
	FetchTrending(ctx context.Context, r TimeRange) ([]Repo, error)
	FetchAll(ctx context.Context) ([]Repo, error)
	FetchRepo(ctx context.Context, owner, repo string) (*Repo, error)
}
