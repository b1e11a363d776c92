package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public bucket the crawler publishes snapshots to.
const DefaultBaseURL = "https://pub-f31a5865021b44d0a2c4003b3da37f04.r2.dev"

// Client fetches pre-computed JSON snapshots from a static host.
type Client struct {
	client  *http.Client
	baseURL string
	now     func() time.Time
}

// NewClient creates a snapshot client. Empty baseURL uses DefaultBaseURL,
// zero timeout means 15 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// BaseURL returns the snapshot host the client reads from.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchTrending reads today's snapshot for the range.
func (c *Client) FetchTrending(ctx context.Context, r TimeRange) ([]Repo, error) {
	today := c.now().UTC().Format("2006-01-02")
	var repos []Repo
	if err := c.getJSON(ctx, fmt.Sprintf("/data/%s/%s.json", r, today), &repos); err != nil {
		return nil, fmt.Errorf("fetch %s trending: %w", r, err)
	}
	return repos, nil
}

// FetchAll reads the index of every repository seen so far.
func (c *Client) FetchAll(ctx context.Context) ([]Repo, error) {
	var repos []Repo
	if err := c.getJSON(ctx, "/data/index.json", &repos); err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}
	return repos, nil
}

// FetchRepo reads the detail record of one repository, including its star history.
func (c *Client) FetchRepo(ctx context.Context, owner, repo string) (*Repo, error) {
	path := fmt.Sprintf("/data/projects/%s/%s.json", url.PathEscape(owner), url.PathEscape(repo))
	var detail repoDetail
	if err := c.getJSON(ctx, path, &detail); err != nil {
		return nil, fmt.Errorf("fetch repo %s/%s: %w", owner, repo, err)
	}
	r := detail.repo()
	return &r, nil
}

// repoDetail is a project file. The crawler writes GitHub API count names
// there; the snapshot names are accepted when those are absent.
type repoDetail struct {
	Repo
	StargazersCount *int `json:"stargazers_count"`
	ForksCount      *int `json:"forks_count"`
}

func (d repoDetail) repo() Repo {
	r := d.Repo
	if d.StargazersCount != nil {
		r.Stars = *d.StargazersCount
	}
	if d.ForksCount != nil {
		r.Forks = *d.ForksCount
	}
	return r
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "aitrending/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s status %d", ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}
