package trend

import (
	"fmt"
	"strings"

	"github.com/elonfeng/aitrending/pkg/source"
)

// AllCategory is the sentinel category that matches every record.
const AllCategory = "All"

// Scheme selects which classification list a category refers to.
type Scheme string

const (
	// SchemeTags uses the fixed taxonomy tags.
	SchemeTags Scheme = "tags"
	// SchemeTopics uses the freeform repository topics.
	SchemeTopics Scheme = "topics"
)

// ParseScheme validates a scheme string. Empty means tags.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemeTags:
		return SchemeTags, nil
	case SchemeTopics:
		return SchemeTopics, nil
	}
	return "", fmt.Errorf("unknown category scheme %q (want tags or topics)", s)
}

// Labels returns the classification list of r under the scheme.
func (s Scheme) Labels(r source.Repo) []string {
	if s == SchemeTopics {
		return r.Topics
	}
	return r.Tags
}

// Normalize folds a label for matching and grouping.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Filter keeps the records classified under category. The All sentinel
// returns repos unchanged; any other category matches by exact normalized
// equality against the scheme's labels.
func Filter(repos []source.Repo, category string, scheme Scheme) []source.Repo {
	if category == AllCategory {
		return repos
	}

	want := Normalize(category)
	filtered := make([]source.Repo, 0, len(repos))
	for _, r := range repos {
		if hasLabel(scheme.Labels(r), want) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func hasLabel(labels []string, normalized string) bool {
	for _, l := range labels {
		if Normalize(l) == normalized {
			return true
		}
	}
	return false
}
