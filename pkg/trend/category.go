package trend

import (
	"sort"

	"github.com/elonfeng/aitrending/pkg/source"
)

// Category is one sidebar entry of the category explorer.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count"`
}

// Categories counts how many records fall in each category of the scheme.
// The result starts with the All sentinel, followed by categories ordered
// by count descending and name ascending. A record counts once per category.
func Categories(repos []source.Repo, scheme Scheme) []Category {
	var cats []Category
	if scheme == SchemeTopics {
		cats = topicCategories(repos)
	} else {
		cats = tagCategories(repos)
	}

	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Count != cats[j].Count {
			return cats[i].Count > cats[j].Count
		}
		return cats[i].Name < cats[j].Name
	})

	all := Category{Name: AllCategory, Description: allDescription, Count: len(repos)}
	return append([]Category{all}, cats...)
}

func tagCategories(repos []source.Repo) []Category {
	index := make(map[string]int, len(taxonomy))
	cats := make([]Category, len(taxonomy))
	for i, t := range taxonomy {
		index[Normalize(t.Name)] = i
		cats[i] = Category{Name: t.Name, Description: t.Description}
	}

	for _, r := range repos {
		for key := range labelSet(r.Tags) {
			if i, ok := index[key]; ok {
				cats[i].Count++
			}
		}
	}
	return cats
}

func topicCategories(repos []source.Repo) []Category {
	counts := make(map[string]int)
	for _, r := range repos {
		for key := range labelSet(r.Topics) {
			counts[key]++
		}
	}

	cats := make([]Category, 0, len(counts))
	for name, n := range counts {
		cats = append(cats, Category{Name: name, Count: n})
	}
	return cats
}

// labelSet returns the distinct non-empty normalized labels.
func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if n := Normalize(l); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
