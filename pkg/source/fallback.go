package source

// fallbackRepos is served whenever the snapshot host cannot be reached so
// the views always have something to render.
var fallbackRepos = []Repo{
	{
		Owner:       "sig-networks",
		Repo:        "not-a-real-repo",
		Description: "An awesome AI agent framework that does everything.",
		Language:    "Python",
		Stars:       12500,
		Forks:       1200,
		Growth:      450,
		Tags:        []string{"Agent Framework", "LLM"},
		StarHistory: []StarHistoryPoint{
			{Date: "2023-10-01", Count: 100},
			{Date: "2023-11-01", Count: 500},
			{Date: "2023-12-01", Count: 2000},
			{Date: "2024-01-01", Count: 8000},
			{Date: "2024-01-30", Count: 12500},
		},
	},
	{
		Owner:       "tensor-flow-x",
		Repo:        "super-fast-inference",
		Description: "Inference engine optimized for everything.",
		Language:    "C++",
		Stars:       8900,
		Forks:       800,
		Growth:      120,
		Tags:        []string{"Inference & Serving", "Quantization"},
		StarHistory: []StarHistoryPoint{
			{Date: "2023-12-01", Count: 1000},
			{Date: "2024-01-01", Count: 5000},
			{Date: "2024-01-30", Count: 8900},
		},
	},
}

// Fallback returns a fresh copy of the built-in dataset.
func Fallback() []Repo {
	out := make([]Repo, len(fallbackRepos))
	for i, r := range fallbackRepos {
		out[i] = r.Clone()
	}
	return out
}

// FallbackRepo returns the built-in record matching owner/repo, or the
// first built-in record when none matches.
func FallbackRepo(owner, repo string) Repo {
	for _, r := range fallbackRepos {
		if r.Owner == owner && r.Repo == repo {
			return r.Clone()
		}
	}
	return fallbackRepos[0].Clone()
}

// Clone returns a deep copy of the record.
func (r Repo) Clone() Repo {
	r.Tags = append([]string(nil), r.Tags...)
	r.Topics = append([]string(nil), r.Topics...)
	r.StarHistory = append([]StarHistoryPoint(nil), r.StarHistory...)
	return r
}
