package store

import (
	"sort"
	"sync"
	"time"

	"github.com/elonfeng/aitrending/pkg/source"
)

// WorkingSet is the set of records one fetch produced.
type WorkingSet struct {
	Range     source.TimeRange `json:"range"`
	Repos     []source.Repo    `json:"repos"`
	FetchedAt time.Time        `json:"fetched_at"`
	Fallback  bool             `json:"fallback"`
}

// Status describes a stored working set without its records.
type Status struct {
	Range     source.TimeRange `json:"range"`
	Count     int              `json:"count"`
	FetchedAt time.Time        `json:"fetched_at"`
	Fallback  bool             `json:"fallback"`
}

// Store holds the current working sets in memory.
type Store interface {
	// Replace swaps the working set for ws.Range wholesale. The last call wins.
	Replace(ws WorkingSet)
	Get(r source.TimeRange) (WorkingSet, bool)
	Statuses() []Status
}

// MemoryStore implements Store with a mutex-guarded map. Records are
// copied on the way in and out so no caller shares backing arrays.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[source.TimeRange]WorkingSet
}

// New creates an empty in-memory store.
func New() *MemoryStore {
	return &MemoryStore{sets: make(map[source.TimeRange]WorkingSet)}
}

func (s *MemoryStore) Replace(ws WorkingSet) {
	ws.Repos = cloneRepos(ws.Repos)
	if ws.FetchedAt.IsZero() {
		ws.FetchedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.sets[ws.Range] = ws
	s.mu.Unlock()
}

func (s *MemoryStore) Get(r source.TimeRange) (WorkingSet, bool) {
	s.mu.RLock()
	ws, ok := s.sets[r]
	s.mu.RUnlock()

	if !ok {
		return WorkingSet{}, false
	}
	ws.Repos = cloneRepos(ws.Repos)
	return ws, true
}

func (s *MemoryStore) Statuses() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Status, 0, len(s.sets))
	for _, ws := range s.sets {
		out = append(out, Status{
			Range:     ws.Range,
			Count:     len(ws.Repos),
			FetchedAt: ws.FetchedAt,
			Fallback:  ws.Fallback,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range < out[j].Range })
	return out
}

func cloneRepos(repos []source.Repo) []source.Repo {
	out := make([]source.Repo, len(repos))
	for i, r := range repos {
		out[i] = r.Clone()
	}
	return out
}
