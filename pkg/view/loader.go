package view

import (
	"context"
	"time"

	"github.com/elonfeng/aitrending/internal/store"
	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// maxDetailFetches bounds concurrent detail requests in LoadRepos.
const maxDetailFetches = 4

// Loader fetches working sets for the views. A failed fetch is logged and
// masked with the built-in dataset; callers always get records back.
type Loader struct {
	fetcher source.Fetcher
	store   store.Store
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewLoader creates a loader that records fetched sets in s.
func NewLoader(f source.Fetcher, s store.Store, log logrus.FieldLogger) *Loader {
	return &Loader{fetcher: f, store: s, log: log, now: time.Now}
}

// Load fetches the working set for r and replaces the stored one. Every call
// issues its own request; the last one to finish owns the store.
func (l *Loader) Load(ctx context.Context, r source.TimeRange) store.WorkingSet {
	ws := store.WorkingSet{Range: r}

	repos, err := l.fetcher.FetchTrending(ctx, r)
	if err != nil {
		l.log.WithError(err).WithField("range", r).Warn("trending fetch failed, using fallback dataset")
		repos = source.Fallback()
		ws.Fallback = true
	}
	ws.Repos = repos
	ws.FetchedAt = l.now().UTC()

	l.store.Replace(ws)
	l.log.WithFields(logrus.Fields{
		"range":    r,
		"repos":    len(repos),
		"fallback": ws.Fallback,
	}).Debug("working set replaced")
	return ws
}

// LoadAll fetches every repository seen so far.
func (l *Loader) LoadAll(ctx context.Context) ([]source.Repo, bool) {
	repos, err := l.fetcher.FetchAll(ctx)
	if err != nil {
		l.log.WithError(err).Warn("index fetch failed, using fallback dataset")
		return source.Fallback(), true
	}
	return repos, false
}

// LoadRepo fetches the details of one repository. On failure it returns the
// matching built-in record, or the first one.
func (l *Loader) LoadRepo(ctx context.Context, owner, repo string) (source.Repo, bool) {
	detail, err := l.fetcher.FetchRepo(ctx, owner, repo)
	if err != nil || detail == nil {
		l.log.WithError(err).WithField("repo", owner+"/"+repo).Warn("repo fetch failed, using fallback dataset")
		return source.FallbackRepo(owner, repo), true
	}
	return *detail, false
}

// LoadRepos fetches the details of every record in repos concurrently and
// returns them in the same order. A record whose fetch fails is kept as
// given; the flag reports whether that happened at least once.
func (l *Loader) LoadRepos(ctx context.Context, repos []source.Repo) ([]source.Repo, bool) {
	out := make([]source.Repo, len(repos))
	failed := make([]bool, len(repos))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxDetailFetches)
	for i, r := range repos {
		eg.Go(func() error {
			detail, err := l.fetcher.FetchRepo(egCtx, r.Owner, r.Repo)
			if err != nil || detail == nil {
				l.log.WithError(err).WithField("repo", r.FullName()).Warn("repo fetch failed, keeping listed record")
				out[i] = r.Clone()
				failed[i] = true
				return nil
			}
			out[i] = *detail
			return nil
		})
	}
	_ = eg.Wait()

	var fallback bool
	for _, f := range failed {
		fallback = fallback || f
	}
	return out, fallback
}
