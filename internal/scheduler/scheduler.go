package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/elonfeng/aitrending/internal/store"
	"github.com/elonfeng/aitrending/pkg/alert"
	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/elonfeng/aitrending/pkg/trend"
	"github.com/sirupsen/logrus"
)

// Loader refreshes the working set of one range.
type Loader interface {
	Load(ctx context.Context, r source.TimeRange) store.WorkingSet
}

// Scheduler periodically reloads working sets and alerts on top movers.
type Scheduler struct {
	loader    Loader
	alertMgr  *alert.Manager
	ranges    []source.TimeRange
	interval  time.Duration
	minGrowth int
	top       int
	log       logrus.FieldLogger

	mu      sync.Mutex
	alerted map[source.TimeRange]*announced
}

// New creates a new scheduler.
func New(
	loader Loader,
	alertMgr *alert.Manager,
	ranges []source.TimeRange,
	interval time.Duration,
	minGrowth, top int,
	log logrus.FieldLogger,
) *Scheduler {
	if interval == 0 {
		interval = 30 * time.Minute
	}
	if len(ranges) == 0 {
		ranges = []source.TimeRange{source.RangeDaily}
	}
	if top == 0 {
		top = 5
	}
	return &Scheduler{
		loader:    loader,
		alertMgr:  alertMgr,
		ranges:    ranges,
		interval:  interval,
		minGrowth: minGrowth,
		top:       top,
		log:       log,
		alerted:   make(map[source.TimeRange]*announced),
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler: initial refresh")
	s.RefreshAll(ctx)

	s.log.WithFields(logrus.Fields{
		"interval": s.interval,
		"ranges":   s.ranges,
	}).Info("scheduler: running")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			s.RefreshAll(ctx)
		}
	}
}

// RefreshAll reloads every configured range and alerts on its movers.
func (s *Scheduler) RefreshAll(ctx context.Context) {
	for _, r := range s.ranges {
		ws := s.loader.Load(ctx, r)
		s.log.WithFields(logrus.Fields{
			"range":    r,
			"repos":    len(ws.Repos),
			"fallback": ws.Fallback,
		}).Info("refreshed")

		// The built-in dataset is not news.
		if ws.Fallback {
			continue
		}
		s.alertMovers(ctx, ws)
	}
}

// announced records which repositories each destination was told about
// for one range on one fetch day.
type announced struct {
	day  string
	sent map[string]bool
}

// Movers returns the repositories of ws whose growth reaches minGrowth and
// that destination has not been told about yet for the day ws was fetched,
// best first.
func (s *Scheduler) Movers(ws store.WorkingSet, destination string) []trend.Ranked {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := s.announcedLocked(ws)

	var movers []trend.Ranked
	for _, r := range trend.Rank(ws.Repos, trend.SortTrend) {
		if r.Growth < s.minGrowth {
			break
		}
		if seen.sent[sentKey(destination, r.Repo)] {
			continue
		}
		movers = append(movers, r)
		if len(movers) == s.top {
			break
		}
	}
	return movers
}

// announcedLocked returns the record of the range's fetch day. A new day
// drops the previous one.
func (s *Scheduler) announcedLocked(ws store.WorkingSet) *announced {
	day := ws.FetchedAt.UTC().Format("2006-01-02")
	a, ok := s.alerted[ws.Range]
	if !ok || a.day != day {
		a = &announced{day: day, sent: make(map[string]bool)}
		s.alerted[ws.Range] = a
	}
	return a
}

func (s *Scheduler) markSent(ws store.WorkingSet, destination string, movers []trend.Ranked) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := s.announcedLocked(ws)
	for _, m := range movers {
		seen.sent[sentKey(destination, m.Repo)] = true
	}
}

// alertMovers delivers to each destination only what it has not received
// yet, so a failing destination neither blocks nor repeats the others.
func (s *Scheduler) alertMovers(ctx context.Context, ws store.WorkingSet) {
	for _, notifier := range s.alertMgr.Notifiers() {
		movers := s.Movers(ws, notifier.Name())
		if len(movers) == 0 {
			continue
		}

		notification := &alert.Notification{
			Title: fmt.Sprintf("%d repositories gaining fast", len(movers)),
			Body:  fmt.Sprintf("Growth of at least %d stars in the %s ranking", s.minGrowth, ws.Range),
			URL:   movers[0].URL(),
			Range: string(ws.Range),
			Repos: movers,
		}

		log := s.log.WithFields(logrus.Fields{
			"range":    ws.Range,
			"notifier": notifier.Name(),
		})
		if err := notifier.Send(ctx, notification); err != nil {
			log.WithError(err).Error("alert delivery failed")
			continue
		}

		s.markSent(ws, notifier.Name(), movers)
		log.WithFields(logrus.Fields{
			"movers": len(movers),
			"top":    movers[0].FullName(),
		}).Info("alerted")
	}
}

func sentKey(destination string, r source.Repo) string {
	return destination + "|" + r.FullName()
}
