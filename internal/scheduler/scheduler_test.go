package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elonfeng/aitrending/internal/store"
	"github.com/elonfeng/aitrending/pkg/alert"
	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	sets  map[source.TimeRange]store.WorkingSet
	calls []source.TimeRange
}

func (l *stubLoader) Load(_ context.Context, r source.TimeRange) store.WorkingSet {
	l.calls = append(l.calls, r)
	return l.sets[r]
}

type recordingNotifier struct {
	name string
	err  error
	sent []*alert.Notification
}

func (n *recordingNotifier) Name() string { return n.name }

func (n *recordingNotifier) Send(_ context.Context, msg *alert.Notification) error {
	n.sent = append(n.sent, msg)
	return n.err
}

var fetchedAt = time.Date(2024, 1, 30, 8, 0, 0, 0, time.UTC)

func dailySet() store.WorkingSet {
	return store.WorkingSet{
		Range:     source.RangeDaily,
		FetchedAt: fetchedAt,
		Repos: []source.Repo{
			{Owner: "a", Repo: "slow", Stars: 10, Growth: 20},
			{Owner: "b", Repo: "fast", Stars: 900, Growth: 800},
			{Owner: "c", Repo: "faster", Stars: 2000, Growth: 1500},
			{Owner: "d", Repo: "steady", Stars: 700, Growth: 500},
		},
	}
}

func TestScheduler_Movers(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := New(&stubLoader{}, alert.NewManager(nil), nil, 0, 500, 2, log)

	movers := s.Movers(dailySet(), "slack")
	require.Len(t, movers, 2)
	assert.Equal(t, "c/faster", movers[0].FullName())
	assert.Equal(t, "b/fast", movers[1].FullName())
	assert.Equal(t, 1, movers[0].Rank)
}

func TestScheduler_RefreshAll(t *testing.T) {
	log, hook := test.NewNullLogger()
	loader := &stubLoader{sets: map[source.TimeRange]store.WorkingSet{
		source.RangeDaily:  dailySet(),
		source.RangeWeekly: {Range: source.RangeWeekly, Repos: source.Fallback(), Fallback: true},
	}}
	n := &recordingNotifier{name: "slack"}
	s := New(loader, alert.NewManager([]alert.Notifier{n}),
		[]source.TimeRange{source.RangeDaily, source.RangeWeekly}, time.Minute, 500, 5, log)

	s.RefreshAll(context.Background())

	assert.Equal(t, []source.TimeRange{source.RangeDaily, source.RangeWeekly}, loader.calls)
	require.Len(t, n.sent, 1, "fallback data must not trigger alerts")
	assert.Equal(t, "daily", n.sent[0].Range)
	require.Len(t, n.sent[0].Repos, 3)
	assert.Equal(t, "https://github.com/c/faster", n.sent[0].URL)

	// Same day, same movers: nothing new to announce.
	s.RefreshAll(context.Background())
	assert.Len(t, n.sent, 1)

	// A new day makes them eligible again.
	next := dailySet()
	next.FetchedAt = fetchedAt.Add(24 * time.Hour)
	loader.sets[source.RangeDaily] = next
	s.RefreshAll(context.Background())
	assert.Len(t, n.sent, 2)

	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestScheduler_FailedDeliveryIsRetried(t *testing.T) {
	log, hook := test.NewNullLogger()
	loader := &stubLoader{sets: map[source.TimeRange]store.WorkingSet{source.RangeDaily: dailySet()}}
	n := &recordingNotifier{name: "slack", err: errors.New("status 500")}
	s := New(loader, alert.NewManager([]alert.Notifier{n}), nil, time.Minute, 500, 5, log)

	s.RefreshAll(context.Background())
	require.Len(t, n.sent, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	n.err = nil
	s.RefreshAll(context.Background())
	assert.Len(t, n.sent, 2)
}

func TestScheduler_FailingDestinationDoesNotRepeatOthers(t *testing.T) {
	log, _ := test.NewNullLogger()
	loader := &stubLoader{sets: map[source.TimeRange]store.WorkingSet{source.RangeDaily: dailySet()}}
	healthy := &recordingNotifier{name: "slack"}
	broken := &recordingNotifier{name: "discord", err: errors.New("status 500")}
	s := New(loader, alert.NewManager([]alert.Notifier{healthy, broken}), nil, time.Minute, 500, 5, log)

	for range 3 {
		s.RefreshAll(context.Background())
	}

	assert.Len(t, healthy.sent, 1, "a healthy destination hears about each mover once a day")
	assert.Len(t, broken.sent, 3, "a failing destination is retried on every refresh")

	broken.err = nil
	s.RefreshAll(context.Background())
	assert.Len(t, broken.sent, 4)
	assert.Len(t, healthy.sent, 1)

	s.RefreshAll(context.Background())
	assert.Len(t, broken.sent, 4, "delivered once recovered")
}

func TestScheduler_ForgetsEarlierDays(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := New(&stubLoader{}, alert.NewManager(nil), []source.TimeRange{source.RangeDaily, source.RangeWeekly}, time.Minute, 500, 5, log)

	for day := range 30 {
		ws := dailySet()
		ws.FetchedAt = fetchedAt.AddDate(0, 0, day)
		s.markSent(ws, "slack", s.Movers(ws, "slack"))
	}

	require.Len(t, s.alerted, 1)
	current := s.alerted[source.RangeDaily]
	assert.Equal(t, fetchedAt.AddDate(0, 0, 29).Format("2006-01-02"), current.day)
	assert.Len(t, current.sent, 3)

	weekly := dailySet()
	weekly.Range = source.RangeWeekly
	s.markSent(weekly, "slack", s.Movers(weekly, "slack"))
	assert.Len(t, s.alerted, 2, "ranges are tracked independently")
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	log, _ := test.NewNullLogger()
	loader := &stubLoader{sets: map[source.TimeRange]store.WorkingSet{source.RangeDaily: dailySet()}}
	s := New(loader, alert.NewManager(nil), nil, time.Hour, 500, 5, log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []source.TimeRange{source.RangeDaily}, loader.calls)
}
