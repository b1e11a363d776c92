package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/elonfeng/aitrending/internal/config"
	"github.com/elonfeng/aitrending/internal/logger"
	"github.com/elonfeng/aitrending/internal/scheduler"
	"github.com/elonfeng/aitrending/internal/store"
	"github.com/elonfeng/aitrending/pkg/alert"
	"github.com/elonfeng/aitrending/pkg/server"
	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/elonfeng/aitrending/pkg/trend"
	"github.com/elonfeng/aitrending/pkg/view"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// app is the wiring shared by all commands.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    *store.MemoryStore
	loader   *view.Loader
	defaults view.State
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	defaults, err := view.ParseState(view.DefaultState(), cfg.View.Range, cfg.View.Sort, cfg.View.Scheme, "", &cfg.View.Limit)
	if err != nil {
		return nil, fmt.Errorf("view defaults: %w", err)
	}

	client := source.NewClient(cfg.Data.BaseURL, cfg.Data.ParseTimeout())
	s := store.New()

	log.WithField("base_url", client.BaseURL()).Debug("data source configured")

	return &app{
		cfg:      cfg,
		log:      log,
		store:    s,
		loader:   view.NewLoader(client, s, log),
		defaults: defaults,
	}, nil
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runDashboard(cmd *cobra.Command, flags viewFlags) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	st, err := view.ParseState(a.defaults, flags.rangeName, flags.sort, "", "", flags.limitFor(cmd))
	if err != nil {
		return err
	}

	ws := a.loader.Load(cmd.Context(), st.Range)
	v := view.Dashboard(ws, st)

	if flags.json {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	return writeDashboard(cmd.OutOrStdout(), v)
}

func runCategories(cmd *cobra.Command, flags viewFlags, scheme, category string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	st, err := view.ParseState(a.defaults, flags.rangeName, flags.sort, scheme, category, flags.limitFor(cmd))
	if err != nil {
		return err
	}

	ws := a.loader.Load(cmd.Context(), st.Range)
	v := view.Explorer(ws, st)

	if flags.json {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	return writeExplorer(cmd.OutOrStdout(), v)
}

// growthReport is the JSON shape of the growth command.
type growthReport struct {
	view.GrowthView
	Details []repoSummary `json:"details,omitempty"`
}

type repoSummary struct {
	Repo    source.Repo         `json:"repo"`
	Summary trend.GrowthSummary `json:"summary"`
}

func runGrowth(cmd *cobra.Command, target, rangeName string, details int, jsonOut bool) error {
	owner, repo, err := splitFullName(target)
	if err != nil {
		return err
	}
	if details < 0 {
		return fmt.Errorf("details must not be negative, got %d", details)
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	st, err := view.ParseState(a.defaults, rangeName, "", "", "", nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	var (
		ws       store.WorkingSet
		selected *source.Repo
		fallback bool
	)

	// The working set and the selected repository are independent reads.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		ws = a.loader.Load(egCtx, st.Range)
		return nil
	})
	if owner != "" {
		eg.Go(func() error {
			detail, fb := a.loader.LoadRepo(egCtx, owner, repo)
			selected, fallback = &detail, fb
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	report := growthReport{GrowthView: view.Growth(ws, selected)}
	report.Fallback = report.Fallback || fallback

	if details > 0 {
		top := trend.Top(report.TopGrowers, details)
		listed := make([]source.Repo, len(top))
		for i, r := range top {
			listed[i] = r.Repo
		}
		fetched, fb := a.loader.LoadRepos(ctx, listed)
		report.Fallback = report.Fallback || fb
		for _, r := range fetched {
			report.Details = append(report.Details, repoSummary{Repo: r, Summary: trend.SummarizeGrowth(r.StarHistory)})
		}
	}

	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	return writeGrowth(cmd.OutOrStdout(), report)
}

func runTaxonomy(cmd *cobra.Command, jsonOut bool) error {
	tags := trend.Taxonomy()
	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), tags)
	}
	return writeTaxonomy(cmd.OutOrStdout(), tags)
}

func runServe(port int) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if port == 0 {
		port = a.cfg.Server.Port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(a.loader, a.store, a.defaults, port, a.log)
	return srv.ListenAndServe(ctx)
}

func runDaemon(port int) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if port == 0 {
		port = a.cfg.Server.Port
	}

	ranges := make([]source.TimeRange, 0, len(a.cfg.Schedule.Ranges))
	for _, name := range a.cfg.Schedule.Ranges {
		r, err := source.ParseTimeRange(name)
		if err != nil {
			return fmt.Errorf("schedule.ranges: %w", err)
		}
		ranges = append(ranges, r)
	}

	alertMgr := buildAlertManager(a.cfg)
	if !alertMgr.HasNotifiers() {
		a.log.Info("no alert destinations configured, refreshing only")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(a.loader, alertMgr, ranges,
		a.cfg.Schedule.ParseRefreshInterval(),
		a.cfg.Alerts.MinGrowth,
		a.cfg.Alerts.Top,
		a.log,
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := sched.Run(egCtx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		srv := server.New(a.loader, a.store, a.defaults, port, a.log)
		return srv.ListenAndServe(egCtx)
	})

	err = eg.Wait()
	a.log.Info("shutting down")
	return err
}

// splitFullName parses "owner/repo". An empty argument selects nothing.
func splitFullName(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", nil
	}
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q (want owner/repo)", s)
	}
	return owner, repo, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
