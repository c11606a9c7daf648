package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketing_engine/internal/domain"
	"marketing_engine/internal/license"
	"marketing_engine/internal/metrics"
	"marketing_engine/internal/scheduler"
)

func runPublish(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "simulate publishing without calling platform APIs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, err := a.publishService(*dryRun)
	if err != nil {
		return err
	}

	stats, err := svc.RunOnce(ctx, time.Now())
	if err != nil {
		return err
	}
	if stats.Due == 0 && stats.Recovered == 0 {
		fmt.Fprintln(a.out, warnStyle.Render("No posts due for publishing."))
		return nil
	}

	for i := range stats.Results {
		printResult(a, &stats.Results[i])
	}
	fmt.Fprintf(a.out, "\n%s\n", headingStyle.Render(fmt.Sprintf(
		"%d published, %d to retry, %d flagged, %d skipped, %d deferred, %d errors, %d stale claims flagged",
		stats.Published, stats.Retrying, stats.Flagged, stats.Skipped, stats.Deferred, stats.Errors, stats.Recovered)))
	return nil
}

func runPublishOne(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("publish-one", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "simulate publishing without calling platform APIs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := postIDArg(fs)
	if err != nil {
		return err
	}

	svc, err := a.publishService(*dryRun)
	if err != nil {
		return err
	}

	result, err := svc.PublishOne(ctx, id)
	if err != nil {
		return err
	}
	printResult(a, result)
	return nil
}

func printResult(a *app, r *domain.PublishResult) {
	if r.Success() {
		url := "OK"
		if r.PostURL != nil {
			url = *r.PostURL
		}
		fmt.Fprintf(a.out, "%s %s %s -> %s\n", goodStyle.Render("Published"), shortID(r.PostID), r.Platform, url)
		return
	}
	msg := ""
	if r.Error != nil {
		msg = *r.Error
	}
	fmt.Fprintf(a.out, "%s %s %s: %s\n", badStyle.Render("Failed"), shortID(r.PostID), r.Platform, msg)
}

func runPublishStatus(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("publish-status", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "number of entries to show")
	postID := fs.String("post", "", "show every attempt for one post instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, err := a.publishService(true)
	if err != nil {
		return err
	}

	var entries []domain.PublishResult
	if *postID != "" {
		entries, err = svc.Attempts(ctx, *postID)
	} else {
		entries, err = svc.History(ctx, *limit)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, warnStyle.Render("No publish history found."))
		return nil
	}

	loc := a.location()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := goodStyle.Render(string(e.Status))
		if !e.Success() {
			status = badStyle.Render(string(e.Status))
		}
		rows = append(rows, []string{
			shortID(e.PostID),
			string(e.Platform),
			status,
			deref(e.PostURL),
			e.PublishedAt.In(loc).Format("2006-01-02 15:04:05"),
			truncate(deref(e.Error), 60),
		})
	}
	fmt.Fprintln(a.out, renderTable("Publish History",
		[]string{"Post ID", "Platform", "Status", "URL", "Published At", "Error"}, rows))
	return nil
}

func runRecordMetrics(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("record-metrics", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("record-metrics needs a post id and at least one name=value pair")
	}

	values := make(map[string]int64, fs.NArg()-1)
	for _, pair := range fs.Args()[1:] {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid metric %q, use name=value", pair)
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
		values[strings.TrimSpace(name)] = n
	}

	svc, err := a.publishService(true)
	if err != nil {
		return err
	}
	if err := svc.RecordMetrics(ctx, fs.Arg(0), values); err != nil {
		return err
	}
	fmt.Fprintln(a.out, goodStyle.Render("Metrics recorded for "+fs.Arg(0)))
	return nil
}

// runDaemon publishes due posts on every tick and serves /metrics and /healthz until ctx ends.
func runDaemon(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "simulate publishing without calling platform APIs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*dryRun {
		if err := a.license.Require(license.FeaturePublish); err != nil {
			return err
		}
	}

	svc, err := a.publishService(*dryRun)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           metrics.NewRouter(a.registry, a.db.PingContext),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("failed to stop metrics server", "error", err)
		}
	}()

	sched := scheduler.NewScheduler(svc, a.cfg.Publish.Interval, a.cfg.Publish.RunTimeout, a.logger)

	a.logger.Info("starting publish daemon",
		"interval", a.cfg.Publish.Interval,
		"batch_size", a.cfg.Publish.BatchSize,
		"dry_run", *dryRun,
		"events", a.cfg.RabbitMQ.Enabled(),
	)

	return sched.Start(ctx)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
