package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"marketing_engine/internal/config"
	"marketing_engine/internal/domain"
	"marketing_engine/internal/license"
	"marketing_engine/internal/queue"
	"marketing_engine/internal/storage/postgres"
)

// configFile is the part of config.yaml that has no rule file of its own.
type configFile struct {
	Database config.DatabaseConfig `yaml:"database"`
	LLM      config.LLMConfig      `yaml:"llm"`
	Publish  config.PublishConfig  `yaml:"publish"`
	RabbitMQ config.RabbitMQConfig `yaml:"rabbitmq"`
	Metrics  config.MetricsConfig  `yaml:"metrics"`
	Activity config.ActivityConfig `yaml:"activity"`
	LogLevel string                `yaml:"log_level"`
}

const cfgFileName = "config.yaml"

// defaultFiles renders the loaded configuration, which is all defaults on a fresh install.
func defaultFiles(cfg *config.Config) map[string]any {
	schedule := cfg.Schedule
	if len(schedule.PostingWindows) == 0 {
		schedule.PostingWindows = queue.DefaultWindows()
	}
	return map[string]any{
		cfgFileName: configFile{
			Database: cfg.Database,
			LLM:      cfg.LLM,
			Publish:  cfg.Publish,
			RabbitMQ: cfg.RabbitMQ,
			Metrics:  cfg.Metrics,
			Activity: cfg.Activity,
			LogLevel: cfg.LogLevel,
		},
		"brand_voice.yaml":    cfg.BrandVoice,
		"platform_rules.yaml": cfg.Platforms,
		"schedule_rules.yaml": schedule,
	}
}

func runInit(ctx context.Context, a *app, args []string) error {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	skipMigrate := flags.Bool("skip-migrate", false, "only write configuration files")
	if err := flags.Parse(args); err != nil {
		return err
	}

	dir := filepath.Dir(a.cfgPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	fmt.Fprintln(a.out, goodStyle.Render("Config directory: "+dir))

	files := defaultFiles(a.cfg)
	for _, name := range []string{cfgFileName, "brand_voice.yaml", "platform_rules.yaml", "schedule_rules.yaml"} {
		path := filepath.Join(dir, name)
		if name == cfgFileName {
			path = a.cfgPath
		}
		created, err := writeIfMissing(path, files[name])
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintln(a.out, "  Created "+path)
		} else {
			fmt.Fprintln(a.out, warnStyle.Render("  Exists: "+path))
		}
	}

	if *skipMigrate {
		fmt.Fprintln(a.out, headingStyle.Render("Initialization complete."))
		return nil
	}

	if err := migrateDatabase(a); err != nil {
		return err
	}
	fmt.Fprintln(a.out, headingStyle.Render("Initialization complete."))
	return nil
}

func writeIfMissing(path string, v any) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

func runMigrate(ctx context.Context, a *app, args []string) error {
	return migrateDatabase(a)
}

func migrateDatabase(a *app) error {
	url := a.cfg.Database.MigrationURL()
	if err := postgres.RunMigrations(url); err != nil {
		a.logger.Error("failed to run migrations", "target", a.cfg.Database.Target(), "error", err)
		return err
	}
	version, _, err := postgres.MigrationVersion(url)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	fmt.Fprintf(a.out, "%s %s (schema version %d)\n", goodStyle.Render("Database ready:"), a.cfg.Database.Target(), version)
	return nil
}

func runHistory(ctx context.Context, a *app, args []string) error {
	flags := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := flags.Int("limit", 10, "number of runs to show")
	if err := flags.Parse(args); err != nil {
		return err
	}

	pipeline, err := a.pipelineService(true)
	if err != nil {
		return err
	}
	runs, err := pipeline.History(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, warnStyle.Render("No pipeline runs found."))
		return nil
	}

	loc := a.location()
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := goodStyle.Render(string(run.Status))
		if run.Status == domain.RunStatusFailed {
			status = badStyle.Render(string(run.Status))
		}
		duration := ""
		if run.CompletedAt != nil {
			duration = fmt.Sprintf("%.1fs", run.Duration().Seconds())
		}
		rows = append(rows, []string{
			shortID(run.ID),
			run.WeekOf.Format(dateLayout),
			status,
			string(run.Stage),
			fmt.Sprint(run.BriefsCount),
			fmt.Sprint(run.DraftsCount),
			fmt.Sprint(run.PostsCount),
			run.StartedAt.In(loc).Format("2006-01-02 15:04:05"),
			duration,
		})
	}
	fmt.Fprintln(a.out, renderTable("Pipeline Run History",
		[]string{"ID", "Week", "Status", "Stage", "Briefs", "Drafts", "Posts", "Started", "Duration"}, rows))
	return nil
}

func runStatus(ctx context.Context, a *app, args []string) error {
	lic := a.license
	creds := config.LoadCredentials()

	keySource := lic.Source
	if keySource == "" {
		keySource = "none (free tier)"
	}

	rows := [][]string{
		{"Version", version},
		{"License Tier", string(lic.Tier)},
		{"License Key", lic.MaskedKey()},
		{"License Source", keySource},
		{"Config Dir", filepath.Dir(a.cfgPath)},
		{"Database", a.cfg.Database.Target()},
		{"Schema", schemaStatus(a)},
		{"LLM Provider", a.cfg.LLM.Provider},
		{"LLM Model", a.cfg.LLM.Model},
		{"Timezone", a.cfg.Schedule.Timezone},
		{"Credentials", fmt.Sprintf("twitter=%s linkedin=%s reddit=%s",
			yesNo(creds.TwitterConfigured()), yesNo(creds.LinkedInConfigured()), yesNo(creds.RedditConfigured()))},
		{"Events", yesNo(a.cfg.RabbitMQ.Enabled())},
	}

	var features []string
	for _, f := range license.AllFeatures() {
		features = append(features, yesNo(lic.Allows(f))+" "+f)
	}
	rows = append(rows, []string{"Features", strings.Join(features, "\n")})

	connectCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.connect(connectCtx); err == nil {
		summary, err := a.approvalService().Summary(ctx, nil)
		if err == nil {
			var counts []string
			for _, s := range domain.ApprovalStatuses {
				counts = append(counts, fmt.Sprintf("%s=%d", s, summary.Counts[s]))
			}
			rows = append(rows, []string{"Posts", fmt.Sprintf("%d (%s)", summary.Total, strings.Join(counts, " "))})
		}
	}

	fmt.Fprintln(a.out, renderTable("Marketing Engine Status", []string{"Field", "Value"}, rows))
	return nil
}

func schemaStatus(a *app) string {
	version, dirty, err := postgres.MigrationVersion(a.cfg.Database.MigrationURL())
	switch {
	case err != nil:
		return badStyle.Render("unreachable")
	case version == 0:
		return warnStyle.Render("not migrated, run init")
	case dirty:
		return badStyle.Render(fmt.Sprintf("version %d (dirty)", version))
	default:
		return fmt.Sprintf("version %d", version)
	}
}

func yesNo(ok bool) string {
	if ok {
		return goodStyle.Render("Y")
	}
	return badStyle.Render("N")
}
