package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"marketing_engine/internal/config"
)

const version = "0.1.0"

type command struct {
	summary string
	// needsDB commands get an open, pinged connection in app.db.
	needsDB bool
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"generate":       {"Generate a week of posts with the LLM pipeline", true, runGenerate},
	"review":         {"Review pending posts interactively", true, runReview},
	"approve":        {"Approve a post", true, runApprove},
	"edit":           {"Replace the content of a post and approve it", true, runEdit},
	"reject":         {"Reject a post, or dismiss a flagged one", true, runReject},
	"reschedule":     {"Move a post to another time", true, runReschedule},
	"queue":          {"Show the queue for a week", true, runQueue},
	"flagged":        {"List posts flagged for review", true, runFlagged},
	"export":         {"Export approved posts as JSON or Markdown", true, runExport},
	"publish":        {"Publish every due post once", true, runPublish},
	"publish-one":    {"Publish a single post now", true, runPublishOne},
	"publish-status": {"Show recent publish attempts", true, runPublishStatus},
	"record-metrics": {"Store engagement numbers for a published post", true, runRecordMetrics},
	"history":        {"Show recent pipeline runs", true, runHistory},
	"daemon":         {"Publish due posts on an interval and serve metrics", true, runDaemon},
	"migrate":        {"Apply database migrations", false, runMigrate},
	"init":           {"Write default configuration and migrate the database", false, runInit},
	"status":         {"Show configuration and license status", false, runStatus},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", filepath.Join(config.DefaultDir(), "config.yaml"), "path to config file")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println("marketing-engine v" + version)
		return nil
	}
	if flag.NArg() == 0 {
		usage()
		return errors.New("no command given")
	}

	name, args := flag.Arg(0), flag.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		usage()
		return fmt.Errorf("unknown command %q", name)
	}

	daemon := name == "daemon"

	// Setup logger
	logger := setupLogger("info", daemon)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	logger = setupLogger(cfg.LogLevel, daemon)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	a := newApp(cfg, *configPath, logger, os.Stdout)
	defer a.close()

	if cmd.needsDB {
		if err := a.connect(ctx); err != nil {
			return err
		}
	}

	if err := cmd.run(ctx, a, args); err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("command failed", "command", name, "error", err)
		return err
	}
	return nil
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "Usage: marketing-engine [-config path] <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-15s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(out)
	flag.PrintDefaults()
}

// setupLogger logs JSON to stdout for the daemon. Every other command keeps stdout for
// its own output and logs text to stderr.
func setupLogger(level string, daemon bool) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if daemon {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
