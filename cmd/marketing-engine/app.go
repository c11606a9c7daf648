package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"marketing_engine/internal/agent"
	"marketing_engine/internal/config"
	"marketing_engine/internal/events"
	"marketing_engine/internal/license"
	"marketing_engine/internal/llm"
	"marketing_engine/internal/metrics"
	"marketing_engine/internal/publisher"
	"marketing_engine/internal/queue"
	"marketing_engine/internal/service"
	"marketing_engine/internal/storage/postgres"
)

// app holds what every command shares and builds services on demand.
type app struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	out     io.Writer

	db       *sqlx.DB
	registry *prometheus.Registry
	metrics  *metrics.Collector
	license  license.License

	closers []func() error
}

func newApp(cfg *config.Config, cfgPath string, logger *slog.Logger, out io.Writer) *app {
	registry := prometheus.NewRegistry()
	return &app{
		cfg:      cfg,
		cfgPath:  cfgPath,
		logger:   logger,
		out:      out,
		registry: registry,
		metrics:  metrics.NewCollector(registry),
		license:  license.Load(license.DefaultLocations()),
	}
}

func (a *app) connect(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := postgres.Connect(connectCtx, a.cfg.Database.DSN())
	if err != nil {
		a.logger.Error("failed to connect to database", "target", a.cfg.Database.Target(), "error", err)
		return err
	}
	if err := db.PingContext(connectCtx); err != nil {
		db.Close()
		a.logger.Error("failed to ping database", "target", a.cfg.Database.Target(), "error", err)
		return fmt.Errorf("ping database: %w", err)
	}
	a.logger.Debug("connected to database", "target", a.cfg.Database.Target())

	a.db = db
	a.closers = append(a.closers, db.Close)
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", "error", err)
		}
	}
}

// location is the schedule timezone. Config validation has already loaded it once.
func (a *app) location() *time.Location {
	loc, err := time.LoadLocation(a.cfg.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (a *app) gateway(dryRun bool) agent.Gateway {
	if dryRun || a.cfg.LLM.Provider == "mock" {
		return llm.NewMock(dryRunResponses...)
	}
	return llm.NewOllama(llm.OllamaConfig{
		Host:        a.cfg.LLM.Host,
		Model:       a.cfg.LLM.Model,
		Temperature: a.cfg.LLM.Temperature,
		Timeout:     a.cfg.LLM.Timeout,
	}, a.logger)
}

func (a *app) pipelineService(dryRun bool) (*service.PipelineService, error) {
	builder, err := queue.NewBuilder(a.cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("build queue: %w", err)
	}

	runner := agent.NewRunner(a.gateway(dryRun), agent.DefaultRetryPolicy, a.metrics, a.logger)

	return service.NewPipelineService(
		agent.NewResearch(runner),
		agent.NewDraft(runner, a.cfg.BrandVoice),
		agent.NewFormat(runner, agent.LimitsFromConfig(a.cfg.Platforms)),
		builder,
		postgres.NewPostStore(a.db),
		postgres.NewPipelineRunStore(a.db),
		postgres.NewTransactionManager(a.db),
		a.metrics,
		a.logger,
	), nil
}

func (a *app) approvalService() *service.ApprovalService {
	return service.NewApprovalService(
		postgres.NewPostStore(a.db),
		postgres.NewTransactionManager(a.db),
		a.logger,
	)
}

func (a *app) exportService() *service.ExportService {
	return service.NewExportService(postgres.NewPostStore(a.db), a.location())
}

// publishService wires live platform clients, or simulated ones when dryRun is set.
// Outcome events are emitted only when RabbitMQ is configured.
func (a *app) publishService(dryRun bool) (*service.PublishService, error) {
	var registry *publisher.Registry
	if dryRun {
		registry = publisher.NewDryRunRegistry(a.logger)
	} else {
		registry = publisher.NewRegistry(config.LoadCredentials(), publisher.ConfigFrom(a.cfg.Publish), a.logger)
	}

	var outcomes service.EventPublisher
	if a.cfg.RabbitMQ.Enabled() && !dryRun {
		rabbitMQ, err := events.NewRabbitMQ(events.Config{
			URL:        a.cfg.RabbitMQ.URL,
			Exchange:   a.cfg.RabbitMQ.Exchange,
			RoutingKey: a.cfg.RabbitMQ.RoutingKey,
			QueueName:  a.cfg.RabbitMQ.QueueName,
		}, a.logger)
		if err != nil {
			a.logger.Error("failed to connect to rabbitmq", "error", err)
			return nil, err
		}
		a.closers = append(a.closers, rabbitMQ.Close)
		outcomes = rabbitMQ
	}

	return service.NewPublishService(
		postgres.NewPostStore(a.db),
		postgres.NewPublishLogStore(a.db),
		postgres.NewTransactionManager(a.db),
		registry,
		outcomes,
		a.license,
		a.metrics,
		a.logger,
		a.cfg.Publish,
	), nil
}
