package agent

import (
	"context"
	"errors"
	"log/slog"

	"marketing_engine/internal/domain"
)

// Gateway is the text-completion backend an agent calls.
type Gateway interface {
	Complete(ctx context.Context, prompt, system string) (string, error)
}

// Recorder receives one observation per agent attempt.
type Recorder interface {
	RecordAgentAttempt(agent string, outcome string)
}

// RetryPolicy bounds how often an agent re-sends the same prompt after unusable output.
// Gateway failures are never retried here.
type RetryPolicy struct {
	MaxAttempts int
}

var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 2}

func (p RetryPolicy) retryable(err error) bool {
	return errors.Is(err, domain.ErrParse) || errors.Is(err, domain.ErrSchemaValidation)
}

type Runner struct {
	gateway  Gateway
	policy   RetryPolicy
	recorder Recorder
	logger   *slog.Logger
}

func NewRunner(gateway Gateway, policy RetryPolicy, recorder Recorder, logger *slog.Logger) *Runner {
	if policy.MaxAttempts < 1 {
		policy = DefaultRetryPolicy
	}
	return &Runner{
		gateway:  gateway,
		policy:   policy,
		recorder: recorder,
		logger:   logger.With("component", "agent"),
	}
}

// execute sends prompt to the gateway and parses the reply, re-sending the identical prompt
// while parse reports a parse or schema failure and attempts remain.
func execute[T any](ctx context.Context, r *Runner, agent, prompt, system string, parse func(raw string) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		raw, err := r.gateway.Complete(ctx, prompt, system)
		if err != nil {
			r.record(agent, "gateway_error")
			return zero, err
		}

		result, err := parse(raw)
		if err == nil {
			r.record(agent, "ok")
			return result, nil
		}
		if !r.policy.retryable(err) {
			r.record(agent, "error")
			return zero, err
		}

		lastErr = err
		r.record(agent, "invalid_output")
		r.logger.Warn("unusable llm output",
			"agent", agent,
			"attempt", attempt,
			"max_attempts", r.policy.MaxAttempts,
			"error", err,
		)
	}

	return zero, &domain.AgentFailedError{Agent: agent, Attempts: r.policy.MaxAttempts, Err: lastErr}
}

func (r *Runner) record(agent, outcome string) {
	if r.recorder != nil {
		r.recorder.RecordAgentAttempt(agent, outcome)
	}
}
