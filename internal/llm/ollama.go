package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"marketing_engine/internal/domain"
)

type OllamaConfig struct {
	Host        string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Ollama talks to a local Ollama server through /api/generate with streaming disabled.
type Ollama struct {
	endpoint    string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewOllama(cfg OllamaConfig, logger *slog.Logger) *Ollama {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Ollama{
		endpoint:    strings.TrimRight(cfg.Host, "/") + "/api/generate",
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.With("component", "ollama", "model", cfg.Model),
	}
}

func (o *Ollama) Name() string { return "ollama" }

type generateRequest struct {
	Model   string          `json:"model"`
	System  string          `json:"system"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response *string `json:"response"`
}

func (o *Ollama) Complete(ctx context.Context, prompt, system string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   o.model,
		System:  system,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: o.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshal ollama payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &domain.LLMError{Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", &domain.LLMError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &domain.LLMError{Err: fmt.Errorf("ollama error %s: %s", resp.Status, strings.TrimSpace(string(payload)))}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &domain.LLMError{Timeout: isTimeout(err), Err: fmt.Errorf("decode ollama response: %w", err)}
	}
	if out.Response == nil {
		return "", &domain.LLMError{Err: errors.New("ollama response missing 'response' field")}
	}

	o.logger.Debug("completion received", "duration", time.Since(start), "chars", len(*out.Response))
	return *out.Response, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
