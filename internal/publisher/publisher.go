// Package publisher delivers approved posts to social platforms.
//
// Every failure is returned as a *domain.PublishError classified as transient
// (worth one more attempt later) or fatal (a human has to look at it).
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"marketing_engine/internal/config"
	"marketing_engine/internal/domain"
)

const userAgent = "marketing-engine/0.1.0"

type Endpoints struct {
	TwitterTweets string
	LinkedInPosts string
	RedditToken   string
	RedditSubmit  string
}

var DefaultEndpoints = Endpoints{
	TwitterTweets: "https://api.twitter.com/2/tweets",
	LinkedInPosts: "https://api.linkedin.com/v2/ugcPosts",
	RedditToken:   "https://www.reddit.com/api/v1/access_token",
	RedditSubmit:  "https://oauth.reddit.com/api/submit",
}

type Config struct {
	HTTPTimeout   time.Duration
	RatePerMinute int
	Endpoints     Endpoints
}

func ConfigFrom(cfg config.PublishConfig) Config {
	return Config{
		HTTPTimeout:   cfg.HTTPTimeout,
		RatePerMinute: cfg.RatePerMinute,
		Endpoints:     DefaultEndpoints,
	}
}

// Platform is a single platform client.
type Platform interface {
	Platform() domain.Platform
	Publish(ctx context.Context, req domain.PublishRequest) (*domain.PublishReceipt, error)
}

// Registry routes requests to the client for their platform and paces calls per platform.
type Registry struct {
	clients  map[domain.Platform]Platform
	limiters map[domain.Platform]*rate.Limiter
	dryRun   bool
	logger   *slog.Logger
}

// NewRegistry builds live clients for twitter, linkedin and reddit from creds.
// A client with missing credentials still exists and fails every request fatally.
func NewRegistry(creds config.Credentials, cfg Config, logger *slog.Logger) *Registry {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.Endpoints == (Endpoints{}) {
		cfg.Endpoints = DefaultEndpoints
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	logger.Debug("platform credentials loaded", "credentials", creds)

	return newRegistry([]Platform{
		NewTwitter(httpClient, cfg.Endpoints.TwitterTweets, creds.TwitterBearerToken),
		NewLinkedIn(httpClient, cfg.Endpoints.LinkedInPosts, creds.LinkedInAccessToken, creds.LinkedInPersonID),
		NewReddit(httpClient, cfg.Endpoints, RedditCredentials{
			ClientID:     creds.RedditClientID,
			ClientSecret: creds.RedditClientSecret,
			Username:     creds.RedditUsername,
			Password:     creds.RedditPassword,
		}),
	}, cfg.RatePerMinute, false, logger)
}

// NewDryRunRegistry answers every platform with a simulated success and makes no network calls.
func NewDryRunRegistry(logger *slog.Logger) *Registry {
	var clients []Platform
	for _, p := range domain.Platforms {
		clients = append(clients, NewDryRun(p))
	}
	return newRegistry(clients, 0, true, logger)
}

func newRegistry(clients []Platform, perMinute int, dryRun bool, logger *slog.Logger) *Registry {
	r := &Registry{
		clients:  make(map[domain.Platform]Platform, len(clients)),
		limiters: make(map[domain.Platform]*rate.Limiter, len(clients)),
		dryRun:   dryRun,
		logger:   logger.With("component", "publisher", "dry_run", dryRun),
	}
	for _, c := range clients {
		r.clients[c.Platform()] = c
		if perMinute > 0 {
			r.limiters[c.Platform()] = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		}
	}
	return r
}

func (r *Registry) DryRun() bool {
	return r.dryRun
}

// Wait blocks until platform may take another post. It fails without consuming a token when
// the wait would outlast ctx. Platforms without a limiter never wait.
func (r *Registry) Wait(ctx context.Context, platform domain.Platform) error {
	limiter, ok := r.limiters[platform]
	if !ok {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for %s rate limit: %w", platform, err)
	}
	return nil
}

// Publish sends req without pacing; callers take a turn with Wait first.
func (r *Registry) Publish(ctx context.Context, req domain.PublishRequest) (*domain.PublishReceipt, error) {
	client, ok := r.clients[req.Platform]
	if !ok {
		return nil, domain.NewFatalError(req.Platform, 0,
			fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, req.Platform))
	}

	start := time.Now()
	receipt, err := client.Publish(ctx, req)
	if err != nil {
		r.logger.Warn("publish failed",
			"post_id", req.PostID,
			"platform", req.Platform,
			"transient", domain.IsTransientPublish(err),
			"error", err,
		)
		return nil, err
	}

	r.logger.Info("published",
		"post_id", req.PostID,
		"platform", req.Platform,
		"platform_post_id", receipt.PlatformPostID,
		"duration", time.Since(start),
	)
	return receipt, nil
}
