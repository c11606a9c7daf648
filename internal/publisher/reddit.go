package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"marketing_engine/internal/domain"
)

const redditTitleMaxChars = 300

type RedditCredentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

func (c RedditCredentials) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Username != "" && c.Password != ""
}

type Reddit struct {
	client    *http.Client
	tokenURL  string
	submitURL string
	creds     RedditCredentials

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewReddit(client *http.Client, endpoints Endpoints, creds RedditCredentials) *Reddit {
	return &Reddit{
		client:    client,
		tokenURL:  endpoints.RedditToken,
		submitURL: endpoints.RedditSubmit,
		creds:     creds,
	}
}

func (r *Reddit) Platform() domain.Platform {
	return domain.PlatformReddit
}

type redditToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type redditSubmitResponse struct {
	JSON struct {
		Errors [][]interface{} `json:"errors"`
		Data   struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"data"`
	} `json:"json"`
}

func (r *Reddit) Publish(ctx context.Context, req domain.PublishRequest) (*domain.PublishReceipt, error) {
	if !r.creds.complete() {
		return nil, domain.NewFatalError(domain.PlatformReddit, 0, errors.New("missing reddit credentials (MKEN_REDDIT_*)"))
	}
	if req.Subreddit == nil || strings.TrimSpace(*req.Subreddit) == "" {
		return nil, domain.NewFatalError(domain.PlatformReddit, 0, errors.New("no subreddit specified on post"))
	}

	token, err := r.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	title, body := splitTitle(composeText(req, 0, false))
	form := url.Values{
		"api_type": {"json"},
		"kind":     {"self"},
		"sr":       {strings.TrimSpace(*req.Subreddit)},
		"title":    {title},
		"text":     {body},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.submitURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, domain.NewFatalError(domain.PlatformReddit, 0, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(domain.PlatformReddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		r.forgetToken()
	}
	if !isSuccess(resp.StatusCode) {
		return nil, classifyResponse(domain.PlatformReddit, resp)
	}

	var result redditSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, domain.NewFatalError(domain.PlatformReddit, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	if len(result.JSON.Errors) > 0 {
		err := fmt.Errorf("reddit rejected submission: %v", result.JSON.Errors)
		if isRedditRateLimit(result.JSON.Errors) {
			return nil, domain.NewTransientError(domain.PlatformReddit, resp.StatusCode, err)
		}
		return nil, domain.NewFatalError(domain.PlatformReddit, resp.StatusCode, err)
	}

	id := result.JSON.Data.Name
	if id == "" {
		id = result.JSON.Data.ID
	}
	return &domain.PublishReceipt{PlatformPostID: id, PostURL: result.JSON.Data.URL}, nil
}

// accessToken returns a cached password-grant token, fetching a new one shortly before expiry.
func (r *Reddit) accessToken(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token != "" && time.Now().Before(r.expires) {
		return r.token, nil
	}

	form := url.Values{
		"grant_type": {"password"},
		"username":   {r.creds.Username},
		"password":   {r.creds.Password},
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", domain.NewFatalError(domain.PlatformReddit, 0, fmt.Errorf("create token request: %w", err))
	}
	httpReq.SetBasicAuth(r.creds.ClientID, r.creds.ClientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", classifyTransport(domain.PlatformReddit, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", classifyResponse(domain.PlatformReddit, resp)
	}

	var tok redditToken
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", domain.NewFatalError(domain.PlatformReddit, resp.StatusCode, fmt.Errorf("decode token: %w", err))
	}
	if tok.AccessToken == "" {
		return "", domain.NewFatalError(domain.PlatformReddit, resp.StatusCode, errors.New("reddit oauth returned empty access token"))
	}

	lifetime := time.Duration(tok.ExpiresIn) * time.Second
	if lifetime <= time.Minute {
		lifetime = time.Minute
	}
	r.token = tok.AccessToken
	r.expires = time.Now().Add(lifetime - 30*time.Second)
	return r.token, nil
}

func (r *Reddit) forgetToken() {
	r.mu.Lock()
	r.token = ""
	r.mu.Unlock()
}

// splitTitle uses the first line as the title and the rest as the self-post body.
func splitTitle(text string) (string, string) {
	text = strings.TrimSpace(text)
	title, body, _ := strings.Cut(text, "\n")
	title = strings.TrimSpace(title)
	if runes := []rune(title); len(runes) > redditTitleMaxChars {
		title = string(runes[:redditTitleMaxChars])
	}
	return title, strings.TrimSpace(body)
}

func isRedditRateLimit(errs [][]interface{}) bool {
	for _, e := range errs {
		if len(e) > 0 {
			if code, ok := e[0].(string); ok && code == "RATELIMIT" {
				return true
			}
		}
	}
	return false
}
