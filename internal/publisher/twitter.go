package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"marketing_engine/internal/domain"
)

const tweetMaxChars = 280

type Twitter struct {
	client   *http.Client
	endpoint string
	token    string
}

func NewTwitter(client *http.Client, endpoint, bearerToken string) *Twitter {
	return &Twitter{client: client, endpoint: endpoint, token: bearerToken}
}

func (t *Twitter) Platform() domain.Platform {
	return domain.PlatformTwitter
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (t *Twitter) Publish(ctx context.Context, req domain.PublishRequest) (*domain.PublishReceipt, error) {
	if t.token == "" {
		return nil, domain.NewFatalError(domain.PlatformTwitter, 0, errors.New("missing MKEN_TWITTER_BEARER_TOKEN"))
	}

	payload, err := json.Marshal(map[string]string{"text": composeText(req, tweetMaxChars, true)})
	if err != nil {
		return nil, domain.NewFatalError(domain.PlatformTwitter, 0, fmt.Errorf("encode tweet: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewFatalError(domain.PlatformTwitter, 0, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+t.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(domain.PlatformTwitter, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, classifyResponse(domain.PlatformTwitter, resp)
	}

	var body tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewFatalError(domain.PlatformTwitter, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	receipt := &domain.PublishReceipt{PlatformPostID: body.Data.ID}
	if body.Data.ID != "" {
		receipt.PostURL = "https://twitter.com/i/status/" + body.Data.ID
	}
	return receipt, nil
}
