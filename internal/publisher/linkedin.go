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

const linkedInMaxChars = 3000

type LinkedIn struct {
	client   *http.Client
	endpoint string
	token    string
	personID string
}

func NewLinkedIn(client *http.Client, endpoint, accessToken, personID string) *LinkedIn {
	return &LinkedIn{client: client, endpoint: endpoint, token: accessToken, personID: personID}
}

func (l *LinkedIn) Platform() domain.Platform {
	return domain.PlatformLinkedIn
}

type ugcPost struct {
	Author          string              `json:"author"`
	LifecycleState  string              `json:"lifecycleState"`
	SpecificContent map[string]ugcShare `json:"specificContent"`
	Visibility      map[string]string   `json:"visibility"`
}

type ugcShare struct {
	ShareCommentary    ugcText `json:"shareCommentary"`
	ShareMediaCategory string  `json:"shareMediaCategory"`
}

type ugcText struct {
	Text string `json:"text"`
}

func (l *LinkedIn) Publish(ctx context.Context, req domain.PublishRequest) (*domain.PublishReceipt, error) {
	if l.token == "" || l.personID == "" {
		return nil, domain.NewFatalError(domain.PlatformLinkedIn, 0,
			errors.New("missing MKEN_LINKEDIN_ACCESS_TOKEN or MKEN_LINKEDIN_PERSON_ID"))
	}

	post := ugcPost{
		Author:         "urn:li:person:" + l.personID,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]ugcShare{
			"com.linkedin.ugc.ShareContent": {
				ShareCommentary:    ugcText{Text: composeText(req, linkedInMaxChars, true)},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: map[string]string{"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"},
	}
	payload, err := json.Marshal(post)
	if err != nil {
		return nil, domain.NewFatalError(domain.PlatformLinkedIn, 0, fmt.Errorf("encode post: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewFatalError(domain.PlatformLinkedIn, 0, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+l.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(domain.PlatformLinkedIn, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, classifyResponse(domain.PlatformLinkedIn, resp)
	}

	urn := resp.Header.Get("X-Restli-Id")
	receipt := &domain.PublishReceipt{PlatformPostID: urn}
	if urn != "" {
		receipt.PostURL = "https://www.linkedin.com/feed/update/" + urn
	}
	return receipt, nil
}
