package publisher

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing_engine/internal/config"
	"marketing_engine/internal/domain"
	"marketing_engine/testdata/utils"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func request(platform domain.Platform, content string) domain.PublishRequest {
	return domain.PublishRequest{PostID: "post-1", Platform: platform, Content: content}
}

func TestTwitter_Publish(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tw-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1234","text":"x"}}`))
	}))
	defer srv.Close()

	tw := NewTwitter(srv.Client(), srv.URL, "tw-token")
	req := request(domain.PlatformTwitter, "new release is out")
	req.Hashtags = []string{"golang", "#oss"}
	req.CTAURL = "https://example.com/r"

	receipt, err := tw.Publish(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "1234", receipt.PlatformPostID)
	assert.Equal(t, "https://twitter.com/i/status/1234", receipt.PostURL)
	assert.Equal(t, "new release is out\n\nhttps://example.com/r\n\n#golang #oss", got["text"])
}

func TestTwitter_MissingToken(t *testing.T) {
	tw := NewTwitter(http.DefaultClient, "http://unused", "")

	_, err := tw.Publish(context.Background(), request(domain.PlatformTwitter, "x"))

	assert.ErrorIs(t, err, domain.ErrPublishFatal)
}

func TestClassification(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := NewTwitter(srv.Client(), srv.URL, "t").Publish(context.Background(), request(domain.PlatformTwitter, "x"))

			require.Error(t, err)
			assert.Equal(t, tt.transient, domain.IsTransientPublish(err))
			var pubErr *domain.PublishError
			require.ErrorAs(t, err, &pubErr)
			assert.Equal(t, tt.status, pubErr.StatusCode)
		})
	}
}

func TestClassification_NetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := NewTwitter(http.DefaultClient, endpoint, "t").Publish(context.Background(), request(domain.PlatformTwitter, "x"))

	assert.True(t, domain.IsTransientPublish(err))
}

func TestClassification_TimeoutIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 20 * time.Millisecond}
	_, err := NewTwitter(client, srv.URL, "t").Publish(context.Background(), request(domain.PlatformTwitter, "x"))

	assert.True(t, domain.IsTransientPublish(err))
}

func TestLinkedIn_Publish(t *testing.T) {
	var got ugcPost
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		assert.Equal(t, "Bearer li-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("X-Restli-Id", "urn:li:share:99")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	li := NewLinkedIn(srv.Client(), srv.URL, "li-token", "abc")
	receipt, err := li.Publish(context.Background(), request(domain.PlatformLinkedIn, "edited text"))

	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:99", receipt.PlatformPostID)
	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:99", receipt.PostURL)
	assert.Equal(t, "urn:li:person:abc", got.Author)
	assert.Equal(t, "edited text", got.SpecificContent["com.linkedin.ugc.ShareContent"].ShareCommentary.Text)
}

func TestLinkedIn_MissingPersonID(t *testing.T) {
	_, err := NewLinkedIn(http.DefaultClient, "http://unused", "token", "").
		Publish(context.Background(), request(domain.PlatformLinkedIn, "x"))

	assert.ErrorIs(t, err, domain.ErrPublishFatal)
}

func redditServer(t *testing.T, tokenCalls *atomic.Int32, submit http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "cid", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		_, _ = w.Write([]byte(`{"access_token":"rd-token","expires_in":3600}`))
	})
	mux.HandleFunc("/submit", submit)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestReddit(srv *httptest.Server) *Reddit {
	return NewReddit(srv.Client(), Endpoints{RedditToken: srv.URL + "/token", RedditSubmit: srv.URL + "/submit"},
		RedditCredentials{ClientID: "cid", ClientSecret: "secret", Username: "u", Password: "p"})
}

func TestReddit_Publish(t *testing.T) {
	var tokenCalls atomic.Int32
	var form url.Values
	srv := redditServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer rd-token", r.Header.Get("Authorization"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = w.Write([]byte(`{"json":{"errors":[],"data":{"id":"abc","name":"t3_abc","url":"https://reddit.com/r/golang/abc"}}}`))
	})

	rd := newTestReddit(srv)
	req := request(domain.PlatformReddit, "Title line\nbody text")
	req.Subreddit = utils.Ptr("golang")
	req.Hashtags = []string{"ignored"}

	receipt, err := rd.Publish(context.Background(), req)
	require.NoError(t, err)
	_, err = rd.Publish(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "t3_abc", receipt.PlatformPostID)
	assert.Equal(t, "https://reddit.com/r/golang/abc", receipt.PostURL)
	assert.Equal(t, "golang", form.Get("sr"))
	assert.Equal(t, "self", form.Get("kind"))
	assert.Equal(t, "Title line", form.Get("title"))
	assert.Equal(t, "body text", form.Get("text"))
	assert.Equal(t, int32(1), tokenCalls.Load(), "token is cached")
}

func TestReddit_ErrorsInBody(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := redditServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "ratelimit") {
			_, _ = w.Write([]byte(`{"json":{"errors":[["RATELIMIT","slow down","ratelimit"]]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"json":{"errors":[["SUBREDDIT_NOEXIST","no such subreddit","sr"]]}}`))
	})
	rd := newTestReddit(srv)
	req := request(domain.PlatformReddit, "t")
	req.Subreddit = utils.Ptr("nope")

	_, err := rd.Publish(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrPublishFatal)

	rd.submitURL = srv.URL + "/submit?ratelimit=1"
	_, err = rd.Publish(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrPublishTransient)
}

func TestReddit_MissingSubredditIsFatal(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := redditServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("submit must not be called")
	})

	_, err := newTestReddit(srv).Publish(context.Background(), request(domain.PlatformReddit, "t"))

	assert.ErrorIs(t, err, domain.ErrPublishFatal)
	assert.Zero(t, tokenCalls.Load())
}

func TestSplitTitle(t *testing.T) {
	title, body := splitTitle(strings.Repeat("a", 350) + "\nrest\nmore")
	assert.Len(t, title, 300)
	assert.Equal(t, "rest\nmore", body)

	title, body = splitTitle("only a title")
	assert.Equal(t, "only a title", title)
	assert.Empty(t, body)
}

func TestComposeText_RespectsLimit(t *testing.T) {
	req := domain.PublishRequest{
		Content:  strings.Repeat("x", 270),
		Hashtags: []string{"one", "two"},
		CTAURL:   "https://example.com/very/long/link",
	}

	// the link does not fit, the first tag still does
	assert.Equal(t, req.Content+"\n\n#one", composeText(req, 280, true))

	req.Content = "short"
	req.CTAURL = ""
	assert.Equal(t, "short\n\n#one #two", composeText(req, 280, true))
	assert.Equal(t, "short", composeText(req, 280, false))
}

func TestComposeText_SkipsPresentCTAAndTags(t *testing.T) {
	req := domain.PublishRequest{
		Content:  "see https://example.com #Golang",
		Hashtags: []string{"golang"},
		CTAURL:   "https://example.com",
	}
	assert.Equal(t, req.Content, composeText(req, 0, true))
}

func TestRegistry_DryRun(t *testing.T) {
	reg := NewDryRunRegistry(testLogger())

	for _, p := range domain.Platforms {
		receipt, err := reg.Publish(context.Background(), request(p, "x"))
		require.NoError(t, err)
		assert.Equal(t, DryRunPostID, receipt.PlatformPostID)
		assert.Equal(t, DryRunURL, receipt.PostURL)
	}
	assert.True(t, reg.DryRun())
}

func TestRegistry_UnsupportedPlatformIsFatal(t *testing.T) {
	reg := NewRegistry(config.Credentials{}, Config{}, testLogger())

	_, err := reg.Publish(context.Background(), request(domain.PlatformTikTok, "x"))

	assert.ErrorIs(t, err, domain.ErrPublishFatal)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
	assert.False(t, reg.DryRun())
}

func TestRegistry_Pacing(t *testing.T) {
	reg := NewRegistry(config.Credentials{TwitterBearerToken: "t"}, Config{RatePerMinute: 1}, testLogger())

	require.NoError(t, reg.Wait(context.Background(), domain.PlatformTwitter))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := reg.Wait(ctx, domain.PlatformTwitter)
	require.Error(t, err)
	assert.False(t, domain.IsTransientPublish(err))

	// other platforms have their own budget
	assert.NoError(t, reg.Wait(ctx, domain.PlatformLinkedIn))
}

func TestRegistry_PublishDoesNotPace(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer srv.Close()

	reg := NewRegistry(config.Credentials{TwitterBearerToken: "t"}, Config{
		RatePerMinute: 1,
		Endpoints:     Endpoints{TwitterTweets: srv.URL},
	}, testLogger())

	for i := 0; i < 2; i++ {
		_, err := reg.Publish(context.Background(), request(domain.PlatformTwitter, "x"))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestDryRunRegistry_NeverWaits(t *testing.T) {
	reg := NewDryRunRegistry(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, reg.Wait(ctx, domain.PlatformTwitter))
}
