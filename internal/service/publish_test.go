package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"marketing_engine/internal/config"
	"marketing_engine/internal/domain"
	"marketing_engine/internal/license"
	"marketing_engine/internal/publisher"
	"marketing_engine/internal/service/mocks"
	"marketing_engine/testdata/utils"
)

type PublishServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	posts      *mocks.MockPostStore
	publishLog *mocks.MockPublishLogStore
	txManager  *mocks.MockTransactionManager
	publishers *mocks.MockPublisherRegistry
	events     *mocks.MockEventPublisher
	license    *mocks.MockLicenseChecker
	metrics    *mocks.MockPublishMetrics

	service *PublishService
	logger  *slog.Logger
	cfg     config.PublishConfig
	now     time.Time
}

func (s *PublishServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.posts = mocks.NewMockPostStore(s.ctrl)
	s.publishLog = mocks.NewMockPublishLogStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.publishers = mocks.NewMockPublisherRegistry(s.ctrl)
	s.events = mocks.NewMockEventPublisher(s.ctrl)
	s.license = mocks.NewMockLicenseChecker(s.ctrl)
	s.metrics = mocks.NewMockPublishMetrics(s.ctrl)

	s.cfg = config.PublishConfig{
		BatchSize:       50,
		StaleClaimAfter: 15 * time.Minute,
	}
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.now = time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)

	s.publishers.EXPECT().DryRun().Return(false).AnyTimes()
	s.publishers.EXPECT().Wait(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.license.EXPECT().Require(license.FeaturePublish).Return(nil).AnyTimes()
	s.metrics.EXPECT().RecordClaim(gomock.Any()).AnyTimes()
	s.metrics.EXPECT().RecordPublishOutcome(gomock.Any(), gomock.Any()).AnyTimes()
	s.metrics.EXPECT().RecordStaleRecovered(gomock.Any()).AnyTimes()
	s.metrics.EXPECT().RecordPublishPass(gomock.Any()).AnyTimes()

	s.service = s.newService(s.posts, s.publishLog, s.txManager, s.publishers, s.events)
}

func (s *PublishServiceTestSuite) newService(posts PostStore, publishLog PublishLogStore, tx TransactionManager, publishers PublisherRegistry, events EventPublisher) *PublishService {
	svc := NewPublishService(posts, publishLog, tx, publishers, events, s.license, s.metrics, s.logger, s.cfg)
	svc.now = func() time.Time { return s.now }
	ids := 0
	var mu sync.Mutex
	svc.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		ids++
		return fmt.Sprintf("log-%d", ids)
	}
	return svc
}

func (s *PublishServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPublishServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PublishServiceTestSuite))
}

func (s *PublishServiceTestSuite) expectTransaction() {
	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func (s *PublishServiceTestSuite) duePost(id string, status domain.PublishStatus, retries int) domain.PostDraft {
	p := newPost(id, domain.ApprovalApproved, status)
	p.RetryCount = retries
	p.ScheduledTime = s.now.Add(-time.Hour)
	return *p
}

func transient(platform domain.Platform) error {
	return domain.NewTransientError(platform, 503, errors.New("service unavailable"))
}

func (s *PublishServiceTestSuite) TestRunOnce_PublishesAndRecords() {
	ctx := context.Background()
	p := s.duePost("p1", domain.PublishStatusNotPublished, 0)

	s.posts.EXPECT().RecoverStale(ctx, s.now.Add(-15*time.Minute), s.now).Return(nil, nil)
	s.posts.EXPECT().ListDue(ctx, s.now, 50).Return([]domain.PostDraft{p}, nil)
	s.posts.EXPECT().Claim(ctx, "p1", domain.PublishStatusNotPublished, 0, s.now, s.now).Return(true, nil)
	s.publishers.EXPECT().Publish(ctx, domain.NewPublishRequest(&p)).
		Return(&domain.PublishReceipt{PlatformPostID: "123", PostURL: "https://twitter.com/i/status/123"}, nil)
	s.expectTransaction()
	s.posts.EXPECT().Finish(gomock.Any(), domain.PublishOutcome{
		PostID:         "p1",
		Status:         domain.PublishStatusPublished,
		RetryCount:     0,
		PlatformPostID: utils.Ptr("123"),
		PostURL:        utils.Ptr("https://twitter.com/i/status/123"),
		At:             s.now,
	}).Return(nil)
	s.publishLog.EXPECT().Append(gomock.Any(), &domain.PublishResult{
		ID:             "log-1",
		PostID:         "p1",
		Platform:       domain.PlatformTwitter,
		Status:         domain.PublishLogPublished,
		PlatformPostID: utils.Ptr("123"),
		PostURL:        utils.Ptr("https://twitter.com/i/status/123"),
		PublishedAt:    s.now,
	}).Return(nil)
	s.events.EXPECT().PublishOutcome(gomock.Any(), gomock.Any(), domain.PublishStatusPublished).Return(nil)

	stats, err := s.service.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(1, stats.Due)
	s.Equal(1, stats.Claimed)
	s.Equal(1, stats.Published)
	s.Require().Len(stats.Results, 1)
	s.True(stats.Results[0].Success())
}

func (s *PublishServiceTestSuite) TestRunOnce_TransientFirstFailureSchedulesRetry() {
	ctx := context.Background()
	p := s.duePost("p1", domain.PublishStatusNotPublished, 0)

	s.posts.EXPECT().RecoverStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.posts.EXPECT().ListDue(ctx, s.now, 50).Return([]domain.PostDraft{p}, nil)
	s.posts.EXPECT().Claim(ctx, "p1", domain.PublishStatusNotPublished, 0, s.now, s.now).Return(true, nil)
	s.publishers.EXPECT().Publish(ctx, gomock.Any()).Return(nil, transient(domain.PlatformTwitter))
	s.expectTransaction()
	s.posts.EXPECT().Finish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, outcome domain.PublishOutcome) error {
			s.Equal(domain.PublishStatusFailedRetry, outcome.Status)
			s.Equal(1, outcome.RetryCount)
			s.Require().NotNil(outcome.Error)
			s.Contains(*outcome.Error, "service unavailable")
			return nil
		},
	)
	s.publishLog.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, entry *domain.PublishResult) error {
			s.Equal(domain.PublishLogFailed, entry.Status)
			return nil
		},
	)
	s.events.EXPECT().PublishOutcome(gomock.Any(), gomock.Any(), domain.PublishStatusFailedRetry).Return(nil)

	stats, err := s.service.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(1, stats.Retrying)
	s.Zero(stats.Published)
}

func (s *PublishServiceTestSuite) TestRunOnce_FatalFailureFlagsImmediately() {
	ctx := context.Background()
	p := s.duePost("p1", domain.PublishStatusNotPublished, 0)

	s.posts.EXPECT().RecoverStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.posts.EXPECT().ListDue(ctx, s.now, 50).Return([]domain.PostDraft{p}, nil)
	s.posts.EXPECT().Claim(ctx, "p1", domain.PublishStatusNotPublished, 0, s.now, s.now).Return(true, nil)
	s.publishers.EXPECT().Publish(ctx, gomock.Any()).
		Return(nil, domain.NewFatalError(domain.PlatformTwitter, 401, errors.New("unauthorized")))
	s.expectTransaction()
	s.posts.EXPECT().Finish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, outcome domain.PublishOutcome) error {
			s.Equal(domain.PublishStatusFlaggedForReview, outcome.Status)
			s.Equal(0, outcome.RetryCount)
			return nil
		},
	)
	s.publishLog.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	s.events.EXPECT().PublishOutcome(gomock.Any(), gomock.Any(), domain.PublishStatusFlaggedForReview).Return(nil)

	stats, err := s.service.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(1, stats.Flagged)
}

func (s *PublishServiceTestSuite) TestRunOnce_LostClaimSkipsPublish() {
	ctx := context.Background()
	p := s.duePost("p1", domain.PublishStatusNotPublished, 0)

	s.posts.EXPECT().RecoverStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.posts.EXPECT().ListDue(ctx, s.now, 50).Return([]domain.PostDraft{p}, nil)
	s.posts.EXPECT().Claim(ctx, "p1", domain.PublishStatusNotPublished, 0, s.now, s.now).Return(false, nil)
	s.publishers.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	stats, err := s.service.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(1, stats.Skipped)
	s.Zero(stats.Claimed)
}

func (s *PublishServiceTestSuite) TestRunOnce_FailedPostDoesNotAbortBatch() {
	ctx := context.Background()
	p1 := s.duePost("p1", domain.PublishStatusNotPublished, 0)
	p2 := s.duePost("p2", domain.PublishStatusNotPublished, 0)

	s.posts.EXPECT().RecoverStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.posts.EXPECT().ListDue(ctx, s.now, 50).Return([]domain.PostDraft{p1, p2}, nil)

	s.posts.EXPECT().Claim(ctx, "p1", domain.PublishStatusNotPublished, 0, s.now, s.now).Return(false, errors.New("connection reset"))

	s.posts.EXPECT().Claim(ctx, "p2", domain.PublishStatusNotPublished, 0, s.now, s.now).Return(true, nil)
	s.publishers.EXPECT().Publish(ctx, domain.NewPublishRequest(&p2)).Return(&domain.PublishReceipt{PlatformPostID: "2"}, nil)
	s.expectTransaction()
	s.posts.EXPECT().Finish(gomock.Any(), gomock.Any()).Return(nil)
	s.publishLog.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	s.events.EXPECT().PublishOutcome(gomock.Any(), gomock.Any(), domain.PublishStatusPublished).Return(nil)

	stats, err := s.service.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(1, stats.Errors)
	s.Equal(1, stats.Published)
}

func (s *PublishServiceTestSuite) TestRunOnce_PacingDefersBeforeClaim() {
	ctx := context.Background()
	p := s.duePost("p1", domain.PublishStatusNotPublished, 0)

	registry := mocks.NewMockPublisherRegistry(s.ctrl)
	registry.EXPECT().DryRun().Return(false).AnyTimes()
	registry.EXPECT().Wait(ctx, domain.PlatformTwitter).Return(context.DeadlineExceeded)
	registry.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
	svc := s.newService(s.posts, s.publishLog, s.txManager, registry, s.events)

	s.posts.EXPECT().RecoverStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.posts.EXPECT().ListDue(ctx, s.now, 50).Return([]domain.PostDraft{p}, nil)
	s.posts.EXPECT().Claim(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.posts.EXPECT().Finish(gomock.Any(), gomock.Any()).Times(0)

	stats, err := svc.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(1, stats.Deferred)
	s.Zero(stats.Claimed)
	s.Zero(stats.Errors)
}

func (s *PublishServiceTestSuite) TestRunOnce_EventFailureDoesNotChangeOutcome() {
	ctx := context.Background()
	p := s.duePost("p1", domain.PublishStatusNotPublished, 0)

	s.posts.EXPECT().RecoverStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.posts.EXPECT().ListDue(ctx, s.now, 50).Return([]domain.PostDraft{p}, nil)
	s.posts.EXPECT().Claim(ctx, "p1", domain.PublishStatusNotPublished, 0, s.now, s.now).Return(true, nil)
	s.publishers.EXPECT().Publish(ctx, gomock.Any()).Return(&domain.PublishReceipt{PlatformPostID: "1"}, nil)
	s.expectTransaction()
	s.posts.EXPECT().Finish(gomock.Any(), gomock.Any()).Return(nil)
	s.publishLog.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	s.events.EXPECT().PublishOutcome(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("channel closed"))

	stats, err := s.service.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(1, stats.Published)
	s.Zero(stats.Errors)
}

func (s *PublishServiceTestSuite) TestRunOnce_CountsRecoveredClaims() {
	ctx := context.Background()
	s.posts.EXPECT().RecoverStale(ctx, s.now.Add(-15*time.Minute), s.now).Return([]string{"a", "b"}, nil)
	s.posts.EXPECT().ListDue(ctx, s.now, 50).Return(nil, nil)

	stats, err := s.service.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(2, stats.Recovered)
	s.Zero(stats.Due)
}

func (s *PublishServiceTestSuite) TestRunOnce_LicenseGateStopsEverything() {
	gate := mocks.NewMockLicenseChecker(s.ctrl)
	gate.EXPECT().Require(license.FeaturePublish).Return(&domain.LicenseGateError{Feature: license.FeaturePublish, Tier: "FREE"})
	svc := NewPublishService(s.posts, s.publishLog, s.txManager, s.publishers, s.events, gate, s.metrics, s.logger, s.cfg)

	s.posts.EXPECT().ListDue(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	stats, err := svc.RunOnce(context.Background(), s.now)

	s.Nil(stats)
	s.ErrorIs(err, domain.ErrLicenseGate)
}

func (s *PublishServiceTestSuite) TestRunOnce_DryRunSkipsLicense() {
	registry := mocks.NewMockPublisherRegistry(s.ctrl)
	registry.EXPECT().DryRun().Return(true).AnyTimes()
	gate := mocks.NewMockLicenseChecker(s.ctrl)
	gate.EXPECT().Require(gomock.Any()).Times(0)
	svc := NewPublishService(s.posts, s.publishLog, s.txManager, registry, nil, gate, nil, s.logger, config.PublishConfig{BatchSize: 5})

	s.posts.EXPECT().ListDue(gomock.Any(), gomock.Any(), 5).Return(nil, nil)

	stats, err := svc.RunOnce(context.Background(), s.now)

	s.Require().NoError(err)
	s.Zero(stats.Due)
}

func (s *PublishServiceTestSuite) TestPublishOne_RefusesUnapprovedPost() {
	ctx := context.Background()
	s.posts.EXPECT().Get(ctx, "p1").Return(newPost("p1", domain.ApprovalPending, domain.PublishStatusNotPublished), nil)
	s.posts.EXPECT().Claim(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := s.service.PublishOne(ctx, "p1")

	s.Nil(result)
	s.ErrorIs(err, domain.ErrNotPublishable)
}

func (s *PublishServiceTestSuite) TestPublishOne_IgnoresScheduledTime() {
	ctx := context.Background()
	p := s.duePost("p1", domain.PublishStatusNotPublished, 0)
	p.ScheduledTime = s.now.Add(72 * time.Hour)

	s.posts.EXPECT().Get(ctx, "p1").Return(&p, nil)
	s.posts.EXPECT().Claim(ctx, "p1", domain.PublishStatusNotPublished, 0, time.Time{}, s.now).Return(true, nil)
	s.publishers.EXPECT().Publish(ctx, gomock.Any()).Return(&domain.PublishReceipt{PlatformPostID: "9", PostURL: "https://x/9"}, nil)
	s.expectTransaction()
	s.posts.EXPECT().Finish(gomock.Any(), gomock.Any()).Return(nil)
	s.publishLog.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	s.events.EXPECT().PublishOutcome(gomock.Any(), gomock.Any(), domain.PublishStatusPublished).Return(nil)

	result, err := s.service.PublishOne(ctx, "p1")

	s.Require().NoError(err)
	s.Equal("https://x/9", *result.PostURL)
}

func (s *PublishServiceTestSuite) TestDecideOutcome() {
	tests := []struct {
		name       string
		retries    int
		receipt    *domain.PublishReceipt
		err        error
		wantStatus domain.PublishStatus
		wantRetry  int
	}{
		{"success", 0, &domain.PublishReceipt{PlatformPostID: "1"}, nil, domain.PublishStatusPublished, 0},
		{"success on retry keeps count", 1, &domain.PublishReceipt{PlatformPostID: "1"}, nil, domain.PublishStatusPublished, 1},
		{"first transient", 0, nil, transient(domain.PlatformReddit), domain.PublishStatusFailedRetry, 1},
		{"second transient", 1, nil, transient(domain.PlatformReddit), domain.PublishStatusFlaggedForReview, 1},
		{"fatal", 0, nil, domain.NewFatalError(domain.PlatformReddit, 400, errors.New("bad")), domain.PublishStatusFlaggedForReview, 0},
		{"unclassified", 0, nil, errors.New("boom"), domain.PublishStatusFlaggedForReview, 0},
		{"no receipt", 0, nil, nil, domain.PublishStatusFlaggedForReview, 0},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			p := s.duePost("p", domain.PublishStatusNotPublished, tt.retries)
			outcome := decideOutcome(&p, tt.receipt, tt.err, s.now)
			s.Equal(tt.wantStatus, outcome.Status)
			s.Equal(tt.wantRetry, outcome.RetryCount)
			if tt.wantStatus != domain.PublishStatusPublished {
				s.NotNil(outcome.Error)
			}
		})
	}
}

// The scenarios below run approval and publishing against the in-memory store.

func (s *PublishServiceTestSuite) scenarioPosts() *memoryPosts {
	at := s.now.Add(-time.Hour)
	var posts []domain.PostDraft
	for _, id := range []string{"P1", "P2", "P3"} {
		p := newPost(id, domain.ApprovalPending, domain.PublishStatusNotPublished)
		p.ScheduledTime = at
		posts = append(posts, *p)
	}
	return newMemoryPosts(posts...)
}

func (s *PublishServiceTestSuite) TestScenario_ReviewDecisionsDriveScheduler() {
	ctx := context.Background()
	store := s.scenarioPosts()
	approval := NewApprovalService(store, directTx{}, s.logger)

	_, err := approval.Approve(ctx, "P1")
	s.Require().NoError(err)
	_, err = approval.Edit(ctx, "P2", "X")
	s.Require().NoError(err)
	_, err = approval.Reject(ctx, "P3", "")
	s.Require().NoError(err)

	published := make(map[string]string)
	s.publishers.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req domain.PublishRequest) (*domain.PublishReceipt, error) {
			published[req.PostID] = req.Content
			return &domain.PublishReceipt{PlatformPostID: req.PostID, PostURL: "https://example.com/" + req.PostID}, nil
		},
	).Times(2)

	svc := s.newService(store, &memoryPublishLog{}, directTx{}, s.publishers, nil)
	stats, err := svc.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(2, stats.Published)
	s.Equal(map[string]string{"P1": "generated P1", "P2": "X"}, published)

	p3, _ := store.Get(ctx, "P3")
	s.Equal(domain.ApprovalRejected, p3.ApprovalStatus)
	s.Equal(domain.PublishStatusNotPublished, p3.PublishStatus)

	_, err = approval.Reject(ctx, "P1", "too late")
	s.ErrorIs(err, domain.ErrInvalidTransition)
	p1, _ := store.Get(ctx, "P1")
	s.Equal(domain.ApprovalApproved, p1.ApprovalStatus)
	s.Equal(domain.PublishStatusPublished, p1.PublishStatus)
}

func (s *PublishServiceTestSuite) TestScenario_TransientThenSuccess() {
	ctx := context.Background()
	store := s.scenarioPosts()
	_, err := NewApprovalService(store, directTx{}, s.logger).Approve(ctx, "P1")
	s.Require().NoError(err)

	log := &memoryPublishLog{}
	svc := s.newService(store, log, directTx{}, s.publishers, nil)

	gomock.InOrder(
		s.publishers.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil, transient(domain.PlatformTwitter)),
		s.publishers.EXPECT().Publish(gomock.Any(), gomock.Any()).
			Return(&domain.PublishReceipt{PlatformPostID: "42", PostURL: "https://twitter.com/i/status/42"}, nil),
	)

	_, err = svc.RunOnce(ctx, s.now)
	s.Require().NoError(err)
	p1, _ := store.Get(ctx, "P1")
	s.Equal(domain.PublishStatusFailedRetry, p1.PublishStatus)
	s.Equal(1, p1.RetryCount)

	s.now = s.now.Add(5 * time.Minute)
	_, err = svc.RunOnce(ctx, s.now)
	s.Require().NoError(err)

	p1, _ = store.Get(ctx, "P1")
	s.Equal(domain.PublishStatusPublished, p1.PublishStatus)
	s.Equal(1, p1.RetryCount)
	s.Require().NotNil(p1.PostURL)
	s.Equal("https://twitter.com/i/status/42", *p1.PostURL)

	entries, _ := log.ForPost(ctx, "P1")
	s.Require().Len(entries, 2)
	s.Equal(domain.PublishLogFailed, entries[0].Status)
	s.Equal(domain.PublishLogPublished, entries[1].Status)
}

func (s *PublishServiceTestSuite) TestScenario_TwoTransientFailuresFlag() {
	ctx := context.Background()
	store := s.scenarioPosts()
	_, err := NewApprovalService(store, directTx{}, s.logger).Approve(ctx, "P1")
	s.Require().NoError(err)

	svc := s.newService(store, &memoryPublishLog{}, directTx{}, s.publishers, nil)
	s.publishers.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil, transient(domain.PlatformTwitter)).Times(2)

	for i := 0; i < 3; i++ {
		_, err := svc.RunOnce(ctx, s.now)
		s.Require().NoError(err)

		p1, _ := store.Get(ctx, "P1")
		s.NotEqual(domain.PublishStatusNotPublished, p1.PublishStatus)
		s.Equal(1, p1.RetryCount)
		s.now = s.now.Add(5 * time.Minute)
	}

	p1, _ := store.Get(ctx, "P1")
	s.Equal(domain.PublishStatusFlaggedForReview, p1.PublishStatus)
}

func (s *PublishServiceTestSuite) TestScenario_ConcurrentRunsPublishOnce() {
	ctx := context.Background()
	store := s.scenarioPosts()
	_, err := NewApprovalService(store, directTx{}, s.logger).Approve(ctx, "P1")
	s.Require().NoError(err)

	s.publishers.EXPECT().Publish(gomock.Any(), gomock.Any()).
		Return(&domain.PublishReceipt{PlatformPostID: "1"}, nil).Times(1)

	const runners = 8
	var wg sync.WaitGroup
	results := make([]*domain.PublishStats, runners)
	for i := 0; i < runners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc := s.newService(store, &memoryPublishLog{}, directTx{}, s.publishers, nil)
			results[i], _ = svc.RunOnce(ctx, s.now)
		}(i)
	}
	wg.Wait()

	published := 0
	for _, st := range results {
		if st != nil {
			published += st.Published
		}
	}
	s.Equal(1, published)
}

func (s *PublishServiceTestSuite) TestScenario_PacingNeverSpendsRetry() {
	ctx := context.Background()
	store := s.scenarioPosts()
	approval := NewApprovalService(store, directTx{}, s.logger)
	for _, id := range []string{"P1", "P2"} {
		_, err := approval.Approve(ctx, id)
		s.Require().NoError(err)
	}

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer srv.Close()

	registry := publisher.NewRegistry(config.Credentials{TwitterBearerToken: "t"}, publisher.Config{
		RatePerMinute: 2,
		Endpoints:     publisher.Endpoints{TwitterTweets: srv.URL},
	}, s.logger)
	svc := s.newService(store, &memoryPublishLog{}, directTx{}, registry, nil)

	for pass := 0; pass < 2; pass++ {
		passCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		stats, err := svc.RunOnce(passCtx, s.now)
		cancel()
		s.Require().NoError(err)
		s.Equal(1, stats.Deferred)
		s.Zero(stats.Errors)
		s.now = s.now.Add(time.Second)
	}

	s.Equal(int32(1), calls.Load())
	statuses := map[domain.PublishStatus]int{}
	for _, id := range []string{"P1", "P2"} {
		p, err := store.Get(ctx, id)
		s.Require().NoError(err)
		statuses[p.PublishStatus]++
		if p.PublishStatus == domain.PublishStatusNotPublished {
			s.Zero(p.RetryCount)
			s.Nil(p.PublishError)
		}
	}
	s.Equal(map[domain.PublishStatus]int{
		domain.PublishStatusPublished:    1,
		domain.PublishStatusNotPublished: 1,
	}, statuses)
}

// reschedulingPosts moves every listed post to later right after listing it, as a concurrent
// reschedule would.
type reschedulingPosts struct {
	*memoryPosts
	to time.Time
}

func (r reschedulingPosts) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PostDraft, error) {
	due, err := r.memoryPosts.ListDue(ctx, now, limit)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range due {
		stored := r.posts[p.ID]
		stored.ScheduledTime = r.to
		r.posts[p.ID] = stored
	}
	return due, err
}

func (s *PublishServiceTestSuite) TestScenario_RescheduledPostIsNotClaimed() {
	ctx := context.Background()
	store := s.scenarioPosts()
	_, err := NewApprovalService(store, directTx{}, s.logger).Approve(ctx, "P1")
	s.Require().NoError(err)

	s.publishers.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
	svc := s.newService(reschedulingPosts{memoryPosts: store, to: s.now.Add(48 * time.Hour)},
		&memoryPublishLog{}, directTx{}, s.publishers, nil)

	stats, err := svc.RunOnce(ctx, s.now)

	s.Require().NoError(err)
	s.Equal(1, stats.Due)
	s.Equal(1, stats.Skipped)
	p1, _ := store.Get(ctx, "P1")
	s.Equal(domain.PublishStatusNotPublished, p1.PublishStatus)
	s.Equal(s.now.Add(48*time.Hour), p1.ScheduledTime)
}
