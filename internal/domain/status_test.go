package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveContent(t *testing.T) {
	edited := "X"
	empty := ""

	post := &PostDraft{Content: "original"}
	assert.Equal(t, "original", post.EffectiveContent())

	post.EditedContent = &edited
	assert.Equal(t, "X", post.EffectiveContent())

	// an explicit empty edit still overrides
	post.EditedContent = &empty
	assert.Equal(t, "", post.EffectiveContent())
}

func TestNextApprovalStatus_FromPending(t *testing.T) {
	tests := []struct {
		action ApprovalAction
		want   ApprovalStatus
	}{
		{ActionApprove, ApprovalApproved},
		{ActionEdit, ApprovalEdited},
		{ActionReject, ApprovalRejected},
		{ActionReschedule, ApprovalPending},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			post := &PostDraft{ID: "p1", ApprovalStatus: ApprovalPending, PublishStatus: PublishStatusNotPublished}
			got, err := NextApprovalStatus(post, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextApprovalStatus_RejectedIsTerminal(t *testing.T) {
	for _, action := range []ApprovalAction{ActionApprove, ActionEdit, ActionReject, ActionReschedule} {
		post := &PostDraft{ID: "p3", ApprovalStatus: ApprovalRejected, PublishStatus: PublishStatusNotPublished}
		_, err := NextApprovalStatus(post, action)
		assert.ErrorIs(t, err, ErrInvalidTransition, "action %s", action)

		var te *InvalidTransitionError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "p3", te.PostID)
		assert.Equal(t, action, te.Action)
	}
}

func TestNextApprovalStatus_PublishedIsImmutable(t *testing.T) {
	for _, from := range ApprovalStatuses {
		for _, action := range []ApprovalAction{ActionApprove, ActionEdit, ActionReject, ActionReschedule} {
			post := &PostDraft{ApprovalStatus: from, PublishStatus: PublishStatusPublished}
			_, err := NextApprovalStatus(post, action)
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s/%s", from, action)
		}
	}
}

func TestNextApprovalStatus_InFlightRejected(t *testing.T) {
	post := &PostDraft{ApprovalStatus: ApprovalApproved, PublishStatus: PublishStatusPublishing}
	_, err := NextApprovalStatus(post, ActionReschedule)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNextApprovalStatus_ApprovedIsTerminalForReview(t *testing.T) {
	for _, from := range []ApprovalStatus{ApprovalApproved, ApprovalEdited} {
		post := &PostDraft{ApprovalStatus: from, PublishStatus: PublishStatusNotPublished}

		_, err := NextApprovalStatus(post, ActionApprove)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = NextApprovalStatus(post, ActionEdit)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = NextApprovalStatus(post, ActionReject)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		got, err := NextApprovalStatus(post, ActionReschedule)
		require.NoError(t, err)
		assert.Equal(t, from, got)
	}
}

func TestNextApprovalStatus_DismissFlagged(t *testing.T) {
	post := &PostDraft{ApprovalStatus: ApprovalEdited, PublishStatus: PublishStatusFlaggedForReview, RetryCount: 1}
	got, err := NextApprovalStatus(post, ActionReject)
	require.NoError(t, err)
	assert.Equal(t, ApprovalRejected, got)
}

func TestCanClaim(t *testing.T) {
	tests := []struct {
		name  string
		post  PostDraft
		claim bool
	}{
		{"approved fresh", PostDraft{ApprovalStatus: ApprovalApproved, PublishStatus: PublishStatusNotPublished}, true},
		{"edited fresh", PostDraft{ApprovalStatus: ApprovalEdited, PublishStatus: PublishStatusNotPublished}, true},
		{"pending", PostDraft{ApprovalStatus: ApprovalPending, PublishStatus: PublishStatusNotPublished}, false},
		{"rejected", PostDraft{ApprovalStatus: ApprovalRejected, PublishStatus: PublishStatusNotPublished}, false},
		{"retry pass", PostDraft{ApprovalStatus: ApprovalApproved, PublishStatus: PublishStatusFailedRetry, RetryCount: 1}, true},
		{"in flight", PostDraft{ApprovalStatus: ApprovalApproved, PublishStatus: PublishStatusPublishing}, false},
		{"published", PostDraft{ApprovalStatus: ApprovalApproved, PublishStatus: PublishStatusPublished}, false},
		{"flagged", PostDraft{ApprovalStatus: ApprovalApproved, PublishStatus: PublishStatusFlaggedForReview, RetryCount: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.claim, tt.post.CanClaim())
		})
	}
}

func TestPublishErrorClassification(t *testing.T) {
	transient := NewTransientError(PlatformTwitter, 503, errors.New("unavailable"))
	fatal := NewFatalError(PlatformTwitter, 401, errors.New("unauthorized"))

	assert.True(t, IsTransientPublish(transient))
	assert.False(t, IsTransientPublish(fatal))
	assert.ErrorIs(t, fatal, ErrPublishFatal)
	assert.False(t, IsTransientPublish(errors.New("unclassified")))
}

func TestWeekStart(t *testing.T) {
	wed := time.Date(2025, 3, 5, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), WeekStart(wed))

	sun := time.Date(2025, 3, 9, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), WeekStart(sun))

	mon := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), NextMonday(mon))
}

func TestWeeklyQueueTotals(t *testing.T) {
	q := WeeklyQueue{Posts: []PostDraft{
		{Platform: PlatformTwitter, Stream: StreamLinuxTools, ApprovalStatus: ApprovalPending},
		{Platform: PlatformTwitter, Stream: StreamTechnicalAI, ApprovalStatus: ApprovalApproved},
		{Platform: PlatformReddit, Stream: StreamLinuxTools, ApprovalStatus: ApprovalEdited},
		{Platform: PlatformLinkedIn, Stream: StreamLinuxTools, ApprovalStatus: ApprovalRejected},
	}}

	assert.Equal(t, map[Platform]int{PlatformTwitter: 2, PlatformReddit: 1, PlatformLinkedIn: 1}, q.TotalByPlatform())
	assert.Equal(t, map[Stream]int{StreamLinuxTools: 3, StreamTechnicalAI: 1}, q.TotalByStream())
	assert.Equal(t, 1, q.PendingCount())
	assert.Equal(t, 2, q.ApprovedCount())
}

func TestParsePlatformAndStream(t *testing.T) {
	p, ok := ParsePlatform(" LinkedIn ")
	assert.True(t, ok)
	assert.Equal(t, PlatformLinkedIn, p)

	_, ok = ParsePlatform("myspace")
	assert.False(t, ok)

	s, ok := ParseStream("EVE_CONTENT")
	assert.True(t, ok)
	assert.Equal(t, StreamEVEContent, s)
}

func TestStatusFilter(t *testing.T) {
	f, ok := StatusFilter("all")
	require.True(t, ok)
	assert.Equal(t, PostFilter{}, f)

	f, ok = StatusFilter("edited")
	require.True(t, ok)
	require.NotNil(t, f.ApprovalStatus)
	assert.Equal(t, ApprovalEdited, *f.ApprovalStatus)
	assert.Nil(t, f.PublishStatus)

	f, ok = StatusFilter("FLAGGED_FOR_REVIEW")
	require.True(t, ok)
	require.NotNil(t, f.PublishStatus)
	assert.Equal(t, PublishStatusFlaggedForReview, *f.PublishStatus)
	assert.Nil(t, f.ApprovalStatus)

	_, ok = StatusFilter("archived")
	assert.False(t, ok)
}
