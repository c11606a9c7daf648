package domain

// ApprovalStatus is the human review decision on a post.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalEdited   ApprovalStatus = "edited"
	ApprovalRejected ApprovalStatus = "rejected"
)

var ApprovalStatuses = []ApprovalStatus{
	ApprovalPending,
	ApprovalApproved,
	ApprovalEdited,
	ApprovalRejected,
}

func ParseApprovalStatus(s string) (ApprovalStatus, bool) {
	for _, known := range ApprovalStatuses {
		if ApprovalStatus(s) == known {
			return known, true
		}
	}
	return "", false
}

func (s ApprovalStatus) PublishEligible() bool {
	return s == ApprovalApproved || s == ApprovalEdited
}

// PublishStatus is the delivery state of a post.
type PublishStatus string

const (
	PublishStatusNotPublished PublishStatus = "not_published"
	// PublishStatusPublishing marks a post claimed by a scheduler run and in flight.
	PublishStatusPublishing       PublishStatus = "publishing"
	PublishStatusPublished        PublishStatus = "published"
	PublishStatusFailedRetry      PublishStatus = "failed_retry"
	PublishStatusFlaggedForReview PublishStatus = "flagged_for_review"
)

var PublishStatuses = []PublishStatus{
	PublishStatusNotPublished,
	PublishStatusPublishing,
	PublishStatusPublished,
	PublishStatusFailedRetry,
	PublishStatusFlaggedForReview,
}

func ParsePublishStatus(s string) (PublishStatus, bool) {
	for _, known := range PublishStatuses {
		if PublishStatus(s) == known {
			return known, true
		}
	}
	return "", false
}

// MaxPublishRetries caps automatic publish retries after a transient failure.
const MaxPublishRetries = 1

// ApprovalAction is a requested mutation of a post's review state.
type ApprovalAction string

const (
	ActionApprove    ApprovalAction = "approve"
	ActionEdit       ApprovalAction = "edit"
	ActionReject     ApprovalAction = "reject"
	ActionReschedule ApprovalAction = "reschedule"
)

// NextApprovalStatus computes the approval status a post moves to when action is applied.
// Reschedule keeps the current approval status. Every disallowed combination returns
// an *InvalidTransitionError and the caller must leave the post untouched.
func NextApprovalStatus(post *PostDraft, action ApprovalAction) (ApprovalStatus, error) {
	invalid := &InvalidTransitionError{
		PostID:        post.ID,
		From:          post.ApprovalStatus,
		PublishStatus: post.PublishStatus,
		Action:        action,
	}

	switch post.PublishStatus {
	case PublishStatusPublished, PublishStatusPublishing:
		return "", invalid
	case PublishStatusNotPublished, PublishStatusFailedRetry, PublishStatusFlaggedForReview:
	default:
		return "", invalid
	}

	switch post.ApprovalStatus {
	case ApprovalPending:
		switch action {
		case ActionApprove:
			return ApprovalApproved, nil
		case ActionEdit:
			return ApprovalEdited, nil
		case ActionReject:
			return ApprovalRejected, nil
		case ActionReschedule:
			return ApprovalPending, nil
		}
	case ApprovalApproved, ApprovalEdited:
		switch action {
		case ActionReschedule:
			return post.ApprovalStatus, nil
		case ActionReject:
			// dismissal of a post the scheduler gave up on
			if post.PublishStatus == PublishStatusFlaggedForReview {
				return ApprovalRejected, nil
			}
		case ActionApprove, ActionEdit:
		}
	case ApprovalRejected:
	}

	return "", invalid
}
