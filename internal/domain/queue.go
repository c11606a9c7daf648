package domain

import "time"

// WeeklyQueue is a read-only view over the posts scheduled in one week.
type WeeklyQueue struct {
	WeekOf time.Time
	Posts  []PostDraft
}

func (q *WeeklyQueue) TotalByPlatform() map[Platform]int {
	counts := make(map[Platform]int)
	for _, p := range q.Posts {
		counts[p.Platform]++
	}
	return counts
}

func (q *WeeklyQueue) TotalByStream() map[Stream]int {
	counts := make(map[Stream]int)
	for _, p := range q.Posts {
		counts[p.Stream]++
	}
	return counts
}

func (q *WeeklyQueue) PendingCount() int {
	n := 0
	for _, p := range q.Posts {
		if p.ApprovalStatus == ApprovalPending {
			n++
		}
	}
	return n
}

func (q *WeeklyQueue) ApprovedCount() int {
	n := 0
	for _, p := range q.Posts {
		if p.ApprovalStatus.PublishEligible() {
			n++
		}
	}
	return n
}

// ApprovalSummary counts posts per approval status.
type ApprovalSummary struct {
	Counts map[ApprovalStatus]int
	Total  int
}

// WeekStart returns the Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// NextMonday returns the first Monday strictly after t.
func NextMonday(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 7)
}
