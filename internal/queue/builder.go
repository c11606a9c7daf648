// Package queue assigns publication slots to a week's batch of posts.
// Everything here is deterministic: the same batch and configuration always yield the same schedule.
package queue

import (
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	"marketing_engine/internal/config"
	"marketing_engine/internal/domain"
)

var defaultWindows = map[domain.Platform][]config.Window{
	domain.PlatformTwitter:  {{Hour: 9, Minute: 0}, {Hour: 12, Minute: 30}, {Hour: 17, Minute: 0}},
	domain.PlatformLinkedIn: {{Hour: 8, Minute: 0}, {Hour: 12, Minute: 0}, {Hour: 17, Minute: 30}},
	domain.PlatformReddit:   {{Hour: 10, Minute: 0}, {Hour: 14, Minute: 0}, {Hour: 19, Minute: 0}},
	domain.PlatformYouTube:  {{Hour: 10, Minute: 0}, {Hour: 15, Minute: 0}},
	domain.PlatformTikTok:   {{Hour: 11, Minute: 0}, {Hour: 19, Minute: 0}, {Hour: 21, Minute: 0}},
}

var fallbackWindows = []config.Window{{Hour: 10, Minute: 0}, {Hour: 15, Minute: 0}}

var defaultPostingDays = []int{1, 2, 3, 4, 5, 6}

// DefaultWindows returns the built-in posting windows keyed by platform name.
func DefaultWindows() map[string][]config.Window {
	out := make(map[string][]config.Window, len(defaultWindows))
	for p, w := range defaultWindows {
		out[string(p)] = append([]config.Window(nil), w...)
	}
	return out
}

type Builder struct {
	loc     *time.Location
	days    []int
	windows map[domain.Platform][]config.Window
}

func NewBuilder(cfg config.ScheduleConfig) (*Builder, error) {
	tz := cfg.Timezone
	if tz == "" {
		tz = "America/New_York"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}

	days := cfg.PostingDays
	if len(days) == 0 {
		days = defaultPostingDays
	}

	windows := make(map[domain.Platform][]config.Window, len(defaultWindows))
	for p, w := range defaultWindows {
		windows[p] = w
	}
	for name, w := range cfg.PostingWindows {
		p, ok := domain.ParsePlatform(name)
		if !ok || len(w) == 0 {
			continue
		}
		windows[p] = w
	}

	return &Builder{loc: loc, days: days, windows: windows}, nil
}

func (b *Builder) windowsFor(p domain.Platform) []config.Window {
	if w, ok := b.windows[p]; ok {
		return w
	}
	return fallbackWindows
}

type slot struct {
	at       time.Time
	platform domain.Platform
	rank     int // platform order of first appearance, breaks ties on equal times
}

// Assign returns a copy of posts, in input order, with ScheduledTime set.
// weekOf is interpreted as a calendar date; the Monday of that week anchors the schedule.
func (b *Builder) Assign(posts []domain.PostDraft, weekOf time.Time) []domain.PostDraft {
	out := make([]domain.PostDraft, len(posts))
	copy(out, posts)
	if len(out) == 0 {
		return out
	}

	y, m, d := weekOf.Date()
	monday := domain.WeekStart(time.Date(y, m, d, 0, 0, 0, 0, b.loc))

	byPlatform := make(map[domain.Platform][]int)
	var order []domain.Platform
	for i, p := range out {
		if _, seen := byPlatform[p.Platform]; !seen {
			order = append(order, p.Platform)
		}
		byPlatform[p.Platform] = append(byPlatform[p.Platform], i)
	}

	var slots []slot
	for rank, platform := range order {
		for k := range byPlatform[platform] {
			slots = append(slots, slot{at: b.slotTime(monday, platform, k), platform: platform, rank: rank})
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].at.Equal(slots[j].at) {
			return slots[i].at.Before(slots[j].at)
		}
		return slots[i].rank < slots[j].rank
	})

	sequence, ok := arrange(out, slots, order)
	if !ok {
		sequence = fill(out, slots, byPlatform)
		repair(out, sequence, slots)
	}

	for pos, idx := range sequence {
		out[idx].ScheduledTime = slots[pos].at
	}
	return out
}

// slotTime spreads a platform's k-th post over the posting days first, rotating the
// window each round so a day never repeats a window before all of them are used.
func (b *Builder) slotTime(monday time.Time, platform domain.Platform, k int) time.Time {
	windows := b.windowsFor(platform)
	dayIdx := k % len(b.days)
	round := k / len(b.days)
	w := windows[(dayIdx+round)%len(windows)]

	date := monday.AddDate(0, 0, b.days[dayIdx])
	return time.Date(date.Year(), date.Month(), date.Day(), w.Hour, w.Minute, 0, 0, b.loc)
}

// arrangeBudget caps the memoised search. Batches too large for it fall back to the greedy fill.
const arrangeBudget = 1 << 18

// arranger searches stream assignments per slot. Posts of one platform and one stream are
// interchangeable, so the state is the slot position, the previous stream and the remaining
// count of every platform and stream pair.
type arranger struct {
	slotPlatform []int
	streams      int
	counts       []int
	memo         map[string]int
	budget       int
}

func (a *arranger) key(pos, prev int) string {
	buf := make([]byte, 0, 4+len(a.counts))
	buf = binary.AppendUvarint(buf, uint64(pos))
	buf = binary.AppendUvarint(buf, uint64(prev+1))
	for _, c := range a.counts {
		buf = binary.AppendUvarint(buf, uint64(c))
	}
	return string(buf)
}

// least returns the fewest same-stream neighbours reachable from pos, or -1 once the budget is spent.
func (a *arranger) least(pos, prev int) int {
	if pos == len(a.slotPlatform) {
		return 0
	}
	k := a.key(pos, prev)
	if v, ok := a.memo[k]; ok {
		return v
	}
	if len(a.memo) >= a.budget {
		return -1
	}

	base := a.slotPlatform[pos] * a.streams
	result := -1
	for st := 0; st < a.streams && result != 0; st++ {
		if a.counts[base+st] == 0 {
			continue
		}
		a.counts[base+st]--
		rest := a.least(pos+1, st)
		a.counts[base+st]++
		if rest < 0 {
			return -1
		}
		if st == prev {
			rest++
		}
		if result < 0 || rest < result {
			result = rest
		}
	}
	a.memo[k] = result
	return result
}

// arrange returns, per slot, the index of the post placed there. The layout has the fewest
// same-stream neighbours possible. Among equally good choices a slot takes a stream other than
// the previous one, then the stream with the most posts left, then the first stream seen.
// Posts sharing platform and stream keep their input order. ok is false when the batch is
// too large to search.
func arrange(posts []domain.PostDraft, slots []slot, order []domain.Platform) ([]int, bool) {
	platformIdx := make(map[domain.Platform]int, len(order))
	for i, p := range order {
		platformIdx[p] = i
	}
	streamIdx := make(map[domain.Stream]int)
	for _, p := range posts {
		if _, ok := streamIdx[p.Stream]; !ok {
			streamIdx[p.Stream] = len(streamIdx)
		}
	}
	nStreams := len(streamIdx)

	pools := make([][]int, len(order)*nStreams)
	for i, p := range posts {
		cell := platformIdx[p.Platform]*nStreams + streamIdx[p.Stream]
		pools[cell] = append(pools[cell], i)
	}

	a := &arranger{
		slotPlatform: make([]int, len(slots)),
		streams:      nStreams,
		counts:       make([]int, len(pools)),
		memo:         make(map[string]int),
		budget:       arrangeBudget,
	}
	for i, s := range slots {
		a.slotPlatform[i] = platformIdx[s.platform]
	}
	for i, pool := range pools {
		a.counts[i] = len(pool)
	}

	if a.least(0, -1) < 0 {
		return nil, false
	}
	// reconstruction visits siblings the search pruned
	a.budget += arrangeBudget

	streamLeft := make([]int, nStreams)
	for i, c := range a.counts {
		streamLeft[i%nStreams] += c
	}

	sequence := make([]int, len(slots))
	prev := -1
	for pos := range slots {
		base := a.slotPlatform[pos] * nStreams
		target := a.least(pos, prev)
		pick := -1
		for st := 0; st < nStreams; st++ {
			if a.counts[base+st] == 0 {
				continue
			}
			a.counts[base+st]--
			cost := a.least(pos+1, st)
			a.counts[base+st]++
			if cost < 0 {
				return nil, false
			}
			if st == prev {
				cost++
			}
			if cost != target {
				continue
			}
			if pick == -1 || better(st, pick, prev, streamLeft) {
				pick = st
			}
		}

		cell := base + pick
		a.counts[cell]--
		streamLeft[pick]--
		sequence[pos] = pools[cell][0]
		pools[cell] = pools[cell][1:]
		prev = pick
	}
	return sequence, true
}

func better(candidate, current, prev int, streamLeft []int) bool {
	if (candidate != prev) != (current != prev) {
		return candidate != prev
	}
	return streamLeft[candidate] > streamLeft[current]
}

// fill is the fallback for batches arrange cannot search. It walks the slots in time order
// and picks, for each, a post of the slot's platform.
// It prefers a stream different from the previous slot's, then the stream with the most
// posts still waiting, then input order.
func fill(posts []domain.PostDraft, slots []slot, byPlatform map[domain.Platform][]int) []int {
	remaining := make(map[domain.Platform][]int, len(byPlatform))
	streamLeft := make(map[domain.Stream]int)
	for p, idxs := range byPlatform {
		remaining[p] = append([]int(nil), idxs...)
		for _, i := range idxs {
			streamLeft[posts[i].Stream]++
		}
	}

	sequence := make([]int, len(slots))
	var prev domain.Stream
	for pos, s := range slots {
		candidates := remaining[s.platform]
		best := -1
		for ci, idx := range candidates {
			if pos > 0 && posts[idx].Stream == prev {
				continue
			}
			if best == -1 || streamLeft[posts[idx].Stream] > streamLeft[posts[candidates[best]].Stream] {
				best = ci
			}
		}
		if best == -1 {
			best = 0
		}

		idx := candidates[best]
		remaining[s.platform] = append(candidates[:best:best], candidates[best+1:]...)
		streamLeft[posts[idx].Stream]--
		sequence[pos] = idx
		prev = posts[idx].Stream
	}
	return sequence
}

// repair swaps posts between slots of the same platform while that lowers the number of
// same-stream neighbours. The greedy pass cannot look ahead; this one can.
func repair(posts []domain.PostDraft, sequence []int, slots []slot) {
	conflicts := func() int {
		n := 0
		for i := 1; i < len(sequence); i++ {
			if posts[sequence[i]].Stream == posts[sequence[i-1]].Stream {
				n++
			}
		}
		return n
	}

	current := conflicts()
	for current > 0 {
		improved := false
		for i := 0; i < len(sequence) && !improved; i++ {
			for j := i + 1; j < len(sequence); j++ {
				if slots[i].platform != slots[j].platform || posts[sequence[i]].Stream == posts[sequence[j]].Stream {
					continue
				}
				sequence[i], sequence[j] = sequence[j], sequence[i]
				if c := conflicts(); c < current {
					current = c
					improved = true
					break
				}
				sequence[i], sequence[j] = sequence[j], sequence[i]
			}
		}
		if !improved {
			return
		}
	}
}
