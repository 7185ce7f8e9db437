package application

import (
	"sync"

	"github.com/bnema/rank-admin-cli/internal/domain"
)

// LowWaterMark is the queue length at or below which a refill is due.
const LowWaterMark = 3

// QueueItem is one queued channel plus the feed offset of the page it came
// from, so an optimistic cache patch can target the right page.
type QueueItem struct {
	Channel    domain.Channel
	PageOffset int
}

// ReviewQueue is the local, order-preserving, deduplicated queue behind the
// review flow. Merges are idempotent (channel ID is the identity key) and
// never reorder or disturb existing entries; the head only moves when the
// operator completes or skips it.
type ReviewQueue struct {
	mu        sync.Mutex
	items     []QueueItem
	member    map[domain.ChannelID]struct{}
	seeded    bool
	exhausted bool
}

func NewReviewQueue() *ReviewQueue {
	return &ReviewQueue{member: map[domain.ChannelID]struct{}{}}
}

// Merge appends channels whose ID is not already queued, preserving the
// incoming relative order, and returns how many were added. Duplicate IDs are
// no-ops, so replaying a page is safe.
func (q *ReviewQueue) Merge(channels []domain.Channel, pageOffset int) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seeded = true

	added := 0
	for _, channel := range channels {
		if _, ok := q.member[channel.ChannelID]; ok {
			continue
		}
		q.member[channel.ChannelID] = struct{}{}
		q.items = append(q.items, QueueItem{Channel: channel, PageOffset: pageOffset})
		added++
	}
	if added > 0 {
		q.exhausted = false
	}

	return added
}

// Head returns the current item without removing it.
func (q *ReviewQueue) Head() (QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return QueueItem{}, false
	}
	return q.items[0], true
}

// CompleteHead removes the head immediately, before any server confirmation.
func (q *ReviewQueue) CompleteHead() (QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return QueueItem{}, false
	}

	head := q.items[0]
	q.items = q.items[1:]
	delete(q.member, head.Channel.ChannelID)

	return head, true
}

// NeedsRefill reports whether the queue has drained to the low-water mark.
func (q *ReviewQueue) NeedsRefill() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items) <= LowWaterMark
}

func (q *ReviewQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// Seeded reports whether at least one page, possibly empty, has arrived.
func (q *ReviewQueue) Seeded() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.seeded
}

// Exhausted is the terminal empty state: the upstream returned an empty page
// while the queue was empty. Only Reset clears it.
func (q *ReviewQueue) Exhausted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.exhausted
}

func (q *ReviewQueue) MarkExhausted() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		q.exhausted = true
	}
}

// Reset empties the queue for a manual re-seed.
func (q *ReviewQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = nil
	q.member = map[domain.ChannelID]struct{}{}
	q.seeded = false
	q.exhausted = false
}
