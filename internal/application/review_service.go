package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/rank-admin-cli/internal/domain"
	"github.com/bnema/rank-admin-cli/internal/ports"
)

var ErrQueueEmpty = errors.New("review queue is empty")

// RankFeed is what the review service needs from the rank API adapter: a
// cache-backed paginated feed, the score mutation, and the optimistic patch
// on a cached page.
type RankFeed interface {
	NextBatch(ctx context.Context, offset, limit int, order domain.BatchOrder) (domain.NextBatch, error)
	SubmitScore(ctx context.Context, channelID domain.ChannelID, score int) (domain.ChannelRank, error)
	DropFromCachedBatch(offset, limit int, order domain.BatchOrder, channelID domain.ChannelID) (undo func(), ok bool)
	InvalidateFeed()
}

// ReviewService drives the channel review workflow: it keeps the local queue
// replenished from the paginated feed and turns operator actions into queue
// pops plus remote mutations.
type ReviewService struct {
	feed   RankFeed
	queue  *ReviewQueue
	logger ports.Logger

	limit int
	order domain.BatchOrder

	mu         sync.Mutex
	nextOffset int
}

type ReviewOption func(*ReviewService)

func WithPageLimit(limit int) ReviewOption {
	return func(s *ReviewService) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

func WithOrder(order domain.BatchOrder) ReviewOption {
	return func(s *ReviewService) {
		if order.Valid() {
			s.order = order
		}
	}
}

func WithReviewLogger(logger ports.Logger) ReviewOption {
	return func(s *ReviewService) { s.logger = logger }
}

func NewReviewService(feed RankFeed, queue *ReviewQueue, opts ...ReviewOption) *ReviewService {
	s := &ReviewService{
		feed:   feed,
		queue:  queue,
		logger: ports.NopLogger{},
		limit:  30,
		order:  domain.OrderSubscribersDesc,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Seed loads the first page into an empty queue. Idempotent: a warm queue is
// left alone.
func (s *ReviewService) Seed(ctx context.Context) error {
	if s.queue.Seeded() {
		return nil
	}
	return s.fetchPage(ctx)
}

// RefillIfNeeded fetches the next page once the queue drains to the
// low-water mark. Arriving items are merged behind the current head; an
// exhausted feed stays exhausted until Refresh.
func (s *ReviewService) RefillIfNeeded(ctx context.Context) (int, error) {
	if !s.queue.NeedsRefill() || s.queue.Exhausted() {
		return 0, nil
	}
	if err := s.fetchPage(ctx); err != nil {
		return 0, err
	}
	return s.queue.Len(), nil
}

func (s *ReviewService) fetchPage(ctx context.Context) error {
	s.mu.Lock()
	offset := s.nextOffset
	s.mu.Unlock()

	batch, err := s.feed.NextBatch(ctx, offset, s.limit, s.order)
	if err != nil {
		return err
	}

	added := s.queue.Merge(batch.Items, offset)
	s.logger.Debug(ctx, "merged feed page", "offset", offset, "received", len(batch.Items), "added", added)

	if len(batch.Items) == 0 {
		// Empty page with an empty queue is terminal; do not spin on the
		// upstream. A manual Refresh re-seeds.
		s.queue.MarkExhausted()
		return nil
	}

	s.mu.Lock()
	s.nextOffset = offset + s.limit
	s.mu.Unlock()

	return nil
}

// Current returns the head channel under review.
func (s *ReviewService) Current() (domain.Channel, bool) {
	item, ok := s.queue.Head()
	return item.Channel, ok
}

// Exhausted reports the terminal "no items" state.
func (s *ReviewService) Exhausted() bool {
	return s.queue.Exhausted()
}

func (s *ReviewService) QueueLen() int {
	return s.queue.Len()
}

// Score completes the head optimistically: the item leaves the queue and the
// cached feed page before the mutation resolves. If the mutation fails the
// cache patch is undone, but the queue item stays removed; the channel
// resurfaces on the next refresh or upstream refill.
func (s *ReviewService) Score(ctx context.Context, score int) (domain.Channel, error) {
	if err := domain.ValidateScore(score); err != nil {
		return domain.Channel{}, err
	}

	item, ok := s.queue.CompleteHead()
	if !ok {
		return domain.Channel{}, ErrQueueEmpty
	}

	undo, patched := s.feed.DropFromCachedBatch(item.PageOffset, s.limit, s.order, item.Channel.ChannelID)

	if _, err := s.feed.SubmitScore(ctx, item.Channel.ChannelID, score); err != nil {
		if patched {
			undo()
		}
		return item.Channel, fmt.Errorf("score channel %s: %w", item.Channel.ChannelID, err)
	}

	return item.Channel, nil
}

// Skip drops the head locally without a remote mutation; the channel comes
// back on the next refresh since the upstream still lists it.
func (s *ReviewService) Skip() (domain.Channel, bool) {
	item, ok := s.queue.CompleteHead()
	return item.Channel, ok
}

// Refresh is the manual reset: stale-marks every cached feed page, empties
// the queue, and re-seeds from offset zero.
func (s *ReviewService) Refresh(ctx context.Context) error {
	s.feed.InvalidateFeed()
	s.queue.Reset()

	s.mu.Lock()
	s.nextOffset = 0
	s.mu.Unlock()

	return s.fetchPage(ctx)
}
