package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bnema/rank-admin-cli/internal/adapters/cache"
	"github.com/bnema/rank-admin-cli/internal/domain"
)

// TagRank marks cached next-batch pages; a manual refresh invalidates them
// all at once.
const TagRank = "rank"

// RankService covers the channel-rank endpoints on the rank API server.
type RankService struct {
	client *Client
	cache  *cache.Cache
}

func NewRankService(client *Client, responseCache *cache.Cache) *RankService {
	return &RankService{client: client, cache: responseCache}
}

// NextBatchKey is the cache key for one feed page. The review service patches
// this entry optimistically when a channel is scored.
func NextBatchKey(offset, limit int, order domain.BatchOrder) cache.Key {
	return cache.Key{
		Endpoint: "/admin/channel-rank/next-batch",
		Params:   nextBatchQuery(offset, limit, order),
	}
}

func nextBatchQuery(offset, limit int, order domain.BatchOrder) url.Values {
	return url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
		"order":  {string(order)},
	}
}

func (s *RankService) NextBatch(ctx context.Context, offset, limit int, order domain.BatchOrder) (domain.NextBatch, error) {
	if !order.Valid() {
		return domain.NextBatch{}, fmt.Errorf("unsupported batch order %q", order)
	}

	query := nextBatchQuery(offset, limit, order)
	batch, err := cache.FetchAs(ctx, s.cache, NextBatchKey(offset, limit, order), []string{TagRank}, func(ctx context.Context) (domain.NextBatch, error) {
		return getJSON[domain.NextBatch](ctx, s.client, "/admin/channel-rank/next-batch", query)
	})
	if err != nil {
		return domain.NextBatch{}, fmt.Errorf("fetch next batch at offset %d: %w", offset, err)
	}

	return batch, nil
}

// SubmitScore persists one channel's score. Not cached; the caller handles
// the optimistic cache patch around it.
func (s *RankService) SubmitScore(ctx context.Context, channelID domain.ChannelID, score int) (domain.ChannelRank, error) {
	if err := domain.ValidateScore(score); err != nil {
		return domain.ChannelRank{}, err
	}

	rank, err := postJSON[domain.ChannelRank](ctx, s.client, "/admin/channel-rank", domain.ChannelRank{
		ChannelID: channelID,
		Score:     score,
	})
	if err != nil {
		return domain.ChannelRank{}, fmt.Errorf("submit score for channel %s: %w", channelID, err)
	}

	return rank, nil
}

// DropFromCachedBatch removes a channel from one cached feed page and returns
// an undo restoring the page exactly as it was. ok is false when the page is
// not cached.
func (s *RankService) DropFromCachedBatch(offset, limit int, order domain.BatchOrder, channelID domain.ChannelID) (undo func(), ok bool) {
	return cache.UpdateAs(s.cache, NextBatchKey(offset, limit, order), func(batch domain.NextBatch) domain.NextBatch {
		filtered := batch
		filtered.Items = make([]domain.Channel, 0, len(batch.Items))
		for _, channel := range batch.Items {
			if channel.ChannelID != channelID {
				filtered.Items = append(filtered.Items, channel)
			}
		}
		return filtered
	})
}

// InvalidateFeed marks every cached feed page stale.
func (s *RankService) InvalidateFeed() {
	s.cache.Invalidate(TagRank)
}
