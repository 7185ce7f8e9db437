package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bnema/rank-admin-cli/internal/adapters/cache"
	"github.com/bnema/rank-admin-cli/internal/domain"
)

const tagThumbnails = "thumbnails"

// ThumbnailsService covers the training-gallery listing on the rank API.
type ThumbnailsService struct {
	client *Client
	cache  *cache.Cache
}

func NewThumbnailsService(client *Client, responseCache *cache.Cache) *ThumbnailsService {
	return &ThumbnailsService{client: client, cache: responseCache}
}

func (s *ThumbnailsService) List(ctx context.Context, page, limit int) (domain.ThumbnailsPage, error) {
	query := url.Values{"order": {"createdAt"}}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	key := cache.Key{Endpoint: "/admin/thumbnails", Params: query}
	listing, err := cache.FetchAs(ctx, s.cache, key, []string{tagThumbnails}, func(ctx context.Context) (domain.ThumbnailsPage, error) {
		return getJSON[domain.ThumbnailsPage](ctx, s.client, "/admin/thumbnails", query)
	})
	if err != nil {
		return domain.ThumbnailsPage{}, fmt.Errorf("list training thumbnails: %w", err)
	}

	return listing, nil
}
