package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bnema/rank-admin-cli/internal/adapters/cache"
	"github.com/bnema/rank-admin-cli/internal/domain"
)

const (
	tagUsers = "users"
	tagKpis  = "kpis"
)

// UsersService covers the /admin/users CRUD surface. Reads go through the
// response cache; writes invalidate the list and the touched user.
type UsersService struct {
	client *Client
	cache  *cache.Cache
}

func NewUsersService(client *Client, responseCache *cache.Cache) *UsersService {
	return &UsersService{client: client, cache: responseCache}
}

func (s *UsersService) List(ctx context.Context, params domain.ListUsersParams) (domain.Pagination[domain.User], error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Role != "" {
		query.Set("role", string(params.Role))
	}
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}

	key := cache.Key{Endpoint: "/admin/users", Params: query}
	page, err := cache.FetchAs(ctx, s.cache, key, []string{tagUsers}, func(ctx context.Context) (domain.Pagination[domain.User], error) {
		return getJSON[domain.Pagination[domain.User]](ctx, s.client, "/admin/users", query)
	})
	if err != nil {
		return domain.Pagination[domain.User]{}, fmt.Errorf("list users: %w", err)
	}

	return page, nil
}

func (s *UsersService) Get(ctx context.Context, id domain.UserID) (domain.User, error) {
	key := cache.Key{Endpoint: "/admin/users/" + string(id)}
	user, err := cache.FetchAs(ctx, s.cache, key, []string{tagUsers, userTag(id)}, func(ctx context.Context) (domain.User, error) {
		return getJSON[domain.User](ctx, s.client, "/admin/users/"+string(id), nil)
	})
	if err != nil {
		if IsNotFound(err) {
			return domain.User{}, fmt.Errorf("get user %s: %w", id, domain.ErrUserNotFound)
		}
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}

	return user, nil
}

type CreateUserParams struct {
	Name     string            `json:"name,omitempty"`
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Roles    []domain.UserRole `json:"roles,omitempty"`
	Notes    string            `json:"notes,omitempty"`
}

func (s *UsersService) Create(ctx context.Context, params CreateUserParams) (domain.User, error) {
	user, err := postJSON[domain.User](ctx, s.client, "/admin/users", params)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.cache.Invalidate(tagUsers)

	return user, nil
}

// UpdateUserParams carries only the fields to change; nil means untouched.
type UpdateUserParams struct {
	Name     *string           `json:"name,omitempty"`
	Email    *string           `json:"email,omitempty"`
	Password *string           `json:"password,omitempty"`
	Roles    []domain.UserRole `json:"roles,omitempty"`
	IsActive *bool             `json:"isActive,omitempty"`
	Notes    *string           `json:"notes,omitempty"`
}

func (s *UsersService) Update(ctx context.Context, id domain.UserID, params UpdateUserParams) (domain.User, error) {
	user, err := patchJSON[domain.User](ctx, s.client, "/admin/users/"+string(id), params)
	if err != nil {
		if IsNotFound(err) {
			return domain.User{}, fmt.Errorf("update user %s: %w", id, domain.ErrUserNotFound)
		}
		return domain.User{}, fmt.Errorf("update user %s: %w", id, err)
	}

	s.cache.Invalidate(tagUsers)
	s.cache.Invalidate(userTag(id))

	return user, nil
}

func (s *UsersService) Delete(ctx context.Context, id domain.UserID) error {
	type deleteResponse struct {
		Success bool `json:"success"`
	}

	if _, err := deleteJSON[deleteResponse](ctx, s.client, "/admin/users/"+string(id)); err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("delete user %s: %w", id, domain.ErrUserNotFound)
		}
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	s.cache.Invalidate(tagUsers)
	s.cache.Invalidate(userTag(id))

	return nil
}

func (s *UsersService) Kpis(ctx context.Context, params domain.KpisParams) (domain.UsersKpis, error) {
	query := url.Values{}
	if params.WindowDays > 0 {
		query.Set("windowDays", strconv.Itoa(params.WindowDays))
	}
	if params.ActiveBucket != "" {
		query.Set("activeBucket", string(params.ActiveBucket))
	}

	key := cache.Key{Endpoint: "/admin/users/kpis", Params: query}
	kpis, err := cache.FetchAs(ctx, s.cache, key, []string{tagKpis}, func(ctx context.Context) (domain.UsersKpis, error) {
		return getJSON[domain.UsersKpis](ctx, s.client, "/admin/users/kpis", query)
	})
	if err != nil {
		return domain.UsersKpis{}, fmt.Errorf("fetch user kpis: %w", err)
	}

	return kpis, nil
}

func userTag(id domain.UserID) string {
	return "user:" + string(id)
}
