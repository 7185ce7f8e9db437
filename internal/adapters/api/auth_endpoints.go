package api

import (
	"context"
	"fmt"

	"github.com/bnema/rank-admin-cli/internal/domain"
)

// Me fetches the signed-in admin's profile. Unlike login/refresh/logout this
// goes through the retrying transport: an expired token is refreshed first.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	user, err := getJSON[domain.User](ctx, c, "/auth/me", nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch profile: %w", err)
	}

	return user, nil
}
