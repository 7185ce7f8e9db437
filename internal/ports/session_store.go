package ports

import (
	"context"

	"github.com/bnema/rank-admin-cli/internal/domain"
)

// SessionStore persists the refresh cookie and last access token between CLI
// runs. Load returns domain.ErrNoSession when nothing has been saved yet.
type SessionStore interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}
