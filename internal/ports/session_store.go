package ports

import (
	"context"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
)

// SessionStore persists the bound account across process runs. It is
// best effort by contract: callers treat failures as warnings and keep
// in-memory state authoritative while the process is alive.
type SessionStore interface {
	// Get returns the persisted session, or nil when none is stored.
	Get(ctx context.Context) (*domain.PersistedSession, error)
	Set(ctx context.Context, session domain.PersistedSession) error
	Clear(ctx context.Context) error
}
