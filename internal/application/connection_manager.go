package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
	"github.com/bnema/wallet-bridge-cli/internal/ports"
)

const defaultHandshakeTimeout = 2 * time.Minute

// ConnectionManager owns the connection state machine and mediates
// between the wallet gateway and the session store. State is mutated
// only through its methods.
type ConnectionManager struct {
	gateway          ports.WalletGateway
	store            ports.SessionStore
	handshakeTimeout time.Duration

	mu    sync.Mutex
	state domain.ConnectionState
}

func NewConnectionManager(gateway ports.WalletGateway, store ports.SessionStore, handshakeTimeout time.Duration) *ConnectionManager {
	if handshakeTimeout <= 0 {
		handshakeTimeout = defaultHandshakeTimeout
	}

	return &ConnectionManager{
		gateway:          gateway,
		store:            store,
		handshakeTimeout: handshakeTimeout,
		state:            domain.ConnectionState{Phase: domain.PhaseDisconnected},
	}
}

type ConnectResult struct {
	AccountID domain.AccountID
	// StorageWarning is non-nil when the session store could not be
	// updated: the session was not persisted after a successful
	// handshake, or a stale session was not cleared after a failed
	// one. The connection outcome itself is unaffected; auto-restore
	// on the next run is what suffers.
	StorageWarning error
}

// Connect runs the availability probe and the user-approval handshake.
// A second call while a handshake is in flight fails fast with
// domain.ErrAlreadyInProgress and leaves the in-flight attempt
// untouched. Denial and timeout return the state machine to
// disconnected, so a retry needs no explicit reset. When a reconnect
// from the connected phase fails, the previously persisted session is
// cleared as well: the wallet just refused this client, so the next
// run must not silently restore the old binding.
func (m *ConnectionManager) Connect(ctx context.Context) (ConnectResult, error) {
	m.mu.Lock()
	if m.state.Phase == domain.PhaseConnecting {
		m.mu.Unlock()
		return ConnectResult{}, domain.ErrAlreadyInProgress
	}
	hadSession := m.state.Phase == domain.PhaseConnected
	m.state = domain.ConnectionState{Phase: domain.PhaseConnecting}
	m.mu.Unlock()

	handshakeCtx, cancel := m.handshakeContext(ctx)
	defer cancel()

	if !m.gateway.IsAvailable(handshakeCtx) {
		m.transition(domain.PhaseConnecting, domain.ConnectionState{Phase: domain.PhaseError, Reason: "wallet extension not installed"})
		return ConnectResult{StorageWarning: m.dropStaleSession(ctx, hadSession)}, domain.ErrNotInstalled
	}

	accountID, err := m.gateway.RequestConnection(handshakeCtx)
	if err != nil {
		m.transition(domain.PhaseConnecting, domain.ConnectionState{Phase: domain.PhaseDisconnected})
		return ConnectResult{StorageWarning: m.dropStaleSession(ctx, hadSession)}, fmt.Errorf("wallet handshake: %w", classifyGatewayErr(err))
	}

	if !m.transition(domain.PhaseConnecting, domain.ConnectionState{Phase: domain.PhaseConnected, AccountID: accountID}) {
		// A Disconnect raced the handshake; its decision stands and the
		// late approval is discarded, never persisted.
		return ConnectResult{}, fmt.Errorf("wallet approval superseded by disconnect: %w", domain.ErrNotConnected)
	}

	result := ConnectResult{AccountID: accountID}
	if err := m.store.Set(ctx, domain.PersistedSession{AccountID: accountID}); err != nil {
		result.StorageWarning = fmt.Errorf("persist session: %w: %w", domain.ErrSessionStorage, err)
	}

	return result, nil
}

// Disconnect always leaves the manager disconnected. A non-nil return
// is a best-effort storage warning, never a logical failure.
func (m *ConnectionManager) Disconnect(ctx context.Context) error {
	m.setState(domain.ConnectionState{Phase: domain.PhaseDisconnected})

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted session: %w: %w", domain.ErrSessionStorage, err)
	}

	return nil
}

// Status is a pure read of the current state. It never blocks on the
// gateway or the store.
func (m *ConnectionManager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Status{
		Phase:       m.state.Phase,
		IsConnected: m.state.Phase == domain.PhaseConnected,
		AccountID:   m.state.AccountID,
		Reason:      m.state.Reason,
	}
}

// Restore trusts a previously persisted session and re-enters the
// connected phase without a new handshake. This is a deliberate trust
// boundary: a stale or tampered value is accepted until the next
// wallet-requiring call fails and the caller disconnects. Storage
// failures are swallowed; the manager simply stays disconnected.
func (m *ConnectionManager) Restore(ctx context.Context) {
	session, err := m.store.Get(ctx)
	if err != nil || session == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != domain.PhaseDisconnected {
		return
	}
	m.state = domain.ConnectionState{Phase: domain.PhaseConnected, AccountID: session.AccountID}
}

func (m *ConnectionManager) setState(state domain.ConnectionState) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// transition applies the new state only when the current phase still
// matches from, so a concurrent Disconnect is never overridden.
func (m *ConnectionManager) transition(from domain.ConnectionPhase, to domain.ConnectionState) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != from {
		return false
	}
	m.state = to
	return true
}

// dropStaleSession clears the persisted session after a failed
// reconnect. Best effort: a storage failure comes back as a warning,
// never as a second hard error.
func (m *ConnectionManager) dropStaleSession(ctx context.Context, hadSession bool) error {
	if !hadSession {
		return nil
	}

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear stale session: %w: %w", domain.ErrSessionStorage, err)
	}
	return nil
}

func (m *ConnectionManager) handshakeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, m.handshakeTimeout)
}

func classifyGatewayErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}

	return err
}
