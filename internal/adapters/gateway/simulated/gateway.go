package simulated

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
	"github.com/bnema/wallet-bridge-cli/internal/ports"
)

const defaultAccountID = domain.AccountID("0.0.1001")

// Config fixes every observable behavior of the simulated gateway.
// Nothing is probabilistic: availability, the approved account, and
// denials are all set here.
type Config struct {
	Available      bool
	AccountID      domain.AccountID
	DenyConnection bool
	DenyBurn       bool
	// Latency is applied before each call and honored against the
	// caller's context deadline.
	Latency time.Duration
}

// Gateway is a deterministic in-process stand-in for the wallet
// extension, used for local development and tests.
type Gateway struct {
	cfg   Config
	clock ports.Clock

	mu  sync.Mutex
	seq uint64
}

var _ ports.WalletGateway = (*Gateway)(nil)

func NewGateway(cfg Config, clock ports.Clock) *Gateway {
	if cfg.AccountID == "" {
		cfg.AccountID = defaultAccountID
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Gateway{cfg: cfg, clock: clock}
}

func (g *Gateway) IsAvailable(ctx context.Context) bool {
	if err := g.wait(ctx); err != nil {
		return false
	}

	return g.cfg.Available
}

func (g *Gateway) RequestConnection(ctx context.Context) (domain.AccountID, error) {
	if err := g.wait(ctx); err != nil {
		return "", err
	}

	if g.cfg.DenyConnection {
		return "", domain.ErrDenied
	}

	return g.cfg.AccountID, nil
}

func (g *Gateway) SubmitBurn(ctx context.Context, accountID domain.AccountID, tokenID domain.TokenID, amount int64) (domain.TransactionID, error) {
	if err := g.wait(ctx); err != nil {
		return "", err
	}

	if g.cfg.DenyBurn {
		return "", domain.ErrDenied
	}

	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	// account@seconds.sequence keeps ids unique within a process run.
	return domain.TransactionID(fmt.Sprintf("%s@%d.%d", accountID, g.clock.Now().Unix(), seq)), nil
}

func (g *Gateway) wait(ctx context.Context) error {
	if g.cfg.Latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(g.cfg.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
