package ports

import (
	"context"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
)

// WalletGateway is the capability surface of the installed wallet
// extension. All three calls are one-shot; retry policy belongs to the
// caller.
type WalletGateway interface {
	// IsAvailable probes for the extension. The probe is bounded by the
	// context or an adapter-side timeout and reports false on timeout.
	IsAvailable(ctx context.Context) bool
	// RequestConnection runs the user-approval handshake and returns
	// the account the user approved, or domain.ErrDenied.
	RequestConnection(ctx context.Context) (domain.AccountID, error)
	// SubmitBurn forwards a burn request for signing and network
	// submission and returns the ledger transaction id.
	SubmitBurn(ctx context.Context, accountID domain.AccountID, tokenID domain.TokenID, amount int64) (domain.TransactionID, error)
}
