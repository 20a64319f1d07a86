package application

import "github.com/bnema/wallet-bridge-cli/internal/domain"

// Status is the read-only view of the connection state exposed to the
// UI layer.
type Status struct {
	Phase       domain.ConnectionPhase
	IsConnected bool
	AccountID   domain.AccountID
	// Reason carries the error reason while Phase is PhaseError.
	Reason string `json:",omitempty"`
}
