package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
	"github.com/bnema/wallet-bridge-cli/internal/ports"
)

const defaultSubmitTimeout = 30 * time.Second

// TransactionSubmitter builds burn requests against the account bound
// by the connection manager. It never connects implicitly and mutates
// no local state.
type TransactionSubmitter struct {
	gateway       ports.WalletGateway
	manager       *ConnectionManager
	submitTimeout time.Duration
}

func NewTransactionSubmitter(gateway ports.WalletGateway, manager *ConnectionManager, submitTimeout time.Duration) *TransactionSubmitter {
	if submitTimeout <= 0 {
		submitTimeout = defaultSubmitTimeout
	}

	return &TransactionSubmitter{
		gateway:       gateway,
		manager:       manager,
		submitTimeout: submitTimeout,
	}
}

// Burn asks the wallet to destroy amount units of tokenID from the
// connected account. Invalid inputs and a missing session fail before
// the gateway is contacted.
func (s *TransactionSubmitter) Burn(ctx context.Context, tokenID domain.TokenID, amount int64) (domain.TransactionID, error) {
	if strings.TrimSpace(string(tokenID)) == "" {
		return "", fmt.Errorf("%w: token id is empty", domain.ErrInvalidArgument)
	}
	if amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive, got %d", domain.ErrInvalidArgument, amount)
	}

	status := s.manager.Status()
	if !status.IsConnected {
		return "", domain.ErrNotConnected
	}

	submitCtx, cancel := s.submitContext(ctx)
	defer cancel()

	txID, err := s.gateway.SubmitBurn(submitCtx, status.AccountID, tokenID, amount)
	if err != nil {
		return "", fmt.Errorf("submit burn: %w", classifyGatewayErr(err))
	}

	return txID, nil
}

func (s *TransactionSubmitter) submitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.submitTimeout)
}
