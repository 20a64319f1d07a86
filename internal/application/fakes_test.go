package application

import (
	"context"
	"sync"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
)

type fakeGateway struct {
	available  bool
	accountID  domain.AccountID
	connectErr error
	txID       domain.TransactionID
	burnErr    error

	// blockHandshake keeps RequestConnection pending until closed;
	// handshakeStarted is closed once the call is entered.
	blockHandshake   chan struct{}
	handshakeStarted chan struct{}
	// blockBurn keeps SubmitBurn pending until the context expires.
	blockBurn bool

	mu           sync.Mutex
	connectCalls int
	burnCalls    int
	lastAccount  domain.AccountID
	lastToken    domain.TokenID
	lastAmount   int64
}

func (g *fakeGateway) IsAvailable(_ context.Context) bool {
	return g.available
}

func (g *fakeGateway) RequestConnection(ctx context.Context) (domain.AccountID, error) {
	g.mu.Lock()
	g.connectCalls++
	g.mu.Unlock()

	if g.handshakeStarted != nil {
		close(g.handshakeStarted)
		g.handshakeStarted = nil
	}
	if g.blockHandshake != nil {
		select {
		case <-g.blockHandshake:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.connectErr != nil {
		return "", g.connectErr
	}

	return g.accountID, nil
}

func (g *fakeGateway) SubmitBurn(ctx context.Context, accountID domain.AccountID, tokenID domain.TokenID, amount int64) (domain.TransactionID, error) {
	g.mu.Lock()
	g.burnCalls++
	g.lastAccount = accountID
	g.lastToken = tokenID
	g.lastAmount = amount
	g.mu.Unlock()

	if g.blockBurn {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if g.burnErr != nil {
		return "", g.burnErr
	}

	return g.txID, nil
}

func (g *fakeGateway) calls() (connect, burn int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connectCalls, g.burnCalls
}

type fakeStore struct {
	mu      sync.Mutex
	session *domain.PersistedSession

	getErr   error
	setErr   error
	clearErr error

	setCalls   int
	clearCalls int
}

func (s *fakeStore) Get(_ context.Context) (*domain.PersistedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.session, nil
}

func (s *fakeStore) Set(_ context.Context, session domain.PersistedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	s.session = &session
	return nil
}

func (s *fakeStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearCalls++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.session = nil
	return nil
}

func (s *fakeStore) persisted() *domain.PersistedSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}
