package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSuccessPersistsSession(t *testing.T) {
	gateway := &fakeGateway{available: true, accountID: "0.0.2345678"}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	result, err := manager.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID("0.0.2345678"), result.AccountID)
	assert.NoError(t, result.StorageWarning)

	status := manager.Status()
	assert.True(t, status.IsConnected)
	assert.Equal(t, domain.PhaseConnected, status.Phase)
	assert.Equal(t, domain.AccountID("0.0.2345678"), status.AccountID)

	persisted := store.persisted()
	require.NotNil(t, persisted)
	assert.Equal(t, domain.AccountID("0.0.2345678"), persisted.AccountID)
}

func TestConnectFailsWhenExtensionMissing(t *testing.T) {
	gateway := &fakeGateway{available: false}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	_, err := manager.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrNotInstalled)

	status := manager.Status()
	assert.False(t, status.IsConnected)
	assert.Equal(t, domain.PhaseError, status.Phase)
	assert.Equal(t, "wallet extension not installed", status.Reason)
	assert.Nil(t, store.persisted())
	assert.Zero(t, store.setCalls)
}

func TestConnectDeniedReturnsToDisconnectedAndRetryWorks(t *testing.T) {
	gateway := &fakeGateway{available: true, connectErr: domain.ErrDenied}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	_, err := manager.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrDenied)

	status := manager.Status()
	assert.False(t, status.IsConnected)
	assert.Equal(t, domain.PhaseDisconnected, status.Phase)
	assert.Nil(t, store.persisted())
	assert.Zero(t, store.clearCalls, "a first attempt has no stale session to clear")

	// No explicit reset is needed before retrying.
	gateway.connectErr = nil
	gateway.accountID = "0.0.2345678"

	result, err := manager.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID("0.0.2345678"), result.AccountID)
	assert.True(t, manager.Status().IsConnected)
}

func TestReconnectDeniedClearsPersistedSession(t *testing.T) {
	gateway := &fakeGateway{available: true, accountID: "0.0.2345678"}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	_, err := manager.Connect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, store.persisted())

	gateway.connectErr = domain.ErrDenied

	result, err := manager.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrDenied)
	assert.NoError(t, result.StorageWarning)

	assert.Equal(t, domain.PhaseDisconnected, manager.Status().Phase)
	assert.Nil(t, store.persisted(), "a refused reconnect must not leave the old session restorable")
}

func TestReconnectWithExtensionGoneClearsPersistedSession(t *testing.T) {
	gateway := &fakeGateway{available: true, accountID: "0.0.2345678"}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	_, err := manager.Connect(context.Background())
	require.NoError(t, err)

	gateway.available = false

	result, err := manager.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrNotInstalled)
	assert.NoError(t, result.StorageWarning)

	assert.Equal(t, domain.PhaseError, manager.Status().Phase)
	assert.Nil(t, store.persisted())
}

func TestReconnectFailureSurfacesClearWarning(t *testing.T) {
	gateway := &fakeGateway{available: true, accountID: "0.0.2345678"}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	_, err := manager.Connect(context.Background())
	require.NoError(t, err)

	gateway.connectErr = domain.ErrDenied
	store.mu.Lock()
	store.clearErr = errors.New("storage revoked")
	store.mu.Unlock()

	result, err := manager.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrDenied)
	require.Error(t, result.StorageWarning)
	assert.ErrorIs(t, result.StorageWarning, domain.ErrSessionStorage)
}

func TestDisconnectDuringHandshakeWinsOverLateApproval(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	gateway := &fakeGateway{
		available:        true,
		accountID:        "0.0.2345678",
		blockHandshake:   block,
		handshakeStarted: started,
	}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	done := make(chan error, 1)
	go func() {
		_, err := manager.Connect(context.Background())
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("handshake never started")
	}

	require.NoError(t, manager.Disconnect(context.Background()))
	close(block)

	err := <-done
	require.ErrorIs(t, err, domain.ErrNotConnected)
	assert.Equal(t, domain.PhaseDisconnected, manager.Status().Phase)
	assert.Zero(t, store.setCalls, "a superseded approval must not be persisted")
}

func TestConnectTimeoutMapsToErrTimeout(t *testing.T) {
	gateway := &fakeGateway{available: true, blockHandshake: make(chan struct{})}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 20*time.Millisecond)

	_, err := manager.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrTimeout)

	status := manager.Status()
	assert.False(t, status.IsConnected)
	assert.Equal(t, domain.PhaseDisconnected, status.Phase)
	assert.Nil(t, store.persisted())
}

func TestConnectWhileConnectingReturnsAlreadyInProgress(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	gateway := &fakeGateway{
		available:        true,
		accountID:        "0.0.2345678",
		blockHandshake:   block,
		handshakeStarted: started,
	}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	firstDone := make(chan error, 1)
	go func() {
		_, err := manager.Connect(context.Background())
		firstDone <- err
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("handshake never started")
	}

	_, err := manager.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrAlreadyInProgress)
	assert.Empty(t, manager.Status().AccountID)

	close(block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, domain.AccountID("0.0.2345678"), manager.Status().AccountID)

	connectCalls, _ := gateway.calls()
	assert.Equal(t, 1, connectCalls, "rejected re-entry must not start a second handshake")
}

func TestConnectStorageFailureStillConnects(t *testing.T) {
	gateway := &fakeGateway{available: true, accountID: "0.0.2345678"}
	store := &fakeStore{setErr: errors.New("quota exceeded")}
	manager := NewConnectionManager(gateway, store, 0)

	result, err := manager.Connect(context.Background())
	require.NoError(t, err)
	require.Error(t, result.StorageWarning)
	assert.ErrorIs(t, result.StorageWarning, domain.ErrSessionStorage)
	assert.True(t, manager.Status().IsConnected)
}

func TestDisconnectClearsStateAndStore(t *testing.T) {
	gateway := &fakeGateway{available: true, accountID: "0.0.2345678"}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	_, err := manager.Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, manager.Disconnect(context.Background()))

	status := manager.Status()
	assert.False(t, status.IsConnected)
	assert.Equal(t, domain.PhaseDisconnected, status.Phase)
	assert.Empty(t, status.AccountID)
	assert.Nil(t, store.persisted())
}

func TestDisconnectStorageFailureStillDisconnects(t *testing.T) {
	gateway := &fakeGateway{available: true, accountID: "0.0.2345678"}
	store := &fakeStore{clearErr: errors.New("storage revoked")}
	manager := NewConnectionManager(gateway, store, 0)

	_, err := manager.Connect(context.Background())
	require.NoError(t, err)

	warn := manager.Disconnect(context.Background())
	require.Error(t, warn)
	assert.ErrorIs(t, warn, domain.ErrSessionStorage)
	assert.False(t, manager.Status().IsConnected)
}

func TestRestoreTrustsPersistedSession(t *testing.T) {
	gateway := &fakeGateway{}
	store := &fakeStore{session: &domain.PersistedSession{AccountID: "0.0.9999999"}}
	manager := NewConnectionManager(gateway, store, 0)

	manager.Restore(context.Background())

	status := manager.Status()
	assert.True(t, status.IsConnected)
	assert.Equal(t, domain.AccountID("0.0.9999999"), status.AccountID)

	connectCalls, burnCalls := gateway.calls()
	assert.Zero(t, connectCalls, "restore must not re-run the handshake")
	assert.Zero(t, burnCalls)
}

func TestRestoreIgnoresStorageErrors(t *testing.T) {
	gateway := &fakeGateway{}
	store := &fakeStore{getErr: errors.New("storage unavailable")}
	manager := NewConnectionManager(gateway, store, 0)

	manager.Restore(context.Background())

	assert.False(t, manager.Status().IsConnected)
}

func TestRestoreDoesNotOverrideLiveConnection(t *testing.T) {
	gateway := &fakeGateway{available: true, accountID: "0.0.2345678"}
	store := &fakeStore{}
	manager := NewConnectionManager(gateway, store, 0)

	_, err := manager.Connect(context.Background())
	require.NoError(t, err)

	store.mu.Lock()
	store.session = &domain.PersistedSession{AccountID: "0.0.9999999"}
	store.mu.Unlock()

	manager.Restore(context.Background())

	assert.Equal(t, domain.AccountID("0.0.2345678"), manager.Status().AccountID)
}
