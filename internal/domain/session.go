package domain

type ConnectionPhase string

const (
	PhaseDisconnected ConnectionPhase = "disconnected"
	PhaseConnecting   ConnectionPhase = "connecting"
	PhaseConnected    ConnectionPhase = "connected"
	PhaseError        ConnectionPhase = "error"
)

// ConnectionState is owned exclusively by the connection manager.
// Exactly one phase is active at a time.
type ConnectionState struct {
	Phase     ConnectionPhase
	AccountID AccountID
	// Reason is set only while Phase is PhaseError.
	Reason string
}

// PersistedSession is the single record that survives process
// restarts. It exists iff the last known phase was connected, best
// effort: a crash between the in-memory update and the write is
// tolerated.
type PersistedSession struct {
	AccountID AccountID
}
