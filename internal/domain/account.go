package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AccountID identifies a wallet-held account on the ledger, in
// shard.realm.number form (e.g. "0.0.2345678"). Immutable once bound
// to a session.
type AccountID string

func ParseAccountID(raw string) (AccountID, error) {
	trimmed := strings.TrimSpace(raw)

	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("account id %q: want shard.realm.number", raw)
	}
	for _, part := range parts {
		if _, err := strconv.ParseUint(part, 10, 64); err != nil {
			return "", fmt.Errorf("account id %q: want shard.realm.number", raw)
		}
	}

	return AccountID(trimmed), nil
}
