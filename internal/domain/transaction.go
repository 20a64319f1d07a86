package domain

// TokenID identifies a fungible token class on the ledger. The core
// treats it as opaque beyond non-emptiness.
type TokenID string

// TransactionID identifies a submitted transaction, in
// "account@seconds.nanos" form. It is produced only by a gateway on
// successful submission and never reused.
type TransactionID string
