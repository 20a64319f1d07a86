package domain

import "errors"

var (
	ErrNotInstalled      = errors.New("wallet extension not installed")
	ErrAlreadyInProgress = errors.New("connection attempt already in progress")
	ErrDenied            = errors.New("request denied by wallet user")
	ErrTimeout           = errors.New("wallet request timed out")
	ErrNetwork           = errors.New("wallet submission failed downstream")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotConnected      = errors.New("no wallet session connected")
	ErrSessionStorage    = errors.New("session storage unavailable")
)
