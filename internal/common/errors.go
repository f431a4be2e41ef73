// Package common defines sentinel errors shared across portal client layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Session store flow control.
	ErrOperationInProgress   = errors.New("operation already in progress")
	ErrNoPendingVerification = errors.New("no pending phone verification")

	// Credential construction.
	ErrMissingIdentifier = errors.New("credentials carry neither email nor phone")
)
