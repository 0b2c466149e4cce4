package sigs

import "github.com/iov-one/supersig/errors"

// ErrInvalidSequence is returned when a signature sequence does not match
// the expected signer nonce.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
