package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/supersig/weave"
)

// RandomAddr returns a valid random weave address genearted on the fly.
func RandomAddr(t testing.TB) weave.Address {
	t.Helper()
	raw := make([]byte, weave.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := weave.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not a valid weave address: %s", err)
	}
	return a
}

// SequenceAddr returns a deterministic address derived from the given
// number. Use it when test output must be stable between runs.
func SequenceAddr(n int) weave.Address {
	raw := make([]byte, weave.AddressLength)
	raw[weave.AddressLength-2] = byte(n >> 8)
	raw[weave.AddressLength-1] = byte(n)
	raw[0] = 0xAA
	return raw
}
