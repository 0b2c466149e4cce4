package supersig

import (
	"context"

	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/x"
)

type contextKey int // local to the supersig module

const (
	contextKeyTreasury contextKey = iota
)

// withTreasury is a private method, as only an approved call may act on
// behalf of a treasury. It replaces any treasury set by an outer call.
func withTreasury(ctx weave.Context, addr weave.Address) weave.Context {
	return context.WithValue(ctx, contextKeyTreasury, addr)
}

// Authenticate grants the treasury executing an approved call as the
// origin of that call.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetAddresses returns the treasury executing the current call, if any.
func (a Authenticate) GetAddresses(ctx weave.Context) []weave.Address {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyTreasury).(weave.Address)
	if val == nil {
		return nil
	}
	return []weave.Address{val}
}

// HasAddress returns true iff this address is the executing treasury.
func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
