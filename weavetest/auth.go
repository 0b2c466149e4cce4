package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/supersig/weave"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses.
// You can use either Signer or Signers (or both) attributes to reference
// addresses. This is for the convinience and each time all signers
// (regardless which attribute) are considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convinience attribute when creating an authentication method for a
	// single signer.
	Signer weave.Address

	// Signers represents an authentication of multiple signers.
	Signers []weave.Address
}

// GetAddresses returns Signer first, followed by Signers.
func (a *Auth) GetAddresses(weave.Context) []weave.Address {
	if a.Signer != nil {
		return append([]weave.Address{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve addresses from the context. For
	// convinience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetAddresses(ctx weave.Context, addrs ...weave.Address) weave.Context {
	return context.WithValue(ctx, a.Key, addrs)
}

func (a *CtxAuth) GetAddresses(ctx weave.Context) []weave.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	addrs, ok := val.([]weave.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []weave.Address got %T", ctx.Value(a.Key)))
	}
	return addrs
}

func (a *CtxAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
