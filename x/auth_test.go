package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
	"github.com/iov-one/supersig/x"
)

func TestAuth(t *testing.T) {
	a := weavetest.RandomAddr(t)
	b := weavetest.RandomAddr(t)
	c := weavetest.RandomAddr(t)

	ctx1 := &weavetest.CtxAuth{Key: "foo"}
	ctx2 := &weavetest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          weave.Context
		auth         x.Authenticator
		mainSigner   weave.Address
		wantInCtx    weave.Address
		wantNotInCtx weave.Address
		wantAll      []weave.Address
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &weavetest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &weavetest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []weave.Address{a},
		},
		"chained signers keep order": {
			ctx: context.Background(),
			auth: x.ChainAuth(
				&weavetest.Auth{Signer: b},
				&weavetest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []weave.Address{b, a},
		},
		"chained duplicates are reported once": {
			ctx: context.Background(),
			auth: x.ChainAuth(
				&weavetest.Auth{Signers: []weave.Address{a, b}},
				&weavetest.Auth{Signer: a}),
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []weave.Address{a, b},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetAddresses(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []weave.Address{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetAddresses(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, x.MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx) {
				t.Fatal("address that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx) {
				t.Fatal("address that was expected not to be in context found")
			}

			all := tc.auth.GetAddresses(tc.ctx)
			assert.Equal(t, tc.wantAll, all)

			if !x.HasAllAddresses(tc.ctx, tc.auth, all) {
				t.Fatal("context does not contain all of its own addresses")
			}
			if x.HasAllAddresses(tc.ctx, tc.auth, append(all, c)) {
				t.Fatal("context contains an address that was never set")
			}
		})
	}
}
