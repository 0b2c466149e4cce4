package sigs

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
)

const testChainID = "test-chain"

type signedTx struct {
	weavetest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*signedTx)(nil)

func (tx *signedTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *signedTx) GetSignBytes() ([]byte, error) {
	return tx.Msg.Marshal()
}

func newTx(payload string) *signedTx {
	return &signedTx{Tx: weavetest.Tx{Msg: &weavetest.Msg{Serialized: []byte(payload)}}}
}

func newKey(t testing.TB) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}

func sign(t testing.TB, key ed25519.PrivateKey, tx *signedTx, seq int64) {
	t.Helper()
	sig, err := SignTx(key, tx, testChainID, seq)
	require.NoError(t, err)
	tx.Signatures = append(tx.Signatures, sig)
}

func TestVerifySignatures(t *testing.T) {
	db := store.MemStore()
	k1 := newKey(t)
	k2 := newKey(t)
	a1 := KeyAddress(k1.Public().(ed25519.PublicKey))
	a2 := KeyAddress(k2.Public().(ed25519.PublicKey))

	tx := newTx("hello")
	sign(t, k1, tx, 0)
	signers, err := VerifyTxSignatures(db, tx, testChainID)
	require.NoError(t, err)
	assert.Equal(t, []weave.Address{a1}, signers)

	// Replaying the same signature must fail.
	_, err = VerifyTxSignatures(db, tx, testChainID)
	assert.True(t, ErrInvalidSequence.Is(err), "unexpected error: %+v", err)

	tx = newTx("hello")
	sign(t, k1, tx, 1)
	sign(t, k2, tx, 0)
	signers, err = VerifyTxSignatures(db, tx, testChainID)
	require.NoError(t, err)
	assert.Equal(t, []weave.Address{a1, a2}, signers)

	n, err := NextNonce(db, a1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = NextNonce(db, weavetest.RandomAddr(t))
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	// Signature made for a different chain is rejected.
	tx = newTx("hello")
	sig, err := SignTx(k2, tx, "other-chain", 1)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}
	_, err = VerifyTxSignatures(db, tx, testChainID)
	assert.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)

	// Signature of different content is rejected.
	tx = newTx("hello")
	sign(t, k2, tx, 1)
	tx.Msg = &weavetest.Msg{Serialized: []byte("changed")}
	_, err = VerifyTxSignatures(db, tx, testChainID)
	assert.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)
}

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("data"), testChainID, 1)
	require.NoError(t, err)
	b, err := BuildSignBytes([]byte("data"), testChainID, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = BuildSignBytes([]byte("data"), testChainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes([]byte("data"), "x", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestDecorator(t *testing.T) {
	db := store.MemStore()
	ctx := weave.WithChainID(context.Background(), testChainID)
	key := newKey(t)
	addr := KeyAddress(key.Public().(ed25519.PublicKey))

	var auth Authenticate
	h := &weavetest.Handler{}
	checkSigner := func(t *testing.T, ctx weave.Context) {
		if !auth.HasAddress(ctx, addr) {
			t.Fatal("signer not present in context")
		}
	}

	tx := newTx("msg")
	sign(t, key, tx, 0)
	res, err := NewDecorator().Check(ctx, db, tx, checkerFunc(func(ctx weave.Context) {
		checkSigner(t, ctx)
	}, h))
	require.NoError(t, err)
	assert.EqualValues(t, signatureVerifyCost, res.GasPayment)

	tx = newTx("msg")
	sign(t, key, tx, 1)
	_, err = NewDecorator().Deliver(ctx, db, tx, h)
	require.NoError(t, err)

	// No signatures.
	_, err = NewDecorator().Deliver(ctx, db, newTx("msg"), h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = NewDecorator().AllowMissingSigs().Deliver(ctx, db, newTx("msg"), h)
	assert.NoError(t, err)

	// Not a signed transaction.
	_, err = NewDecorator().Deliver(ctx, db, &weavetest.Tx{}, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

type inspectingChecker struct {
	inspect func(weave.Context)
	next    weave.Checker
}

func checkerFunc(fn func(weave.Context), next weave.Checker) weave.Checker {
	return inspectingChecker{inspect: fn, next: next}
}

func (c inspectingChecker) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	c.inspect(ctx)
	return c.next.Check(ctx, db, tx)
}
