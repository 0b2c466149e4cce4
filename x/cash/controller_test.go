package cash

import (
	"testing"

	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/gconf"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iov(whole int64) coin.Coin {
	return coin.NewCoin(whole, 0, "IOV")
}

func newTestStore(t testing.TB, minimal coin.Coin) weave.KVStore {
	t.Helper()
	db := store.MemStore()
	require.NoError(t, gconf.Save(db, confPkg, &Configuration{MinimalBalance: minimal}))
	return db
}

func requireBalances(t testing.TB, c Controller, db weave.KVStore, who weave.Address, free, reserved coin.Coin) {
	t.Helper()
	gotFree, err := c.FreeBalance(db, who)
	require.NoError(t, err)
	gotReserved, err := c.ReservedBalance(db, who)
	require.NoError(t, err)
	total, err := c.TotalBalance(db, who)
	require.NoError(t, err)
	want, err := free.Add(reserved)
	require.NoError(t, err)

	assert.True(t, free.Equals(gotFree), "free: want %s, got %s", free, gotFree)
	assert.True(t, reserved.Equals(gotReserved), "reserved: want %s, got %s", reserved, gotReserved)
	assert.True(t, want.Equals(total), "total: want %s, got %s", want, total)
}

func TestIssueCoins(t *testing.T) {
	db := newTestStore(t, iov(1))
	c := NewController(NewWalletBucket())
	a := weavetest.RandomAddr(t)

	requireBalances(t, c, db, a, iov(0), iov(0))

	require.NoError(t, c.IssueCoins(db, a, iov(10)))
	require.NoError(t, c.IssueCoins(db, a, iov(5)))
	requireBalances(t, c, db, a, iov(15), iov(0))

	err := c.IssueCoins(db, a, coin.NewCoin(1, 0, "ETH"))
	assert.True(t, errors.ErrCurrency.Is(err), "unexpected error: %+v", err)

	b := weavetest.RandomAddr(t)
	err = c.IssueCoins(db, b, coin.NewCoin(0, 5, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err), "below minimal balance must fail: %+v", err)
}

func TestTransfer(t *testing.T) {
	cases := map[string]struct {
		srcFunds    coin.Coin
		srcReserved coin.Coin
		alive       bool
		amount      coin.Coin
		req         Existence
		wantErr     *errors.Error
		wantSrc     *Wallet
		wantDest    coin.Coin
	}{
		"keep source alive": {
			srcFunds: iov(10),
			amount:   iov(4),
			req:      KeepAlive,
			wantSrc:  &Wallet{Free: iov(6), Reserved: iov(0)},
			wantDest: iov(4),
		},
		"keep alive refuses to empty the source": {
			srcFunds: iov(10),
			amount:   iov(10),
			req:      KeepAlive,
			wantErr:  errors.ErrInsufficientAmount,
		},
		"allow death removes the source": {
			srcFunds: iov(10),
			amount:   iov(10),
			req:      AllowDeath,
			wantDest: iov(10),
		},
		"allow death burns the dust": {
			srcFunds: coin.NewCoin(10, 500000000, "IOV"),
			amount:   iov(10),
			req:      AllowDeath,
			wantDest: iov(10),
		},
		"account marked alive cannot be removed": {
			srcFunds: iov(10),
			alive:    true,
			amount:   iov(10),
			req:      AllowDeath,
			wantErr:  errors.ErrState,
		},
		"reserved balance keeps the source alive": {
			srcFunds:    iov(10),
			srcReserved: iov(3),
			amount:      iov(7),
			req:         KeepAlive,
			wantSrc:     &Wallet{Free: iov(0), Reserved: iov(3)},
			wantDest:    iov(7),
		},
		"reserved balance cannot be transferred": {
			srcFunds:    iov(10),
			srcReserved: iov(3),
			amount:      iov(8),
			req:         AllowDeath,
			wantErr:     errors.ErrInsufficientAmount,
		},
		"new account requires the minimal balance": {
			srcFunds: iov(10),
			amount:   coin.NewCoin(0, 1, "IOV"),
			req:      AllowDeath,
			wantErr:  errors.ErrAmount,
		},
		"wrong currency": {
			srcFunds: iov(10),
			amount:   coin.NewCoin(1, 0, "ETH"),
			wantErr:  errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t, iov(1))
			c := NewController(NewWalletBucket())
			src := weavetest.RandomAddr(t)
			dest := weavetest.RandomAddr(t)

			require.NoError(t, c.IssueCoins(db, src, tc.srcFunds))
			if !tc.srcReserved.IsZero() {
				require.NoError(t, c.Reserve(db, src, tc.srcReserved))
			}
			if tc.alive {
				require.NoError(t, c.MarkAlive(db, src))
			}

			err := c.Transfer(db, src, dest, tc.amount, tc.req)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}

			w, err := c.bucket.Get(db, src)
			require.NoError(t, err)
			if tc.wantSrc == nil {
				assert.Nil(t, w, "source account must be removed")
			} else {
				require.NotNil(t, w)
				assert.Equal(t, tc.wantSrc, w)
			}
			requireBalances(t, c, db, dest, tc.wantDest, iov(0))
		})
	}
}

func TestReserveUnreserve(t *testing.T) {
	db := newTestStore(t, iov(1))
	c := NewController(NewWalletBucket())
	a := weavetest.RandomAddr(t)

	err := c.Reserve(db, a, iov(1))
	assert.True(t, errors.ErrInsufficientAmount.Is(err), "missing account: %+v", err)

	require.NoError(t, c.IssueCoins(db, a, iov(10)))
	require.NoError(t, c.Reserve(db, a, iov(4)))
	requireBalances(t, c, db, a, iov(6), iov(4))

	err = c.Reserve(db, a, iov(7))
	assert.True(t, errors.ErrInsufficientAmount.Is(err), "unexpected error: %+v", err)
	requireBalances(t, c, db, a, iov(6), iov(4))

	left, err := c.Unreserve(db, a, iov(3))
	require.NoError(t, err)
	assert.True(t, left.IsZero())
	requireBalances(t, c, db, a, iov(9), iov(1))

	// Unreserve saturates at the reserved balance.
	left, err = c.Unreserve(db, a, iov(5))
	require.NoError(t, err)
	assert.True(t, iov(4).Equals(left), "left %s", left)
	requireBalances(t, c, db, a, iov(10), iov(0))

	left, err = c.Unreserve(db, weavetest.RandomAddr(t), iov(2))
	require.NoError(t, err)
	assert.True(t, iov(2).Equals(left))
}

func TestLivenessMarkers(t *testing.T) {
	db := newTestStore(t, iov(1))
	c := NewController(NewWalletBucket())
	a := weavetest.RandomAddr(t)
	b := weavetest.RandomAddr(t)

	err := c.MarkAlive(db, a)
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)

	require.NoError(t, c.IssueCoins(db, a, iov(3)))
	require.NoError(t, c.MarkAlive(db, a))
	err = c.Transfer(db, a, b, iov(3), AllowDeath)
	assert.True(t, errors.ErrState.Is(err), "unexpected error: %+v", err)

	require.NoError(t, c.MarkRemovable(db, a))
	require.NoError(t, c.Transfer(db, a, b, iov(3), AllowDeath))
	requireBalances(t, c, db, a, iov(0), iov(0))
	requireBalances(t, c, db, b, iov(3), iov(0))

	// Removing a marker of a missing account is a no-op.
	require.NoError(t, c.MarkRemovable(db, a))

	min, err := c.MinimumBalance(db)
	require.NoError(t, err)
	assert.True(t, iov(1).Equals(min))
}
