package supersig

import (
	"context"
	"testing"

	"github.com/iov-one/supersig/app"
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/gconf"
	"github.com/iov-one/supersig/orm"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/x/cash"
	"github.com/iov-one/supersig/x/utils"
	"github.com/stretchr/testify/require"
	amino "github.com/tendermint/go-amino"
)

const testModuleID = "id/susig"

func iov(whole int64) coin.Coin {
	return coin.NewCoin(whole, 0, "IOV")
}

var callCdc = amino.NewCodec()

func init() {
	callCdc.RegisterInterface((*weave.Msg)(nil), nil)
	cash.RegisterCodec(callCdc)
	RegisterCodec(callCdc)
}

func encodeCall(t testing.TB, msg weave.Msg) []byte {
	t.Helper()
	raw, err := callCdc.MarshalBinaryBare(msg)
	require.NoError(t, err)
	return raw
}

func decodeCall(raw []byte) (weave.Msg, error) {
	var msg weave.Msg
	if err := callCdc.UnmarshalBinaryBare(raw, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return msg, nil
}

// testEnv is a minimal application: signers come from the context, the
// outer router runs in a savepoint and approved calls are dispatched
// through a router authenticated by the executing treasury only.
type testEnv struct {
	db      weave.CacheableKVStore
	ctrl    cash.Controller
	keeper  *Keeper
	auth    *weavetest.CtxAuth
	handler weave.Handler
}

func newTestEnv(t testing.TB, pricePerByte coin.Coin) *testEnv {
	t.Helper()

	db := store.MemStore()
	require.NoError(t, gconf.Save(db, "cash", &cash.Configuration{MinimalBalance: iov(10)}))
	require.NoError(t, gconf.Save(db, confPkg, &Configuration{PricePerByte: pricePerByte, ModuleID: testModuleID}))

	ctrl := cash.NewController(cash.NewWalletBucket())
	auth := &weavetest.CtxAuth{Key: "signers"}

	dispatch := app.NewRouter()
	exec := HandlerAsExecutor(dispatch)
	cash.RegisterRoutes(dispatch, Authenticate{}, ctrl)
	RegisterRoutes(dispatch, Authenticate{}, ctrl, decodeCall, exec)

	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, ctrl)
	RegisterRoutes(r, auth, ctrl, decodeCall, exec)

	return &testEnv{
		db:      db,
		ctrl:    ctrl,
		keeper:  NewKeeper(ctrl),
		auth:    auth,
		handler: app.ChainDecorators(utils.NewSavepoint().OnDeliver()).WithHandler(r),
	}
}

func (e *testEnv) ctx(signer weave.Address) weave.Context {
	if signer == nil {
		return context.Background()
	}
	return e.auth.SetAddresses(context.Background(), signer)
}

func (e *testEnv) deliver(signer weave.Address, msg weave.Msg) (*weave.DeliverResult, error) {
	return e.handler.Deliver(e.ctx(signer), e.db, &weavetest.Tx{Msg: msg})
}

func (e *testEnv) check(signer weave.Address, msg weave.Msg) (*weave.CheckResult, error) {
	return e.handler.Check(e.ctx(signer), e.db, &weavetest.Tx{Msg: msg})
}

func (e *testEnv) fund(t testing.TB, who weave.Address, amount coin.Coin) {
	t.Helper()
	require.NoError(t, e.ctrl.IssueCoins(e.db, who, amount))
}

// create makes creator fund a new treasury and returns its address.
func (e *testEnv) create(t testing.TB, creator weave.Address, members ...weave.Address) weave.Address {
	t.Helper()
	res, err := e.deliver(creator, &CreateMsg{Members: members})
	require.NoError(t, err)
	return weave.Address(res.Data)
}

// submit makes provider propose msg to the treasury and returns the call
// index.
func (e *testEnv) submit(t testing.TB, treasury, provider weave.Address, call []byte) uint64 {
	t.Helper()
	res, err := e.deliver(provider, &SubmitCallMsg{SupersigID: treasury, Call: call})
	require.NoError(t, err)
	callIndex, err := orm.DecodeSequence(res.Data)
	require.NoError(t, err)
	return callIndex
}

func (e *testEnv) approve(treasury weave.Address, voter weave.Address, callIndex uint64) (*weave.DeliverResult, error) {
	return e.deliver(voter, &ApproveCallMsg{SupersigID: treasury, CallIndex: callIndex})
}

func (e *testEnv) balances(t testing.TB, who weave.Address) (free, reserved coin.Coin) {
	t.Helper()
	free, err := e.ctrl.FreeBalance(e.db, who)
	require.NoError(t, err)
	reserved, err = e.ctrl.ReservedBalance(e.db, who)
	require.NoError(t, err)
	total, err := e.ctrl.TotalBalance(e.db, who)
	require.NoError(t, err)
	sum, err := free.Add(reserved)
	require.NoError(t, err)
	require.True(t, sum.Equals(total), "total %s != free %s + reserved %s", total, free, reserved)
	return free, reserved
}

func (e *testEnv) index(t testing.TB, treasury weave.Address) uint64 {
	t.Helper()
	index, _, err := e.keeper.Lookup(e.db, treasury)
	require.NoError(t, err)
	return index
}

func (e *testEnv) members(t testing.TB, treasury weave.Address) []weave.Address {
	t.Helper()
	_, s, err := e.keeper.Lookup(e.db, treasury)
	require.NoError(t, err)
	return s.Members
}

// countPrefix returns the number of entries stored in bucket under the
// treasury prefix.
func (e *testEnv) countPrefix(t testing.TB, bucket string, index uint64) int {
	t.Helper()
	res, err := orm.NewBucket(bucket).Query(e.db, weave.PrefixQueryMod, indexKey(index))
	require.NoError(t, err)
	return len(res)
}

func eventTypes(events []weave.Event) []string {
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.EventType()
	}
	return types
}
