package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/orm"
	"github.com/iov-one/supersig/store/iavl"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
	abci "github.com/tendermint/tendermint/abci/types"
)

// genesisWriter stores the raw "data" genesis section under a single key.
type genesisWriter struct {
	bucket orm.Bucket
}

func (g genesisWriter) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var val string
	if err := opts.ReadOptions("data", &val); err != nil {
		return err
	}
	if val == "" {
		return nil
	}
	return db.Set(g.bucket.DBKey([]byte("genesis")), []byte(val))
}

func newTestStoreApp(t *testing.T) (*StoreApp, orm.Bucket) {
	t.Helper()

	bucket := orm.NewBucket("data")
	qr := weave.NewQueryRouter()
	bucket.Register("", qr)

	s, err := NewStoreApp("testapp", iavl.MockCommitStore(), qr, context.Background())
	if err != nil {
		t.Fatalf("cannot create store app: %s", err)
	}
	return s.WithInit(genesisWriter{bucket: bucket}), bucket
}

func TestStoreAppGenesisAndQuery(t *testing.T) {
	s, bucket := newTestStoreApp(t)

	state, _ := json.Marshal(map[string]string{"data": "hello"})
	s.InitChain(abci.RequestInitChain{ChainId: "test-chain", AppStateBytes: state})
	assert.Equal(t, "test-chain", s.GetChainID())
	s.Commit()

	// chain id cannot be reset
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "other-chain", AppStateBytes: state})
	})

	resp := s.Query(abci.RequestQuery{Path: "/data", Data: []byte("genesis")})
	assert.Equal(t, uint32(0), resp.Code)
	assert.Equal(t, int64(1), resp.Height)

	var keys, values ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		t.Fatalf("keys: %s", err)
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		t.Fatalf("values: %s", err)
	}
	models, err := JoinResults(&keys, &values)
	if err != nil {
		t.Fatalf("join: %s", err)
	}
	assert.Equal(t, []weave.Model{weave.Pair(bucket.DBKey([]byte("genesis")), []byte("hello"))}, models)

	// a miss returns no results
	resp = s.Query(abci.RequestQuery{Path: "/data", Data: []byte("missing")})
	assert.Equal(t, uint32(0), resp.Code)
	var empty ResultSet
	if err := empty.Unmarshal(resp.Value); err != nil {
		t.Fatalf("values: %s", err)
	}
	assert.Equal(t, 0, len(empty.Results))

	resp = s.Query(abci.RequestQuery{Path: "/data?prefix", Data: nil})
	assert.Equal(t, uint32(0), resp.Code)

	resp = s.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), resp.Code)

	resp = s.Query(abci.RequestQuery{Path: "/data?weird"})
	assert.Equal(t, errors.ErrInput.ABCICode(), resp.Code)
}

func TestStoreAppRequiresAppState(t *testing.T) {
	s, _ := newTestStoreApp(t)
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "test-chain"})
	})
}

func TestStoreAppRestoresChainID(t *testing.T) {
	db := iavl.MockCommitStore()
	qr := weave.NewQueryRouter()

	s, err := NewStoreApp("testapp", db, qr, context.Background())
	if err != nil {
		t.Fatalf("cannot create store app: %s", err)
	}
	s.InitChain(abci.RequestInitChain{ChainId: "restored-chain", AppStateBytes: []byte("{}")})
	s.Commit()

	restarted, err := NewStoreApp("testapp", db, qr, context.Background())
	if err != nil {
		t.Fatalf("cannot restart store app: %s", err)
	}
	assert.Equal(t, "restored-chain", restarted.GetChainID())
	assert.Equal(t, "restored-chain", weave.GetChainID(restarted.BlockContext()))
	info := restarted.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
}

func TestBaseApp(t *testing.T) {
	s, _ := newTestStoreApp(t)

	decoder := func(raw []byte) (weave.Tx, error) {
		if len(raw) == 0 {
			return nil, errors.Wrap(errors.ErrInput, "empty tx")
		}
		if raw[0] == '!' {
			panic("corrupted tx")
		}
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: string(raw)}}, nil
	}
	router := NewRouter()
	router.Handle(&weavetest.Msg{RoutePath: "write"}, &weavetest.WriteHandler{
		Key:   []byte("data:written"),
		Value: []byte("yes"),
	})
	router.Handle(&weavetest.Msg{RoutePath: "fail"}, &weavetest.Handler{
		DeliverErr: errors.ErrUnauthorized,
		CheckErr:   errors.ErrUnauthorized,
	})

	b := NewBaseApp(s, decoder, router, false)
	b.InitChain(abci.RequestInitChain{ChainId: "test-chain", AppStateBytes: []byte("{}")})
	b.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})

	assert.Equal(t, uint32(0), b.CheckTx([]byte("write")).Code)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), b.CheckTx([]byte("fail")).Code)
	assert.Equal(t, ErrNoSuchPath.ABCICode(), b.CheckTx([]byte("unknown")).Code)
	assert.Equal(t, errors.ErrInput.ABCICode(), b.DeliverTx(nil).Code)
	assert.Equal(t, errors.ErrPanic.ABCICode(), b.DeliverTx([]byte("!")).Code)

	assert.Equal(t, uint32(0), b.DeliverTx([]byte("write")).Code)
	b.EndBlock(abci.RequestEndBlock{Height: 1})
	b.Commit()

	resp := b.Query(abci.RequestQuery{Path: "/data", Data: []byte("written")})
	var values ResultSet
	if err := values.Unmarshal(resp.Value); err != nil {
		t.Fatalf("values: %s", err)
	}
	assert.Equal(t, [][]byte{[]byte("yes")}, values.Results)
}
