package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"conf": {
			"cash": {"minimal_balance": "1 IOV"}
		},
		"cash": [
			{"address": "0000000000000000000000000000000000000001", "free": "10 IOV"},
			{"address": "0000000000000000000000000000000000000002", "free": "2.5 IOV"}
		]
	}`
	var opts weave.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	c := NewController(NewWalletBucket())
	min, err := c.MinimumBalance(db)
	require.NoError(t, err)
	assert.True(t, iov(1).Equals(min))

	addr, err := weave.ParseAddress("0000000000000000000000000000000000000002")
	require.NoError(t, err)
	free, err := c.FreeBalance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, "2.5 IOV", free.String())
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	var opts weave.Options
	require.NoError(t, json.Unmarshal([]byte(`{"cash": []}`), &opts))

	err := Initializer{}.FromGenesis(opts, store.MemStore())
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
