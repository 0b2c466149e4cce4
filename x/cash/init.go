package cash

import (
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/gconf"
	"github.com/iov-one/supersig/weave"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use weave.Address, so address in hex, not base64
type GenesisAccount struct {
	Address weave.Address `json:"address"`
	Free    coin.Coin     `json:"free"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	if err := gconf.InitConfig(kv, opts, confPkg, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	control := NewController(NewWalletBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := control.IssueCoins(kv, acct.Address, acct.Free); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
