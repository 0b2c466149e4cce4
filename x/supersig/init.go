package supersig

import (
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/gconf"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/x/cash"
)

const optKey = "supersig"

// GenesisSupersig is a treasury created at chain start. Its account,
// derived from its position in the list, must be funded by the cash
// genesis with at least the members deposit.
type GenesisSupersig struct {
	Members []weave.Address `json:"members"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis stores the configuration and registers the genesis
// treasuries in order, so the first one receives index 0.
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	if err := gconf.InitConfig(kv, opts, confPkg, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var treasuries []GenesisSupersig
	if err := opts.ReadOptions(optKey, &treasuries); err != nil {
		return err
	}
	if len(treasuries) == 0 {
		return nil
	}
	conf, err := loadConf(kv)
	if err != nil {
		return err
	}
	k := NewKeeper(cash.NewController(cash.NewWalletBucket()))
	for i, t := range treasuries {
		s := Supersig{Members: t.Members}
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "supersig %d", i)
		}
		index, err := k.supersigs.seq.Next(kv)
		if err != nil {
			return err
		}
		addr := conf.Namespace().Address(index)
		deposit, err := membersDeposit(conf, len(s.Members))
		if err != nil {
			return err
		}
		if err := k.ctrl.MarkAlive(kv, addr); err != nil {
			return errors.Wrapf(err, "supersig %d account %s", i, addr)
		}
		if err := k.ctrl.Reserve(kv, addr, deposit); err != nil {
			return errors.Wrapf(err, "supersig %d deposit", i)
		}
		if err := k.supersigs.Put(kv, indexKey(index), &s); err != nil {
			return errors.Wrapf(err, "supersig %d", i)
		}
	}
	return nil
}
