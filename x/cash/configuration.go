package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/gconf"
)

const confPkg = "cash"

// Configuration is stored on chain and read from the genesis file.
type Configuration struct {
	// MinimalBalance is the least total an account must hold to exist.
	// Its ticker is the currency of every account.
	MinimalBalance coin.Coin `protobuf:"bytes,1,opt,name=minimal_balance,proto3" json:"minimal_balance"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationWire)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationWire)(c))
}

func (c *Configuration) Validate() error {
	if err := c.MinimalBalance.Validate(); err != nil {
		return errors.Wrap(err, "minimal balance")
	}
	if !c.MinimalBalance.IsNonNegative() {
		return errors.Wrap(errors.ErrState, "minimal balance cannot be negative")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
