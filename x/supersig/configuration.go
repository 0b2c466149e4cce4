package supersig

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/gconf"
)

const confPkg = "supersig"

// Configuration is stored on chain and read from the genesis file.
type Configuration struct {
	// PricePerByte is the deposit for a single unit of stored data.
	PricePerByte coin.Coin `protobuf:"bytes,1,opt,name=price_per_byte,proto3" json:"price_per_byte"`
	// ModuleID is the namespace of all treasury addresses. It must be
	// exactly NamespaceLength bytes long.
	ModuleID string `protobuf:"bytes,2,opt,name=module_id,proto3" json:"module_id"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationWire)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationWire)(c))
}

func (c *Configuration) Validate() error {
	if err := c.PricePerByte.Validate(); err != nil {
		return errors.Wrap(err, "price per byte")
	}
	if !c.PricePerByte.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "price per byte cannot be negative")
	}
	if _, err := NewNamespace(c.ModuleID); err != nil {
		return errors.Wrap(err, "module id")
	}
	return nil
}

// Namespace returns the address namespace of the configured module.
func (c Configuration) Namespace() Namespace {
	ns, err := NewNamespace(c.ModuleID)
	if err != nil {
		// Stored configuration is always validated.
		panic(err)
	}
	return ns
}

func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
