package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/orm"
	"github.com/iov-one/supersig/weave"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is the balance of a single account.
type Wallet struct {
	Free     coin.Coin `protobuf:"bytes,1,opt,name=free,proto3" json:"free"`
	Reserved coin.Coin `protobuf:"bytes,2,opt,name=reserved,proto3" json:"reserved"`
	// Consumers counts the holders that require this account to stay in
	// the state. An account with consumers is never removed.
	Consumers uint32 `protobuf:"varint,3,opt,name=consumers,proto3" json:"consumers,omitempty"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return proto.Marshal((*walletWire)(w))
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*walletWire)(w))
}

// Validate requires both balances to be non negative and of the same
// currency.
func (w *Wallet) Validate() error {
	if err := validBalance(w.Free); err != nil {
		return errors.Wrap(err, "free")
	}
	if err := validBalance(w.Reserved); err != nil {
		return errors.Wrap(err, "reserved")
	}
	if !w.Free.SameType(w.Reserved) {
		return errors.Wrapf(errors.ErrCurrency, "free %s and reserved %s", w.Free.Ticker, w.Reserved.Ticker)
	}
	return nil
}

func validBalance(c coin.Coin) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

// Total returns the sum of free and reserved balance.
func (w *Wallet) Total() (coin.Coin, error) {
	return w.Free.Add(w.Reserved)
}

// WalletBucket is a type-safe wrapper around orm.ModelBucket
type WalletBucket struct {
	orm.ModelBucket
}

// NewWalletBucket initializes a WalletBucket with default name
func NewWalletBucket() *WalletBucket {
	return &WalletBucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// Get returns the wallet of given address or nil if the account does not
// exist.
func (b *WalletBucket) Get(db weave.ReadOnlyKVStore, addr weave.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}
