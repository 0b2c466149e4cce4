package cash

import (
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

// Existence tells a transfer what to do when the source account total
// falls below the minimal balance.
type Existence int

const (
	// AllowDeath removes the source account if it falls below the
	// minimal balance. The remaining dust is burned.
	AllowDeath Existence = iota
	// KeepAlive fails the transfer instead of removing the source.
	KeepAlive
)

// Controller is the currency primitive other extensions use to move and
// lock funds. Every method preserves total = free + reserved for each
// account.
type Controller interface {
	// Transfer moves amount of free balance from src to dest.
	Transfer(db weave.KVStore, src, dest weave.Address, amount coin.Coin, req Existence) error
	// Reserve moves amount from the free to the reserved balance.
	// It fails if the free balance is too low.
	Reserve(db weave.KVStore, who weave.Address, amount coin.Coin) error
	// Unreserve moves up to amount from the reserved to the free
	// balance. It returns the part of amount that could not be
	// unreserved.
	Unreserve(db weave.KVStore, who weave.Address, amount coin.Coin) (coin.Coin, error)
	// IssueCoins credits the free balance of given account.
	IssueCoins(db weave.KVStore, who weave.Address, amount coin.Coin) error

	FreeBalance(db weave.ReadOnlyKVStore, who weave.Address) (coin.Coin, error)
	ReservedBalance(db weave.ReadOnlyKVStore, who weave.Address) (coin.Coin, error)
	TotalBalance(db weave.ReadOnlyKVStore, who weave.Address) (coin.Coin, error)
	MinimumBalance(db weave.ReadOnlyKVStore) (coin.Coin, error)

	// MarkAlive protects an existing account from removal until a
	// matching MarkRemovable call.
	MarkAlive(db weave.KVStore, who weave.Address) error
	MarkRemovable(db weave.KVStore, who weave.Address) error
}

// BalanceController is the store backed Controller implementation.
type BalanceController struct {
	bucket *WalletBucket
}

var _ Controller = BalanceController{}

// NewController returns a controller using given bucket.
func NewController(bucket *WalletBucket) BalanceController {
	return BalanceController{bucket: bucket}
}

func (c BalanceController) Transfer(db weave.KVStore, src, dest weave.Address, amount coin.Coin, req Existence) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if err := c.checkAmount(conf, amount); err != nil {
		return err
	}
	if amount.IsZero() || src.Equals(dest) {
		return nil
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "no account %s", src)
	}
	if !sender.Free.IsGTE(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "free balance %s, transfer %s", sender.Free, amount)
	}
	if sender.Free, err = sender.Free.Subtract(amount); err != nil {
		return err
	}

	recipient, err := c.bucket.Get(db, dest)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	if recipient == nil {
		if !amount.IsGTE(conf.MinimalBalance) {
			return errors.Wrapf(errors.ErrAmount, "%s does not reach the minimal balance %s", amount, conf.MinimalBalance)
		}
		recipient = emptyWallet(conf)
	}
	if recipient.Free, err = recipient.Free.Add(amount); err != nil {
		return err
	}

	total, err := sender.Total()
	if err != nil {
		return err
	}
	if !total.IsGTE(conf.MinimalBalance) {
		switch {
		case req == KeepAlive:
			return errors.Wrap(errors.ErrInsufficientAmount, "transfer would remove the source account")
		case sender.Consumers > 0:
			return errors.Wrap(errors.ErrState, "source account is marked alive")
		}
		if err := c.bucket.Delete(db, src); err != nil {
			return errors.Wrap(err, "reap sender")
		}
	} else if err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	return c.bucket.Put(db, dest, recipient)
}

func (c BalanceController) Reserve(db weave.KVStore, who weave.Address, amount coin.Coin) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if err := c.checkAmount(conf, amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	w, err := c.bucket.Get(db, who)
	if err != nil {
		return err
	}
	if w == nil || !w.Free.IsGTE(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "cannot reserve %s from %s", amount, who)
	}
	if w.Free, err = w.Free.Subtract(amount); err != nil {
		return err
	}
	if w.Reserved, err = w.Reserved.Add(amount); err != nil {
		return err
	}
	return c.bucket.Put(db, who, w)
}

func (c BalanceController) Unreserve(db weave.KVStore, who weave.Address, amount coin.Coin) (coin.Coin, error) {
	conf, err := loadConf(db)
	if err != nil {
		return coin.Coin{}, err
	}
	if err := c.checkAmount(conf, amount); err != nil {
		return coin.Coin{}, err
	}
	if amount.IsZero() {
		return amount, nil
	}
	w, err := c.bucket.Get(db, who)
	if err != nil {
		return coin.Coin{}, err
	}
	if w == nil {
		return amount, nil
	}
	moved := coin.Min(amount, w.Reserved)
	if w.Reserved, err = w.Reserved.Subtract(moved); err != nil {
		return coin.Coin{}, err
	}
	if w.Free, err = w.Free.Add(moved); err != nil {
		return coin.Coin{}, err
	}
	if err := c.bucket.Put(db, who, w); err != nil {
		return coin.Coin{}, err
	}
	return amount.Subtract(moved)
}

func (c BalanceController) IssueCoins(db weave.KVStore, who weave.Address, amount coin.Coin) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if err := c.checkAmount(conf, amount); err != nil {
		return err
	}
	w, err := c.bucket.Get(db, who)
	if err != nil {
		return err
	}
	if w == nil {
		w = emptyWallet(conf)
	}
	if w.Free, err = w.Free.Add(amount); err != nil {
		return err
	}
	total, err := w.Total()
	if err != nil {
		return err
	}
	if !total.IsGTE(conf.MinimalBalance) {
		return errors.Wrapf(errors.ErrAmount, "%s does not reach the minimal balance %s", total, conf.MinimalBalance)
	}
	return c.bucket.Put(db, who, w)
}

func (c BalanceController) FreeBalance(db weave.ReadOnlyKVStore, who weave.Address) (coin.Coin, error) {
	w, err := c.wallet(db, who)
	if err != nil {
		return coin.Coin{}, err
	}
	return w.Free, nil
}

func (c BalanceController) ReservedBalance(db weave.ReadOnlyKVStore, who weave.Address) (coin.Coin, error) {
	w, err := c.wallet(db, who)
	if err != nil {
		return coin.Coin{}, err
	}
	return w.Reserved, nil
}

func (c BalanceController) TotalBalance(db weave.ReadOnlyKVStore, who weave.Address) (coin.Coin, error) {
	w, err := c.wallet(db, who)
	if err != nil {
		return coin.Coin{}, err
	}
	return w.Total()
}

func (c BalanceController) MinimumBalance(db weave.ReadOnlyKVStore) (coin.Coin, error) {
	conf, err := loadConf(db)
	if err != nil {
		return coin.Coin{}, err
	}
	return conf.MinimalBalance, nil
}

func (c BalanceController) MarkAlive(db weave.KVStore, who weave.Address) error {
	w, err := c.bucket.Get(db, who)
	if err != nil {
		return err
	}
	if w == nil {
		return errors.Wrapf(errors.ErrNotFound, "no account %s", who)
	}
	w.Consumers++
	return c.bucket.Put(db, who, w)
}

func (c BalanceController) MarkRemovable(db weave.KVStore, who weave.Address) error {
	w, err := c.bucket.Get(db, who)
	if err != nil {
		return err
	}
	if w == nil || w.Consumers == 0 {
		return nil
	}
	w.Consumers--
	return c.bucket.Put(db, who, w)
}

// wallet returns the account state, or an empty wallet of the chain
// currency if the account does not exist.
func (c BalanceController) wallet(db weave.ReadOnlyKVStore, who weave.Address) (*Wallet, error) {
	w, err := c.bucket.Get(db, who)
	if err != nil || w != nil {
		return w, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	return emptyWallet(conf), nil
}

func (BalanceController) checkAmount(conf Configuration, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsNonNegative() {
		return errors.Wrapf(errors.ErrAmount, "negative amount %s", amount)
	}
	if !amount.SameType(conf.MinimalBalance) {
		return errors.Wrapf(errors.ErrCurrency, "want %s, got %s", conf.MinimalBalance.Ticker, amount.Ticker)
	}
	return nil
}

func emptyWallet(conf Configuration) *Wallet {
	return &Wallet{
		Free:     coin.Coin{Ticker: conf.MinimalBalance.Ticker},
		Reserved: coin.Coin{Ticker: conf.MinimalBalance.Ticker},
	}
}
