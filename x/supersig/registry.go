package supersig

import (
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/x/cash"
)

// Keeper owns the state of all treasuries: the registry, the pending calls
// and the votes. Authorization of the caller is checked by the handlers,
// the Keeper only enforces membership rules.
type Keeper struct {
	ctrl      cash.Controller
	supersigs *SupersigBucket
	nonces    *CallNonceBucket
	calls     *CallBucket
	tallies   *TallyBucket
	votes     *UserVoteBucket
}

// NewKeeper returns a Keeper moving funds with given controller.
func NewKeeper(ctrl cash.Controller) *Keeper {
	return &Keeper{
		ctrl:      ctrl,
		supersigs: NewSupersigBucket(),
		nonces:    NewCallNonceBucket(),
		calls:     NewCallBucket(),
		tallies:   NewTallyBucket(),
		votes:     NewUserVoteBucket(),
	}
}

// Create registers a treasury with given members. The creator funds the
// treasury with max(minimal balance, members deposit) and the members
// deposit is reserved on the treasury account. The creator account may be
// removed by the transfer.
func (k *Keeper) Create(db weave.KVStore, creator weave.Address, members []weave.Address) (weave.Address, uint64, error) {
	if len(members) == 0 {
		return nil, 0, errors.Wrap(ErrInvalidSupersig, "no members")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, 0, err
	}

	var (
		addr  weave.Address
		index uint64
	)
	err = inSavepoint(db, func(db weave.KVStore) error {
		var err error
		if index, err = k.supersigs.seq.Next(db); err != nil {
			return errors.Wrap(err, "next index")
		}
		addr = conf.Namespace().Address(index)

		price, err := membersDeposit(conf, len(members))
		if err != nil {
			return err
		}
		min, err := k.ctrl.MinimumBalance(db)
		if err != nil {
			return err
		}
		deposit := price
		if min.Compare(price) > 0 {
			deposit = min
		}
		if err := k.ctrl.Transfer(db, creator, addr, deposit, cash.AllowDeath); err != nil {
			return errors.Wrap(err, "fund treasury")
		}
		if err := k.ctrl.MarkAlive(db, addr); err != nil {
			return errors.Wrap(err, "mark alive")
		}
		if err := k.ctrl.Reserve(db, addr, price); err != nil {
			return errors.Wrap(err, "reserve deposit")
		}
		return k.supersigs.Put(db, indexKey(index), &Supersig{Members: members})
	})
	if err != nil {
		return nil, 0, err
	}
	return addr, index, nil
}

// Lookup resolves a treasury address into its index and state.
func (k *Keeper) Lookup(db weave.ReadOnlyKVStore, addr weave.Address) (uint64, *Supersig, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, nil, err
	}
	index, err := conf.Namespace().Index(addr)
	if err != nil {
		return 0, nil, errors.Wrapf(ErrSupersigNotFound, "%s: %s", addr, err)
	}
	s, err := k.supersigs.Get(db, index)
	if err != nil {
		return 0, nil, err
	}
	if s == nil {
		return 0, nil, errors.Wrapf(ErrSupersigNotFound, "%s", addr)
	}
	return index, s, nil
}

// Remove dissolves the treasury with given index. Every pending call is
// purged and its deposit returned to the provider. The whole treasury
// balance is sent to the beneficiary.
//
// Removal fails if the treasury has more reserved balance than its members
// deposit.
func (k *Keeper) Remove(db weave.KVStore, index uint64, beneficiary weave.Address) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	s, err := k.supersigs.Get(db, index)
	if err != nil {
		return err
	}
	if s == nil {
		return errors.Wrapf(ErrSupersigNotFound, "index %d", index)
	}
	addr := conf.Namespace().Address(index)

	expected, err := membersDeposit(conf, len(s.Members))
	if err != nil {
		return err
	}
	reserved, err := k.ctrl.ReservedBalance(db, addr)
	if err != nil {
		return err
	}
	if reserved.Compare(expected) > 0 {
		return errors.Wrapf(ErrCannotDeleteSupersig, "reserved %s, members deposit %s", reserved, expected)
	}

	return inSavepoint(db, func(db weave.KVStore) error {
		if _, err := k.ctrl.Unreserve(db, addr, expected); err != nil {
			return errors.Wrap(err, "unreserve deposit")
		}
		if err := k.supersigs.Delete(db, indexKey(index)); err != nil {
			return errors.Wrap(err, "delete supersig")
		}
		if err := k.purgeCalls(db, index); err != nil {
			return err
		}
		if err := k.ctrl.MarkRemovable(db, addr); err != nil {
			return errors.Wrap(err, "mark removable")
		}
		total, err := k.ctrl.TotalBalance(db, addr)
		if err != nil {
			return err
		}
		if err := k.ctrl.Transfer(db, addr, beneficiary, total, cash.AllowDeath); err != nil {
			return errors.Wrap(err, "release funds")
		}
		return nil
	})
}

// purgeCalls removes every call of a treasury together with its votes and
// the call counter. Call deposits are returned to their providers.
func (k *Keeper) purgeCalls(db weave.KVStore, index uint64) error {
	prefix := indexKey(index)
	var pending []PreimageCall
	if _, err := k.calls.ByPrefix(db, prefix, &pending); err != nil {
		return errors.Wrap(err, "load calls")
	}
	for _, c := range pending {
		if err := k.unreserve(db, c.Provider, c.Deposit); err != nil {
			return err
		}
	}
	for _, b := range []interface {
		DeletePrefix(weave.KVStore, []byte) (int, error)
	}{k.calls, k.tallies, k.votes, k.nonces} {
		if _, err := b.DeletePrefix(db, prefix); err != nil {
			return errors.Wrap(err, "purge")
		}
	}
	return nil
}

// unreserve releases a deposit. Releasing less than requested is not an
// error, the reserved balance cannot go negative.
func (k *Keeper) unreserve(db weave.KVStore, who weave.Address, amount coin.Coin) error {
	if _, err := k.ctrl.Unreserve(db, who, amount); err != nil {
		return errors.Wrapf(err, "unreserve %s", who)
	}
	return nil
}

// inSavepoint runs fn on a cache of db and writes the result only if fn
// succeeds.
func inSavepoint(db weave.KVStore, fn func(weave.KVStore) error) error {
	cstore, ok := db.(weave.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "write savepoint")
}
