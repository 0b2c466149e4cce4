package supersig

import (
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

// Submit stores a call proposed by a member of the treasury and reserves
// its deposit from the provider. It returns the index of the call.
func (k *Keeper) Submit(db weave.KVStore, index uint64, provider weave.Address, data []byte) (uint64, error) {
	conf, s, err := k.load(db, index)
	if err != nil {
		return 0, err
	}
	if !s.IsMember(provider) {
		return 0, errors.Wrapf(ErrNotMember, "%s", provider)
	}
	deposit, err := callDeposit(conf, data)
	if err != nil {
		return 0, err
	}
	if err := k.ctrl.Reserve(db, provider, deposit); err != nil {
		return 0, errors.Wrap(err, "reserve deposit")
	}
	callIndex, err := k.nonces.Next(db, index)
	if err != nil {
		return 0, err
	}
	call := PreimageCall{
		Data:     data,
		Provider: provider,
		Deposit:  deposit,
	}
	if err := k.calls.Put(db, callKey(index, callIndex), &call); err != nil {
		return 0, errors.Wrap(err, "save call")
	}
	return callIndex, nil
}

// Call returns a pending call, ErrCallNotFound if there is none.
func (k *Keeper) Call(db weave.ReadOnlyKVStore, index, callIndex uint64) (*PreimageCall, error) {
	c, err := k.calls.Get(db, index, callIndex)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.Wrapf(ErrCallNotFound, "call %d of supersig %d", callIndex, index)
	}
	return c, nil
}

// RemoveCall deletes a pending call with its votes and releases the
// provider deposit.
func (k *Keeper) RemoveCall(db weave.KVStore, index, callIndex uint64) error {
	c, err := k.Call(db, index, callIndex)
	if err != nil {
		return err
	}
	if err := k.purgeCall(db, index, callIndex); err != nil {
		return err
	}
	return k.unreserve(db, c.Provider, c.Deposit)
}

// purgeCall deletes a call, its tally and its vote records.
func (k *Keeper) purgeCall(db weave.KVStore, index, callIndex uint64) error {
	key := callKey(index, callIndex)
	if err := k.calls.Delete(db, key); err != nil {
		return errors.Wrap(err, "delete call")
	}
	if _, err := k.tallies.DeletePrefix(db, key); err != nil {
		return errors.Wrap(err, "delete tally")
	}
	if _, err := k.votes.DeletePrefix(db, key); err != nil {
		return errors.Wrap(err, "delete votes")
	}
	return nil
}
