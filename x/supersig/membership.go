package supersig

import (
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

// AddMembers appends to the treasury the given addresses that are not
// members yet and reserves their deposit on the treasury account. It
// returns the addresses that were added.
func (k *Keeper) AddMembers(db weave.KVStore, index uint64, members []weave.Address) ([]weave.Address, error) {
	conf, s, err := k.load(db, index)
	if err != nil {
		return nil, err
	}

	var added []weave.Address
	for _, m := range members {
		if s.IsMember(m) || containsAddress(added, m) {
			continue
		}
		added = append(added, m)
	}

	deposit, err := membersDeposit(conf, len(added))
	if err != nil {
		return nil, err
	}
	if err := k.ctrl.Reserve(db, conf.Namespace().Address(index), deposit); err != nil {
		return nil, errors.Wrap(err, "reserve deposit")
	}
	s.Members = append(s.Members, added...)
	if err := k.supersigs.Put(db, indexKey(index), s); err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveMembers removes every listed member from the treasury and releases
// their deposit. Addresses that are not members are ignored. It fails
// without any change if no member would remain.
func (k *Keeper) RemoveMembers(db weave.KVStore, index uint64, members []weave.Address) error {
	conf, s, err := k.load(db, index)
	if err != nil {
		return err
	}

	remaining := make([]weave.Address, 0, len(s.Members))
	for _, m := range s.Members {
		if !containsAddress(members, m) {
			remaining = append(remaining, m)
		}
	}
	if len(remaining) == 0 {
		return errors.Wrap(ErrCannotRemoveUsers, "no member would remain")
	}

	deposit, err := membersDeposit(conf, len(s.Members)-len(remaining))
	if err != nil {
		return err
	}
	if err := k.unreserve(db, conf.Namespace().Address(index), deposit); err != nil {
		return err
	}
	s.Members = remaining
	return k.supersigs.Put(db, indexKey(index), s)
}

// Leave removes member from the treasury. The members deposit is not
// released.
func (k *Keeper) Leave(db weave.KVStore, index uint64, member weave.Address) error {
	_, s, err := k.load(db, index)
	if err != nil {
		return err
	}
	if !s.IsMember(member) {
		return errors.Wrapf(ErrNotMember, "%s", member)
	}
	if len(s.Members) <= 1 {
		return errors.Wrap(ErrCannotRemoveUsers, "last member cannot leave")
	}

	remaining := make([]weave.Address, 0, len(s.Members))
	for _, m := range s.Members {
		if !m.Equals(member) {
			remaining = append(remaining, m)
		}
	}
	if len(remaining) == 0 {
		return errors.Wrap(ErrCannotRemoveUsers, "no member would remain")
	}

	s.Members = remaining
	return k.supersigs.Put(db, indexKey(index), s)
}

// load returns the configuration and the treasury with given index.
func (k *Keeper) load(db weave.ReadOnlyKVStore, index uint64) (Configuration, *Supersig, error) {
	conf, err := loadConf(db)
	if err != nil {
		return conf, nil, err
	}
	s, err := k.supersigs.Get(db, index)
	if err != nil {
		return conf, nil, err
	}
	if s == nil {
		return conf, nil, errors.Wrapf(ErrSupersigNotFound, "index %d", index)
	}
	return conf, s, nil
}

func containsAddress(addrs []weave.Address, a weave.Address) bool {
	for _, x := range addrs {
		if x.Equals(a) {
			return true
		}
	}
	return false
}
