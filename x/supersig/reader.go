package supersig

import (
	"github.com/iov-one/supersig/weave"
)

// Reader gives read only access to the supersig state.
type Reader interface {
	// NonceSupersig returns the index the next treasury receives.
	NonceSupersig(db weave.ReadOnlyKVStore) (uint64, error)
	// Supersigs returns the treasury with given index or nil.
	Supersigs(db weave.ReadOnlyKVStore, index uint64) (*Supersig, error)
	// NonceCall returns the index the next call of a treasury receives.
	NonceCall(db weave.ReadOnlyKVStore, index uint64) (uint64, error)
	// Calls returns a pending call or nil.
	Calls(db weave.ReadOnlyKVStore, index, callIndex uint64) (*PreimageCall, error)
	// Votes returns the number of approvals of a call.
	Votes(db weave.ReadOnlyKVStore, index, callIndex uint64) (uint64, error)
	// UsersVotes returns true if who approved a call.
	UsersVotes(db weave.ReadOnlyKVStore, index, callIndex uint64, who weave.Address) (bool, error)
	// IsUserInSupersig returns true if who is a member of the treasury.
	IsUserInSupersig(db weave.ReadOnlyKVStore, index uint64, who weave.Address) (bool, error)
}

var _ Reader = (*Keeper)(nil)

func (k *Keeper) NonceSupersig(db weave.ReadOnlyKVStore) (uint64, error) {
	return k.supersigs.seq.Current(db)
}

func (k *Keeper) Supersigs(db weave.ReadOnlyKVStore, index uint64) (*Supersig, error) {
	return k.supersigs.Get(db, index)
}

func (k *Keeper) NonceCall(db weave.ReadOnlyKVStore, index uint64) (uint64, error) {
	return k.nonces.Current(db, index)
}

func (k *Keeper) Calls(db weave.ReadOnlyKVStore, index, callIndex uint64) (*PreimageCall, error) {
	return k.calls.Get(db, index, callIndex)
}

func (k *Keeper) Votes(db weave.ReadOnlyKVStore, index, callIndex uint64) (uint64, error) {
	return k.tallies.Count(db, index, callIndex)
}

func (k *Keeper) UsersVotes(db weave.ReadOnlyKVStore, index, callIndex uint64, who weave.Address) (bool, error) {
	return k.votes.Approved(db, index, callIndex, who)
}

func (k *Keeper) IsUserInSupersig(db weave.ReadOnlyKVStore, index uint64, who weave.Address) (bool, error) {
	s, err := k.supersigs.Get(db, index)
	if err != nil || s == nil {
		return false, err
	}
	return s.IsMember(who), nil
}
