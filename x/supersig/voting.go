package supersig

import (
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

// CallDecoder parses the data of an approved call into a message.
type CallDecoder func(raw []byte) (weave.Msg, error)

// Executor dispatches an approved call. The treasury is the only
// authenticated address of the context it receives.
type Executor func(ctx weave.Context, db weave.KVStore, msg weave.Msg) (*weave.DeliverResult, error)

// HandlerAsExecutor wraps the msg in a fake Tx to satisfy the Handler
// interface. Any router or decorator stack that needs nothing from the Tx
// but its message can serve as an Executor.
func HandlerAsExecutor(h weave.Handler) Executor {
	return func(ctx weave.Context, db weave.KVStore, msg weave.Msg) (*weave.DeliverResult, error) {
		return h.Deliver(ctx, db, &callTx{msg: msg})
	}
}

type callTx struct {
	msg weave.Msg
}

var _ weave.Tx = (*callTx)(nil)

func (tx *callTx) GetMsg() (weave.Msg, error) {
	return tx.msg, nil
}

func (tx *callTx) Marshal() ([]byte, error) {
	return tx.msg.Marshal()
}

func (tx *callTx) Unmarshal(raw []byte) error {
	return tx.msg.Unmarshal(raw)
}

// Vote records the approval of voter and returns the new tally together
// with the current treasury state.
func (k *Keeper) Vote(db weave.KVStore, index, callIndex uint64, voter weave.Address) (uint64, *Supersig, error) {
	_, s, err := k.load(db, index)
	if err != nil {
		return 0, nil, err
	}
	if !s.IsMember(voter) {
		return 0, nil, errors.Wrapf(ErrNotMember, "%s", voter)
	}
	if _, err := k.Call(db, index, callIndex); err != nil {
		return 0, nil, err
	}
	switch voted, err := k.votes.Approved(db, index, callIndex, voter); {
	case err != nil:
		return 0, nil, err
	case voted:
		return 0, nil, errors.Wrapf(ErrAlreadyVoted, "%s", voter)
	}

	tally, err := k.tallies.Count(db, index, callIndex)
	if err != nil {
		return 0, nil, err
	}
	tally++
	if err := k.votes.Put(db, userVoteKey(index, callIndex, voter), &UserVote{Approved: true}); err != nil {
		return 0, nil, errors.Wrap(err, "save vote")
	}
	if err := k.tallies.Put(db, callKey(index, callIndex), &VoteTally{Count: tally}); err != nil {
		return 0, nil, errors.Wrap(err, "save tally")
	}
	return tally, s, nil
}

// VotingEngine records approvals and executes a call as soon as a
// majority of the current members approved it.
type VotingEngine struct {
	keeper *Keeper
	decode CallDecoder
	exec   Executor
}

// NewVotingEngine returns an engine executing approved calls with exec.
func NewVotingEngine(k *Keeper, decode CallDecoder, exec Executor) VotingEngine {
	return VotingEngine{keeper: k, decode: decode, exec: exec}
}

// Approve records the vote of voter. When the call reaches the threshold
// it is decoded and dispatched as the treasury. A call that cannot be
// decoded stays pending. A dispatch failure is reported in the Executed
// event and does not fail the vote.
func (v VotingEngine) Approve(ctx weave.Context, db weave.KVStore, treasury weave.Address, index, callIndex uint64, voter weave.Address) ([]weave.Event, error) {
	tally, s, err := v.keeper.Vote(db, index, callIndex, voter)
	if err != nil {
		return nil, err
	}
	events := []weave.Event{
		Voted{Supersig: treasury, CallIndex: callIndex, Voter: voter},
	}
	if tally < s.Threshold() {
		return events, nil
	}

	call, err := v.keeper.Call(db, index, callIndex)
	if err != nil {
		return nil, err
	}
	msg, err := v.decode(call.Data)
	if err != nil {
		weave.GetLogger(ctx).Info("approved call cannot be decoded",
			"supersig", treasury, "call", callIndex, "err", err)
		return events, nil
	}

	if err := v.keeper.unreserve(db, call.Provider, call.Deposit); err != nil {
		return nil, err
	}
	// The call is gone before it runs, so that it cannot act on itself.
	if err := v.keeper.purgeCall(db, index, callIndex); err != nil {
		return nil, err
	}

	res, execErr := v.dispatch(ctx, db, treasury, msg)
	if execErr == nil && res != nil {
		events = append(events, res.Events...)
	}
	weave.GetLogger(ctx).Debug("call executed",
		"supersig", treasury, "call", callIndex, "path", msg.Path(), "err", execErr)
	return append(events, Executed{Supersig: treasury, CallIndex: callIndex, Err: execErr}), nil
}

// dispatch executes msg as the treasury in its own savepoint. Any failure
// of the call, including a panic, discards its writes.
func (v VotingEngine) dispatch(ctx weave.Context, db weave.KVStore, treasury weave.Address, msg weave.Msg) (res *weave.DeliverResult, err error) {
	cstore, ok := db.(weave.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrDatabase, "store does not support savepoints")
	}
	cache := cstore.CacheWrap()
	defer func() {
		if err != nil {
			cache.Discard()
		}
	}()
	defer errors.Recover(&err)

	res, err = v.exec(withTreasury(ctx, treasury), cache, msg)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write call savepoint")
	}
	return res, nil
}
