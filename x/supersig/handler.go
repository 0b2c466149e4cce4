package supersig

import (
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/x"
	"github.com/iov-one/supersig/x/cash"
)

const (
	createCost        int64 = 1000
	submitCallCost    int64 = 500
	approveCallCost   int64 = 2000
	removeCallCost    int64 = 300
	membersChangeCost int64 = 500
	removeCost        int64 = 1000
	leaveCost         int64 = 300

	// perMemberCost is added for every address listed in a message.
	perMemberCost int64 = 100
)

// RegisterQuery registers the supersig buckets for querying.
func RegisterQuery(qr weave.QueryRouter) {
	NewSupersigBucket().Register("supersigs", qr)
	NewCallNonceBucket().Register("supersig/nonces", qr)
	NewCallBucket().Register("supersig/calls", qr)
	NewTallyBucket().Register("supersig/votes", qr)
	NewUserVoteBucket().Register("supersig/uservotes", qr)
}

// RegisterRoutes registers handlers for all supersig messages. Approved
// calls are decoded with decode and dispatched with exec.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl cash.Controller, decode CallDecoder, exec Executor) {
	k := NewKeeper(ctrl)
	r.Handle(&CreateMsg{}, &CreateHandler{auth: auth, keeper: k})
	r.Handle(&SubmitCallMsg{}, &SubmitCallHandler{auth: auth, keeper: k})
	r.Handle(&ApproveCallMsg{}, &ApproveCallHandler{auth: auth, keeper: k, engine: NewVotingEngine(k, decode, exec)})
	r.Handle(&RemoveCallMsg{}, &RemoveCallHandler{auth: auth, keeper: k})
	r.Handle(&AddMembersMsg{}, &AddMembersHandler{auth: auth, keeper: k})
	r.Handle(&RemoveMembersMsg{}, &RemoveMembersHandler{auth: auth, keeper: k})
	r.Handle(&RemoveSupersigMsg{}, &RemoveSupersigHandler{auth: auth, keeper: k})
	r.Handle(&LeaveMsg{}, &LeaveHandler{auth: auth, keeper: k})
}

// caller returns the main signer of the message.
func caller(ctx weave.Context, auth x.Authenticator) (weave.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer, nil
}

// CreateHandler creates a treasury funded by the signer.
type CreateHandler struct {
	auth   x.Authenticator
	keeper *Keeper
}

var _ weave.Handler = (*CreateHandler)(nil)

func (h CreateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, _, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createCost + perMemberCost*int64(len(msg.Members))}, nil
}

func (h CreateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, creator, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, index, err := h.keeper.Create(db, creator, msg.Members)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("supersig created", "supersig", addr, "index", index, "members", len(msg.Members))
	return &weave.DeliverResult{
		Data:   addr,
		Events: []weave.Event{Created{Supersig: addr}},
	}, nil
}

func (h CreateHandler) validate(ctx weave.Context, tx weave.Tx) (*CreateMsg, weave.Address, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	creator, err := caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, creator, nil
}

// SubmitCallHandler stores a call proposed by a member.
type SubmitCallHandler struct {
	auth   x.Authenticator
	keeper *Keeper
}

var _ weave.Handler = (*SubmitCallHandler)(nil)

func (h SubmitCallHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: submitCallCost + int64(len(msg.Call))}, nil
}

func (h SubmitCallHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, provider, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	index, _, err := h.keeper.Lookup(db, msg.SupersigID)
	if err != nil {
		return nil, err
	}
	callIndex, err := h.keeper.Submit(db, index, provider, msg.Call)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Data: encodeIndex(callIndex),
		Events: []weave.Event{
			Submitted{Supersig: msg.SupersigID, CallIndex: callIndex, Provider: provider},
		},
	}, nil
}

func (h SubmitCallHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SubmitCallMsg, weave.Address, error) {
	var msg SubmitCallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	provider, err := caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	_, s, err := h.keeper.Lookup(db, msg.SupersigID)
	if err != nil {
		return nil, nil, err
	}
	if !s.IsMember(provider) {
		return nil, nil, errors.Wrapf(ErrNotMember, "%s", provider)
	}
	return &msg, provider, nil
}

// ApproveCallHandler records votes and executes approved calls.
type ApproveCallHandler struct {
	auth   x.Authenticator
	keeper *Keeper
	engine VotingEngine
}

var _ weave.Handler = (*ApproveCallHandler)(nil)

func (h ApproveCallHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: approveCallCost}, nil
}

func (h ApproveCallHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, index, voter, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	events, err := h.engine.Approve(ctx, db, msg.SupersigID, index, msg.CallIndex, voter)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Events: events}, nil
}

// validate runs the checks of a vote in order: membership, call existence
// and a previous vote.
func (h ApproveCallHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ApproveCallMsg, uint64, weave.Address, error) {
	var msg ApproveCallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, 0, nil, errors.Wrap(err, "load msg")
	}
	voter, err := caller(ctx, h.auth)
	if err != nil {
		return nil, 0, nil, err
	}
	index, s, err := h.keeper.Lookup(db, msg.SupersigID)
	if err != nil {
		return nil, 0, nil, err
	}
	if !s.IsMember(voter) {
		return nil, 0, nil, errors.Wrapf(ErrNotMember, "%s", voter)
	}
	if _, err := h.keeper.Call(db, index, msg.CallIndex); err != nil {
		return nil, 0, nil, err
	}
	switch voted, err := h.keeper.UsersVotes(db, index, msg.CallIndex, voter); {
	case err != nil:
		return nil, 0, nil, err
	case voted:
		return nil, 0, nil, errors.Wrapf(ErrAlreadyVoted, "%s", voter)
	}
	return &msg, index, voter, nil
}

// RemoveCallHandler withdraws a pending call.
type RemoveCallHandler struct {
	auth   x.Authenticator
	keeper *Keeper
}

var _ weave.Handler = (*RemoveCallHandler)(nil)

func (h RemoveCallHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: removeCallCost}, nil
}

func (h RemoveCallHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, index, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.keeper.RemoveCall(db, index, msg.CallIndex); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Events: []weave.Event{Removed{Supersig: msg.SupersigID, CallIndex: msg.CallIndex}},
	}, nil
}

func (h RemoveCallHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*RemoveCallMsg, uint64, error) {
	var msg RemoveCallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	index, _, err := h.keeper.Lookup(db, msg.SupersigID)
	if err != nil {
		return nil, 0, err
	}
	call, err := h.keeper.Call(db, index, msg.CallIndex)
	if err != nil {
		return nil, 0, err
	}
	if !h.auth.HasAddress(ctx, msg.SupersigID) && !h.auth.HasAddress(ctx, call.Provider) {
		return nil, 0, errors.Wrap(ErrNotAllowed, "only the supersig or the provider can remove a call")
	}
	return &msg, index, nil
}

// AddMembersHandler extends the member set of a treasury.
type AddMembersHandler struct {
	auth   x.Authenticator
	keeper *Keeper
}

var _ weave.Handler = (*AddMembersHandler)(nil)

func (h AddMembersHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: membersChangeCost + perMemberCost*int64(len(msg.Members))}, nil
}

func (h AddMembersHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, index, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	added, err := h.keeper.AddMembers(db, index, msg.Members)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Events: []weave.Event{UsersAdded{Supersig: msg.SupersigID, Members: added}},
	}, nil
}

func (h AddMembersHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*AddMembersMsg, uint64, error) {
	var msg AddMembersMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.SupersigID) {
		return nil, 0, errors.Wrap(ErrNotAllowed, "only the supersig can add members")
	}
	index, _, err := h.keeper.Lookup(db, msg.SupersigID)
	if err != nil {
		return nil, 0, err
	}
	return &msg, index, nil
}

// RemoveMembersHandler shrinks the member set of a treasury.
type RemoveMembersHandler struct {
	auth   x.Authenticator
	keeper *Keeper
}

var _ weave.Handler = (*RemoveMembersHandler)(nil)

func (h RemoveMembersHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: membersChangeCost + perMemberCost*int64(len(msg.Members))}, nil
}

func (h RemoveMembersHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, index, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.keeper.RemoveMembers(db, index, msg.Members); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Events: []weave.Event{UsersRemoved{Supersig: msg.SupersigID, Members: msg.Members}},
	}, nil
}

func (h RemoveMembersHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*RemoveMembersMsg, uint64, error) {
	var msg RemoveMembersMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.SupersigID) {
		return nil, 0, errors.Wrap(ErrNotAllowed, "only the supersig can remove members")
	}
	index, _, err := h.keeper.Lookup(db, msg.SupersigID)
	if err != nil {
		return nil, 0, err
	}
	return &msg, index, nil
}

// RemoveSupersigHandler dissolves a treasury.
type RemoveSupersigHandler struct {
	auth   x.Authenticator
	keeper *Keeper
}

var _ weave.Handler = (*RemoveSupersigHandler)(nil)

func (h RemoveSupersigHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: removeCost}, nil
}

func (h RemoveSupersigHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, index, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.keeper.Remove(db, index, msg.Beneficiary); err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("supersig removed", "supersig", msg.SupersigID, "beneficiary", msg.Beneficiary)
	return &weave.DeliverResult{
		Events: []weave.Event{TreasuryRemoved{Supersig: msg.SupersigID, Beneficiary: msg.Beneficiary}},
	}, nil
}

func (h RemoveSupersigHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*RemoveSupersigMsg, uint64, error) {
	var msg RemoveSupersigMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.SupersigID) {
		return nil, 0, errors.Wrap(ErrNotAllowed, "only the supersig can remove itself")
	}
	index, _, err := h.keeper.Lookup(db, msg.SupersigID)
	if err != nil {
		return nil, 0, err
	}
	return &msg, index, nil
}

// LeaveHandler removes the signer from a treasury.
type LeaveHandler struct {
	auth   x.Authenticator
	keeper *Keeper
}

var _ weave.Handler = (*LeaveHandler)(nil)

func (h LeaveHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: leaveCost}, nil
}

func (h LeaveHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, index, member, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.keeper.Leave(db, index, member); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Events: []weave.Event{MemberLeft{Supersig: msg.SupersigID, Member: member}},
	}, nil
}

func (h LeaveHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*LeaveMsg, uint64, weave.Address, error) {
	var msg LeaveMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, 0, nil, errors.Wrap(err, "load msg")
	}
	member, err := caller(ctx, h.auth)
	if err != nil {
		return nil, 0, nil, err
	}
	index, _, err := h.keeper.Lookup(db, msg.SupersigID)
	if err != nil {
		return nil, 0, nil, err
	}
	return &msg, index, member, nil
}

func encodeIndex(n uint64) []byte {
	return indexKey(n)
}
