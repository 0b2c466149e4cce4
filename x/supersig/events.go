package supersig

import (
	"strconv"
	"strings"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	"github.com/tendermint/tendermint/libs/common"
)

var (
	_ weave.Event = Created{}
	_ weave.Event = Submitted{}
	_ weave.Event = Voted{}
	_ weave.Event = Executed{}
	_ weave.Event = Removed{}
	_ weave.Event = UsersAdded{}
	_ weave.Event = UsersRemoved{}
	_ weave.Event = TreasuryRemoved{}
	_ weave.Event = MemberLeft{}
)

// Created is emitted when a new treasury is created.
type Created struct {
	Supersig weave.Address
}

func (Created) EventType() string { return "supersig.created" }

func (e Created) EventAttributes() []common.KVPair {
	return []common.KVPair{treasuryAttr(e.Supersig)}
}

// Submitted is emitted when a member proposes a call.
type Submitted struct {
	Supersig  weave.Address
	CallIndex uint64
	Provider  weave.Address
}

func (Submitted) EventType() string { return "supersig.submitted" }

func (e Submitted) EventAttributes() []common.KVPair {
	return []common.KVPair{
		treasuryAttr(e.Supersig),
		callAttr(e.CallIndex),
		{Key: []byte("provider"), Value: []byte(e.Provider.String())},
	}
}

// Voted is emitted for every approval.
type Voted struct {
	Supersig  weave.Address
	CallIndex uint64
	Voter     weave.Address
}

func (Voted) EventType() string { return "supersig.voted" }

func (e Voted) EventAttributes() []common.KVPair {
	return []common.KVPair{
		treasuryAttr(e.Supersig),
		callAttr(e.CallIndex),
		{Key: []byte("voter"), Value: []byte(e.Voter.String())},
	}
}

// Executed is emitted when an approved call was dispatched. Err holds the
// failure of the call, if any.
type Executed struct {
	Supersig  weave.Address
	CallIndex uint64
	Err       error
}

func (Executed) EventType() string { return "supersig.executed" }

func (e Executed) EventAttributes() []common.KVPair {
	code, log := errors.ABCIInfo(e.Err, false)
	outcome := "ok"
	if e.Err != nil {
		outcome = log
	}
	return []common.KVPair{
		treasuryAttr(e.Supersig),
		callAttr(e.CallIndex),
		{Key: []byte("code"), Value: []byte(strconv.FormatUint(uint64(code), 10))},
		{Key: []byte("outcome"), Value: []byte(outcome)},
	}
}

// Removed is emitted when a pending call is withdrawn.
type Removed struct {
	Supersig  weave.Address
	CallIndex uint64
}

func (Removed) EventType() string { return "supersig.removed" }

func (e Removed) EventAttributes() []common.KVPair {
	return []common.KVPair{treasuryAttr(e.Supersig), callAttr(e.CallIndex)}
}

// UsersAdded lists the members that joined a treasury.
type UsersAdded struct {
	Supersig weave.Address
	Members  []weave.Address
}

func (UsersAdded) EventType() string { return "supersig.users_added" }

func (e UsersAdded) EventAttributes() []common.KVPair {
	return []common.KVPair{treasuryAttr(e.Supersig), membersAttr(e.Members)}
}

// UsersRemoved lists the members requested to be removed from a treasury,
// including those that were not members.
type UsersRemoved struct {
	Supersig weave.Address
	Members  []weave.Address
}

func (UsersRemoved) EventType() string { return "supersig.users_removed" }

func (e UsersRemoved) EventAttributes() []common.KVPair {
	return []common.KVPair{treasuryAttr(e.Supersig), membersAttr(e.Members)}
}

// TreasuryRemoved is emitted when a treasury is dissolved.
type TreasuryRemoved struct {
	Supersig    weave.Address
	Beneficiary weave.Address
}

func (TreasuryRemoved) EventType() string { return "supersig.treasury_removed" }

func (e TreasuryRemoved) EventAttributes() []common.KVPair {
	return []common.KVPair{
		treasuryAttr(e.Supersig),
		{Key: []byte("beneficiary"), Value: []byte(e.Beneficiary.String())},
	}
}

// MemberLeft is emitted when a member resigns.
type MemberLeft struct {
	Supersig weave.Address
	Member   weave.Address
}

func (MemberLeft) EventType() string { return "supersig.member_left" }

func (e MemberLeft) EventAttributes() []common.KVPair {
	return []common.KVPair{
		treasuryAttr(e.Supersig),
		{Key: []byte("member"), Value: []byte(e.Member.String())},
	}
}

func treasuryAttr(addr weave.Address) common.KVPair {
	return common.KVPair{Key: []byte("treasury"), Value: []byte(addr.String())}
}

func callAttr(index uint64) common.KVPair {
	return common.KVPair{Key: []byte("call"), Value: []byte(strconv.FormatUint(index, 10))}
}

func membersAttr(members []weave.Address) common.KVPair {
	s := make([]string, len(members))
	for i, m := range members {
		s[i] = m.String()
	}
	return common.KVPair{Key: []byte("members"), Value: []byte(strings.Join(s, ","))}
}
