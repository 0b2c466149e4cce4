package supersig

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

const (
	pathCreateMsg         = "supersig/create"
	pathSubmitCallMsg     = "supersig/submit_call"
	pathApproveCallMsg    = "supersig/approve_call"
	pathRemoveCallMsg     = "supersig/remove_call"
	pathAddMembersMsg     = "supersig/add_members"
	pathRemoveMembersMsg  = "supersig/remove_members"
	pathRemoveSupersigMsg = "supersig/remove"
	pathLeaveMsg          = "supersig/leave"
)

var (
	_ weave.Msg = (*CreateMsg)(nil)
	_ weave.Msg = (*SubmitCallMsg)(nil)
	_ weave.Msg = (*ApproveCallMsg)(nil)
	_ weave.Msg = (*RemoveCallMsg)(nil)
	_ weave.Msg = (*AddMembersMsg)(nil)
	_ weave.Msg = (*RemoveMembersMsg)(nil)
	_ weave.Msg = (*RemoveSupersigMsg)(nil)
	_ weave.Msg = (*LeaveMsg)(nil)
)

// CreateMsg creates a treasury controlled by given members. The signer
// pays the deposit and is not a member unless listed.
type CreateMsg struct {
	Members []weave.Address `protobuf:"bytes,1,rep,name=members,proto3" json:"members"`
}

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error) { return proto.Marshal((*createMsgWire)(m)) }

func (m *CreateMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*createMsgWire)(m)) }

func (m *CreateMsg) Validate() error {
	if len(m.Members) == 0 {
		return errors.Wrap(ErrInvalidSupersig, "no members")
	}
	return validateAddresses(m.Members)
}

// SubmitCallMsg proposes an encoded message for execution by a treasury.
type SubmitCallMsg struct {
	SupersigID weave.Address `protobuf:"bytes,1,opt,name=supersig_id,proto3" json:"supersig_id"`
	Call       []byte        `protobuf:"bytes,2,opt,name=call,proto3" json:"call"`
}

func (SubmitCallMsg) Path() string { return pathSubmitCallMsg }

func (m *SubmitCallMsg) Marshal() ([]byte, error) { return proto.Marshal((*submitCallMsgWire)(m)) }

func (m *SubmitCallMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*submitCallMsgWire)(m)) }

func (m *SubmitCallMsg) Validate() error {
	if err := m.SupersigID.Validate(); err != nil {
		return errors.Wrap(err, "supersig id")
	}
	if len(m.Call) == 0 {
		return errors.Wrap(errors.ErrEmpty, "call")
	}
	return nil
}

// ApproveCallMsg votes for a pending call.
type ApproveCallMsg struct {
	SupersigID weave.Address `protobuf:"bytes,1,opt,name=supersig_id,proto3" json:"supersig_id"`
	CallIndex  uint64        `protobuf:"varint,2,opt,name=call_index,proto3" json:"call_index"`
}

func (ApproveCallMsg) Path() string { return pathApproveCallMsg }

func (m *ApproveCallMsg) Marshal() ([]byte, error) { return proto.Marshal((*approveCallMsgWire)(m)) }

func (m *ApproveCallMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*approveCallMsgWire)(m)) }

func (m *ApproveCallMsg) Validate() error {
	return errors.Wrap(m.SupersigID.Validate(), "supersig id")
}

// RemoveCallMsg withdraws a pending call. It must be authorized by the
// treasury or by the call provider.
type RemoveCallMsg struct {
	SupersigID weave.Address `protobuf:"bytes,1,opt,name=supersig_id,proto3" json:"supersig_id"`
	CallIndex  uint64        `protobuf:"varint,2,opt,name=call_index,proto3" json:"call_index"`
}

func (RemoveCallMsg) Path() string { return pathRemoveCallMsg }

func (m *RemoveCallMsg) Marshal() ([]byte, error) { return proto.Marshal((*removeCallMsgWire)(m)) }

func (m *RemoveCallMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*removeCallMsgWire)(m)) }

func (m *RemoveCallMsg) Validate() error {
	return errors.Wrap(m.SupersigID.Validate(), "supersig id")
}

// AddMembersMsg extends the member set. It must be authorized by the
// treasury.
type AddMembersMsg struct {
	SupersigID weave.Address   `protobuf:"bytes,1,opt,name=supersig_id,proto3" json:"supersig_id"`
	Members    []weave.Address `protobuf:"bytes,2,rep,name=members,proto3" json:"members"`
}

func (AddMembersMsg) Path() string { return pathAddMembersMsg }

func (m *AddMembersMsg) Marshal() ([]byte, error) { return proto.Marshal((*addMembersMsgWire)(m)) }

func (m *AddMembersMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*addMembersMsgWire)(m)) }

func (m *AddMembersMsg) Validate() error {
	if err := m.SupersigID.Validate(); err != nil {
		return errors.Wrap(err, "supersig id")
	}
	return validateAddresses(m.Members)
}

// RemoveMembersMsg shrinks the member set. It must be authorized by the
// treasury.
type RemoveMembersMsg struct {
	SupersigID weave.Address   `protobuf:"bytes,1,opt,name=supersig_id,proto3" json:"supersig_id"`
	Members    []weave.Address `protobuf:"bytes,2,rep,name=members,proto3" json:"members"`
}

func (RemoveMembersMsg) Path() string { return pathRemoveMembersMsg }

func (m *RemoveMembersMsg) Marshal() ([]byte, error) { return proto.Marshal((*removeMembersMsgWire)(m)) }

func (m *RemoveMembersMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*removeMembersMsgWire)(m)) }

func (m *RemoveMembersMsg) Validate() error {
	if err := m.SupersigID.Validate(); err != nil {
		return errors.Wrap(err, "supersig id")
	}
	return validateAddresses(m.Members)
}

// RemoveSupersigMsg dissolves a treasury and sends its funds to the
// beneficiary, which must be a different account. It must be authorized
// by the treasury.
type RemoveSupersigMsg struct {
	SupersigID  weave.Address `protobuf:"bytes,1,opt,name=supersig_id,proto3" json:"supersig_id"`
	Beneficiary weave.Address `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary"`
}

func (RemoveSupersigMsg) Path() string { return pathRemoveSupersigMsg }

func (m *RemoveSupersigMsg) Marshal() ([]byte, error) { return proto.Marshal((*removeSupersigMsgWire)(m)) }

func (m *RemoveSupersigMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*removeSupersigMsgWire)(m)) }

func (m *RemoveSupersigMsg) Validate() error {
	if err := m.SupersigID.Validate(); err != nil {
		return errors.Wrap(err, "supersig id")
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if m.Beneficiary.Equals(m.SupersigID) {
		return errors.Wrap(errors.ErrInput, "supersig cannot be its own beneficiary")
	}
	return nil
}

// LeaveMsg removes the signer from the member set.
type LeaveMsg struct {
	SupersigID weave.Address `protobuf:"bytes,1,opt,name=supersig_id,proto3" json:"supersig_id"`
}

func (LeaveMsg) Path() string { return pathLeaveMsg }

func (m *LeaveMsg) Marshal() ([]byte, error) { return proto.Marshal((*leaveMsgWire)(m)) }

func (m *LeaveMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*leaveMsgWire)(m)) }

func (m *LeaveMsg) Validate() error {
	return errors.Wrap(m.SupersigID.Validate(), "supersig id")
}

func validateAddresses(addrs []weave.Address) error {
	for i, a := range addrs {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "address %d", i)
		}
	}
	return nil
}
