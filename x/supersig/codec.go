package supersig

import (
	"github.com/gogo/protobuf/proto"
	amino "github.com/tendermint/go-amino"
)

// RegisterCodec registers all messages of this package with the given
// codec. Transactions and proposed calls carry a message as an amino
// interface value.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&CreateMsg{}, "supersig/CreateMsg", nil)
	c.RegisterConcrete(&SubmitCallMsg{}, "supersig/SubmitCallMsg", nil)
	c.RegisterConcrete(&ApproveCallMsg{}, "supersig/ApproveCallMsg", nil)
	c.RegisterConcrete(&RemoveCallMsg{}, "supersig/RemoveCallMsg", nil)
	c.RegisterConcrete(&AddMembersMsg{}, "supersig/AddMembersMsg", nil)
	c.RegisterConcrete(&RemoveMembersMsg{}, "supersig/RemoveMembersMsg", nil)
	c.RegisterConcrete(&RemoveSupersigMsg{}, "supersig/RemoveSupersigMsg", nil)
	c.RegisterConcrete(&LeaveMsg{}, "supersig/LeaveMsg", nil)
}

// Models, messages and the configuration are serialized with protobuf.
// The encoder prefers a Marshal method over the struct tags, so every
// type is encoded through a twin that shares its layout but has no
// methods of its own.
type (
	supersigWire          Supersig
	callNonceWire         CallNonce
	preimageCallWire      PreimageCall
	voteTallyWire         VoteTally
	userVoteWire          UserVote
	configurationWire     Configuration
	createMsgWire         CreateMsg
	submitCallMsgWire     SubmitCallMsg
	approveCallMsgWire    ApproveCallMsg
	removeCallMsgWire     RemoveCallMsg
	addMembersMsgWire     AddMembersMsg
	removeMembersMsgWire  RemoveMembersMsg
	removeSupersigMsgWire RemoveSupersigMsg
	leaveMsgWire          LeaveMsg
)

func (m *supersigWire) Reset()         { *m = supersigWire{} }
func (m *supersigWire) String() string { return proto.CompactTextString(m) }
func (*supersigWire) ProtoMessage()    {}

func (m *callNonceWire) Reset()         { *m = callNonceWire{} }
func (m *callNonceWire) String() string { return proto.CompactTextString(m) }
func (*callNonceWire) ProtoMessage()    {}

func (m *preimageCallWire) Reset()         { *m = preimageCallWire{} }
func (m *preimageCallWire) String() string { return proto.CompactTextString(m) }
func (*preimageCallWire) ProtoMessage()    {}

func (m *voteTallyWire) Reset()         { *m = voteTallyWire{} }
func (m *voteTallyWire) String() string { return proto.CompactTextString(m) }
func (*voteTallyWire) ProtoMessage()    {}

func (m *userVoteWire) Reset()         { *m = userVoteWire{} }
func (m *userVoteWire) String() string { return proto.CompactTextString(m) }
func (*userVoteWire) ProtoMessage()    {}

func (m *configurationWire) Reset()         { *m = configurationWire{} }
func (m *configurationWire) String() string { return proto.CompactTextString(m) }
func (*configurationWire) ProtoMessage()    {}

func (m *createMsgWire) Reset()         { *m = createMsgWire{} }
func (m *createMsgWire) String() string { return proto.CompactTextString(m) }
func (*createMsgWire) ProtoMessage()    {}

func (m *submitCallMsgWire) Reset()         { *m = submitCallMsgWire{} }
func (m *submitCallMsgWire) String() string { return proto.CompactTextString(m) }
func (*submitCallMsgWire) ProtoMessage()    {}

func (m *approveCallMsgWire) Reset()         { *m = approveCallMsgWire{} }
func (m *approveCallMsgWire) String() string { return proto.CompactTextString(m) }
func (*approveCallMsgWire) ProtoMessage()    {}

func (m *removeCallMsgWire) Reset()         { *m = removeCallMsgWire{} }
func (m *removeCallMsgWire) String() string { return proto.CompactTextString(m) }
func (*removeCallMsgWire) ProtoMessage()    {}

func (m *addMembersMsgWire) Reset()         { *m = addMembersMsgWire{} }
func (m *addMembersMsgWire) String() string { return proto.CompactTextString(m) }
func (*addMembersMsgWire) ProtoMessage()    {}

func (m *removeMembersMsgWire) Reset()         { *m = removeMembersMsgWire{} }
func (m *removeMembersMsgWire) String() string { return proto.CompactTextString(m) }
func (*removeMembersMsgWire) ProtoMessage()    {}

func (m *removeSupersigMsgWire) Reset()         { *m = removeSupersigMsgWire{} }
func (m *removeSupersigMsgWire) String() string { return proto.CompactTextString(m) }
func (*removeSupersigMsgWire) ProtoMessage()    {}

func (m *leaveMsgWire) Reset()         { *m = leaveMsgWire{} }
func (m *leaveMsgWire) String() string { return proto.CompactTextString(m) }
func (*leaveMsgWire) ProtoMessage()    {}
