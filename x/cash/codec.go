package cash

import (
	"github.com/gogo/protobuf/proto"
	amino "github.com/tendermint/go-amino"
)

// RegisterCodec registers all messages of this package with the given
// codec. The application codec must know them to decode transactions.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&SendMsg{}, "cash/SendMsg", nil)
}

// Protobuf twins of the stored and signed types. They share the layout
// of the originals without inheriting the Marshal method the encoder
// would otherwise call back into.
type (
	walletWire        Wallet
	sendMsgWire       SendMsg
	configurationWire Configuration
)

func (m *walletWire) Reset()         { *m = walletWire{} }
func (m *walletWire) String() string { return proto.CompactTextString(m) }
func (*walletWire) ProtoMessage()    {}

func (m *sendMsgWire) Reset()         { *m = sendMsgWire{} }
func (m *sendMsgWire) String() string { return proto.CompactTextString(m) }
func (*sendMsgWire) ProtoMessage()    {}

func (m *configurationWire) Reset()         { *m = configurationWire{} }
func (m *configurationWire) String() string { return proto.CompactTextString(m) }
func (*configurationWire) ProtoMessage()    {}
