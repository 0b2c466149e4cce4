package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

// Ensure we implement the Msg interface
var _ weave.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves free balance between two accounts. The source account
// must have authorized the message.
type SendMsg struct {
	Source      weave.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source"`
	Destination weave.Address `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination"`
	Amount      coin.Coin     `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount"`
	Memo        string        `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
	// KeepAlive rejects the transfer if it would remove the source
	// account.
	KeepAlive bool `protobuf:"varint,5,opt,name=keep_alive,proto3" json:"keep_alive,omitempty"`
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*sendMsgWire)(m))
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*sendMsgWire)(m))
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive SendMsg: %s", m.Amount)
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

func (m *SendMsg) existence() Existence {
	if m.KeepAlive {
		return KeepAlive
	}
	return AllowDeath
}
