package app

import (
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/x/cash"
	"github.com/iov-one/supersig/x/supersig"
	amino "github.com/tendermint/go-amino"
)

// cdc knows every message the application routes. The same codec decodes
// transactions and the calls approved by a supersig.
var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*weave.Msg)(nil), nil)
	cash.RegisterCodec(cdc)
	supersig.RegisterCodec(cdc)
	cdc.RegisterConcrete(&Tx{}, "supersigd/Tx", nil)
}

// EncodeCall serializes a message so it can be proposed to a supersig.
func EncodeCall(msg weave.Msg) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(msg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// DecodeCall is the supersig.CallDecoder of this application. A payload
// that does not decode into a valid message is rejected.
func DecodeCall(raw []byte) (weave.Msg, error) {
	var msg weave.Msg
	if err := cdc.UnmarshalBinaryBare(raw, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "call")
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid call")
	}
	return msg, nil
}
