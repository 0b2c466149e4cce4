package cash

import (
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/weave"
	"github.com/tendermint/tendermint/libs/common"
)

// Transferred is emitted when free balance changes owner.
type Transferred struct {
	From   weave.Address
	To     weave.Address
	Amount coin.Coin
}

var _ weave.Event = Transferred{}

func (Transferred) EventType() string { return "cash.transfer" }

func (e Transferred) EventAttributes() []common.KVPair {
	return []common.KVPair{
		{Key: []byte("from"), Value: []byte(e.From.String())},
		{Key: []byte("to"), Value: []byte(e.To.String())},
		{Key: []byte("amount"), Value: []byte(e.Amount.String())},
	}
}
