package supersig

import (
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

const (
	// MemberUnitSize is the number of bytes paid for by every member of a
	// treasury.
	MemberUnitSize = weave.AddressLength
	// ByteUnitSize is the number of bytes paid for by every byte of a
	// submitted call.
	ByteUnitSize = 1
)

// Deposit returns the price of storing units elements of unitSize bytes.
//
//   units * unitSize * pricePerByte
func Deposit(pricePerByte coin.Coin, units, unitSize int) (coin.Coin, error) {
	if units < 0 || unitSize < 0 {
		return coin.Coin{}, errors.Wrapf(errors.ErrInput, "negative size %d x %d", units, unitSize)
	}
	n := int64(units) * int64(unitSize)
	if unitSize != 0 && n/int64(unitSize) != int64(units) {
		return coin.Coin{}, errors.Wrapf(errors.ErrOverflow, "%d x %d", units, unitSize)
	}
	price, err := pricePerByte.Multiply(n)
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "deposit")
	}
	return price, nil
}

func membersDeposit(conf Configuration, n int) (coin.Coin, error) {
	return Deposit(conf.PricePerByte, n, MemberUnitSize)
}

func callDeposit(conf Configuration, payload []byte) (coin.Coin, error) {
	return Deposit(conf.PricePerByte, len(payload), ByteUnitSize)
}
