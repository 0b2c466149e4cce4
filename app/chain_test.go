package app

import (
	"context"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
	"github.com/iov-one/supersig/x/utils"
)

func TestChain(t *testing.T) {
	d1 := &weavetest.Decorator{}
	d2 := &weavetest.Decorator{}
	h := &weavetest.Handler{}

	stack := ChainDecorators(
		d1,
		utils.NewLogging(),
		nil,
		utils.NewRecovery(),
		d2,
	).WithHandler(h)

	ctx := context.Background()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(ctx, nil, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.Nil(t, err)

	assert.Equal(t, 2, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainRecoversPanic(t *testing.T) {
	d := &weavetest.Decorator{}
	stack := ChainDecorators(
		utils.NewRecovery(),
		d,
	).WithHandler(weavetest.PanicHandler{Value: "boom"})

	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(context.Background(), nil, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(context.Background(), nil, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	assert.Equal(t, 2, d.CallCount())
}

func TestChainDecoratorError(t *testing.T) {
	d1 := &weavetest.Decorator{}
	d2 := &weavetest.Decorator{DeliverErr: errors.ErrUnauthorized}
	h := &weavetest.Handler{}

	stack := ChainDecorators(d1).Chain(d2).WithHandler(h)
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Deliver(context.Background(), nil, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 0, h.CallCount())

	_, err = stack.Check(context.Background(), nil, tx)
	assert.Nil(t, err)
	assert.Equal(t, 1, h.CallCount())
}
