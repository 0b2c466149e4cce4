package app

import (
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &weavetest.Handler{}
	bad := &weavetest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	r.Handle(&weavetest.Msg{RoutePath: "good"}, good)
	r.Handle(&weavetest.Msg{RoutePath: "bad"}, bad)

	// invalid registrations panic
	assert.Panics(t, func() { r.Handle(&weavetest.Msg{RoutePath: "good"}, good) })
	assert.Panics(t, func() { r.Handle(&weavetest.Msg{RoutePath: "l:7"}, good) })

	tx := func(path string) weave.Tx {
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: path}}
	}

	if _, err := r.Check(nil, nil, tx("good")); err != nil {
		t.Fatalf("check: %s", err)
	}
	if _, err := r.Deliver(nil, nil, tx("good")); err != nil {
		t.Fatalf("deliver: %s", err)
	}
	assert.Equal(t, 2, good.CallCount())

	_, err := r.Deliver(nil, nil, tx("bad"))
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 1, bad.CallCount())

	_, err = r.Deliver(nil, nil, tx("missing"))
	assert.IsErr(t, ErrNoSuchPath, err)
	_, err = r.Check(nil, nil, tx("missing"))
	assert.IsErr(t, ErrNoSuchPath, err)

	assert.Equal(t, 2, good.CallCount())
}
