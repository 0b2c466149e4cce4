package utils

import (
	"context"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	h := weavetest.PanicHandler{Value: "boom"}
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	_, err := r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestActionTagger(t *testing.T) {
	h := &weavetest.Handler{}
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "supersig/create"}}

	res, err := NewActionTagger().Deliver(context.Background(), store.MemStore(), tx, h)
	require.NoError(t, err)
	tags := weave.EventTags(res.Events)
	require.Len(t, tags, 1)
	assert.Equal(t, "message.action", string(tags[0].Key))
	assert.Equal(t, "supersig/create", string(tags[0].Value))

	h.DeliverErr = errors.ErrNotFound
	_, err = NewActionTagger().Deliver(context.Background(), store.MemStore(), tx, h)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestLogging(t *testing.T) {
	ctx := weave.WithLogger(context.Background(), log.TestingLogger())
	h := &weavetest.Handler{DeliverErr: errors.ErrState}

	_, err := NewLogging().Deliver(ctx, store.MemStore(), nil, h)
	assert.True(t, errors.ErrState.Is(err))
	_, err = NewLogging().Check(ctx, store.MemStore(), nil, h)
	assert.NoError(t, err)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "cash/send"}}
	h := &weavetest.Handler{}

	_, err := m.Deliver(context.Background(), store.MemStore(), tx, h)
	require.NoError(t, err)
	h.CheckErr = errors.ErrUnauthorized
	_, err = m.Check(context.Background(), store.MemStore(), tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := make(map[string]float64)
	for _, f := range families {
		if f.GetName() != "supersig_transactions_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := make(map[string]string)
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			key := labels["phase"] + " " + labels["path"] + " " + labels["code"]
			counts[key] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"deliver cash/send 0": 1,
		"check cash/send 2":   1,
	}, counts)
}
