package utils

import (
	"context"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    weave.Decorator
		handler weave.Handler
		check   bool
		wantErr bool
		written [][]byte
		missing [][]byte
	}{
		"disabled savepoint keeps failed writes": {
			save:    NewSavepoint(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrState},
			check:   true,
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"check savepoint rolls back": {
			save:    NewSavepoint().OnCheck(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrState},
			check:   true,
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint rolls back": {
			save:    NewSavepoint().OnDeliver(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrState},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrState},
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"successful deliver is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			assert.Equal(t, tc.wantErr, err != nil)

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "key %X", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "key %X", k)
			}
		})
	}
}
