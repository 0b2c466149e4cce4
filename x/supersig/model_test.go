package supersig

import (
	"testing"

	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/orm"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
)

func TestModelEncoding(t *testing.T) {
	alice, bob := weavetest.SequenceAddr(1), weavetest.SequenceAddr(2)

	cases := map[string]struct {
		model orm.Model
		dest  orm.Model
	}{
		"supersig": {
			model: &Supersig{Members: []weave.Address{alice, bob, alice}},
			dest:  &Supersig{},
		},
		"call": {
			model: &PreimageCall{
				Data:     []byte("payload"),
				Provider: bob,
				Deposit:  coin.NewCoin(7, 500000000, "IOV"),
			},
			dest: &PreimageCall{},
		},
		"tally": {
			model: &VoteTally{Count: 3},
			dest:  &VoteTally{},
		},
		"vote": {
			model: &UserVote{Approved: true},
			dest:  &UserVote{},
		},
		"nonce": {
			model: &CallNonce{Next: 1 << 40},
			dest:  &CallNonce{},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := tc.model.Marshal()
			assert.Nil(t, err)
			assert.Nil(t, tc.dest.Unmarshal(raw))
			assert.Equal(t, tc.model, tc.dest)
		})
	}
}

func TestMsgEncoding(t *testing.T) {
	treasury := weavetest.SequenceAddr(1)
	msg := &AddMembersMsg{
		SupersigID: treasury,
		Members:    []weave.Address{weavetest.SequenceAddr(2)},
	}
	raw, err := msg.Marshal()
	assert.Nil(t, err)

	var got AddMembersMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, msg, &got)

	// Unmarshal replaces previous content.
	assert.Nil(t, got.Unmarshal(nil))
	assert.Equal(t, AddMembersMsg{}, got)
}
