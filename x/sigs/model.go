package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/orm"
	"github.com/iov-one/supersig/weave"
	"golang.org/x/crypto/ed25519"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData holds the public key of a signer together with the sequence
// the next signature must carry.
type UserData struct {
	Pubkey   []byte `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey"`
	Sequence int64  `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return proto.Marshal((*userDataWire)(u))
}

func (u *UserData) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*userDataWire)(u))
}

func (u *UserData) Validate() error {
	if len(u.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrModel, "invalid public key")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	return nil
}

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is Number.MAX_SAFE_INTEGER = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// KeyAddress returns the address controlled by given public key.
func KeyAddress(pub ed25519.PublicKey) weave.Address {
	return weave.NewAddress(append([]byte("sigs/ed25519/"), pub...))
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate returns the stored user of given public key or a fresh one
// with zero sequence.
func (b Bucket) GetOrCreate(db weave.ReadOnlyKVStore, pub ed25519.PublicKey) (*UserData, error) {
	var u UserData
	switch err := b.One(db, KeyAddress(pub), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pub}, nil
	default:
		return nil, err
	}
}
