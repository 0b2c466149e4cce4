package supersig

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/orm"
	"github.com/iov-one/supersig/weave"
)

// Supersig is the member set of a single treasury. The treasury address
// is derived from its index and is not stored.
type Supersig struct {
	Members []weave.Address `protobuf:"bytes,1,rep,name=members,proto3" json:"members"`
}

var _ orm.Model = (*Supersig)(nil)

func (s *Supersig) Marshal() ([]byte, error) {
	return proto.Marshal((*supersigWire)(s))
}

func (s *Supersig) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*supersigWire)(s))
}

func (s *Supersig) Validate() error {
	if len(s.Members) == 0 {
		return errors.Wrap(ErrInvalidSupersig, "no members")
	}
	for i, m := range s.Members {
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
	}
	return nil
}

// IsMember returns true if addr is one of the members.
func (s *Supersig) IsMember(addr weave.Address) bool {
	for _, m := range s.Members {
		if m.Equals(addr) {
			return true
		}
	}
	return false
}

// Threshold is the number of approvals required to execute a call with
// the current membership.
func (s *Supersig) Threshold() uint64 {
	return uint64(len(s.Members))/2 + 1
}

// CallNonce is the index that the next call submitted to a treasury
// receives.
type CallNonce struct {
	Next uint64 `protobuf:"varint,1,opt,name=next,proto3" json:"next"`
}

var _ orm.Model = (*CallNonce)(nil)

func (n *CallNonce) Marshal() ([]byte, error) {
	return proto.Marshal((*callNonceWire)(n))
}

func (n *CallNonce) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*callNonceWire)(n))
}

func (n *CallNonce) Validate() error {
	return nil
}

// PreimageCall is a call waiting for the approval of the members.
type PreimageCall struct {
	// Data is the encoded message executed by the treasury.
	Data []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data"`
	// Provider submitted the call and paid the deposit.
	Provider weave.Address `protobuf:"bytes,2,opt,name=provider,proto3" json:"provider"`
	// Deposit is reserved from the provider until the call is executed or
	// removed.
	Deposit coin.Coin `protobuf:"bytes,3,opt,name=deposit,proto3" json:"deposit"`
}

var _ orm.Model = (*PreimageCall)(nil)

func (c *PreimageCall) Marshal() ([]byte, error) {
	return proto.Marshal((*preimageCallWire)(c))
}

func (c *PreimageCall) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*preimageCallWire)(c))
}

func (c *PreimageCall) Validate() error {
	if len(c.Data) == 0 {
		return errors.Wrap(errors.ErrEmpty, "data")
	}
	if err := c.Provider.Validate(); err != nil {
		return errors.Wrap(err, "provider")
	}
	if err := c.Deposit.Validate(); err != nil {
		return errors.Wrap(err, "deposit")
	}
	if !c.Deposit.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative deposit")
	}
	return nil
}

// VoteTally counts the approvals of a call.
type VoteTally struct {
	Count uint64 `protobuf:"varint,1,opt,name=count,proto3" json:"count"`
}

var _ orm.Model = (*VoteTally)(nil)

func (v *VoteTally) Marshal() ([]byte, error) {
	return proto.Marshal((*voteTallyWire)(v))
}

func (v *VoteTally) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*voteTallyWire)(v))
}

func (v *VoteTally) Validate() error {
	return nil
}

// UserVote records that a member approved a call.
type UserVote struct {
	Approved bool `protobuf:"varint,1,opt,name=approved,proto3" json:"approved"`
}

var _ orm.Model = (*UserVote)(nil)

func (v *UserVote) Marshal() ([]byte, error) {
	return proto.Marshal((*userVoteWire)(v))
}

func (v *UserVote) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*userVoteWire)(v))
}

func (v *UserVote) Validate() error {
	return nil
}

const (
	supersigBucketName = "supersig"
	nonceBucketName    = "callnonce"
	callBucketName     = "call"
	tallyBucketName    = "votes"
	userVoteBucketName = "uservote"
)

// indexKey is the primary key of a treasury and the prefix of everything
// stored under it.
func indexKey(index uint64) []byte {
	return orm.EncodeSequence(index)
}

func callKey(index, call uint64) []byte {
	return orm.CompositeKey(indexKey(index), orm.EncodeSequence(call))
}

func userVoteKey(index, call uint64, voter weave.Address) []byte {
	return orm.CompositeKey(callKey(index, call), voter)
}

// SupersigBucket stores treasuries by index.
type SupersigBucket struct {
	orm.ModelBucket
	seq orm.Sequence
}

// NewSupersigBucket returns a bucket together with the sequence
// allocating treasury indexes.
func NewSupersigBucket() *SupersigBucket {
	return &SupersigBucket{
		ModelBucket: orm.NewModelBucket(supersigBucketName, &Supersig{}),
		seq:         orm.NewSequence(supersigBucketName, "id"),
	}
}

// Get returns the treasury with given index or nil if it does not exist.
func (b *SupersigBucket) Get(db weave.ReadOnlyKVStore, index uint64) (*Supersig, error) {
	var s Supersig
	switch err := b.One(db, indexKey(index), &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// CallNonceBucket stores the next call index of every treasury.
type CallNonceBucket struct {
	orm.ModelBucket
}

func NewCallNonceBucket() *CallNonceBucket {
	return &CallNonceBucket{
		ModelBucket: orm.NewModelBucket(nonceBucketName, &CallNonce{}),
	}
}

// Current returns the index the next call of a treasury receives.
func (b *CallNonceBucket) Current(db weave.ReadOnlyKVStore, index uint64) (uint64, error) {
	var n CallNonce
	switch err := b.One(db, indexKey(index), &n); {
	case err == nil:
		return n.Next, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Next returns the current call index and advances the counter.
func (b *CallNonceBucket) Next(db weave.KVStore, index uint64) (uint64, error) {
	n, err := b.Current(db, index)
	if err != nil {
		return 0, err
	}
	if n+1 == 0 {
		return 0, errors.Wrap(errors.ErrOverflow, "call index exhausted")
	}
	if err := b.Put(db, indexKey(index), &CallNonce{Next: n + 1}); err != nil {
		return 0, errors.Wrap(err, "save call nonce")
	}
	return n, nil
}

// CallBucket stores pending calls keyed by treasury and call index.
type CallBucket struct {
	orm.ModelBucket
}

func NewCallBucket() *CallBucket {
	return &CallBucket{
		ModelBucket: orm.NewModelBucket(callBucketName, &PreimageCall{}),
	}
}

// Get returns the call or nil if it does not exist.
func (b *CallBucket) Get(db weave.ReadOnlyKVStore, index, call uint64) (*PreimageCall, error) {
	var c PreimageCall
	switch err := b.One(db, callKey(index, call), &c); {
	case err == nil:
		return &c, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// TallyBucket stores approval counts keyed by treasury and call index.
type TallyBucket struct {
	orm.ModelBucket
}

func NewTallyBucket() *TallyBucket {
	return &TallyBucket{
		ModelBucket: orm.NewModelBucket(tallyBucketName, &VoteTally{}),
	}
}

// Count returns the number of approvals of a call.
func (b *TallyBucket) Count(db weave.ReadOnlyKVStore, index, call uint64) (uint64, error) {
	var v VoteTally
	switch err := b.One(db, callKey(index, call), &v); {
	case err == nil:
		return v.Count, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// UserVoteBucket stores vote records keyed by treasury, call index and
// voter.
type UserVoteBucket struct {
	orm.ModelBucket
}

func NewUserVoteBucket() *UserVoteBucket {
	return &UserVoteBucket{
		ModelBucket: orm.NewModelBucket(userVoteBucketName, &UserVote{}),
	}
}

// Approved returns true if voter approved the call.
func (b *UserVoteBucket) Approved(db weave.ReadOnlyKVStore, index, call uint64, voter weave.Address) (bool, error) {
	var v UserVote
	switch err := b.One(db, userVoteKey(index, call, voter), &v); {
	case err == nil:
		return v.Approved, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}
