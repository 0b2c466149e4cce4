package supersig

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

// NamespaceLength is the size of a module identifier.
const NamespaceLength = 8

// addressTag starts every derived address so that they cannot collide
// with key based addresses of the same namespace.
var addressTag = []byte("modl")

// Namespace derives treasury addresses from their index. Address and
// Index form a bijection between indexes and addresses of this namespace.
type Namespace [NamespaceLength]byte

// NewNamespace returns the namespace of given module identifier.
func NewNamespace(moduleID string) (Namespace, error) {
	var ns Namespace
	if len(moduleID) != NamespaceLength {
		return ns, errors.Wrapf(errors.ErrInput, "module id must be %d bytes, got %d", NamespaceLength, len(moduleID))
	}
	copy(ns[:], moduleID)
	return ns, nil
}

// Address returns the address of the treasury with given index.
//
//   "modl" | namespace (8 bytes) | big endian index (8 bytes)
func (n Namespace) Address(index uint64) weave.Address {
	addr := make(weave.Address, 0, weave.AddressLength)
	addr = append(addr, addressTag...)
	addr = append(addr, n[:]...)
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	return append(addr, idx[:]...)
}

// Index returns the treasury index encoded in given address. It fails if
// the address was not derived from this namespace.
func (n Namespace) Index(addr weave.Address) (uint64, error) {
	if len(addr) != weave.AddressLength {
		return 0, errors.Wrapf(errors.ErrInput, "invalid address length %d", len(addr))
	}
	if !bytes.HasPrefix(addr, addressTag) {
		return 0, errors.Wrap(errors.ErrInput, "not a derived address")
	}
	rest := addr[len(addressTag):]
	if !bytes.Equal(rest[:NamespaceLength], n[:]) {
		return 0, errors.Wrap(errors.ErrInput, "foreign namespace")
	}
	index := binary.BigEndian.Uint64(rest[NamespaceLength:])
	if !n.Address(index).Equals(addr) {
		return 0, errors.Wrap(errors.ErrInput, "address does not round trip")
	}
	return index, nil
}

// String returns the module identifier.
func (n Namespace) String() string {
	return string(n[:])
}
