package supersig

import (
	"math"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNamespaceAddress(t *testing.T) {
	Convey("Given a namespace", t, func() {
		ns, err := NewNamespace("id/susig")
		So(err, ShouldBeNil)

		Convey("Every index derives a valid address", func() {
			for _, index := range []uint64{0, 1, 255, 256, math.MaxUint64} {
				addr := ns.Address(index)
				So(addr.Validate(), ShouldBeNil)
				So(len(addr), ShouldEqual, weave.AddressLength)

				got, err := ns.Index(addr)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, index)
			}
		})

		Convey("Addresses are distinct and stable", func() {
			So(ns.Address(1).Equals(ns.Address(2)), ShouldBeFalse)
			So(ns.Address(7).Equals(ns.Address(7)), ShouldBeTrue)
		})

		Convey("An address of another namespace is rejected", func() {
			other, err := NewNamespace("py/trsry")
			So(err, ShouldBeNil)
			_, err = ns.Index(other.Address(1))
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("A key based address is rejected", func() {
			_, err := ns.Index(weave.NewAddress([]byte("some public key")))
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("An address of wrong length is rejected", func() {
			addr := ns.Address(3)
			_, err := ns.Index(addr[:19])
			So(errors.ErrInput.Is(err), ShouldBeTrue)
			_, err = ns.Index(append(addr, 0))
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})
	})

	Convey("A module identifier must be 8 bytes long", t, func() {
		_, err := NewNamespace("short")
		So(errors.ErrInput.Is(err), ShouldBeTrue)
		_, err = NewNamespace("much/too/long")
		So(errors.ErrInput.Is(err), ShouldBeTrue)
	})
}
