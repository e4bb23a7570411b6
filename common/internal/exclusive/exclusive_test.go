package exclusive_test

import (
	"github.com/petermattis/goid"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scusemua/linear-map/common/internal/exclusive"
)

// violation runs f and returns the *ViolationError it panicked with, or nil.
func violation(f func()) (err *exclusive.ViolationError) {
	defer func() {
		if r := recover(); r != nil {
			err = r.(*exclusive.ViolationError)
		}
	}()
	f()
	return nil
}

var _ = Describe("Guard", func() {
	var guard *exclusive.Guard

	BeforeEach(func() {
		guard = &exclusive.Guard{}
	})

	It("should start unheld", func() {
		Expect(guard.Held()).To(BeFalse())
		Expect(guard.Shared()).To(Equal(0))
		Expect(guard.Holder()).To(BeEmpty())
		Expect(func() { guard.Check("Insert") }).ToNot(Panic())
	})

	It("should record the holder while held", func() {
		guard.Acquire("Entry")
		Expect(guard.Held()).To(BeTrue())
		Expect(guard.Holder()).To(Equal("Entry"))

		guard.Release()
		Expect(guard.Held()).To(BeFalse())
		Expect(guard.Holder()).To(BeEmpty())
	})

	It("should reject a second exclusive holder", func() {
		guard.Acquire("Entry")

		err := violation(func() { guard.Acquire("IterMut") })
		Expect(err).ToNot(BeNil())
		Expect(err.Op).To(Equal("acquire IterMut"))
		Expect(err.Holder).To(Equal("Entry"))
		Expect(err.Goroutine).To(Equal(goid.Get()))
		Expect(err.Error()).To(ContainSubstring("borrowed by Entry"))

		guard.Release()
		Expect(func() { guard.Acquire("IterMut") }).ToNot(Panic())
	})

	It("should reject mutation while held", func() {
		guard.Acquire("Entry")
		Expect(func() { guard.Check("Insert") }).To(PanicWith(BeAssignableToTypeOf(&exclusive.ViolationError{})))
	})

	It("should ignore releasing an unheld guard", func() {
		Expect(func() { guard.Release() }).ToNot(Panic())
		Expect(guard.Held()).To(BeFalse())
	})

	Context("shared borrows", func() {
		It("should nest", func() {
			guard.Share()
			guard.Share()
			Expect(guard.Shared()).To(Equal(2))

			err := violation(func() { guard.Check("Clear") })
			Expect(err).ToNot(BeNil())
			Expect(err.Holder).To(Equal("2 read-only iteration(s)"))

			guard.Unshare()
			guard.Unshare()
			Expect(guard.Shared()).To(Equal(0))
			Expect(func() { guard.Check("Clear") }).ToNot(Panic())
		})

		It("should block exclusive acquisition", func() {
			guard.Share()
			Expect(func() { guard.Acquire("Entry") }).To(Panic())
			Expect(guard.Held()).To(BeFalse())
		})

		It("should not go below zero", func() {
			guard.Unshare()
			Expect(guard.Shared()).To(Equal(0))
		})

		It("should keep naming the exclusive holder", func() {
			guard.Acquire("AllMut")
			guard.Share()

			err := violation(func() { guard.Check("Insert") })
			Expect(err).ToNot(BeNil())
			Expect(err.Holder).To(Equal("AllMut"))
		})
	})
})
