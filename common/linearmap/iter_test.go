package linearmap_test

import (
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scusemua/linear-map/common/internal/exclusive"
	"github.com/scusemua/linear-map/common/linearmap"
)

func abc() *linearmap.Map[string, int] {
	return linearmap.Of(linearmap.P("a", 1), linearmap.P("b", 2), linearmap.P("c", 3))
}

var _ = Describe("Iteration", func() {
	Context("range functions", func() {
		It("should visit pairs in storage order", func() {
			m := abc()
			var keys []string
			var values []int
			for k, v := range m.All() {
				keys = append(keys, k)
				values = append(values, v)
			}
			Expect(keys).To(Equal([]string{"a", "b", "c"}))
			Expect(values).To(Equal([]int{1, 2, 3}))

			Expect(slices.Collect(m.Keys())).To(Equal([]string{"a", "b", "c"}))
			Expect(slices.Collect(m.Values())).To(Equal([]int{1, 2, 3}))
		})

		It("should visit pairs backwards", func() {
			var keys []string
			for k := range abc().Backward() {
				keys = append(keys, k)
			}
			Expect(keys).To(Equal([]string{"c", "b", "a"}))
		})

		It("should modify values through AllMut and ValuesMut", func() {
			m := abc()
			for k, v := range m.AllMut() {
				if k != "b" {
					*v *= 10
				}
			}
			for v := range m.ValuesMut() {
				*v += 1
			}
			Expect(slices.Collect(m.Values())).To(Equal([]int{11, 3, 31}))
		})

		It("should reject mutation inside a loop and allow it afterwards", func() {
			m := abc()
			Expect(func() {
				for range m.All() {
					m.Insert("d", 4)
				}
			}).To(PanicWith(BeAssignableToTypeOf(&exclusive.ViolationError{})))

			Expect(func() {
				for range m.AllMut() {
					m.Remove("a")
				}
			}).To(Panic())

			m.Insert("d", 4)
			Expect(m.Len()).To(Equal(4))
		})

		It("should release the map after an early break", func() {
			m := abc()
			for range m.AllMut() {
				break
			}
			for range m.Keys() {
				break
			}
			Expect(func() { m.Insert("d", 4) }).ToNot(Panic())
		})

		It("should allow nested read-only loops", func() {
			m := abc()
			n := 0
			for range m.Keys() {
				for range m.Values() {
					n++
				}
			}
			Expect(n).To(Equal(9))
		})
	})

	Context("Iter", func() {
		It("should be double-ended with an exact length", func() {
			it := abc().Iter()
			Expect(it.Len()).To(Equal(3))

			k, v, ok := it.Next()
			Expect(ok).To(BeTrue())
			Expect(k).To(Equal("a"))
			Expect(v).To(Equal(1))

			k, _, ok = it.NextBack()
			Expect(ok).To(BeTrue())
			Expect(k).To(Equal("c"))
			Expect(it.Len()).To(Equal(1))

			k, _, _ = it.Next()
			Expect(k).To(Equal("b"))

			_, _, ok = it.Next()
			Expect(ok).To(BeFalse())
			_, _, ok = it.NextBack()
			Expect(ok).To(BeFalse())
		})

		It("should clone at the same position", func() {
			it := abc().Iter()
			it.Next()
			clone := it.Clone()
			it.Next()

			k, _, _ := clone.Next()
			Expect(k).To(Equal("b"))
			Expect(it.Len()).To(Equal(1))
		})

		It("should consume the rest through All", func() {
			it := abc().Iter()
			it.Next()
			var keys []string
			for k := range it.All() {
				keys = append(keys, k)
			}
			Expect(keys).To(Equal([]string{"b", "c"}))
			Expect(it.Len()).To(Equal(0))
		})

		It("should hold the map until it is exhausted", func() {
			m := abc()
			it := m.Iter()
			Expect(func() { m.Remove("a") }).To(PanicWith(BeAssignableToTypeOf(&exclusive.ViolationError{})))
			Expect(func() { m.Clear() }).To(Panic())
			Expect(m.MustGet("b")).To(Equal(2))

			var keys []string
			for k := range it.All() {
				keys = append(keys, k)
			}
			Expect(keys).To(Equal([]string{"a", "b", "c"}))

			_, ok := m.Remove("a")
			Expect(ok).To(BeTrue())
			Expect(keysOf(m)).To(Equal([]string{"c", "b"}))
		})

		It("should release the map on Close and when drained from the back", func() {
			m := abc()
			it := m.Iter()
			it.Next()
			it.Close()
			it.Close()
			Expect(func() { m.Insert("d", 4) }).ToNot(Panic())

			it = m.Iter()
			for it.Len() > 0 {
				it.NextBack()
			}
			Expect(func() { m.Retain(func(string, *int) bool { return true }) }).ToNot(Panic())
		})

		It("should count each clone as a separate borrow", func() {
			m := abc()
			it := m.Iter()
			clone := it.Clone()
			it.Close()
			Expect(func() { m.Insert("d", 4) }).To(Panic())

			clone.Close()
			Expect(func() { m.Insert("d", 4) }).ToNot(Panic())
		})

		It("should not borrow an empty map", func() {
			m := linearmap.New[int, int]()
			m.Iter()
			Expect(func() { m.Insert(1, 1) }).ToNot(Panic())
		})
	})

	Context("IterMut", func() {
		It("should hold the map until it is exhausted", func() {
			m := abc()
			it := m.IterMut()

			_, v, _ := it.Next()
			*v = 100
			_, v, _ = it.Next()
			*v = 200
			Expect(func() { m.Insert("d", 4) }).To(Panic())

			_, v, ok := it.NextBack()
			Expect(ok).To(BeTrue())
			*v = 300
			Expect(it.Len()).To(Equal(0))

			Expect(func() { m.Insert("d", 4) }).ToNot(Panic())
			Expect(slices.Collect(m.Values())).To(Equal([]int{100, 200, 300, 4}))
		})

		It("should release the map on Close", func() {
			m := abc()
			it := m.IterMut()
			it.Next()
			it.Close()
			it.Close()

			Expect(func() { m.IterMut().Close() }).ToNot(Panic())
		})

		It("should release an empty map on the first Next", func() {
			m := linearmap.New[int, int]()
			it := m.IterMut()
			_, v, ok := it.Next()
			Expect(ok).To(BeFalse())
			Expect(v).To(BeNil())
			Expect(func() { m.Insert(1, 1) }).ToNot(Panic())
		})

		It("should close itself after All", func() {
			m := abc()
			it := m.IterMut()
			for _, v := range it.All() {
				*v = 0
				break
			}
			Expect(m.MustGet("a")).To(Equal(0))
			Expect(func() { m.Insert("d", 4) }).ToNot(Panic())
		})
	})

	Context("IntoIter", func() {
		It("should take every pair exactly once", func() {
			m := abc()
			it := m.IntoIter()
			Expect(m.IsEmpty()).To(BeTrue())

			k, _, _ := it.NextBack()
			Expect(k).To(Equal("c"))

			var keys []string
			for k := range it.All() {
				keys = append(keys, k)
			}
			Expect(keys).To(Equal([]string{"a", "b"}))
			Expect(it.Len()).To(Equal(0))
		})
	})

	Context("Drain", func() {
		var m *linearmap.Map[int, int]

		BeforeEach(func() {
			m = linearmap.New[int, int]()
			for i := 0; i < 99; i++ {
				m.Insert(i, i)
			}
		})

		It("should leave the map empty after a partial drain", func() {
			d := m.Drain()
			for i := 0; i < 50; i++ {
				k, _, ok := d.Next()
				Expect(ok).To(BeTrue())
				Expect(k).To(Equal(i))
			}
			Expect(d.Len()).To(Equal(49))
			d.Close()

			Expect(m.IsEmpty()).To(BeTrue())
			Expect(m.Cap()).To(BeNumerically(">=", 99))
		})

		It("should leave the map empty even if the drain is never closed", func() {
			d := m.Drain()
			d.Next()

			Expect(m.IsEmpty()).To(BeTrue())
			m.Insert(1000, 1)
			Expect(m.Len()).To(Equal(1))

			d.Close()
			Expect(m.MustGet(1000)).To(Equal(1))
		})

		It("should drain from both ends", func() {
			d := m.Drain()
			k, _, _ := d.NextBack()
			Expect(k).To(Equal(98))

			n := 0
			for range d.All() {
				n++
			}
			Expect(n).To(Equal(98))

			_, _, ok := d.Next()
			Expect(ok).To(BeFalse())
			Expect(m.Cap()).To(BeNumerically(">=", 99))
		})

		It("should not drain a borrowed map", func() {
			e := m.Entry(1)
			Expect(func() { m.Drain() }).To(Panic())
			e.Close()
			Expect(m.Len()).To(Equal(99))
		})
	})
})
