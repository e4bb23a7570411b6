package linearmap_test

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scusemua/linear-map/common/linearmap"
)

func keysOf[K, V any](m *linearmap.Map[K, V]) []K {
	keys := make([]K, 0, m.Len())
	for _, p := range m.AsSlice() {
		keys = append(keys, p.Key)
	}
	return keys
}

var _ = Describe("Map", func() {
	Context("construction", func() {
		It("should not allocate in New", func() {
			m := linearmap.New[int, string]()
			Expect(m.Len()).To(Equal(0))
			Expect(m.Cap()).To(Equal(0))
			Expect(m.IsEmpty()).To(BeTrue())
		})

		It("should reserve the requested capacity", func() {
			m := linearmap.WithCapacity[int, string](10)
			Expect(m.Cap()).To(Equal(10))
			Expect(m.IsEmpty()).To(BeTrue())
		})

		It("should let the last duplicate win in Of", func() {
			m := linearmap.Of(linearmap.P(1, "a"), linearmap.P(2, "b"), linearmap.P(1, "c"))
			Expect(m.Len()).To(Equal(2))
			Expect(m.Cap()).To(Equal(3))
			Expect(m.MustGet(1)).To(Equal("c"))
			Expect(keysOf(m)).To(Equal([]int{1, 2}))
		})

		It("should be usable as a zero value", func() {
			var m linearmap.Map[string, int]
			m.Insert("a", 1)
			m.Insert("b", 2)
			m.Insert("a", 3)

			Expect(m.Len()).To(Equal(2))
			Expect(m.MustGet("a")).To(Equal(3))
		})

		It("should panic in a zero value map on keys that are not comparable", func() {
			var m linearmap.Map[any, int]
			m.Insert([]int{1}, 1)
			Expect(func() { m.Insert([]int{2}, 2) }).To(Panic())
		})

		It("should collect a sequence", func() {
			m := linearmap.Collect(maps.All(map[string]int{"a": 1, "b": 2, "c": 3}))
			Expect(m.Len()).To(Equal(3))
			Expect(m.MustGet("b")).To(Equal(2))
		})

		It("should adopt a slice without copying it", func() {
			pairs := []linearmap.Pair[int, string]{{Key: 1, Value: "a"}, {Key: 2, Value: "b"}}
			m := linearmap.FromPairs(pairs)
			Expect(&m.AsSlice()[0]).To(BeIdenticalTo(&pairs[0]))
			Expect(m.MustGet(2)).To(Equal("b"))

			out := m.IntoPairs()
			Expect(&out[0]).To(BeIdenticalTo(&pairs[0]))
			Expect(m.IsEmpty()).To(BeTrue())
		})
	})

	Context("capacity", func() {
		var m *linearmap.Map[int, int]

		BeforeEach(func() {
			m = linearmap.New[int, int]()
		})

		It("should reserve exactly what an empty map needs", func() {
			m.Reserve(5)
			Expect(m.Cap()).To(Equal(5))
		})

		It("should at least double when Reserve grows the storage", func() {
			m.ReserveExact(5)
			for i := 0; i < 5; i++ {
				m.Insert(i, i)
			}
			m.Reserve(1)
			Expect(m.Cap()).To(Equal(10))
		})

		It("should not over-allocate in ReserveExact", func() {
			m.ReserveExact(5)
			for i := 0; i < 5; i++ {
				m.Insert(i, i)
			}
			m.ReserveExact(1)
			Expect(m.Cap()).To(Equal(6))
		})

		It("should not shrink when there is room already", func() {
			m.Reserve(8)
			m.Reserve(3)
			Expect(m.Cap()).To(Equal(8))
		})

		It("should panic on a negative increase", func() {
			Expect(func() { m.Reserve(-1) }).To(Panic())
			Expect(func() { m.ReserveExact(-1) }).To(Panic())
		})

		It("should panic on overflow", func() {
			m.Insert(1, 1)
			Expect(func() { m.Reserve(math.MaxInt) }).To(PanicWith(ContainSubstring("capacity overflow")))
		})

		It("should shrink to the length", func() {
			m = linearmap.WithCapacity[int, int](10)
			m.Insert(1, 1)
			m.Insert(2, 2)
			m.ShrinkToFit()
			Expect(m.Cap()).To(Equal(2))
			Expect(m.MustGet(2)).To(Equal(2))

			m.Clear()
			m.ShrinkToFit()
			Expect(m.Cap()).To(Equal(0))
		})

		It("should keep the capacity on Clear", func() {
			m = linearmap.WithCapacity[int, int](4)
			m.Insert(1, 1)
			m.Clear()
			Expect(m.Len()).To(Equal(0))
			Expect(m.Cap()).To(Equal(4))
		})
	})

	Context("insertion and lookup", func() {
		var m *linearmap.Map[int, string]

		BeforeEach(func() {
			m = linearmap.New[int, string]()
		})

		It("should insert, get and remove", func() {
			m.Insert(1, "one")
			m.Insert(2, "two")
			Expect(m.Len()).To(Equal(2))

			v, ok := m.Get(1)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("one"))

			v, ok = m.Remove(1)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("one"))
			Expect(m.Len()).To(Equal(1))

			_, ok = m.Get(1)
			Expect(ok).To(BeFalse())
		})

		It("should compare each stored key at most once per insert", func() {
			calls := 0
			counted := linearmap.NewFunc[int, string](func(a, b int) bool {
				calls++
				return a == b
			})
			for i := 0; i < 3; i++ {
				counted.Insert(i, "")
			}

			calls = 0
			counted.Insert(2, "replaced")
			Expect(calls).To(Equal(3))

			calls = 0
			counted.Insert(7, "new")
			Expect(calls).To(Equal(3))
			Expect(counted.Len()).To(Equal(4))
		})

		It("should return the replaced value", func() {
			old, replaced := m.Insert(1, "a")
			Expect(replaced).To(BeFalse())
			Expect(old).To(BeEmpty())

			old, replaced = m.Insert(1, "b")
			Expect(replaced).To(BeTrue())
			Expect(old).To(Equal("a"))
			Expect(m.MustGet(1)).To(Equal("b"))
			Expect(m.Len()).To(Equal(1))
		})

		It("should leave the map alone when removing an absent key", func() {
			m.Insert(1, "a")
			_, ok := m.Remove(2)
			Expect(ok).To(BeFalse())
			Expect(m.Len()).To(Equal(1))
		})

		It("should move the last pair into the removed slot", func() {
			m = linearmap.Of(linearmap.P(1, "a"), linearmap.P(2, "b"), linearmap.P(3, "c"))
			k, v, ok := m.RemoveEntry(1)
			Expect(ok).To(BeTrue())
			Expect(k).To(Equal(1))
			Expect(v).To(Equal("a"))
			Expect(keysOf(m)).To(Equal([]int{3, 2}))
		})

		It("should remove by predicate", func() {
			m = linearmap.Of(linearmap.P(1, "a"), linearmap.P(2, "b"), linearmap.P(3, "c"))
			k, v, ok := m.RemoveFunc(func(k int) bool { return k%2 == 0 })
			Expect(ok).To(BeTrue())
			Expect(k).To(Equal(2))
			Expect(v).To(Equal("b"))
			Expect(m.ContainsKeyFunc(func(k int) bool { return k == 2 })).To(BeFalse())
		})

		It("should write through GetMut", func() {
			m.Insert(1, "a")
			*m.GetMut(1) = "z"
			Expect(m.MustGet(1)).To(Equal("z"))
			Expect(m.GetMut(2)).To(BeNil())
		})

		It("should look up by predicate", func() {
			m.Insert(10, "ten")
			m.Insert(20, "twenty")

			v, ok := m.GetFunc(func(k int) bool { return k > 15 })
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("twenty"))

			*m.GetMutFunc(func(k int) bool { return k < 15 }) = "TEN"
			Expect(m.MustGet(10)).To(Equal("TEN"))
			Expect(m.GetMutFunc(func(k int) bool { return k > 100 })).To(BeNil())
		})

		It("should panic in MustGet for an absent key", func() {
			Expect(func() { m.MustGet(7) }).To(PanicWith(ContainSubstring("key not found: 7")))
		})

		It("should extend in order", func() {
			m.Insert(1, "a")
			m.Extend(linearmap.Of(linearmap.P(2, "b"), linearmap.P(1, "c")).All())
			Expect(keysOf(m)).To(Equal([]int{1, 2}))
			Expect(m.MustGet(1)).To(Equal("c"))
		})

		It("should format pairs in storage order", func() {
			m = linearmap.Of(linearmap.P(1, "a"), linearmap.P(2, "b"))
			Expect(m.String()).To(Equal("{1: a, 2: b}"))
			Expect(linearmap.New[int, int]().String()).To(Equal("{}"))
		})

		It("should clone independently", func() {
			m = linearmap.Of(linearmap.P(1, "a"))
			clone := m.Clone()
			clone.Insert(2, "b")
			*clone.GetMut(1) = "z"

			Expect(m.Len()).To(Equal(1))
			Expect(m.MustGet(1)).To(Equal("a"))
			Expect(clone.Len()).To(Equal(2))
		})

		It("should clip the slice it hands out", func() {
			m = linearmap.WithCapacity[int, string](8)
			m.Insert(1, "a")
			s := m.AsSlice()
			Expect(s).To(HaveLen(1))
			Expect(cap(s)).To(Equal(1))
		})
	})

	Context("Retain", func() {
		It("should keep the even keys", func() {
			m := linearmap.New[int, int]()
			for i := 0; i < 100; i++ {
				m.Insert(i, i*10)
			}

			m.Retain(func(k int, _ *int) bool { return k%2 == 0 })
			Expect(m.Len()).To(Equal(50))
			Expect(m.MustGet(2)).To(Equal(20))
			Expect(slices.IsSorted(keysOf(m))).To(BeTrue())
		})

		It("should visit every pair once in order", func() {
			m := linearmap.Of(linearmap.P("a", 1), linearmap.P("b", 2), linearmap.P("c", 3))
			var visited []string
			m.Retain(func(k string, v *int) bool {
				visited = append(visited, k)
				*v *= 100
				return k != "b"
			})

			Expect(visited).To(Equal([]string{"a", "b", "c"}))
			Expect(keysOf(m)).To(Equal([]string{"a", "c"}))
			Expect(m.MustGet("c")).To(Equal(300))
		})

		It("should do nothing when everything is kept and empty the map otherwise", func() {
			m := linearmap.Of(linearmap.P(1, 1), linearmap.P(2, 2))
			m.Retain(func(int, *int) bool { return true })
			Expect(m.Len()).To(Equal(2))

			m.Retain(func(int, *int) bool { return false })
			Expect(m.IsEmpty()).To(BeTrue())
		})
	})

	Context("key equality", func() {
		It("should compare with a custom function and keep the stored key", func() {
			m := linearmap.NewFunc[string, int](strings.EqualFold)
			m.Insert("Go", 1)
			m.Insert("GO", 2)

			Expect(m.Len()).To(Equal(1))
			k, v, ok := m.GetKeyValue("go")
			Expect(ok).To(BeTrue())
			Expect(k).To(Equal("Go"))
			Expect(v).To(Equal(2))
		})

		It("should compare decimals by value with NewEqualer", func() {
			m := linearmap.NewEqualer[decimal.Decimal, string]()
			m.Insert(decimal.RequireFromString("1.5"), "a")
			m.Insert(decimal.RequireFromString("1.50"), "b")

			Expect(m.Len()).To(Equal(1))
			Expect(m.MustGet(decimal.NewFromFloat(1.5))).To(Equal("b"))
		})

		It("should tell apart decimals that are equal by value but not by ==", func() {
			m := linearmap.New[decimal.Decimal, string]()
			m.Insert(decimal.RequireFromString("1.5"), "a")
			m.Insert(decimal.RequireFromString("1.50"), "b")
			Expect(m.Len()).To(Equal(2))
		})

		It("should work with UUID keys", func() {
			ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
			m := linearmap.WithCapacityEqualer[decimal.Decimal, uuid.UUID](len(ids))
			for i, id := range ids {
				m.Insert(decimal.NewFromInt(int64(i)), id)
			}

			byID := linearmap.New[uuid.UUID, int]()
			for k, id := range m.All() {
				byID.Insert(id, int(k.IntPart()))
			}
			Expect(byID.MustGet(ids[1])).To(Equal(1))
			Expect(byID.ContainsKey(uuid.Nil)).To(BeFalse())
		})
	})
})
