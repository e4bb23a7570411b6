package linearmap

import "fmt"

// Entry is a view into a single slot of a Map, produced by Map.Entry with a single scan of the
// storage. It is either an *OccupiedEntry or a *VacantEntry:
//
//	switch e := m.Entry(key).(type) {
//	case *linearmap.OccupiedEntry[string, int]:
//		e.Insert(e.Get() + 1)
//		e.Close()
//	case *linearmap.VacantEntry[string, int]:
//		e.Insert(1)
//	}
//
// An entry borrows its map exclusively from the moment it is created until it is ended. Methods
// documented as ending the entry release that borrow; Close ends an entry without doing anything
// else. Using an entry after it has ended panics.
type Entry[K, V any] interface {
	// Key returns the key of the slot: the stored key if occupied, the pending key if vacant.
	Key() K

	// OrInsert returns a pointer to the value, first inserting value if the slot is vacant.
	// It ends the entry.
	OrInsert(value V) *V

	// OrInsertWith is like OrInsert but only calls f, exactly once, if the slot is vacant.
	OrInsertWith(f func() V) *V

	// OrInsertWithKey is like OrInsertWith but passes the pending key to f.
	OrInsertWithKey(f func(key K) V) *V

	// OrDefault is like OrInsert with the zero value of V.
	OrDefault() *V

	// AndModify calls f with a pointer to the value if the slot is occupied, and returns the entry
	// so that one of the Or methods can follow. It does not end the entry.
	AndModify(f func(value *V)) Entry[K, V]

	// Close ends the entry. Closing an ended entry is a no-op.
	Close()

	isEntry()
}

// Entry returns the slot for key, for in-place manipulation.
//
// The map is exclusively borrowed until the entry is ended; see Entry.
func (m *Map[K, V]) Entry(key K) Entry[K, V] {
	m.guard.Check("Entry")

	// eq may panic; scan before acquiring.
	i := m.index(key)
	m.guard.Acquire("Entry")
	if i >= 0 {
		return &OccupiedEntry[K, V]{m: m, index: i}
	}
	return &VacantEntry[K, V]{m: m, key: key}
}

// OccupiedEntry is an Entry whose key is already stored in the map.
type OccupiedEntry[K, V any] struct {
	m     *Map[K, V]
	index int
}

func (e *OccupiedEntry[K, V]) isEntry() {}

func (e *OccupiedEntry[K, V]) pair(op string) *Pair[K, V] {
	if e.m == nil {
		panic(fmt.Sprintf("linearmap: %s called on an ended entry", op))
	}
	return &e.m.storage[e.index]
}

func (e *OccupiedEntry[K, V]) end() {
	e.m.guard.Release()
	e.m = nil
}

// Key returns the stored key.
func (e *OccupiedEntry[K, V]) Key() K {
	return e.pair("Key").Key
}

// Get returns the stored value.
func (e *OccupiedEntry[K, V]) Get() V {
	return e.pair("Get").Value
}

// GetMut returns a pointer to the stored value.
func (e *OccupiedEntry[K, V]) GetMut() *V {
	return &e.pair("GetMut").Value
}

// Insert replaces the stored value and returns the previous one.
func (e *OccupiedEntry[K, V]) Insert(value V) V {
	p := e.pair("Insert")
	old := p.Value
	p.Value = value
	return old
}

// IntoMut ends the entry and returns a pointer to the stored value, valid until the map is next
// modified.
func (e *OccupiedEntry[K, V]) IntoMut() *V {
	v := &e.pair("IntoMut").Value
	e.end()
	return v
}

// Remove deletes the pair from the map, the same way Map.Remove does, and returns its value. It
// ends the entry.
func (e *OccupiedEntry[K, V]) Remove() V {
	_, v := e.RemoveEntry()
	return v
}

// RemoveEntry is like Remove but also returns the stored key.
func (e *OccupiedEntry[K, V]) RemoveEntry() (K, V) {
	e.pair("RemoveEntry")
	p := e.m.swapRemove(e.index)
	e.end()
	return p.Key, p.Value
}

// OrInsert ends the entry and returns a pointer to the stored value; value is not used.
func (e *OccupiedEntry[K, V]) OrInsert(V) *V {
	return e.IntoMut()
}

// OrInsertWith ends the entry and returns a pointer to the stored value without calling f.
func (e *OccupiedEntry[K, V]) OrInsertWith(func() V) *V {
	return e.IntoMut()
}

// OrInsertWithKey ends the entry and returns a pointer to the stored value without calling f.
func (e *OccupiedEntry[K, V]) OrInsertWithKey(func(K) V) *V {
	return e.IntoMut()
}

// OrDefault ends the entry and returns a pointer to the stored value.
func (e *OccupiedEntry[K, V]) OrDefault() *V {
	return e.IntoMut()
}

// AndModify calls f with a pointer to the stored value. If f panics the entry is ended before the
// panic continues.
func (e *OccupiedEntry[K, V]) AndModify(f func(*V)) Entry[K, V] {
	v := &e.pair("AndModify").Value
	defer func() {
		if r := recover(); r != nil {
			e.Close()
			panic(r)
		}
	}()
	f(v)
	return e
}

// Close ends the entry.
func (e *OccupiedEntry[K, V]) Close() {
	if e.m != nil {
		e.end()
	}
}

// VacantEntry is an Entry whose key is not in the map yet.
type VacantEntry[K, V any] struct {
	m   *Map[K, V]
	key K
}

func (e *VacantEntry[K, V]) isEntry() {}

func (e *VacantEntry[K, V]) live(op string) {
	if e.m == nil {
		panic(fmt.Sprintf("linearmap: %s called on an ended entry", op))
	}
}

func (e *VacantEntry[K, V]) end() {
	e.m.guard.Release()
	e.m = nil
}

// Key returns the pending key.
func (e *VacantEntry[K, V]) Key() K {
	e.live("Key")
	return e.key
}

// IntoKey ends the entry without inserting anything and hands the pending key back.
func (e *VacantEntry[K, V]) IntoKey() K {
	e.live("IntoKey")
	key := e.key
	e.end()
	return key
}

// Insert appends the pending key with value, ends the entry, and returns a pointer to the stored
// value, valid until the map is next modified.
func (e *VacantEntry[K, V]) Insert(value V) *V {
	e.live("Insert")
	m := e.m
	e.end()

	var zero K
	key := e.key
	e.key = zero
	return m.push(key, value)
}

// OrInsert inserts value.
func (e *VacantEntry[K, V]) OrInsert(value V) *V {
	return e.Insert(value)
}

// OrInsertWith inserts the result of f. The entry is ended even if f panics.
func (e *VacantEntry[K, V]) OrInsertWith(f func() V) *V {
	e.live("OrInsertWith")
	defer e.Close()
	return e.Insert(f())
}

// OrInsertWithKey inserts the result of f applied to the pending key. The entry is ended even if f
// panics.
func (e *VacantEntry[K, V]) OrInsertWithKey(f func(K) V) *V {
	e.live("OrInsertWithKey")
	defer e.Close()
	return e.Insert(f(e.key))
}

// OrDefault inserts the zero value of V.
func (e *VacantEntry[K, V]) OrDefault() *V {
	var zero V
	return e.Insert(zero)
}

// AndModify does nothing for a vacant entry.
func (e *VacantEntry[K, V]) AndModify(func(*V)) Entry[K, V] {
	e.live("AndModify")
	return e
}

// Close ends the entry without inserting.
func (e *VacantEntry[K, V]) Close() {
	if e.m != nil {
		e.end()
	}
}
