// Package hashmap defines the sync.Map-style interface that map-like containers are accessed
// through, and adapts linearmap.Map to it.
package hashmap

type BaseHashMap[K any, V any] interface {
	Delete(K)
	Load(K) (val V, loaded bool)
	LoadAndDelete(K) (val V, exists bool)
	LoadOrStore(K, V) (val V, loaded bool)

	// CompareAndSwap stores the third argument under the key if the value currently stored there
	// equals the second. It returns the value stored under the key afterwards.
	CompareAndSwap(K, V, V) (val V, swapped bool)

	// Range iterates over the map's key/value pairs. If the callback function returns false,
	// iteration stops.
	Range(func(K, V) (contd bool))

	Store(K, V)
}

type HashMap[K any, V any] interface {
	BaseHashMap[K, V]
	Len() int
}
