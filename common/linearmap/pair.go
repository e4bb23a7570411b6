package linearmap

// Pair is a single key-value association, exactly as it is laid out in a map's storage.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// P returns Pair{Key: key, Value: value}. It keeps literal maps built with Of short.
func P[K, V any](key K, value V) Pair[K, V] {
	return Pair[K, V]{Key: key, Value: value}
}

// Equaler is implemented by key types whose equality is a method rather than the == operator,
// such as decimal.Decimal or time.Time.
type Equaler[K any] interface {
	Equal(K) bool
}

func equalComparable[K comparable](a, b K) bool {
	return a == b
}

func equalMethod[K Equaler[K]](a, b K) bool {
	return a.Equal(b)
}

// equalDynamic compares the keys as interface values. It is what the zero Map uses, and it panics
// if the dynamic type of the keys is not comparable.
func equalDynamic[K any](a, b K) bool {
	return any(a) == any(b)
}

// indexOf returns the index of the first pair whose key is equal to key, or -1.
func indexOf[K, V any](pairs []Pair[K, V], key K, eq func(a, b K) bool) int {
	for i := range pairs {
		if eq(key, pairs[i].Key) {
			return i
		}
	}
	return -1
}

// indexFunc returns the index of the first pair whose key satisfies match, or -1.
func indexFunc[K, V any](pairs []Pair[K, V], match func(K) bool) int {
	for i := range pairs {
		if match(pairs[i].Key) {
			return i
		}
	}
	return -1
}

// firstDuplicate looks for two pairs with equal keys.
//
// Positions are visited front to back, and each one is compared against every position before it.
// For the first position that has an equal key somewhere earlier, firstDuplicate returns the
// earliest such index (earlier) along with the position itself (later). If all keys are distinct
// it returns (-1, -1). This is O(n^2).
func firstDuplicate[K, V any](pairs []Pair[K, V], eq func(a, b K) bool) (earlier, later int) {
	for i := 1; i < len(pairs); i++ {
		if j := indexOf(pairs[:i], pairs[i].Key, eq); j >= 0 {
			return j, i
		}
	}
	return -1, -1
}
