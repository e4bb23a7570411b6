package linearmap

import (
	"encoding/binary"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

const (
	cborMajorMap   = 5
	cborBreak      = 0xff
	cborNull       = 0xf6
	cborUndefined  = 0xf7
	cborIndefinite = 31
)

// MarshalCBOR writes the map as a definite-length CBOR map in storage order. Unlike JSON, CBOR map
// keys may be of any type the codec can encode.
func (m *Map[K, V]) MarshalCBOR() ([]byte, error) {
	return marshalCBORPairs(m.storage)
}

// MarshalCBOR writes the view as a definite-length CBOR map in slice order.
func (b *Borrowed[K, V]) MarshalCBOR() ([]byte, error) {
	return marshalCBORPairs(b.pairs)
}

func marshalCBORPairs[K, V any](pairs []Pair[K, V]) ([]byte, error) {
	out := appendHead(nil, cborMajorMap, uint64(len(pairs)))
	for i, p := range pairs {
		key, err := cbor.Marshal(p.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "pair %d: encode key", i)
		}
		value, err := cbor.Marshal(p.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "pair %d: encode value", i)
		}
		out = append(out, key...)
		out = append(out, value...)
	}
	return out, nil
}

// appendHead appends the initial byte of a data item of the given major type and argument n,
// followed by n in the shortest big-endian form.
func appendHead(dst []byte, major byte, n uint64) []byte {
	major <<= 5
	switch {
	case n < 24:
		return append(dst, major|byte(n))
	case n <= math.MaxUint8:
		return append(dst, major|24, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(dst, major|25), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(dst, major|26), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(dst, major|27), n)
	}
}

// readMapHead parses the head of a CBOR map. It returns the number of pairs, or -1 for an
// indefinite-length map, together with the bytes that follow the head.
func readMapHead(data []byte) (int, []byte, error) {
	if len(data) == 0 {
		return 0, nil, errors.New("empty CBOR input")
	}

	initial := data[0]
	if major := initial >> 5; major != cborMajorMap {
		return 0, nil, errors.Errorf("expected a CBOR map, got major type %d", major)
	}

	info := initial & 0x1f
	rest := data[1:]
	var n uint64
	switch {
	case info < 24:
		n = uint64(info)
	case info == 24 && len(rest) >= 1:
		n, rest = uint64(rest[0]), rest[1:]
	case info == 25 && len(rest) >= 2:
		n, rest = uint64(binary.BigEndian.Uint16(rest)), rest[2:]
	case info == 26 && len(rest) >= 4:
		n, rest = uint64(binary.BigEndian.Uint32(rest)), rest[4:]
	case info == 27 && len(rest) >= 8:
		n, rest = binary.BigEndian.Uint64(rest), rest[8:]
	case info == cborIndefinite:
		return -1, rest, nil
	default:
		return 0, nil, errors.Errorf("malformed CBOR map head 0x%02x", initial)
	}

	if n > math.MaxInt {
		return 0, nil, errors.Errorf("CBOR map of %d pairs is too large", n)
	}
	return int(n), rest, nil
}

// UnmarshalCBOR replaces the contents of the map with the pairs of a CBOR map, inserted in the
// order they appear. Both definite and indefinite-length maps are accepted, and CBOR null or
// undefined leaves the map empty. When a key occurs more than once the last value wins.
func (m *Map[K, V]) UnmarshalCBOR(data []byte) error {
	m.guard.Check("UnmarshalCBOR")

	if len(data) == 1 && (data[0] == cborNull || data[0] == cborUndefined) {
		m.Clear()
		return nil
	}

	n, rest, err := readMapHead(data)
	if err != nil {
		return err
	}

	// Every pair takes at least two bytes.
	hint := len(rest) / 2
	if n >= 0 && n < hint {
		hint = n
	}
	decoded := &Map[K, V]{storage: make([]Pair[K, V], 0, hint), eq: m.eq}

	for i := 0; n < 0 || i < n; i++ {
		if n < 0 {
			if len(rest) == 0 {
				return errors.New("unterminated indefinite-length CBOR map")
			}
			if rest[0] == cborBreak {
				rest = rest[1:]
				break
			}
		}

		var key K
		if rest, err = cbor.UnmarshalFirst(rest, &key); err != nil {
			return errors.Wrapf(err, "decode key of pair %d", i)
		}
		var value V
		if rest, err = cbor.UnmarshalFirst(rest, &value); err != nil {
			return errors.Wrapf(err, "decode value of pair %d", i)
		}

		if _, replaced := decoded.Insert(key, value); replaced {
			getLogger().Debug("CBOR map repeats the key of pair %d; keeping the later value", i)
		}
	}

	if len(rest) != 0 {
		return errors.Errorf("%d unexpected byte(s) after CBOR map", len(rest))
	}

	m.storage = decoded.storage
	return nil
}
