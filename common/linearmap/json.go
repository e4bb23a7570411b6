package linearmap

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// MarshalJSON writes the map as a JSON object whose members appear in storage order.
//
// Keys are converted the way encoding/json converts map keys. A key type that has no such
// conversion yields an error wrapping ErrUnsupportedKey.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	return marshalPairs(m.storage)
}

// MarshalJSON writes the view as a JSON object, in slice order.
func (b *Borrowed[K, V]) MarshalJSON() ([]byte, error) {
	return marshalPairs(b.pairs)
}

func marshalPairs[K, V any](pairs []Pair[K, V]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pairs {
		text, err := keyText(p.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "pair %d", i)
		}

		name, err := json.Marshal(text)
		if err != nil {
			return nil, errors.Wrapf(err, "pair %d: encode key", i)
		}
		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "pair %d: encode value for key %q", i, text)
		}

		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the contents of the map with the members of a JSON object, inserted in
// document order. When a key occurs more than once the last value wins. A JSON null leaves the map
// empty.
//
// The map keeps its key equality, and falls back to == on interface values if it has none.
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	m.guard.Check("UnmarshalJSON")

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "read JSON object")
	}

	decoded := &Map[K, V]{eq: m.eq}
	switch tok {
	case nil:
	case json.Delim('{'):
		if err := decoded.decodeMembers(dec); err != nil {
			return err
		}
	default:
		return errors.Errorf("cannot decode %v into a map", tok)
	}

	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}

	m.storage = decoded.storage
	return nil
}

func (m *Map[K, V]) decodeMembers(dec *json.Decoder) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrapf(err, "read key of member %d", m.Len())
		}
		text, ok := tok.(string)
		if !ok {
			return errors.Errorf("expected an object key, got %v", tok)
		}

		key, err := parseKey[K](text)
		if err != nil {
			return err
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return errors.Wrapf(err, "decode value for key %q", text)
		}

		if _, replaced := m.Insert(key, value); replaced {
			getLogger().Debug("JSON object repeats key %q; keeping the later value", text)
		}
	}

	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "read end of JSON object")
	}
	return nil
}
