package linearset

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// MarshalJSON writes the set as a JSON array in storage order.
func (s *Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToSlice())
}

// UnmarshalJSON replaces the contents of the set with the elements of a JSON array. Repeated
// elements are stored once and null leaves the set empty.
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return errors.Wrap(err, "decode set")
	}

	m := s.inner()
	m.Clear()
	m.Reserve(len(values))
	for _, v := range values {
		m.Insert(v, struct{}{})
	}
	return nil
}
