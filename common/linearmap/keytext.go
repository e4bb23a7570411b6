package linearmap

import (
	"encoding"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// keyText renders key as a JSON object key, with the same precedence as encoding/json: string
// kinds verbatim, then encoding.TextMarshaler, then integer kinds in base 10.
func keyText[K any](key K) (string, error) {
	rv := reflect.ValueOf(any(key))
	if !rv.IsValid() {
		return "", errors.Wrap(ErrUnsupportedKey, "nil key")
	}

	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}

	if tm, ok := any(key).(encoding.TextMarshaler); ok {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", nil
		}
		text, err := tm.MarshalText()
		if err != nil {
			return "", errors.Wrapf(err, "marshal key %v as text", key)
		}
		return string(text), nil
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	}
	return "", errors.Wrapf(ErrUnsupportedKey, "%T", key)
}

// parseKey is the inverse of keyText. As in encoding/json, encoding.TextUnmarshaler takes
// precedence over the string kind when decoding.
func parseKey[K any](text string) (K, error) {
	var key K

	if tu, ok := any(&key).(encoding.TextUnmarshaler); ok {
		if err := tu.UnmarshalText([]byte(text)); err != nil {
			return key, errors.Wrapf(err, "unmarshal key %q", text)
		}
		return key, nil
	}

	rv := reflect.ValueOf(&key).Elem()
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(text)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, rv.Type().Bits())
		if err != nil {
			return key, errors.Wrapf(err, "parse key %q as %s", text, rv.Type())
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(text, 10, rv.Type().Bits())
		if err != nil {
			return key, errors.Wrapf(err, "parse key %q as %s", text, rv.Type())
		}
		rv.SetUint(n)
	default:
		return key, errors.Wrapf(ErrUnsupportedKey, "%s", rv.Type())
	}
	return key, nil
}
