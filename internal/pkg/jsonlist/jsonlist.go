// Package jsonlist decodes list columns that may hold a JSON array, a JSON
// string wrapping an array, or an already decoded slice.
package jsonlist

import (
	"encoding/json"
	"strings"
)

// Decode returns the list held in raw. Anything it cannot interpret yields
// an empty list and the decode error; callers rendering pages may ignore
// the error.
func Decode[T any](raw any) ([]T, error) {
	switch v := raw.(type) {
	case nil:
		return []T{}, nil
	case []T:
		return v, nil
	case json.RawMessage:
		return decodeBytes[T]([]byte(v))
	case []byte:
		return decodeBytes[T](v)
	case string:
		return decodeBytes[T]([]byte(v))
	case interface{ MarshalJSON() ([]byte, error) }:
		b, err := v.MarshalJSON()
		if err != nil {
			return []T{}, err
		}
		return decodeBytes[T](b)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return []T{}, err
		}
		return decodeBytes[T](b)
	}
}

func decodeBytes[T any](b []byte) ([]T, error) {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" || trimmed == "null" {
		return []T{}, nil
	}

	// A string literal may wrap the array once.
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return []T{}, err
		}
		inner = strings.TrimSpace(inner)
		if inner == "" || inner == "null" {
			return []T{}, nil
		}
		trimmed = inner
	}

	var out []T
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return []T{}, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Encode writes items in the canonical storage form, a JSON array.
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
