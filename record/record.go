// SPDX-License-Identifier: MIT

// Package record provides a schemaless record type for rows decoded from JSON, YAML or CSV.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type (
	// Map contains a decoded row, field names to values.
	//
	// Map implements the rowtree Getter interface; integral json.Number values are read as int64.
	Map map[string]any
)

const (
	readErrFmt = "failed to read (%s): %w"
)

// Record errors.
var (
	ErrMissingField = errors.New("field missing from the record")
	ErrInvalidType  = errors.New("invalid data type")
)

// FieldValue retrieves a field's value, preferring an exact name match over a case-insensitive
// one.
func (m Map) FieldValue(name string) (value any, ok bool) {
	if value, ok = m[name]; ok {
		return fromNumber(value), true
	}

	for key, val := range m {
		if strings.EqualFold(key, name) {
			return fromNumber(val), true
		}
	}

	return
}

// fromNumber converts integral json.Numbers, decoders using UseNumber produce them.
func fromNumber(value any) any {
	if n, ok := value.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}

	return value
}

// Get value from `Map` as a string.
func (m Map) Get(key string) (out string, ok bool) {
	var val any
	if val, ok = m.FieldValue(key); ok {
		out = fmt.Sprint(val)
	}

	return
}

// String obtains a string field.
func (m Map) String(key string) (strVal string, err error) {
	val, ok := m.FieldValue(key)
	if !ok {
		err = fmt.Errorf(readErrFmt, key, ErrMissingField)
		return
	}

	if strVal, ok = val.(string); !ok {
		err = fmt.Errorf(readErrFmt, key, ErrInvalidType)
	}

	return
}

// Int obtains an integer field, integral floats & json.Numbers included.
func (m Map) Int(key string) (intVal int64, err error) {
	val, ok := m.FieldValue(key)
	if !ok {
		err = fmt.Errorf(readErrFmt, key, ErrMissingField)
		return
	}

	if intVal, ok = toInt(val); !ok {
		err = fmt.Errorf(readErrFmt, key, ErrInvalidType)
	}

	return
}

// Merge a `Map` with the current one.
func (m Map) Merge(data Map) {
	for k, v := range data {
		m[k] = v
	}
}

// Normalize converts integral numbers to int64 so that identifiers format consistently in
// composite keys, e.g. 1 rather than 1e+00 for a float64. Numeric strings are converted when
// parseStrings is set.
func Normalize(m Map, parseStrings bool) Map {
	for key, val := range m {
		if n, ok := toInt(val); ok {
			m[key] = n
			continue
		}

		if s, ok := val.(string); ok && parseStrings {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				m[key] = n
			}
		}
	}

	return m
}

func toInt(val any) (n int64, ok bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), true
		}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
	}

	return
}
