// SPDX-License-Identifier: MIT
package rowtree

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Comparator orders records by the value of one field.
//
// Integers compare numerically & strings lexicographically (byte order); any other value,
// mismatched kinds or an unresolvable field compare as equal. Equal-on-failure keeps a sort a
// no-op for malformed input, every such comparison is reported as an ErrComparatorFallback
// warning & counted.
//
// A Comparator is not safe for concurrent use.
type Comparator struct {
	cfg   *Config
	field string

	fallbacks int
	err       error
}

// NewComparator instantiates a Comparator for a field.
func NewComparator(field string, opts ...Option) *Comparator {
	return newComparator(field, newOptions(defConfig, opts...).cfg)
}

func newComparator(field string, cfg *Config) *Comparator {
	return &Comparator{cfg: cfg, field: field}
}

// Field retrieves the compared field's name.
func (c *Comparator) Field() string { return c.field }

// Fallbacks retrieves the number of comparisons treated as equal due to a failure.
func (c *Comparator) Fallbacks() int { return c.fallbacks }

// Err retrieves the first fallback in strict mode.
func (c *Comparator) Err() error { return c.err }

// Compare returns -1, 0 or +1 as a sorts before, with or after b.
func (c *Comparator) Compare(a, b any) (resl int) {
	defer func() {
		if r := recover(); r != nil {
			resl = c.fallback(fmt.Errorf("%w: %v", ErrPanicked, r))
		}
	}()

	va, err := c.cfg.Accessor(a, c.field)
	if err != nil {
		return c.fallback(err)
	}
	vb, err := c.cfg.Accessor(b, c.field)
	if err != nil {
		return c.fallback(err)
	}

	ra, rb := indirect(reflect.ValueOf(va)), indirect(reflect.ValueOf(vb))
	switch {
	case isSigned(ra) && isSigned(rb):
		return cmpOrdered(ra.Int(), rb.Int())
	case isUnsigned(ra) && isUnsigned(rb):
		return cmpOrdered(ra.Uint(), rb.Uint())
	case isSigned(ra) && isUnsigned(rb):
		if ra.Int() < 0 {
			return -1
		}
		return cmpOrdered(uint64(ra.Int()), rb.Uint())
	case isUnsigned(ra) && isSigned(rb):
		if rb.Int() < 0 {
			return 1
		}
		return cmpOrdered(ra.Uint(), uint64(rb.Int()))
	case ra.Kind() == reflect.String && rb.Kind() == reflect.String:
		return strings.Compare(ra.String(), rb.String())
	}

	return c.fallback(fmt.Errorf("incomparable values (%T) %v & (%T) %v", va, va, vb, vb))
}

func (c *Comparator) fallback(cause error) int {
	c.fallbacks++

	if err := c.cfg.warn(fmt.Errorf("%w: %s: %v", ErrComparatorFallback, c.field, cause)); err != nil && c.err == nil {
		c.err = err
	}

	return 0
}

// Sort sorts a list in place, preserving the order of equal records.
//
// The strict mode fallback is returned after the sort completes.
func Sort[T any](c *Comparator, list []T) error {
	slices.SortStableFunc(list, func(a, b T) int { return c.Compare(a, b) })

	return c.err
}

func cmpOrdered[V constraints.Ordered](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isSigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
