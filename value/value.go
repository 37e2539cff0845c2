// Copyright 2026 The diffenc Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package value implements the tagged scalar/text/vector value model that
// flows through every layer above it: RowValue, Row, and DenseVector.
package value

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrTypeMismatch is returned when two RowValues of different Kinds are
// compared or combined in a context that requires matching kinds.
var ErrTypeMismatch = errors.New("value: cross-variant type mismatch")

// ErrNotHashable is returned when Hash is called on a Float or Vec value.
var ErrNotHashable = errors.New("value: variant is not hashable")

// Kind discriminates the RowValue tagged union.
type Kind uint8

const (
	Integer Kind = iota
	Float
	Text
	Vec
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Text:
		return "Text"
	case Vec:
		return "Vec"
	default:
		return "Unknown"
	}
}

// RowValue is the tagged sum {Integer(int64) | Float(float64) | Text(string)
// | Vec([]float64)}. Exactly one payload field is meaningful, selected by
// Kind. RowValue is a value type and is safe to copy.
type RowValue struct {
	kind Kind
	i    int64
	f    float64
	s    string
	v    []float64
}

// NewInteger constructs an Integer RowValue.
func NewInteger(i int64) RowValue { return RowValue{kind: Integer, i: i} }

// NewFloat constructs a Float RowValue.
func NewFloat(f float64) RowValue { return RowValue{kind: Float, f: f} }

// NewText constructs a Text RowValue.
func NewText(s string) RowValue { return RowValue{kind: Text, s: s} }

// NewVec constructs a Vec RowValue. The slice is copied defensively.
func NewVec(v []float64) RowValue {
	cp := make([]float64, len(v))
	copy(cp, v)
	return RowValue{kind: Vec, v: cp}
}

// Kind reports the RowValue's variant.
func (r RowValue) Kind() Kind { return r.kind }

// AsInteger returns the payload of an Integer RowValue. Calling it on any
// other variant is a programmer error and panics, matching the "fatal
// contract violation" classification for wrong-variant access at this layer.
func (r RowValue) AsInteger() int64 {
	if r.kind != Integer {
		panic(fmt.Sprintf("value: AsInteger called on %s", r.kind))
	}
	return r.i
}

// AsFloat returns the payload of a Float RowValue, or an Integer payload
// promoted to float64 (Integer+Float promotion per the value model's
// arithmetic rules).
func (r RowValue) AsFloat() float64 {
	switch r.kind {
	case Float:
		return r.f
	case Integer:
		return float64(r.i)
	default:
		panic(fmt.Sprintf("value: AsFloat called on %s", r.kind))
	}
}

// AsText returns the payload of a Text RowValue.
func (r RowValue) AsText() string {
	if r.kind != Text {
		panic(fmt.Sprintf("value: AsText called on %s", r.kind))
	}
	return r.s
}

// AsVec returns the payload of a Vec RowValue. The returned slice must not
// be mutated by the caller.
func (r RowValue) AsVec() []float64 {
	if r.kind != Vec {
		panic(fmt.Sprintf("value: AsVec called on %s", r.kind))
	}
	return r.v
}

// Numeric reports whether the value is Integer or Float, the two variants
// that participate in arithmetic promotion.
func (r RowValue) Numeric() bool { return r.kind == Integer || r.kind == Float }

// Add adds two numeric RowValues, promoting Integer+Float to Float.
// Returns ErrTypeMismatch for non-numeric operands.
func (r RowValue) Add(other RowValue) (RowValue, error) {
	if !r.Numeric() || !other.Numeric() {
		return RowValue{}, fmt.Errorf("value: Add on %s and %s: %w", r.kind, other.kind, ErrTypeMismatch)
	}
	if r.kind == Integer && other.kind == Integer {
		return NewInteger(r.i + other.i), nil
	}
	return NewFloat(r.AsFloat() + other.AsFloat()), nil
}

// Compare implements RowValue's total order: Integer/Float compare
// numerically (NaN sorts as strictly greater than any non-NaN float, making
// Float ordering total), Text compares lexicographically, Vec compares
// element-wise lexicographic. Cross-variant comparisons, including Integer
// vs Float, always return ErrTypeMismatch; Add is the sole operation with a
// numeric-promotion exception.
func (r RowValue) Compare(other RowValue) (int, error) {
	if r.kind != other.kind {
		return 0, fmt.Errorf("value: Compare %s vs %s: %w", r.kind, other.kind, ErrTypeMismatch)
	}
	switch r.kind {
	case Integer:
		switch {
		case r.i < other.i:
			return -1, nil
		case r.i > other.i:
			return 1, nil
		default:
			return 0, nil
		}
	case Float:
		return compareFloat(r.f, other.f), nil
	case Text:
		return strings.Compare(r.s, other.s), nil
	case Vec:
		return compareVec(r.v, other.v), nil
	default:
		return 0, fmt.Errorf("value: Compare unknown kind %s", r.kind)
	}
}

// compareFloat totally orders float64 by treating NaN as the maximum
// element: non-NaN < NaN, and two NaNs compare equal.
func compareFloat(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareVec(a, b []float64) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareFloat(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Equal reports whether two RowValues are equal under Compare, treating
// cross-variant comparisons (Integer vs Float included) as unequal rather
// than erroring.
func (r RowValue) Equal(other RowValue) bool {
	c, err := r.Compare(other)
	return err == nil && c == 0
}

// Hash returns a string hash key for Integer and Text variants only. Float
// and Vec are not hashable; calling Hash on them returns ErrNotHashable, so
// that callers (encoders that key maps by RowValue) fail fast rather than
// silently hashing by bit pattern.
func (r RowValue) Hash() (string, error) {
	switch r.kind {
	case Integer:
		return fmt.Sprintf("i:%d", r.i), nil
	case Text:
		return fmt.Sprintf("t:%s", r.s), nil
	default:
		return "", fmt.Errorf("value: Hash on %s: %w", r.kind, ErrNotHashable)
	}
}

func (r RowValue) String() string {
	switch r.kind {
	case Integer:
		return fmt.Sprintf("%d", r.i)
	case Float:
		return fmt.Sprintf("%g", r.f)
	case Text:
		return r.s
	case Vec:
		return fmt.Sprintf("%v", r.v)
	default:
		return "<invalid>"
	}
}

// Row is an immutable, ordered sequence of RowValues with O(1) positional
// access.
type Row struct {
	values []RowValue
}

// NewRow constructs a Row from the given values, copying the slice so the
// Row remains immutable regardless of later mutation of the caller's slice.
func NewRow(values ...RowValue) Row {
	cp := make([]RowValue, len(values))
	copy(cp, values)
	return Row{values: cp}
}

// Len returns the number of columns in the row.
func (r Row) Len() int { return len(r.values) }

// At returns the value at the given column index. Panics if out of range,
// matching Row's documented O(1)-positional-access, fixed-shape contract.
func (r Row) At(i int) RowValue { return r.values[i] }

// Values returns the row's values. The returned slice must not be mutated.
func (r Row) Values() []RowValue { return r.values }

// Equal reports element-wise equality between two rows of equal length.
func (r Row) Equal(other Row) bool {
	if len(r.values) != len(other.values) {
		return false
	}
	for i := range r.values {
		if !r.values[i].Equal(other.values[i]) {
			return false
		}
	}
	return true
}
