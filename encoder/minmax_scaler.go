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

package encoder

import (
	"fmt"

	"diffenc/aggregate"
	"diffenc/collection"
	"diffenc/value"
)

// MinMaxScaler fits a (min, range) pair over its column and transforms each
// value to (value - min) / range. Same shape as StandardScaler but backed
// by aggregate.MinMaxAggregate.
type MinMaxScaler struct {
	fitted bool
	min    float64
	rng    float64
}

// NewMinMaxScaler constructs an unfitted MinMaxScaler.
func NewMinMaxScaler() *MinMaxScaler { return &MinMaxScaler{} }

// Fit rebuilds the min/range meta from the full current snapshot of the
// column's data.
func (s *MinMaxScaler) Fit(data Collection) error {
	data = consolidate(data)
	if err := validateNumeric(data); err != nil {
		return err
	}
	keyed := collection.Map(data, func(r Row) collection.Pair[struct{}, float64] {
		return collection.NewPair(struct{}{}, r.Value.AsFloat())
	})
	merged := collection.ThresholdWith[struct{}, float64, *aggregate.MinMaxAggregate](keyed, aggregate.MinMaxOfValue)

	s.fitted = true
	if len(merged.Updates) == 0 {
		s.min, s.rng = 0, 0
		return nil
	}
	min, rng, err := merged.Updates[0].Data.Value.Read()
	if err != nil {
		return fmt.Errorf("minmax scaler: %w", err)
	}
	s.min, s.rng = min, rng
	return nil
}

// Min returns the fitted minimum (used by KBinsDiscretizer, which reuses
// MinMaxScaler's meta rather than refitting its own).
func (s *MinMaxScaler) Min() float64 { return s.min }

// Range returns the fitted range (max - min).
func (s *MinMaxScaler) Range() float64 { return s.rng }

// Fitted reports whether Fit has been called.
func (s *MinMaxScaler) Fitted() bool { return s.fitted }

// Scale maps a raw value to [0, 1] using the fitted min/range, returning 0.0
// on zero range rather than dividing by zero.
func (s *MinMaxScaler) Scale(x float64) float64 {
	if s.rng == 0 {
		return 0
	}
	return (x - s.min) / s.rng
}

// Transform scales every numeric value to [0, 1].
func (s *MinMaxScaler) Transform(data Collection) (Collection, error) {
	if !s.fitted {
		return Collection{}, ErrNotFitted
	}
	return mapRows(data, func(v value.RowValue) (value.RowValue, error) {
		if !v.Numeric() {
			return value.RowValue{}, fmt.Errorf("minmax scaler: %w", ErrWrongVariant)
		}
		return value.NewFloat(s.Scale(v.AsFloat())), nil
	})
}
