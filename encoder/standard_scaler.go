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

// StandardScaler fits a mean/variance pair over its column and transforms
// each value to (value - mean) / variance. On zero variance it emits the
// documented sentinel 0.0 uniformly (spec.md §7's numerical-degenerate
// escape hatch) rather than dividing by zero.
type StandardScaler struct {
	round   *int
	fitted  bool
	mean    float64
	variance float64
}

// NewStandardScaler constructs an unfitted StandardScaler.
func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// WithRounding rounds mean and variance to the given number of decimal
// digits on extraction, applied exactly once and never mutating the
// underlying aggregate (SPEC_FULL.md Open Question #3).
func (s *StandardScaler) WithRounding(digits int) *StandardScaler {
	s.round = &digits
	return s
}

// Fit rebuilds the mean/variance meta from the full current snapshot of
// the column's data.
func (s *StandardScaler) Fit(data Collection) error {
	data = consolidate(data)
	if err := validateNumeric(data); err != nil {
		return err
	}
	keyed := collection.Map(data, func(r Row) collection.Pair[struct{}, float64] {
		return collection.NewPair(struct{}{}, r.Value.AsFloat())
	})
	merged := collection.ThresholdWith[struct{}, float64, *aggregate.VarianceAggregate](keyed, aggregate.VarianceOfValue)

	s.fitted = true
	if len(merged.Updates) == 0 {
		s.mean, s.variance = 0, 0
		return nil
	}
	mean, variance, err := merged.Updates[0].Data.Value.Read(s.round)
	if err != nil {
		return fmt.Errorf("standard scaler: %w", err)
	}
	s.mean, s.variance = mean, variance
	return nil
}

// Transform scales every numeric value by the fitted mean/variance.
func (s *StandardScaler) Transform(data Collection) (Collection, error) {
	if !s.fitted {
		return Collection{}, ErrNotFitted
	}
	return mapRows(data, func(v value.RowValue) (value.RowValue, error) {
		if !v.Numeric() {
			return value.RowValue{}, fmt.Errorf("standard scaler: %w", ErrWrongVariant)
		}
		if s.variance == 0 {
			return value.NewFloat(0), nil
		}
		return value.NewFloat((v.AsFloat() - s.mean) / s.variance), nil
	})
}
