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

	"diffenc/value"
)

// PolynomialFeaturesEncoder emits [x^d for d = MinDegree..MaxDegree] for
// scalar input, computed iteratively (start at x^MinDegree, multiply by x
// per step). Vector-valued input is an explicit non-goal
// (SPEC_FULL.md Open Question #2): the source this module is based on
// contains an unimplemented combinations_with_replacement path for it, and
// this encoder does not guess at that extension.
type PolynomialFeaturesEncoder struct {
	MinDegree int
	MaxDegree int
}

// NewPolynomialFeaturesEncoder constructs a PolynomialFeaturesEncoder
// covering degrees [minDegree, maxDegree] inclusive.
func NewPolynomialFeaturesEncoder(minDegree, maxDegree int) *PolynomialFeaturesEncoder {
	return &PolynomialFeaturesEncoder{MinDegree: minDegree, MaxDegree: maxDegree}
}

// Fit is a no-op; PolynomialFeaturesEncoder carries no meta.
func (p *PolynomialFeaturesEncoder) Fit(data Collection) error { return nil }

// Transform emits the polynomial expansion vector for each scalar row.
func (p *PolynomialFeaturesEncoder) Transform(data Collection) (Collection, error) {
	return mapRows(data, func(v value.RowValue) (value.RowValue, error) {
		if v.Kind() == value.Vec {
			return value.RowValue{}, fmt.Errorf("polynomial features encoder: %w", ErrUnsupportedMultivariate)
		}
		if !v.Numeric() {
			return value.RowValue{}, fmt.Errorf("polynomial features encoder: %w", ErrWrongVariant)
		}
		x := v.AsFloat()
		n := p.MaxDegree - p.MinDegree + 1
		out := make([]float64, n)
		cur := pow(x, p.MinDegree)
		for i := 0; i < n; i++ {
			out[i] = cur
			cur *= x
		}
		return FromDenseVector(value.NewVector(out...)), nil
	})
}

func pow(x float64, n int) float64 {
	if n <= 0 {
		return 1
	}
	out := 1.0
	for i := 0; i < n; i++ {
		out *= x
	}
	return out
}
