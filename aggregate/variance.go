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

package aggregate

import "math"

// VarianceAggregate carries (mean, M2, count) where M2 is the sum of
// squared deviations from mean. It is the difference type backing
// StandardScaler: inserting a value merges it in via the parallel Welford
// update, retracting a value merges in its negation.
type VarianceAggregate struct {
	mean  float64
	m2    float64
	count int64
}

// NewVarianceAggregate constructs the zero (empty) aggregate.
func NewVarianceAggregate() *VarianceAggregate { return &VarianceAggregate{} }

// VarianceOfValue constructs the singleton aggregate for one observation of
// value with the given multiplicity (negative multiplicity encodes a
// retraction).
func VarianceOfValue(value float64, multiplicity int64) *VarianceAggregate {
	return &VarianceAggregate{mean: value, m2: 0, count: multiplicity}
}

// PlusEquals merges other into a using the parallel Welford combination:
// with counts c1, c2, merged count c = c1+c2, delta = mean1 - mean2, merged
// mean = (mean1*c1 + mean2*c2)/c, merged M2 = M2_1 + M2_2 + delta^2*c1*c2/c.
func (a *VarianceAggregate) PlusEquals(other *VarianceAggregate) {
	c1, c2 := a.count, other.count
	c := c1 + c2
	if c == 0 {
		a.mean, a.m2, a.count = 0, 0, 0
		return
	}
	delta := a.mean - other.mean
	mean := (a.mean*float64(c1) + other.mean*float64(c2)) / float64(c)
	m2 := a.m2 + other.m2 + delta*delta*float64(c1)*float64(c2)/float64(c)
	a.mean, a.m2, a.count = mean, m2, c
}

// IsZero reports whether the aggregate carries no net contributions.
func (a *VarianceAggregate) IsZero() bool { return a.count == 0 }

// Negate returns the additive inverse: an aggregate that, merged with a,
// yields the zero aggregate. Flips the sign of M2 and count; mean is kept so
// that re-merging with the original mean cancels correctly via the Welford
// formula (a zero-count group element must still carry the mean it was
// negated from).
func (a *VarianceAggregate) Negate() *VarianceAggregate {
	return &VarianceAggregate{mean: a.mean, m2: -a.m2, count: -a.count}
}

// Read extracts (mean, variance) from the aggregate. Variance is M2/count.
// Returns ErrEmpty if count is zero. round, if non-nil, specifies a number
// of decimal digits to round mean and variance to independently; rounding
// happens only on this read path and never mutates the aggregate, so
// further merges stay lossless.
func (a *VarianceAggregate) Read(round *int) (mean, variance float64, err error) {
	if a.count == 0 {
		return 0, 0, ErrEmpty
	}
	mean = a.mean
	variance = a.m2 / float64(a.count)
	if round != nil {
		mean = roundTo(mean, *round)
		variance = roundTo(variance, *round)
	}
	return mean, variance, nil
}

// Count returns the current net count of contributing observations.
func (a *VarianceAggregate) Count() int64 { return a.count }

func roundTo(x float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(x*scale) / scale
}
