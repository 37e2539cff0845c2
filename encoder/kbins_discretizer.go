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
	"math"

	"diffenc/value"
)

// KBinsDiscretizer reuses MinMaxScaler's meta internally, then maps each
// scaled value to one of k bins: floor(scaled*k), clamped to k-1 so a
// scaled value of exactly 1.0 falls in the last bin rather than overflowing
// to k. The clamp is branchless, matching spec.md's "no branch
// mispredict" note: subtract (bin >= k) * (bin - k + 1).
type KBinsDiscretizer struct {
	k     int
	inner *MinMaxScaler
}

// NewKBinsDiscretizer constructs a KBinsDiscretizer with k bins.
func NewKBinsDiscretizer(k int) *KBinsDiscretizer {
	return &KBinsDiscretizer{k: k, inner: NewMinMaxScaler()}
}

// Fit delegates to the inner MinMaxScaler.
func (d *KBinsDiscretizer) Fit(data Collection) error {
	return d.inner.Fit(data)
}

// Transform scales then bins each numeric value.
func (d *KBinsDiscretizer) Transform(data Collection) (Collection, error) {
	if !d.inner.Fitted() {
		return Collection{}, ErrNotFitted
	}
	return mapRows(data, func(v value.RowValue) (value.RowValue, error) {
		if !v.Numeric() {
			return value.RowValue{}, fmt.Errorf("kbins discretizer: %w", ErrWrongVariant)
		}
		scaled := d.inner.Scale(v.AsFloat())
		bin := int64(math.Floor(scaled * float64(d.k)))
		k := int64(d.k)
		over := int64(0)
		if bin >= k {
			over = 1
		}
		bin -= over * (bin - k + 1)
		return value.NewInteger(bin), nil
	})
}
