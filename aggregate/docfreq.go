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

// DocumentFrequencyAggregate carries (frequencies, documentCount). Each
// document contributes its binarized term vector (1 where count > 0, else
// 0) times its multiplicity; it is the difference type backing
// TfidfTransformer's per-position document-frequency counts.
type DocumentFrequencyAggregate struct {
	frequencies  []float64
	documentCount int64
}

// NewDocumentFrequencyAggregate constructs the zero (empty) aggregate.
func NewDocumentFrequencyAggregate() *DocumentFrequencyAggregate {
	return &DocumentFrequencyAggregate{}
}

// DocumentFrequencyOfBinarized constructs the singleton aggregate for one
// document whose already-binarized term vector is binarized, contributed
// with the given multiplicity.
func DocumentFrequencyOfBinarized(binarized []float64, multiplicity int64) *DocumentFrequencyAggregate {
	freq := make([]float64, len(binarized))
	for i, b := range binarized {
		freq[i] = b * float64(multiplicity)
	}
	return &DocumentFrequencyAggregate{frequencies: freq, documentCount: multiplicity}
}

// PlusEquals element-wise adds other's frequency vector into a, resizing the
// shorter vector to the longer (padding with zero) first, and sums document
// counts.
func (a *DocumentFrequencyAggregate) PlusEquals(other *DocumentFrequencyAggregate) {
	if len(other.frequencies) > len(a.frequencies) {
		grown := make([]float64, len(other.frequencies))
		copy(grown, a.frequencies)
		a.frequencies = grown
	}
	for i, v := range other.frequencies {
		a.frequencies[i] += v
	}
	a.documentCount += other.documentCount
}

// IsZero reports whether the aggregate has no net document contribution and
// no nonzero frequency entries.
func (a *DocumentFrequencyAggregate) IsZero() bool {
	if a.documentCount != 0 {
		return false
	}
	for _, v := range a.frequencies {
		if v != 0 {
			return false
		}
	}
	return true
}

// Negate returns the aggregate with every frequency entry and the document
// count sign-flipped.
func (a *DocumentFrequencyAggregate) Negate() *DocumentFrequencyAggregate {
	freq := make([]float64, len(a.frequencies))
	for i, v := range a.frequencies {
		freq[i] = -v
	}
	return &DocumentFrequencyAggregate{frequencies: freq, documentCount: -a.documentCount}
}

// Read returns the current per-position document frequencies and total
// document count. round, if non-nil, trims frequency entries to a decimal
// grid on extraction only, without mutating aggregate state.
func (a *DocumentFrequencyAggregate) Read(round *int) (frequencies []float64, documentCount int64) {
	out := make([]float64, len(a.frequencies))
	copy(out, a.frequencies)
	if round != nil {
		for i, v := range out {
			out[i] = roundTo(v, *round)
		}
	}
	return out, a.documentCount
}
