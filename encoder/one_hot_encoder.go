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
	"diffenc/aggregate"
	"diffenc/value"
)

// OneHotEncoder shares OrdinalEncoder's fit (same vocabulary shape).
// Matched rows emit a length-width DenseVector with a single 1.0 at the
// assigned index; unmatched rows emit the all-zero vector of the current
// width.
type OneHotEncoder struct {
	fitted bool
	vocab  *aggregate.PositionAssignmentAggregate[string]
}

// NewOneHotEncoder constructs an unfitted OneHotEncoder.
func NewOneHotEncoder() *OneHotEncoder { return &OneHotEncoder{} }

// Fit builds the value-to-index vocabulary from the full current snapshot.
func (e *OneHotEncoder) Fit(data Collection) error {
	vocab, err := fitVocabulary(data)
	if err != nil {
		return err
	}
	e.vocab, e.fitted = vocab, true
	return nil
}

// Transform emits a one-hot DenseVector (as a Vec-kind RowValue) per row.
func (e *OneHotEncoder) Transform(data Collection) (Collection, error) {
	if !e.fitted {
		return Collection{}, ErrNotFitted
	}
	width := e.vocab.Width()
	return mapRows(data, func(v value.RowValue) (value.RowValue, error) {
		h, err := v.Hash()
		if err != nil {
			return value.RowValue{}, err
		}
		vec := value.Zeros(width)
		elems := vec.Elems()
		if idx, ok := e.vocab.Index(h); ok && idx < width {
			elems[idx] = 1.0
		}
		return FromDenseVector(value.NewVector(elems...)), nil
	})
}
