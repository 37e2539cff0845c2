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
	"diffenc/collection"
	"diffenc/value"
)

func positionSingleton(v value.RowValue, multiplicity int64) *aggregate.PositionAssignmentAggregate[string] {
	return aggregate.PositionAssignmentOfValue(stringLess, hashOf(v), multiplicity)
}

func fitVocabulary(data Collection) (*aggregate.PositionAssignmentAggregate[string], error) {
	data = consolidate(data)
	if err := validateHashable(data); err != nil {
		return nil, err
	}
	keyed := collection.Map(data, func(r Row) collection.Pair[struct{}, value.RowValue] {
		return collection.NewPair(struct{}{}, r.Value)
	})
	merged := collection.ThresholdWith[struct{}, value.RowValue, *aggregate.PositionAssignmentAggregate[string]](keyed, positionSingleton)
	if len(merged.Updates) == 0 {
		return aggregate.NewPositionAssignmentAggregate[string](stringLess), nil
	}
	return merged.Updates[0].Data.Value, nil
}

// OrdinalEncoder assigns every distinct observed value a stable integer
// index. Matched rows transform to Float(index); unmatched rows (values
// never seen during fit, i.e. with no live vocabulary entry) transform to
// Float(-1) — the vocabulary-miss recovery spec.md §7 documents as
// non-fatal.
type OrdinalEncoder struct {
	fitted bool
	vocab  *aggregate.PositionAssignmentAggregate[string]
}

// NewOrdinalEncoder constructs an unfitted OrdinalEncoder.
func NewOrdinalEncoder() *OrdinalEncoder { return &OrdinalEncoder{} }

// Fit builds the value-to-index vocabulary from the full current snapshot.
func (e *OrdinalEncoder) Fit(data Collection) error {
	vocab, err := fitVocabulary(data)
	if err != nil {
		return err
	}
	e.vocab, e.fitted = vocab, true
	return nil
}

// Transform emits each row's assigned index, or -1 if unassigned.
func (e *OrdinalEncoder) Transform(data Collection) (Collection, error) {
	if !e.fitted {
		return Collection{}, ErrNotFitted
	}
	return mapRows(data, func(v value.RowValue) (value.RowValue, error) {
		h, err := v.Hash()
		if err != nil {
			return value.RowValue{}, err
		}
		if idx, ok := e.vocab.Index(h); ok {
			return value.NewFloat(float64(idx)), nil
		}
		return value.NewFloat(-1), nil
	})
}
