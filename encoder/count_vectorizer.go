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

// CountVectorizer tokenizes each Text value (whitespace split, empties
// dropped) and builds a vocabulary over tokens. Transform emits, per
// document, a DenseVector of length equal to the current vocabulary width
// where position i holds the token count (or 1, in Binary mode) of the
// token assigned index i; tokens not present in the vocabulary are
// silently dropped.
type CountVectorizer struct {
	Binary bool

	fitted bool
	vocab  *aggregate.PositionAssignmentAggregate[string]
}

// NewCountVectorizer constructs an unfitted, non-binary CountVectorizer.
func NewCountVectorizer() *CountVectorizer { return &CountVectorizer{} }

func tokensOf(v value.RowValue) ([]string, error) {
	if v.Kind() != value.Text {
		return nil, fmt.Errorf("count vectorizer: %w", ErrWrongVariant)
	}
	return tokenize(v.AsText()), nil
}

// Fit builds the token vocabulary from every document's token list in the
// full current snapshot.
func (c *CountVectorizer) Fit(data Collection) error {
	data = consolidate(data)
	keyed := make([]collection.Update[collection.Pair[struct{}, []string]], 0, len(data.Updates))
	for _, u := range data.Updates {
		toks, err := tokensOf(u.Data.Value)
		if err != nil {
			return err
		}
		keyed = append(keyed, collection.Update[collection.Pair[struct{}, []string]]{
			Data: collection.NewPair(struct{}{}, toks), Diff: u.Diff,
		})
	}
	merged := collection.ThresholdWith[struct{}, []string, *aggregate.PositionAssignmentAggregate[string]](
		collection.Collection[collection.Pair[struct{}, []string]]{Updates: keyed},
		func(toks []string, multiplicity int64) *aggregate.PositionAssignmentAggregate[string] {
			return aggregate.PositionAssignmentOfValues(stringLess, toks, multiplicity)
		},
	)
	c.fitted = true
	if len(merged.Updates) == 0 {
		c.vocab = aggregate.NewPositionAssignmentAggregate[string](stringLess)
	} else {
		c.vocab = merged.Updates[0].Data.Value
	}
	return nil
}

// Transform emits each document's token-count DenseVector.
func (c *CountVectorizer) Transform(data Collection) (Collection, error) {
	if !c.fitted {
		return Collection{}, ErrNotFitted
	}
	width := c.vocab.Width()
	return mapRows(data, func(v value.RowValue) (value.RowValue, error) {
		toks, err := tokensOf(v)
		if err != nil {
			return value.RowValue{}, err
		}
		vec := value.Zeros(width)
		elems := vec.Elems()
		for _, t := range toks {
			idx, ok := c.vocab.Index(t)
			if !ok || idx >= width {
				continue
			}
			if c.Binary {
				elems[idx] = 1.0
			} else {
				elems[idx]++
			}
		}
		return FromDenseVector(value.NewVector(elems...)), nil
	})
}
