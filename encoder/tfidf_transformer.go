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

	"diffenc/aggregate"
	"diffenc/collection"
	"diffenc/value"
)

// TfidfTransformer wraps a backend encoder whose output is a vector-valued
// DenseVector (typically CountVectorizer or HashVectorizer). Fit runs the
// backend's fit and transform, binarizes each output vector, and
// threshold+counts a DocumentFrequencyAggregate giving per-position
// document frequencies plus total document count N. Transform runs the
// backend transform and emits tf * ln(N/df) per position, 0 where df=0 or
// tf=0.
type TfidfTransformer struct {
	Backend ColumnEncoder
	round   *int

	fitted      bool
	frequencies []float64
	docCount    int64
}

// NewTfidfTransformer constructs a TfidfTransformer over the given backend.
func NewTfidfTransformer(backend ColumnEncoder) *TfidfTransformer {
	return &TfidfTransformer{Backend: backend}
}

// WithRounding rounds document-frequency entries to the given number of
// decimal digits on extraction (SPEC_FULL.md Open Question #3).
func (t *TfidfTransformer) WithRounding(digits int) *TfidfTransformer {
	t.round = &digits
	return t
}

// Fit runs the backend's fit/transform, then accumulates document
// frequencies from the binarized backend output.
func (t *TfidfTransformer) Fit(data Collection) error {
	if err := t.Backend.Fit(data); err != nil {
		return fmt.Errorf("tfidf transformer: backend fit: %w", err)
	}
	backendOut, err := t.Backend.Transform(data)
	if err != nil {
		return fmt.Errorf("tfidf transformer: backend transform: %w", err)
	}

	keyed := collection.Map(backendOut, func(r Row) collection.Pair[struct{}, []float64] {
		return collection.NewPair(struct{}{}, ToDenseVector(r.Value).Binarize().Elems())
	})
	merged := collection.ThresholdWith[struct{}, []float64, *aggregate.DocumentFrequencyAggregate](
		keyed,
		func(v []float64, multiplicity int64) *aggregate.DocumentFrequencyAggregate {
			return aggregate.DocumentFrequencyOfBinarized(v, multiplicity)
		},
	)

	t.fitted = true
	if len(merged.Updates) == 0 {
		t.frequencies, t.docCount = nil, 0
		return nil
	}
	t.frequencies, t.docCount = merged.Updates[0].Data.Value.Read(t.round)
	return nil
}

// Transform emits the TF-IDF weighted vector for each row.
func (t *TfidfTransformer) Transform(data Collection) (Collection, error) {
	if !t.fitted {
		return Collection{}, ErrNotFitted
	}
	backendOut, err := t.Backend.Transform(data)
	if err != nil {
		return Collection{}, fmt.Errorf("tfidf transformer: backend transform: %w", err)
	}
	n := float64(t.docCount)
	return mapRows(backendOut, func(v value.RowValue) (value.RowValue, error) {
		tf := ToDenseVector(v).Elems()
		out := make([]float64, len(tf))
		for i, x := range tf {
			if x == 0 || i >= len(t.frequencies) || t.frequencies[i] <= 0 {
				continue
			}
			out[i] = x * math.Log(n/t.frequencies[i])
		}
		return FromDenseVector(value.NewVector(out...)), nil
	})
}
