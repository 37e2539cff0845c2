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
	"hash/fnv"

	"diffenc/value"
)

// HashVectorizer is stateless: it has no fit. Transform hashes each token
// to hash mod NFeatures and accumulates (or sets to 1 in Binary mode) at
// that position. Collisions are accepted by design.
type HashVectorizer struct {
	NFeatures int
	Binary    bool
}

// NewHashVectorizer constructs a HashVectorizer with the given feature
// count.
func NewHashVectorizer(nFeatures int) *HashVectorizer {
	return &HashVectorizer{NFeatures: nFeatures}
}

// Fit is a no-op; HashVectorizer carries no meta.
func (h *HashVectorizer) Fit(data Collection) error { return nil }

// Transform hashes each document's tokens into a fixed-width DenseVector.
func (h *HashVectorizer) Transform(data Collection) (Collection, error) {
	return mapRows(data, func(v value.RowValue) (value.RowValue, error) {
		toks, err := tokensOf(v)
		if err != nil {
			return value.RowValue{}, err
		}
		vec := value.Zeros(h.NFeatures)
		elems := vec.Elems()
		for _, t := range toks {
			idx := int(tokenHash(t) % uint64(h.NFeatures))
			if h.Binary {
				elems[idx] = 1.0
			} else {
				elems[idx]++
			}
		}
		return FromDenseVector(value.NewVector(elems...)), nil
	})
}

func tokenHash(s string) uint64 {
	hsh := fnv.New64a()
	_, _ = hsh.Write([]byte(s))
	return hsh.Sum64()
}
