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

package collection

// Pair is the keyed-record shape the keyed combinators (Join, AntiJoin,
// ThresholdWith, Count, Reduce) operate on: a key K used for
// grouping plus an arbitrary value V. K must be comparable so it can back a
// plain Go map; in this module K is always a small scalar (a row id, a
// column index, or a RowValue's Hash() string) so this is never a
// restriction in practice, even though the value payload (RowValue,
// DenseVector, an aggregate) generally is not itself comparable.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// NewPair constructs a Pair.
func NewPair[K comparable, V any](key K, value V) Pair[K, V] {
	return Pair[K, V]{Key: key, Value: value}
}
