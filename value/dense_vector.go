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

package value

import "fmt"

// DenseVector is the semantic output unit of an encoder: a finite ordered
// sequence of float64.
//
// The source this module is based on once distinguished a Scalar shortcut
// from a length-1 Vector as a micro-optimization; every composition site
// that forwarded both shapes had to handle them identically, which was the
// open question recorded in SPEC_FULL.md. DenseVector resolves it by always
// being backed by a slice; NewScalar is just sugar over a length-1 slice
// and never escapes as a distinguishable variant. The constructors do not
// enforce a minimum length: NewVector() and Zeros(0) yield empty vectors.
type DenseVector struct {
	elems []float64
}

// NewVector constructs a DenseVector from the given elements, copying them.
func NewVector(elems ...float64) DenseVector {
	cp := make([]float64, len(elems))
	copy(cp, elems)
	return DenseVector{elems: cp}
}

// NewScalar constructs a length-1 DenseVector. Sugar over NewVector; callers
// must not rely on any representational difference from a length-1 vector
// built another way.
func NewScalar(x float64) DenseVector { return DenseVector{elems: []float64{x}} }

// Zeros constructs a length-n DenseVector of zeros.
func Zeros(n int) DenseVector { return DenseVector{elems: make([]float64, n)} }

// Len returns the number of elements.
func (d DenseVector) Len() int { return len(d.elems) }

// At returns the element at index i. Panics if out of range.
func (d DenseVector) At(i int) float64 { return d.elems[i] }

// Elems returns the underlying slice. The caller must not mutate it.
func (d DenseVector) Elems() []float64 { return d.elems }

// Add returns the element-wise sum of two DenseVectors of equal length.
func (d DenseVector) Add(other DenseVector) (DenseVector, error) {
	if len(d.elems) != len(other.elems) {
		return DenseVector{}, fmt.Errorf("value: DenseVector.Add length mismatch %d != %d", len(d.elems), len(other.elems))
	}
	out := make([]float64, len(d.elems))
	for i := range d.elems {
		out[i] = d.elems[i] + other.elems[i]
	}
	return DenseVector{elems: out}, nil
}

// Scale returns the DenseVector with every element multiplied by k.
func (d DenseVector) Scale(k float64) DenseVector {
	out := make([]float64, len(d.elems))
	for i, x := range d.elems {
		out[i] = x * k
	}
	return DenseVector{elems: out}
}

// Binarize returns a DenseVector where every nonzero element becomes 1.0 and
// every zero element stays 0.0.
func (d DenseVector) Binarize() DenseVector {
	out := make([]float64, len(d.elems))
	for i, x := range d.elems {
		if x != 0 {
			out[i] = 1.0
		}
	}
	return DenseVector{elems: out}
}

// Concat concatenates DenseVectors in argument order. Concat is associative:
// Concat(Concat(a,b),c) == Concat(a,Concat(b,c)) element-wise.
func Concat(vs ...DenseVector) DenseVector {
	n := 0
	for _, v := range vs {
		n += len(v.elems)
	}
	out := make([]float64, 0, n)
	for _, v := range vs {
		out = append(out, v.elems...)
	}
	return DenseVector{elems: out}
}

// Resize returns a copy of d padded with zeros (or truncated) to length n.
func (d DenseVector) Resize(n int) DenseVector {
	out := make([]float64, n)
	copy(out, d.elems)
	return DenseVector{elems: out}
}

func (d DenseVector) String() string { return fmt.Sprintf("%v", d.elems) }
