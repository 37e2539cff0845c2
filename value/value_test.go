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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareNaNIsMaximum(t *testing.T) {
	nan := NewFloat(math.NaN())
	one := NewFloat(1.0)

	c, err := nan.Compare(one)
	require.NoError(t, err)
	require.Equal(t, 1, c)

	c, err = one.Compare(nan)
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = nan.Compare(NewFloat(math.NaN()))
	require.NoError(t, err)
	require.Equal(t, 0, c)
}

func TestCompareCrossVariantError(t *testing.T) {
	_, err := NewText("a").Compare(NewInteger(1))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCompareIntegerFloatIsTypeMismatch(t *testing.T) {
	// Compare has no numeric-promotion exception; only Add does.
	_, err := NewInteger(2).Compare(NewFloat(2.0))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestAddIntegerFloatPromotes(t *testing.T) {
	sum, err := NewInteger(2).Add(NewFloat(2.0))
	require.NoError(t, err)
	require.Equal(t, Float, sum.Kind())
	require.Equal(t, 4.0, sum.AsFloat())
}

func TestHashRestrictedToIntegerAndText(t *testing.T) {
	_, err := NewInteger(1).Hash()
	require.NoError(t, err)
	_, err = NewText("x").Hash()
	require.NoError(t, err)

	_, err = NewFloat(1.0).Hash()
	require.ErrorIs(t, err, ErrNotHashable)
	_, err = NewVec([]float64{1, 2}).Hash()
	require.ErrorIs(t, err, ErrNotHashable)
}

func TestAddPromotion(t *testing.T) {
	sum, err := NewInteger(1).Add(NewFloat(2.5))
	require.NoError(t, err)
	require.Equal(t, Float, sum.Kind())
	require.InDelta(t, 3.5, sum.AsFloat(), 1e-12)

	sum, err = NewInteger(1).Add(NewInteger(2))
	require.NoError(t, err)
	require.Equal(t, Integer, sum.Kind())
	require.Equal(t, int64(3), sum.AsInteger())
}

func TestRowEqualAndAt(t *testing.T) {
	r1 := NewRow(NewInteger(1), NewText("a"))
	r2 := NewRow(NewInteger(1), NewText("a"))
	require.True(t, r1.Equal(r2))
	require.Equal(t, 2, r1.Len())
	require.Equal(t, int64(1), r1.At(0).AsInteger())
}

func TestDenseVectorConcatAssociative(t *testing.T) {
	a := NewVector(1, 2)
	b := NewVector(3)
	c := NewVector(4, 5)

	left := Concat(Concat(a, b), c)
	right := Concat(a, Concat(b, c))
	require.Equal(t, left.Elems(), right.Elems())
	require.Equal(t, []float64{1, 2, 3, 4, 5}, left.Elems())
}

func TestDenseVectorBinarize(t *testing.T) {
	v := NewVector(0, 2, -1, 0)
	b := v.Binarize()
	require.Equal(t, []float64{0, 1, 1, 0}, b.Elems())
}

func TestDenseVectorResize(t *testing.T) {
	v := NewVector(1, 2, 3)
	require.Equal(t, []float64{1, 2}, v.Resize(2).Elems())
	require.Equal(t, []float64{1, 2, 3, 0}, v.Resize(4).Elems())
}

func TestScalarIsJustLengthOneVector(t *testing.T) {
	require.Equal(t, NewVector(5).Elems(), NewScalar(5).Elems())
}
