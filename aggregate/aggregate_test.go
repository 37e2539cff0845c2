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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarianceGroupLaw(t *testing.T) {
	acc := NewVarianceAggregate()
	for _, v := range []float64{0, 1, 2, 3} {
		acc.PlusEquals(VarianceOfValue(v, 1))
	}
	neg := acc.Negate()
	acc.PlusEquals(neg)
	require.True(t, acc.IsZero())
}

func TestVarianceS1Scenario(t *testing.T) {
	acc := NewVarianceAggregate()
	for i := 0; i < 10; i++ {
		acc.PlusEquals(VarianceOfValue(float64(i), 1))
	}
	mean, variance, err := acc.Read(nil)
	require.NoError(t, err)
	require.InDelta(t, 4.5, mean, 1e-9)
	require.InDelta(t, 8.25, variance, 1e-9)
}

func TestVarianceReadEmptyIsError(t *testing.T) {
	_, _, err := NewVarianceAggregate().Read(nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestMinMaxGroupLawAndRead(t *testing.T) {
	acc := NewMinMaxAggregate()
	for _, v := range []float64{0, 1, 2, 3, 4} {
		acc.PlusEquals(MinMaxOfValue(v, 1))
	}
	min, rng, err := acc.Read()
	require.NoError(t, err)
	require.Equal(t, 0.0, min)
	require.Equal(t, 4.0, rng)

	acc.PlusEquals(MinMaxOfValue(0, -1))
	min, rng, err = acc.Read()
	require.NoError(t, err)
	require.Equal(t, 1.0, min)
	require.Equal(t, 3.0, rng)
}

func TestMinMaxFullRetractIsZero(t *testing.T) {
	acc := NewMinMaxAggregate()
	singleton := MinMaxOfValue(5, 1)
	acc.PlusEquals(singleton)
	acc.PlusEquals(singleton.Negate())
	require.True(t, acc.IsZero())
	_, _, err := acc.Read()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestDocumentFrequencyMerge(t *testing.T) {
	acc := NewDocumentFrequencyAggregate()
	acc.PlusEquals(DocumentFrequencyOfBinarized([]float64{1, 0}, 1))
	acc.PlusEquals(DocumentFrequencyOfBinarized([]float64{1, 1, 0}, 1))
	freq, count := acc.Read(nil)
	require.Equal(t, []float64{2, 1, 0}, freq)
	require.Equal(t, int64(2), count)
}

func TestDocumentFrequencyGroupLaw(t *testing.T) {
	acc := NewDocumentFrequencyAggregate()
	d := DocumentFrequencyOfBinarized([]float64{1, 1}, 3)
	acc.PlusEquals(d)
	acc.PlusEquals(d.Negate())
	require.True(t, acc.IsZero())
}

func stringLess(a, b string) bool { return strings.Compare(a, b) < 0 }

func TestPositionAssignmentBasicLifecycle(t *testing.T) {
	acc := NewPositionAssignmentAggregate[string](stringLess)
	acc.PlusEquals(PositionAssignmentOfValue(stringLess, "a", 1))
	acc.PlusEquals(PositionAssignmentOfValue(stringLess, "b", 1))
	acc.PlusEquals(PositionAssignmentOfValue(stringLess, "a", 1))
	acc.PlusEquals(PositionAssignmentOfValue(stringLess, "c", 1))

	require.Equal(t, 3, acc.Live())

	idxA, ok := acc.Index("a")
	require.True(t, ok)
	idxC, ok := acc.Index("c")
	require.True(t, ok)

	acc.PlusEquals(PositionAssignmentOfValue(stringLess, "c", -1))
	require.Equal(t, 2, acc.Live())
	_, ok = acc.Index("c")
	require.False(t, ok)

	// Position stability: "a" keeps its index across the retraction of "c".
	stableA, ok := acc.Index("a")
	require.True(t, ok)
	require.Equal(t, idxA, stableA)
	_ = idxC
}

func TestPositionAssignmentGroupLaw(t *testing.T) {
	acc := NewPositionAssignmentAggregate[string](stringLess)
	delta := PositionAssignmentOfValue(stringLess, "x", 1)
	acc.PlusEquals(delta)
	acc.PlusEquals(delta.Negate())
	require.True(t, acc.IsZero())
	require.Equal(t, 0, acc.Live())
}

func TestPositionAssignmentWidthMonotonicUnderGrowthOnly(t *testing.T) {
	acc := NewPositionAssignmentAggregate[string](stringLess)
	prevWidth := acc.Width()
	for i := 0; i < 50; i++ {
		acc.PlusEquals(PositionAssignmentOfValue(stringLess, string(rune('A'+i)), 1))
		require.GreaterOrEqual(t, acc.Width(), prevWidth)
		prevWidth = acc.Width()
	}
}

func TestPositionAssignmentRetractThenReinsertReusesFreedIndex(t *testing.T) {
	acc := NewPositionAssignmentAggregate[string](stringLess)
	acc.PlusEquals(PositionAssignmentOfValue(stringLess, "a", 1))
	idxA, _ := acc.Index("a")
	acc.PlusEquals(PositionAssignmentOfValue(stringLess, "a", -1))
	require.Equal(t, 0, acc.Live())

	acc.PlusEquals(PositionAssignmentOfValue(stringLess, "z", 1))
	idxZ, ok := acc.Index("z")
	require.True(t, ok)
	require.Equal(t, idxA, idxZ)
}
