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

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapFilterPreserveMultiplicity(t *testing.T) {
	c := FromSlice([]int{1, 2, 3, 4})
	doubled := Map(c, func(x int) int { return x * 2 })
	evens := Filter(doubled, func(x int) bool { return x%4 == 0 })
	require.Len(t, evens.Updates, 2)
	for _, u := range evens.Updates {
		require.Equal(t, int64(1), u.Diff)
	}
}

func TestRetractEqualsInsertInverse(t *testing.T) {
	s := NewInputSession[int](func(x int) string { return fmt.Sprintf("%d", x) })
	for i := 0; i < 5; i++ {
		s.Insert(i)
	}
	for i := 0; i < 5; i++ {
		s.Remove(i)
	}
	snap := s.Snapshot()
	require.Empty(t, snap.Updates)
}

func TestSnapshotDoesNotDuplicateKeyAfterRetractReinsert(t *testing.T) {
	s := NewInputSession[int](func(x int) string { return fmt.Sprintf("%d", x) })
	s.Insert(7)
	s.Remove(7)
	s.Insert(7)

	snap := s.Snapshot()
	require.Len(t, snap.Updates, 1, "retract-then-reinsert of the same key must not duplicate it in Snapshot")
	require.Equal(t, 7, snap.Updates[0].Data)
	require.Equal(t, int64(1), snap.Updates[0].Diff)
}

func TestPermutationInvarianceWithinEpoch(t *testing.T) {
	keyOf := func(x int) string { return fmt.Sprintf("%d", x) }
	a := NewInputSession[int](keyOf)
	for _, v := range []int{3, 1, 4, 1, 5, 9} {
		a.Insert(v)
	}
	b := NewInputSession[int](keyOf)
	for _, v := range []int{9, 5, 1, 4, 1, 3} {
		b.Insert(v)
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	require.Equal(t, toNetMap(sa), toNetMap(sb))
}

func toNetMap(c Collection[int]) map[int]int64 {
	out := make(map[int]int64)
	for _, u := range c.Updates {
		out[u.Data] += u.Diff
	}
	return out
}

func TestJoinMultipliesMultiplicities(t *testing.T) {
	left := Collection[Pair[int, string]]{Updates: []Update[Pair[int, string]]{
		{Data: NewPair(1, "a"), Diff: 2},
	}}
	right := Collection[Pair[int, string]]{Updates: []Update[Pair[int, string]]{
		{Data: NewPair(1, "x"), Diff: 3},
	}}
	joined := Join(left, right, func(k int, a, b string) string { return a + b })
	require.Len(t, joined.Updates, 1)
	require.Equal(t, int64(6), joined.Updates[0].Diff)
	require.Equal(t, "ax", joined.Updates[0].Data.Value)
}

func TestAntiJoinExcludesPresentKeys(t *testing.T) {
	rows := Collection[Pair[int, string]]{Updates: []Update[Pair[int, string]]{
		{Data: NewPair(1, "a"), Diff: 1},
		{Data: NewPair(2, "b"), Diff: 1},
	}}
	present := Collection[int]{Updates: []Update[int]{{Data: 1, Diff: 1}}}
	unmatched := AntiJoin(rows, present)
	require.Len(t, unmatched.Updates, 1)
	require.Equal(t, 2, unmatched.Updates[0].Data.Key)
}

func TestDistinctCollapsesAndDrops(t *testing.T) {
	c := Collection[string]{Updates: []Update[string]{
		{Data: "a", Diff: 1},
		{Data: "a", Diff: 1},
		{Data: "b", Diff: 1},
		{Data: "b", Diff: -1},
	}}
	d := Distinct(c)
	require.Len(t, d.Updates, 1)
	require.Equal(t, "a", d.Updates[0].Data)
	require.Equal(t, int64(1), d.Updates[0].Diff)
}

func TestCountSumsPerKey(t *testing.T) {
	c := Collection[Pair[int, string]]{Updates: []Update[Pair[int, string]]{
		{Data: NewPair(1, "x"), Diff: 1},
		{Data: NewPair(1, "y"), Diff: 1},
		{Data: NewPair(2, "z"), Diff: 1},
	}}
	counted := Count(c)
	net := map[int]int64{}
	for _, u := range counted.Updates {
		net[u.Data.Key] = u.Data.Value
	}
	require.Equal(t, int64(2), net[1])
	require.Equal(t, int64(1), net[2])
}

// intSumAgg is a trivial commutative-group aggregate used only to exercise
// ThresholdWith's generic machinery in isolation from the real aggregate
// package.
type intSumAgg struct{ sum int64 }

func (a *intSumAgg) PlusEquals(other *intSumAgg) { a.sum += other.sum }
func (a *intSumAgg) IsZero() bool                { return a.sum == 0 }
func (a *intSumAgg) Negate() *intSumAgg          { return &intSumAgg{sum: -a.sum} }

func TestThresholdWithFoldsAndDropsZero(t *testing.T) {
	c := Collection[Pair[string, int64]]{Updates: []Update[Pair[string, int64]]{
		{Data: NewPair("a", int64(5)), Diff: 1},
		{Data: NewPair("a", int64(5)), Diff: -1},
		{Data: NewPair("b", int64(2)), Diff: 1},
	}}
	singleton := func(v int64, mult int64) *intSumAgg { return &intSumAgg{sum: v * mult} }
	out := ThresholdWith[string, int64, *intSumAgg](c, singleton)

	var bSum int64 = -1
	found := false
	for _, u := range out.Updates {
		if u.Data.Key == "a" {
			t.Fatalf("key a should have cancelled to zero and been dropped")
		}
		if u.Data.Key == "b" {
			bSum = u.Data.Value.sum
			found = true
		}
	}
	require.True(t, found)
	require.Equal(t, int64(2), bSum)
}

func TestConsolidateByMergesAndDropsZero(t *testing.T) {
	c := Collection[string]{Updates: []Update[string]{
		{Data: "x", Diff: 1},
		{Data: "x", Diff: 1},
		{Data: "y", Diff: 1},
		{Data: "y", Diff: -1},
	}}
	out := ConsolidateBy(c, func(s string) string { return s })
	require.Len(t, out.Updates, 1)
	require.Equal(t, "x", out.Updates[0].Data)
	require.Equal(t, int64(2), out.Updates[0].Diff)
}

func TestWorkerStepDiffsBetweenEpochs(t *testing.T) {
	session := NewInputSession[int](func(x int) string { return fmt.Sprintf("%d", x) })
	worker := NewWorker(func(c Collection[int]) Collection[int] {
		return Map(c, func(x int) int { return x * 10 })
	}, func(x int) string { return fmt.Sprintf("%d", x) })

	session.Insert(1)
	session.Insert(2)
	settled, diff := worker.Step(session.Snapshot())
	require.Len(t, settled.Updates, 2)
	require.Len(t, diff.Updates, 2)

	session.Insert(3)
	settled, diff = worker.Step(session.Snapshot())
	require.Len(t, settled.Updates, 3)
	require.Len(t, diff.Updates, 1)
	require.Equal(t, 30, diff.Updates[0].Data)

	session.Remove(1)
	_, diff = worker.Step(session.Snapshot())
	require.Len(t, diff.Updates, 1)
	require.Equal(t, int64(-1), diff.Updates[0].Diff)
}
