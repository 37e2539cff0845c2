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

// Package e2e drives each scenario through the full stack a real driver
// uses: an InputSession accumulating staged rows, a Worker wrapping the
// encoder under test as its dataflow closure, and AdvanceTo settling an
// epoch — never calling an encoder's Fit/Transform directly. This exercises
// the same path cmd/encoder-demo runs in production, not just the encoder
// package's unit-level contract.
package e2e

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"diffenc/collection"
	"diffenc/encoder"
	"diffenc/pipeline"
	"diffenc/value"
)

func keyOfRow(r encoder.Row) string { return strconv.FormatUint(uint64(r.Key), 10) }

// settle drives one round trip: advance session (whose rows the caller has
// already staged) to epoch, and run the encoder's fit-then-transform as a
// Worker dataflow over its snapshot, returning the settled output.
func settle(t *testing.T, session *collection.InputSession[encoder.Row], enc encoder.ColumnEncoder, epoch int64) encoder.Collection {
	t.Helper()
	session.AdvanceTo(epoch)
	w := collection.NewWorker[encoder.Row, encoder.Row](
		func(in encoder.Collection) encoder.Collection {
			require.NoError(t, enc.Fit(in))
			out, err := enc.Transform(in)
			require.NoError(t, err)
			return out
		},
		keyOfRow,
	)
	settled, _ := w.Step(session.Snapshot())
	return settled
}

func outputFor(t *testing.T, out encoder.Collection, rowID value.RowID) value.RowValue {
	t.Helper()
	for _, u := range out.Updates {
		if u.Data.Key == rowID {
			return u.Data.Value
		}
	}
	t.Fatalf("row %d not present in settled output", rowID)
	return value.RowValue{}
}

func TestE2E_S1_StandardScaler(t *testing.T) {
	session := collection.NewInputSession[encoder.Row](keyOfRow)
	for i := int64(0); i < 10; i++ {
		session.Insert(collection.NewPair(value.RowID(i), value.NewInteger(i)))
	}
	out := settle(t, session, encoder.NewStandardScaler(), 1)

	const variance = 8.25
	for i := int64(0); i < 10; i++ {
		want := (float64(i) - 4.5) / variance
		got := outputFor(t, out, value.RowID(i)).AsFloat()
		require.InDelta(t, want, got, 1e-9)
	}
}

func TestE2E_S2_MinMaxScaler(t *testing.T) {
	session := collection.NewInputSession[encoder.Row](keyOfRow)
	for i := int64(0); i < 10; i++ {
		session.Insert(collection.NewPair(value.RowID(i), value.NewInteger(i%5)))
	}
	out := settle(t, session, encoder.NewMinMaxScaler(), 1)

	for i := int64(0); i < 10; i++ {
		want := float64(i%5) / 4.0
		got := outputFor(t, out, value.RowID(i)).AsFloat()
		require.InDelta(t, want, got, 1e-9)
	}
}

func TestE2E_S3_KBinsDiscretizer(t *testing.T) {
	session := collection.NewInputSession[encoder.Row](keyOfRow)
	for i := int64(0); i < 10; i++ {
		session.Insert(collection.NewPair(value.RowID(i), value.NewInteger(i%5)))
	}
	out := settle(t, session, encoder.NewKBinsDiscretizer(3), 1)

	wantBins := []int64{0, 0, 1, 2, 2, 0, 0, 1, 2, 2}
	for i := int64(0); i < 10; i++ {
		got := outputFor(t, out, value.RowID(i)).AsInteger()
		require.Equal(t, wantBins[i], got, "row %d", i)
	}
}

func TestE2E_S4_OneHotEncoder_CompactionOnRetract(t *testing.T) {
	session := collection.NewInputSession[encoder.Row](keyOfRow)
	letters := []string{"a", "b", "a", "c"}
	for i, s := range letters {
		session.Insert(collection.NewPair(value.RowID(i), value.NewText(s)))
	}
	enc := encoder.NewOneHotEncoder()
	out := settle(t, session, enc, 0)

	for i := range letters {
		vec := outputFor(t, out, value.RowID(i)).AsVec()
		require.Len(t, vec, 3)
		require.Equal(t, 1.0, sumVec(vec))
	}

	// Retract the single "c" row (row id 3) and settle the next epoch.
	session.Remove(collection.NewPair(value.RowID(3), value.NewText("c")))
	out = settle(t, session, enc, 1)

	for _, u := range out.Updates {
		if u.Data.Key == value.RowID(3) {
			t.Fatalf("row 3 should have been retracted, found %v", u)
		}
	}
	for _, i := range []int{0, 1, 2} {
		vec := outputFor(t, out, value.RowID(i)).AsVec()
		require.Len(t, vec, 2, "width should shrink to 2 after compaction")
		require.Equal(t, 1.0, sumVec(vec))
	}
}

func TestE2E_S5_CountVectorizer(t *testing.T) {
	session := collection.NewInputSession[encoder.Row](keyOfRow)
	session.Insert(collection.NewPair(value.RowID(0), value.NewText("the cat")))
	session.Insert(collection.NewPair(value.RowID(1), value.NewText("the dog")))
	enc := encoder.NewCountVectorizer()
	out := settle(t, session, enc, 0)

	row0 := outputFor(t, out, value.RowID(0)).AsVec()
	row1 := outputFor(t, out, value.RowID(1)).AsVec()
	require.Len(t, row0, 3)
	require.Equal(t, 2.0, sumVec(row0), "\"the cat\" contributes two distinct tokens")
	require.Equal(t, 2.0, sumVec(row1))

	// Repeated-token, non-binary mode: "the the" must yield a 2 at "the"'s slot.
	session2 := collection.NewInputSession[encoder.Row](keyOfRow)
	session2.Insert(collection.NewPair(value.RowID(0), value.NewText("the cat")))
	session2.Insert(collection.NewPair(value.RowID(1), value.NewText("the dog")))
	session2.Insert(collection.NewPair(value.RowID(2), value.NewText("the the")))
	enc2 := encoder.NewCountVectorizer()
	out2 := settle(t, session2, enc2, 0)
	row2 := outputFor(t, out2, value.RowID(2)).AsVec()
	require.Equal(t, 2.0, sumVec(row2))
}

func TestE2E_S6_MultiColumn(t *testing.T) {
	session := collection.NewInputSession[pipeline.Row](func(r pipeline.Row) string {
		return strconv.FormatUint(uint64(r.Key), 10)
	})
	for i := int64(0); i < 10; i++ {
		session.Insert(collection.NewPair(value.RowID(i), value.NewRow(value.NewInteger(i), value.NewInteger(i%2))))
	}

	mce := pipeline.NewMultiColumnEncoder(
		pipeline.ColumnConfig{ColumnIndex: 0, Encoder: encoder.NewStandardScaler()},
		pipeline.ColumnConfig{ColumnIndex: 1, Encoder: encoder.NewOneHotEncoder()},
	)

	session.AdvanceTo(1)
	worker := collection.NewWorker[pipeline.Row, pipeline.Output](
		func(in pipeline.RowCollection) pipeline.OutputCollection {
			require.NoError(t, mce.Fit(in))
			out, err := mce.Transform(in)
			require.NoError(t, err)
			return out
		},
		func(o pipeline.Output) string { return strconv.FormatUint(uint64(o.Key), 10) },
	)
	settled, _ := worker.Step(session.Snapshot())

	for _, u := range settled.Updates {
		require.Equal(t, 3, u.Data.Value.Len(), "1 scaled column + 2 one-hot slots")
		require.Equal(t, 1.0, sumVec(u.Data.Value.Elems()[1:]), "exactly one of the two one-hot slots is set")
	}
}

func sumVec(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}
