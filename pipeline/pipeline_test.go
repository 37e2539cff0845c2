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

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"diffenc/collection"
	"diffenc/encoder"
	"diffenc/value"
)

func rowsOf(rows ...value.Row) RowCollection {
	updates := make([]collection.Update[Row], len(rows))
	for i, r := range rows {
		updates[i] = collection.Update[Row]{Data: collection.NewPair(value.RowID(i), r), Diff: 1}
	}
	return RowCollection{Updates: updates}
}

func outputVec(t *testing.T, out OutputCollection, rowID value.RowID) value.DenseVector {
	t.Helper()
	for _, u := range out.Updates {
		if u.Data.Key == rowID {
			return u.Data.Value
		}
	}
	t.Fatalf("no output for row %d", rowID)
	return value.DenseVector{}
}

func TestMultiColumnEncoderS6(t *testing.T) {
	rows := make([]value.Row, 10)
	for i := 0; i < 10; i++ {
		rows[i] = value.NewRow(value.NewInteger(int64(i)), value.NewInteger(int64(i%2)))
	}
	data := rowsOf(rows...)

	m := NewMultiColumnEncoder(
		ColumnConfig{ColumnIndex: 0, Encoder: encoder.NewStandardScaler()},
		ColumnConfig{ColumnIndex: 1, Encoder: encoder.NewOneHotEncoder()},
	)
	require.NoError(t, m.Fit(data))
	out, err := m.Transform(data)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		vec := outputVec(t, out, value.RowID(i))
		require.Equal(t, 3, vec.Len(), "row %d: 1 scaled numeric slot + 2 one-hot slots", i)

		want := (float64(i) - 4.5) / 8.25
		require.InDelta(t, want, vec.At(0), 1e-9)

		ones := 0
		for j := 1; j < 3; j++ {
			if vec.At(j) == 1.0 {
				ones++
			} else {
				require.Equal(t, 0.0, vec.At(j))
			}
		}
		require.Equal(t, 1, ones, "row %d must have exactly one hot slot set", i)
	}
}

func TestMultiColumnEncoderEmptyConfigIsFatal(t *testing.T) {
	m := NewMultiColumnEncoder()
	err := m.Fit(rowsOf(value.NewRow(value.NewInteger(1))))
	require.ErrorIs(t, err, encoder.ErrEmptyConfig)
}

func TestMultiColumnEncoderTransformBeforeFit(t *testing.T) {
	m := NewMultiColumnEncoder(ColumnConfig{ColumnIndex: 0, Encoder: encoder.NewPassthrough()})
	_, err := m.Transform(rowsOf(value.NewRow(value.NewInteger(1))))
	require.ErrorIs(t, err, encoder.ErrNotFitted)
}

func TestPipelineSequentialStaging(t *testing.T) {
	data := func() encoder.Collection {
		vals := make([]value.RowValue, 10)
		for i := range vals {
			vals[i] = value.NewInteger(int64(i % 5))
		}
		updates := make([]collection.Update[encoder.Row], len(vals))
		for i, v := range vals {
			updates[i] = collection.Update[encoder.Row]{Data: collection.NewPair(value.RowID(i), v), Diff: 1}
		}
		return encoder.Collection{Updates: updates}
	}()

	p := NewPipeline(encoder.NewMinMaxScaler(), encoder.NewKBinsDiscretizer(3))
	require.NoError(t, p.Fit(data))
	out, err := p.Transform(data)
	require.NoError(t, err)

	expected := []int64{0, 0, 1, 2, 2, 0, 0, 1, 2, 2}
	for _, u := range out.Updates {
		require.Equal(t, expected[u.Data.Key], u.Data.Value.AsInteger())
	}
}

func TestPipelineEmptyStagesIsFatal(t *testing.T) {
	p := NewPipeline()
	err := p.Fit(encoder.Collection{})
	require.ErrorIs(t, err, encoder.ErrEmptyConfig)
}

func TestPipelineTransformBeforeFit(t *testing.T) {
	p := NewPipeline(encoder.NewPassthrough())
	_, err := p.Transform(encoder.Collection{})
	require.ErrorIs(t, err, encoder.ErrNotFitted)
}
