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

// Package encoder implements the column-encoder contract and the eleven
// concrete encoders: StandardScaler, MinMaxScaler, KBinsDiscretizer,
// OrdinalEncoder, OneHotEncoder, CountVectorizer, HashVectorizer,
// TfidfTransformer, PolynomialFeaturesEncoder, Passthrough, and
// FunctionEncoder.
package encoder

import (
	"errors"
	"fmt"

	"diffenc/collection"
	"diffenc/value"
)

// ErrNotFitted is returned by Transform when called before Fit, the fatal
// contract violation spec.md names explicitly.
var ErrNotFitted = errors.New("encoder: transform called before fit")

// ErrWrongVariant is returned when an encoder is applied to a RowValue of a
// variant it cannot operate on (e.g. CountVectorizer on an Integer).
var ErrWrongVariant = errors.New("encoder: wrong RowValue variant for this encoder")

// ErrEmptyConfig is returned when a composition is given an empty encoder
// list.
var ErrEmptyConfig = errors.New("encoder: empty configuration")

// ErrUnsupportedMultivariate is returned by PolynomialFeaturesEncoder when
// given vector-valued input; multivariate polynomial expansion is an
// explicit non-goal (SPEC_FULL.md Open Question #2), not a guessed-at
// extension.
var ErrUnsupportedMultivariate = errors.New("encoder: multivariate input not supported")

// Row is the (row id, value) record every ColumnEncoder consumes and
// produces. Output records may be a scalar RowValue (Integer/Float) or a
// Vec-kind RowValue standing in for a DenseVector — spec.md §4.4 defines
// transform's output as "RowValue|DenseVector"; representing both through
// RowValue's existing Vec variant lets encoders chain in a Pipeline without
// a separate sum type, and keeps with the resolved open question that a
// scalar is just a length-1 vector wherever it matters (ToDenseVector
// below performs that promotion explicitly, once, at the boundary that
// needs it).
type Row = collection.Pair[value.RowID, value.RowValue]

// Collection is the differential collection every ColumnEncoder method
// operates against.
type Collection = collection.Collection[Row]

// ToDenseVector promotes a RowValue to a value.DenseVector: a Vec-kind
// RowValue is returned as-is, any numeric RowValue is promoted to a
// length-1 vector. Panics on Text, matching the "fatal contract violation"
// classification for feeding a non-numeric, non-vector value where a dense
// feature is expected.
func ToDenseVector(v value.RowValue) value.DenseVector {
	switch v.Kind() {
	case value.Vec:
		return value.NewVector(v.AsVec()...)
	case value.Integer, value.Float:
		return value.NewScalar(v.AsFloat())
	default:
		panic(fmt.Sprintf("encoder: ToDenseVector on unsupported kind %s", v.Kind()))
	}
}

// FromDenseVector wraps a DenseVector as a Vec-kind RowValue.
func FromDenseVector(d value.DenseVector) value.RowValue { return value.NewVec(d.Elems()) }

// ColumnEncoder is the fit/transform contract every encoder satisfies.
//
// Fit consumes a differential collection of (row id, RowValue) and installs
// or updates the encoder's internal meta. Transform is defined only after
// Fit and joins the given data against that meta, emitting one output
// record per input record. Both methods take an already-settled snapshot
// (this module's collection package is a recompute-on-snapshot engine, not
// a pushed streaming one — see DESIGN.md) rather than returning a lazy
// dataflow description; callers drive re-evaluation by calling Fit/Transform
// again each time the input's settled snapshot changes.
type ColumnEncoder interface {
	Fit(data Collection) error
	Transform(data Collection) (Collection, error)
}

func rowKey(r Row) string { return fmt.Sprintf("%d", r.Key) }

// mapRows applies f to every record's value, preserving row id and
// multiplicity, and stops at the first error so a wrong-variant input
// surfaces as a transform-time error rather than a partial result.
func mapRows(data Collection, f func(value.RowValue) (value.RowValue, error)) (Collection, error) {
	out := make([]collection.Update[Row], 0, len(data.Updates))
	for _, u := range data.Updates {
		v, err := f(u.Data.Value)
		if err != nil {
			return Collection{}, err
		}
		out = append(out, collection.Update[Row]{Data: collection.NewPair(u.Data.Key, v), Diff: u.Diff})
	}
	return Collection{Updates: out}, nil
}

// consolidate merges duplicate (row id) entries in a Collection, summing
// multiplicities. Encoders call this on their input before fitting/
// transforming so retractions that exactly cancel an earlier insertion
// within the same snapshot disappear rather than leaking a phantom
// zero-multiplicity record downstream.
func consolidate(c Collection) Collection {
	return collection.ConsolidateBy(c, rowKey)
}

// validateNumeric returns ErrWrongVariant if any record's value is not
// Integer or Float. StandardScaler and MinMaxScaler's Fit call this before
// building an aggregate over AsFloat(), mirroring validateHashable's role
// guarding OrdinalEncoder/OneHotEncoder's Fit: a wrong
// variant must surface as a typed error, matching this package's own
// Transform (never panic for a condition the caller can reasonably hit).
func validateNumeric(data Collection) error {
	for _, u := range data.Updates {
		if !u.Data.Value.Numeric() {
			return fmt.Errorf("encoder: %w: value kind %s is not numeric", ErrWrongVariant, u.Data.Value.Kind())
		}
	}
	return nil
}
