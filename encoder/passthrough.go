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

import "diffenc/value"

// Passthrough has a no-op fit and forwards its input unchanged.
type Passthrough struct{}

// NewPassthrough constructs a Passthrough encoder.
func NewPassthrough() *Passthrough { return &Passthrough{} }

// Fit is a no-op.
func (Passthrough) Fit(data Collection) error { return nil }

// Transform clones the input.
func (Passthrough) Transform(data Collection) (Collection, error) {
	return mapRows(data, func(v value.RowValue) (value.RowValue, error) { return v, nil })
}

// FunctionEncoder has a no-op fit and applies a pure, deterministic
// user-defined function to each value. The function must be deterministic;
// incremental maintenance is ill-defined otherwise, since the same input
// observed at two different times must transform identically.
type FunctionEncoder struct {
	Func func(value.RowValue) (value.RowValue, error)
}

// NewFunctionEncoder constructs a FunctionEncoder around fn.
func NewFunctionEncoder(fn func(value.RowValue) (value.RowValue, error)) *FunctionEncoder {
	return &FunctionEncoder{Func: fn}
}

// Fit is a no-op.
func (f *FunctionEncoder) Fit(data Collection) error { return nil }

// Transform applies Func to every row's value.
func (f *FunctionEncoder) Transform(data Collection) (Collection, error) {
	return mapRows(data, f.Func)
}
