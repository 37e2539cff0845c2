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

// Package pipeline composes single-column encoders sequentially and
// multiple columns in parallel, per spec.md §4.6/§4.7.
package pipeline

import (
	"fmt"

	"diffenc/encoder"
)

// Pipeline sequentially stacks encoders on a single column: e1...en. Fit
// threads data through fit-then-transform one stage at a time, so stage i+1
// fits on stage i's transformed output; Transform replays the stored
// transforms in the same order. Pipeline itself satisfies
// encoder.ColumnEncoder, so a Pipeline can be nested as one entry of a
// MultiColumnEncoder's configuration (e.g. MinMaxScaler followed by
// KBinsDiscretizer on a single numeric column).
type Pipeline struct {
	Stages []encoder.ColumnEncoder

	fitted bool
}

// NewPipeline constructs a Pipeline over the given stages, in order.
func NewPipeline(stages ...encoder.ColumnEncoder) *Pipeline {
	return &Pipeline{Stages: stages}
}

// Fit threads data through every stage's fit-then-transform in sequence.
func (p *Pipeline) Fit(data encoder.Collection) error {
	if len(p.Stages) == 0 {
		return encoder.ErrEmptyConfig
	}
	cur := data
	for i, stage := range p.Stages {
		if err := stage.Fit(cur); err != nil {
			return fmt.Errorf("pipeline: stage %d fit: %w", i, err)
		}
		next, err := stage.Transform(cur)
		if err != nil {
			return fmt.Errorf("pipeline: stage %d transform during fit: %w", i, err)
		}
		cur = next
	}
	p.fitted = true
	return nil
}

// Transform replays each stage's stored transform in order. Stage i's
// output variant must be a legal input for stage i+1; a mismatch surfaces
// as the stage's own wrong-variant error rather than anything Pipeline adds.
func (p *Pipeline) Transform(data encoder.Collection) (encoder.Collection, error) {
	if !p.fitted {
		return encoder.Collection{}, encoder.ErrNotFitted
	}
	cur := data
	for i, stage := range p.Stages {
		next, err := stage.Transform(cur)
		if err != nil {
			return encoder.Collection{}, fmt.Errorf("pipeline: stage %d transform: %w", i, err)
		}
		cur = next
	}
	return cur, nil
}
