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

// Worker drives a single dataflow built as a pure function from an input
// Collection to an output Collection, re-evaluating it each time the
// driver asks it to Step, and exposing the edge between two settled epochs
// as a diff so callers can Inspect only what changed rather than the whole
// output every time.
type Worker[In, Out any] struct {
	dataflow func(Collection[In]) Collection[Out]
	outKeyOf func(Out) string

	lastSettled map[string]Update[Out]
}

// NewWorker constructs a Worker around a dataflow description. outKeyOf
// must return a stable identity string for an output record, used to diff
// consecutive settled snapshots.
func NewWorker[In, Out any](dataflow func(Collection[In]) Collection[Out], outKeyOf func(Out) string) *Worker[In, Out] {
	return &Worker[In, Out]{dataflow: dataflow, outKeyOf: outKeyOf, lastSettled: make(map[string]Update[Out])}
}

// Step evaluates the dataflow against the given input snapshot and returns
// the output collection at this settled time, plus the incremental diff
// (insertions/retractions) relative to the previous call to Step.
func (w *Worker[In, Out]) Step(input Collection[In]) (settled Collection[Out], diff Collection[Out]) {
	settled = w.dataflow(input)

	current := make(map[string]Update[Out], len(settled.Updates))
	for _, u := range settled.Updates {
		current[w.outKeyOf(u.Data)] = u
	}

	var diffUpdates []Update[Out]
	for k, u := range current {
		prev, ok := w.lastSettled[k]
		if !ok {
			diffUpdates = append(diffUpdates, u)
			continue
		}
		if delta := u.Diff - prev.Diff; delta != 0 {
			diffUpdates = append(diffUpdates, Update[Out]{Data: u.Data, Diff: delta})
		}
	}
	for k, prev := range w.lastSettled {
		if _, ok := current[k]; !ok {
			diffUpdates = append(diffUpdates, Update[Out]{Data: prev.Data, Diff: -prev.Diff})
		}
	}

	w.lastSettled = current
	return settled, Collection[Out]{Updates: diffUpdates}
}

// StepWhile repeatedly calls pull (which should advance the input session
// and report whether more epochs remain) and Step, until pull returns
// false. Every settled/diff pair is handed to onSettle in order.
func (w *Worker[In, Out]) StepWhile(pull func() (Collection[In], bool), onSettle func(settled, diff Collection[Out])) {
	for {
		input, more := pull()
		if !more {
			return
		}
		settled, diff := w.Step(input)
		if onSettle != nil {
			onSettle(settled, diff)
		}
	}
}

// Probe tracks the most recently observed settled epoch, so driver code can
// poll whether a given epoch's output has fully arrived without blocking.
type Probe struct {
	frontier int64
}

// Advance records that epoch has settled.
func (p *Probe) Advance(epoch int64) {
	if epoch > p.frontier {
		p.frontier = epoch
	}
}

// Done reports whether epoch has settled (is at or behind the probe's
// frontier).
func (p *Probe) Done(epoch int64) bool { return epoch <= p.frontier }

// Frontier returns the most recently advanced-to epoch.
func (p *Probe) Frontier() int64 { return p.frontier }
