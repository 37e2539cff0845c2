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

// Group is the commutative-group contract a ThresholdWith difference type
// must satisfy: a zero element, a mutating PlusEquals, IsZero, and Negate.
// aggregate.VarianceAggregate and friends (via pointer receiver) satisfy
// this for some concrete D.
type Group[D any] interface {
	PlusEquals(other D)
	IsZero() bool
	Negate() D
}

// Weighted pairs a value with the multiplicity it carries into a Reduce
// callback.
type Weighted[V any] struct {
	Value V
	Diff  int64
}

// Join equi-joins a and b on their shared key K, emitting combine(key, a, b)
// for every (a-copy, b-copy) pair sharing a key, with multiplicity equal to
// the product of the two contributing multiplicities (the usual bilinear
// differential join semantics: retracting either side retracts every joined
// output it participated in).
func Join[K comparable, A, B, R any](a Collection[Pair[K, A]], b Collection[Pair[K, B]], combine func(key K, av A, bv B) R) Collection[Pair[K, R]] {
	leftByKey := make(map[K][]Update[A])
	for _, u := range a.Updates {
		leftByKey[u.Data.Key] = append(leftByKey[u.Data.Key], Update[A]{Data: u.Data.Value, Diff: u.Diff})
	}
	out := make([]Update[Pair[K, R]], 0)
	for _, u := range b.Updates {
		lefts, ok := leftByKey[u.Data.Key]
		if !ok {
			continue
		}
		for _, l := range lefts {
			out = append(out, Update[Pair[K, R]]{
				Data: NewPair(u.Data.Key, combine(u.Data.Key, l.Data, u.Data.Value)),
				Diff: l.Diff * u.Diff,
			})
		}
	}
	return Collection[Pair[K, R]]{Updates: out}
}

// AntiJoin keeps only the records of a whose key has a non-positive net
// multiplicity in excludeKeys (i.e. is not currently "present" there).
// Typical use: the unmatched branch of a left join, concatenated back with
// Join's matched branch (spec.md's OrdinalEncoder/OneHotEncoder transform).
func AntiJoin[K comparable, V any](a Collection[Pair[K, V]], excludeKeys Collection[K]) Collection[Pair[K, V]] {
	net := make(map[K]int64, len(excludeKeys.Updates))
	for _, u := range excludeKeys.Updates {
		net[u.Data] += u.Diff
	}
	out := make([]Update[Pair[K, V]], 0, len(a.Updates))
	for _, u := range a.Updates {
		if net[u.Data.Key] <= 0 {
			out = append(out, u)
		}
	}
	return Collection[Pair[K, V]]{Updates: out}
}

// Distinct collapses a collection of comparable records to multiplicity 1
// for every record whose net multiplicity is positive, dropping the rest.
func Distinct[T comparable](c Collection[T]) Collection[T] {
	net := make(map[T]int64, len(c.Updates))
	order := make([]T, 0, len(c.Updates))
	for _, u := range c.Updates {
		if _, seen := net[u.Data]; !seen {
			order = append(order, u.Data)
		}
		net[u.Data] += u.Diff
	}
	out := make([]Update[T], 0, len(order))
	for _, d := range order {
		if net[d] > 0 {
			out = append(out, Update[T]{Data: d, Diff: 1})
		}
	}
	return Collection[T]{Updates: out}
}

// Count sums multiplicities per key, emitting (key, net) for every key with
// nonzero net multiplicity.
func Count[K comparable, V any](c Collection[Pair[K, V]]) Collection[Pair[K, int64]] {
	net := make(map[K]int64, len(c.Updates))
	order := make([]K, 0, len(c.Updates))
	for _, u := range c.Updates {
		if _, seen := net[u.Data.Key]; !seen {
			order = append(order, u.Data.Key)
		}
		net[u.Data.Key] += u.Diff
	}
	out := make([]Update[Pair[K, int64]], 0, len(order))
	for _, k := range order {
		if n := net[k]; n != 0 {
			out = append(out, Update[Pair[K, int64]]{Data: NewPair(k, n), Diff: 1})
		}
	}
	return Collection[Pair[K, int64]]{Updates: out}
}

// ThresholdWith groups c by key and, for every key, folds every (value,
// multiplicity) contribution through singleton and D.PlusEquals into a
// single aggregate D, emitting (key, D) with multiplicity 1 whenever the
// folded D is not the group's zero element. This is the operator every
// aggregate in the aggregate package is designed to be a difference type
// for.
func ThresholdWith[K comparable, V any, D Group[D]](c Collection[Pair[K, V]], singleton func(value V, multiplicity int64) D) Collection[Pair[K, D]] {
	type acc struct {
		d       D
		started bool
	}
	byKey := make(map[K]*acc)
	order := make([]K, 0)
	for _, u := range c.Updates {
		a, ok := byKey[u.Data.Key]
		if !ok {
			order = append(order, u.Data.Key)
			a = &acc{}
			byKey[u.Data.Key] = a
		}
		delta := singleton(u.Data.Value, u.Diff)
		if !a.started {
			a.d = delta
			a.started = true
		} else {
			a.d.PlusEquals(delta)
		}
	}
	out := make([]Update[Pair[K, D]], 0, len(order))
	for _, k := range order {
		a := byKey[k]
		if a.started && !a.d.IsZero() {
			out = append(out, Update[Pair[K, D]]{Data: NewPair(k, a.d), Diff: 1})
		}
	}
	return Collection[Pair[K, D]]{Updates: out}
}

// Reduce groups c by key and calls f once per key with every (value,
// multiplicity) pair contributed under that key, in arrival order. f
// returns the weighted output records to emit for that key.
func Reduce[K comparable, V, R any](c Collection[Pair[K, V]], f func(key K, values []Weighted[V]) []Weighted[R]) Collection[Pair[K, R]] {
	byKey := make(map[K][]Weighted[V])
	order := make([]K, 0)
	for _, u := range c.Updates {
		if _, ok := byKey[u.Data.Key]; !ok {
			order = append(order, u.Data.Key)
		}
		byKey[u.Data.Key] = append(byKey[u.Data.Key], Weighted[V]{Value: u.Data.Value, Diff: u.Diff})
	}
	out := make([]Update[Pair[K, R]], 0)
	for _, k := range order {
		for _, w := range f(k, byKey[k]) {
			out = append(out, Update[Pair[K, R]]{Data: NewPair(k, w.Value), Diff: w.Diff})
		}
	}
	return Collection[Pair[K, R]]{Updates: out}
}
