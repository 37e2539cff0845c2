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

// Package sharding assigns row ids to one of a fixed set of driver worker
// goroutines (each of which advances its own epochs independently) via
// rendezvous (highest random weight)
// hashing: a row id's assigned worker is the same regardless of how many
// other row ids currently exist, and adding or removing a worker only
// reshuffles the rows that hashed to that worker, not the whole keyspace —
// unlike a plain mod-N partition, which reassigns nearly every key whenever
// N changes.
package sharding

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/dgryski/go-rendezvous"
)

// Assigner maps row ids to worker names using rendezvous hashing.
type Assigner struct {
	r       *rendezvous.Rendezvous
	workers []string
}

// NewAssigner constructs an Assigner over workerCount workers, named
// "worker-0".."worker-(n-1)". workerCount must be >= 1.
func NewAssigner(workerCount int) (*Assigner, error) {
	if workerCount < 1 {
		return nil, fmt.Errorf("sharding: worker count must be >= 1, got %d", workerCount)
	}
	workers := make([]string, workerCount)
	for i := range workers {
		workers[i] = "worker-" + strconv.Itoa(i)
	}
	return &Assigner{
		r:       rendezvous.New(workers, hashString),
		workers: workers,
	}, nil
}

// WorkerFor returns the worker name a given row id is assigned to.
func (a *Assigner) WorkerFor(rowID uint64) string {
	return a.r.Lookup(strconv.FormatUint(rowID, 10))
}

// WorkerIndexFor returns the 0-based index of the worker a row id is
// assigned to, suitable for indexing directly into a slice of worker
// channels.
func (a *Assigner) WorkerIndexFor(rowID uint64) int {
	name := a.WorkerFor(rowID)
	for i, w := range a.workers {
		if w == name {
			return i
		}
	}
	// unreachable: Lookup only ever returns a name from the node set it
	// was constructed with.
	return 0
}

// WorkerCount reports the number of workers this Assigner was built with.
func (a *Assigner) WorkerCount() int { return len(a.workers) }

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
