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

package stripedcounter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterSequentialAdd(t *testing.T) {
	c := NewWithStripes(4)
	c.Add(3)
	c.Add(-1)
	c.Add(10)
	require.Equal(t, int64(12), c.Sum())
}

func TestCounterConcurrentAddSumsExactly(t *testing.T) {
	c := New()
	const goroutines = 50
	const perGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(goroutines*perGoroutine), c.Sum())
}

func TestCounterReset(t *testing.T) {
	c := NewWithStripes(8)
	c.Add(42)
	c.Reset()
	require.Equal(t, int64(0), c.Sum())
}

func TestNewWithStripesRoundsUpToPowerOfTwo(t *testing.T) {
	c := NewWithStripes(5)
	require.Equal(t, uint64(7), c.mask, "5 clamped to [8,64] then rounded to next pow2 is 8, mask is 7")
}
