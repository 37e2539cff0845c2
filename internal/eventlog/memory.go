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

package eventlog

import (
	"context"
	"sync"
)

// MemoryEventLogger is an in-process, idempotent EventLogger backed by a
// map. It lets a demo or test select the event-log adapter without a real
// Redis or Kafka. Not for production use.
type MemoryEventLogger struct {
	mu      sync.Mutex
	applied map[string]bool
	log     []RowEvent
}

// NewMemoryEventLogger constructs an empty MemoryEventLogger.
func NewMemoryEventLogger() *MemoryEventLogger {
	return &MemoryEventLogger{applied: make(map[string]bool)}
}

// AppendBatch records every event whose EventID has not already been seen;
// duplicates are silently skipped.
func (m *MemoryEventLogger) AppendBatch(ctx context.Context, events []RowEvent) error {
	if err := validate(events); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range events {
		if m.applied[e.EventID] {
			continue
		}
		m.applied[e.EventID] = true
		m.log = append(m.log, e)
	}
	return nil
}

// Events returns every event recorded so far, in append order. The returned
// slice must not be mutated.
func (m *MemoryEventLogger) Events() []RowEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RowEvent, len(m.log))
	copy(out, m.log)
	return out
}
