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

// Package eventlog provides idempotent persistence adapters for the row
// mutation events (insert/retract) an InputSession accepts, so a driver can
// replay a dataflow's input from durable storage after a crash without
// double-applying an event a retried write already recorded.
package eventlog

import (
	"context"
	"errors"

	"diffenc/value"
)

// ErrMissingEventID is returned when a RowEvent lacks the idempotency key
// every adapter requires.
var ErrMissingEventID = errors.New("eventlog: RowEvent.EventID must be set")

// RowEvent is the durable shape of a single InputSession mutation: inserting
// or retracting Value at RowID, with Diff carrying the signed multiplicity
// (usually +1 or -1, but any nonzero value is legal — see InputSession).
// EventID is a globally unique idempotency key; replaying the same EventID
// for the same RowID must be a no-op.
type RowEvent struct {
	RowID   value.RowID
	Value   value.RowValue
	Diff    int64
	EventID string
}

// EventLogger durably records a batch of RowEvents. Implementations must
// make applying the same EventID for the same RowID idempotent: a retried
// append (after a crash or timeout) must not double-apply.
type EventLogger interface {
	AppendBatch(ctx context.Context, events []RowEvent) error
}

func validate(events []RowEvent) error {
	for _, e := range events {
		if e.EventID == "" {
			return ErrMissingEventID
		}
	}
	return nil
}
