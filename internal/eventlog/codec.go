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
	"encoding/json"
	"fmt"

	"diffenc/value"
)

// wireValue is the JSON-serializable shape of a value.RowValue, used by
// every durable adapter in this package. RowValue itself exposes no
// serialization: encoding a row value is a persistence-layer concern, not a
// value-model one.
type wireValue struct {
	Kind string    `json:"kind"`
	I    int64     `json:"i,omitempty"`
	F    float64   `json:"f,omitempty"`
	S    string    `json:"s,omitempty"`
	V    []float64 `json:"v,omitempty"`
}

func toWire(v value.RowValue) wireValue {
	switch v.Kind() {
	case value.Integer:
		return wireValue{Kind: "int", I: v.AsInteger()}
	case value.Float:
		return wireValue{Kind: "float", F: v.AsFloat()}
	case value.Text:
		return wireValue{Kind: "text", S: v.AsText()}
	case value.Vec:
		return wireValue{Kind: "vec", V: v.AsVec()}
	default:
		return wireValue{Kind: "unknown"}
	}
}

func fromWire(w wireValue) (value.RowValue, error) {
	switch w.Kind {
	case "int":
		return value.NewInteger(w.I), nil
	case "float":
		return value.NewFloat(w.F), nil
	case "text":
		return value.NewText(w.S), nil
	case "vec":
		return value.NewVec(w.V), nil
	default:
		return value.RowValue{}, fmt.Errorf("eventlog: unknown wire kind %q", w.Kind)
	}
}

// wireEvent is the full JSON-serializable shape of a RowEvent.
type wireEvent struct {
	RowID   uint64    `json:"row_id"`
	Value   wireValue `json:"value"`
	Diff    int64     `json:"diff"`
	EventID string    `json:"event_id"`
}

func encodeEvent(e RowEvent) ([]byte, error) {
	return json.Marshal(wireEvent{
		RowID:   uint64(e.RowID),
		Value:   toWire(e.Value),
		Diff:    e.Diff,
		EventID: e.EventID,
	})
}

func decodeEvent(b []byte) (RowEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return RowEvent{}, fmt.Errorf("eventlog: decode event: %w", err)
	}
	v, err := fromWire(w.Value)
	if err != nil {
		return RowEvent{}, err
	}
	return RowEvent{RowID: value.RowID(w.RowID), Value: v, Diff: w.Diff, EventID: w.EventID}, nil
}
