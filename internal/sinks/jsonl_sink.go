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

// Package sinks provides append-only output sinks for the encoded feature
// matrix (row id, DenseVector) a MultiColumnEncoder produces.
package sinks

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"time"

	"diffenc/pipeline"
)

// Record is the JSONL-serializable shape of one MultiColumnEncoder output.
type Record struct {
	RowID  uint64    `json:"row_id"`
	Diff   int64     `json:"diff"`
	Vector []float64 `json:"vector"`
}

// JSONLSink appends encoded feature vectors to a JSONL file for audit and
// offline replay, periodically auto-flushing so a crash loses at most one
// flush interval of output.
type JSONLSink struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	path string

	flushEvery time.Duration
	lastFlush  time.Time
}

// NewJSONLSink opens (creating if necessary) path in append mode. flushEvery
// <= 0 defaults to 100ms, matching this package's file-sink precedent.
func NewJSONLSink(path string, flushEvery time.Duration) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	if flushEvery <= 0 {
		flushEvery = 100 * time.Millisecond
	}
	return &JSONLSink{
		f: f, w: bufio.NewWriterSize(f, 1<<20), path: path,
		flushEvery: flushEvery, lastFlush: time.Now(),
	}, nil
}

// Append writes one output record per update in u, auto-flushing if
// flushEvery has elapsed since the last flush.
func (s *JSONLSink) Append(u pipeline.OutputCollection) {
	if len(u.Updates) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := json.NewEncoder(s.w)
	for _, upd := range u.Updates {
		rec := Record{RowID: uint64(upd.Data.Key), Diff: upd.Diff, Vector: upd.Data.Value.Elems()}
		_ = enc.Encode(&rec)
	}
	s.maybeFlush()
}

func (s *JSONLSink) maybeFlush() {
	if time.Since(s.lastFlush) > s.flushEvery {
		_ = s.w.Flush()
		s.lastFlush = time.Now()
	}
}

// Flush forces any buffered output to disk.
func (s *JSONLSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFlush = time.Now()
	return s.w.Flush()
}

// Close flushes and closes the underlying file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.w.Flush()
	return s.f.Close()
}

// ReadAll reads every record from path, for offline inspection or replay.
func ReadAll(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []Record
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 1<<20)
	scanner.Buffer(buf, 1<<26)
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err == nil {
			out = append(out, r)
		}
	}
	return out, scanner.Err()
}
