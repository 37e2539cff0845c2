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

// Package main provides a runnable demonstration of the encoder core: it
// partitions a synthetic (or file-backed, via -rows_csv) stream of rows
// across N rendezvous-hashed shard workers, each advancing its own
// MultiColumnEncoder on its own epoch ticker, and serves /metrics and a
// debug /state endpoint describing the most recently settled output per
// shard.
//
// What this is: a column-oriented feature encoder built on a small
// differential-dataflow core (see the collection package). Each column gets
// its own encoder (StandardScaler, OneHotEncoder, ...); MultiColumnEncoder
// fits and transforms every column in parallel and concatenates the results
// into one dense feature vector per row, in configured order. The driver
// fans that work out across a fixed set of worker goroutines: row ids are
// assigned to shards by rendezvous hashing (internal/sharding) so a shard's
// assignment doesn't reshuffle as rows arrive, and each shard owns an
// independent collection.InputSession/collection.Worker pair rather than
// sharing one across goroutines. Shards do not share a logical clock: each
// one advances its own epoch counter on its own ticker.
//
// How to try it quickly:
//
//	go run ./cmd/encoder-demo -rows 200 -workers 4 -http_addr :8080 -metrics_addr :9090
//	curl http://localhost:8080/state
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"diffenc/collection"
	"diffenc/encoder"
	"diffenc/internal/eventlog"
	"diffenc/internal/sharding"
	"diffenc/internal/sinks"
	"diffenc/internal/telemetry/encodermetrics"
	"diffenc/internal/telemetry/stripedcounter"
	"diffenc/pipeline"
	"diffenc/value"
)

func main() {
	rows := flag.Int("rows", 200, "Number of synthetic rows to generate (ignored if -rows_csv is set)")
	rowsCSV := flag.String("rows_csv", "", "Path to a 2-column CSV (numeric, category) to ingest instead of synthetic rows")
	workers := flag.Int("workers", 4, "Number of rendezvous-hashed shard workers to assign row ids to")
	epochInterval := flag.Duration("epoch_interval", 200*time.Millisecond, "How often each shard advances its epoch and re-fits/transforms")
	httpAddr := flag.String("http_addr", ":8080", "HTTP listen address for the debug /state endpoint")
	metricsAddr := flag.String("metrics_addr", "", "If non-empty, expose Prometheus /metrics on this address (e.g. :9090)")
	metricsEnabled := flag.Bool("metrics", false, "Enable in-process encoder telemetry (opt-in)")
	sinkPath := flag.String("sink_path", "", "If non-empty, append every settled output vector to this JSONL file")
	flag.Parse()

	encodermetrics.Enable(encodermetrics.Config{Enabled: *metricsEnabled, MetricsAddr: *metricsAddr})

	assigner, err := sharding.NewAssigner(*workers)
	if err != nil {
		log.Fatalf("sharding: %v", err)
	}

	source, err := loadRows(*rowsCSV, *rows)
	if err != nil {
		log.Fatalf("loading rows: %v", err)
	}

	var sink *sinks.JSONLSink
	if *sinkPath != "" {
		sink, err = sinks.NewJSONLSink(*sinkPath, 0)
		if err != nil {
			log.Fatalf("opening sink: %v", err)
		}
		defer sink.Close()
	}

	// eventLog and sink are shared across shards: both guard their own state
	// with a mutex internally, so concurrent shard goroutines calling into
	// them is the intended usage, not a race to paper over.
	eventLog := eventlog.NewMemoryEventLogger()

	// rowsIngested is the one place this driver would otherwise reach for a
	// single contended atomic.Int64 shared by every shard goroutine's ingest
	// path; striping it across cache-line-padded stripes (internal/telemetry/
	// stripedcounter) avoids that cache-line ping-pong the way the teacher's
	// own striped-atomic counters do.
	rowsIngested := stripedcounter.New()

	state := newStateHandler(*workers)

	shards := make([]*shardWorker, *workers)
	for i := range shards {
		shards[i] = newShardWorker(i, rowsIngested)
	}

	mux := http.NewServeMux()
	mux.Handle("/state", state)
	httpServer := &http.Server{Addr: *httpAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Printf("encoder demo debug server listening on %s\n", *httpAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("debug server: %w", err)
		}
		return nil
	})

	// feeder assigns each source row to its shard via rendezvous hashing and
	// delivers it over that shard's inbox channel; it never touches a
	// shard's session or worker directly, so every shard's collection.Worker
	// is only ever driven by its own goroutine below.
	g.Go(func() error {
		defer func() {
			for _, sh := range shards {
				close(sh.inbox)
			}
		}()
		idx := 0
		for idx < len(source) {
			select {
			case <-gCtx.Done():
				return nil
			default:
			}
			batch := nextBatch(source, &idx, *workers)
			for _, r := range batch {
				shardIdx := assigner.WorkerIndexFor(uint64(r.Key))
				select {
				case shards[shardIdx].inbox <- r:
				case <-gCtx.Done():
					return nil
				}
			}
		}
		return nil
	})

	for _, sh := range shards {
		g.Go(func() error {
			return sh.run(gCtx, *epochInterval, eventLog, sink, state)
		})
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	if err := g.Wait(); err != nil {
		log.Fatalf("encoder demo: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	fmt.Printf("encoder demo stopped; %d rows ingested across %d shards.\n", rowsIngested.Sum(), *workers)
}

// shardWorker owns one shard's entire pipeline: its own InputSession, its
// own MultiColumnEncoder (fitted independently of every other shard, since
// rows never cross shard boundaries), and its own collection.Worker and
// Probe. Each shardWorker.run is driven by exactly one goroutine, matching
// SPEC_FULL.md §5's "each worker goroutine owns its own collection.Worker
// instance."
type shardWorker struct {
	id    int
	inbox chan pipeline.Row

	session *collection.InputSession[pipeline.Row]
	worker  *collection.Worker[pipeline.Row, pipeline.Output]
	probe   collection.Probe

	rowsIngested *stripedcounter.Counter
}

func newShardWorker(id int, rowsIngested *stripedcounter.Counter) *shardWorker {
	mce := pipeline.NewMultiColumnEncoder(
		pipeline.ColumnConfig{ColumnIndex: 0, Encoder: encoder.NewStandardScaler()},
		pipeline.ColumnConfig{ColumnIndex: 1, Encoder: encoder.NewOneHotEncoder()},
	)

	session := collection.NewInputSession[pipeline.Row](func(r pipeline.Row) string {
		return strconv.FormatUint(uint64(r.Key), 10)
	})

	worker := collection.NewWorker[pipeline.Row, pipeline.Output](
		func(in collection.Collection[pipeline.Row]) collection.Collection[pipeline.Output] {
			if err := mce.Fit(in); err != nil {
				encodermetrics.ObserveEncodeError("MultiColumnEncoder")
				log.Printf("shard %d: fit error: %v", id, err)
				return collection.Collection[pipeline.Output]{}
			}
			out, err := mce.Transform(in)
			if err != nil {
				encodermetrics.ObserveEncodeError("MultiColumnEncoder")
				log.Printf("shard %d: transform error: %v", id, err)
				return collection.Collection[pipeline.Output]{}
			}
			return out
		},
		func(o pipeline.Output) string { return strconv.FormatUint(uint64(o.Key), 10) },
	)

	return &shardWorker{
		id:           id,
		inbox:        make(chan pipeline.Row, 64),
		session:      session,
		worker:       worker,
		rowsIngested: rowsIngested,
	}
}

// run drains this shard's inbox on a fixed epoch tick, staging every row
// received since the last tick, advancing the shard's own logical clock,
// and stepping its own collection.Worker. It stops once its inbox is closed
// and drained, or the context is cancelled.
func (sh *shardWorker) run(ctx context.Context, epochInterval time.Duration, eventLog *eventlog.MemoryEventLogger, sink *sinks.JSONLSink, state *stateHandler) error {
	ticker := time.NewTicker(epochInterval)
	defer ticker.Stop()

	epoch := int64(0)
	closed := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// drainTick's non-blocking loop only stops once the channel is
			// empty or closed, so by the time it reports closed, every row
			// the feeder ever sent to this shard has already been staged;
			// one more settle flushes that final batch before returning.
			sh.drainTick(ctx, &closed, eventLog)
			sh.settle(&epoch, sink, state)
			if closed {
				return nil
			}
		}
	}
}

// drainTick pulls every row currently buffered in the shard's inbox
// (non-blocking) and stages it into the shard's InputSession, logging an
// event per staged row and bumping the shared striped row counter. *closed
// is set once the inbox is found closed and drained.
func (sh *shardWorker) drainTick(ctx context.Context, closed *bool, eventLog *eventlog.MemoryEventLogger) {
	var batch []pipeline.Row
drain:
	for {
		select {
		case r, ok := <-sh.inbox:
			if !ok {
				*closed = true
				break drain
			}
			batch = append(batch, r)
		default:
			break drain
		}
	}
	if len(batch) == 0 {
		return
	}

	events := make([]eventlog.RowEvent, 0, len(batch))
	for i, r := range batch {
		sh.session.Insert(r)
		events = append(events, eventlog.RowEvent{
			RowID: r.Key, Value: r.Value.At(0), Diff: 1,
			EventID: fmt.Sprintf("shard-%d-row-%d-col0-%d", sh.id, r.Key, i),
		})
	}
	if err := eventLog.AppendBatch(ctx, events); err != nil {
		log.Printf("shard %d: event log append: %v", sh.id, err)
	}
	encodermetrics.ObserveIngest(len(batch))
	sh.rowsIngested.Add(int64(len(batch)))
}

// settle advances the shard's epoch and steps its Worker, recording the
// settled output's row count/width into the shared state handler (keyed by
// shard id) and appending the diff to the sink, if configured.
func (sh *shardWorker) settle(epoch *int64, sink *sinks.JSONLSink, state *stateHandler) {
	*epoch++
	sh.session.AdvanceTo(*epoch)
	encodermetrics.ObserveEpochAdvance()

	start := time.Now()
	settled, diff := sh.worker.Step(sh.session.Snapshot())
	encodermetrics.ObserveStep(time.Since(start))
	sh.probe.Advance(*epoch)

	width := 0
	if len(settled.Updates) > 0 {
		width = settled.Updates[0].Data.Value.Len()
	}
	encodermetrics.ObserveOutputWidth(width)
	state.set(sh.id, *epoch, len(settled.Updates), width)

	if sink != nil {
		sink.Append(diff)
	}
}

// loadRows builds the synthetic or CSV-backed input rows, each with two
// columns: a numeric column and a small-cardinality category column.
func loadRows(csvPath string, n int) ([]value.Row, error) {
	if csvPath == "" {
		rows := make([]value.Row, n)
		for i := 0; i < n; i++ {
			rows[i] = value.NewRow(value.NewInteger(int64(i)), value.NewInteger(int64(i%3)))
		}
		return rows, nil
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open rows_csv: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows_csv: %w", err)
	}
	rows := make([]value.Row, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		num, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("parse numeric column: %w", err)
		}
		rows = append(rows, value.NewRow(value.NewFloat(num), value.NewText(rec[1])))
	}
	return rows, nil
}

// nextBatch slices up to batchSize rows starting at *idx, assigns them
// sequential row ids, and advances *idx. The returned rows are not yet
// assigned to a shard; the caller routes each one via the Assigner.
func nextBatch(source []value.Row, idx *int, batchSize int) []pipeline.Row {
	if batchSize <= 0 {
		batchSize = 1
	}
	end := *idx + batchSize
	if end > len(source) {
		end = len(source)
	}
	out := make([]pipeline.Row, 0, end-*idx)
	for ; *idx < end; *idx++ {
		out = append(out, collection.NewPair(value.RowID(*idx), source[*idx]))
	}
	return out
}

// stateHandler serves a small JSON snapshot of the most recent epoch's
// result per shard, for curl-driven inspection.
type stateHandler struct {
	mu     sync.Mutex
	shards []shardState
}

type shardState struct {
	Epoch    int64 `json:"epoch"`
	RowCount int   `json:"settled_row_count"`
	Width    int   `json:"output_width"`
}

func newStateHandler(workerCount int) *stateHandler {
	return &stateHandler{shards: make([]shardState, workerCount)}
}

func (s *stateHandler) set(shardID int, epoch int64, rows, width int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shards[shardID] = shardState{Epoch: epoch, RowCount: rows, Width: width}
}

func (s *stateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	shards := make([]shardState, len(s.shards))
	copy(shards, s.shards)
	s.mu.Unlock()

	totalRows := 0
	for _, sh := range shards {
		totalRows += sh.RowCount
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"shards":            shards,
		"settled_row_count": totalRows,
	})
}
