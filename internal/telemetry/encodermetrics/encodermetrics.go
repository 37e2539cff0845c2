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

// Package encodermetrics provides opt-in, low-overhead Prometheus telemetry
// for a MultiColumnEncoder driver. It is safe to call from hot paths: every
// exported function is a no-op until Enable has been called.
package encodermetrics

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls the module's behavior.
type Config struct {
	Enabled     bool
	MetricsAddr string // e.g. ":9090". Empty disables the standalone /metrics server.
}

var modEnabled atomic.Bool

var (
	rowsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "diffenc_rows_ingested_total",
		Help: "Total row insertions/retractions fed into the input session",
	})
	epochsAdvancedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "diffenc_epochs_advanced_total",
		Help: "Total epoch advances observed by the driver",
	})
	stepLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "diffenc_step_latency_seconds",
		Help:    "Wall-clock latency of a single Worker.Step call",
		Buckets: prometheus.DefBuckets,
	})
	outputVectorWidth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "diffenc_output_vector_width",
		Help: "Width of the most recently produced concatenated DenseVector",
	})
	vocabularyWidth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "diffenc_vocabulary_width",
		Help: "Current PositionAssignmentAggregate width, by column index",
	}, []string{"column"})
	encodeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "diffenc_encode_errors_total",
		Help: "Total fit/transform errors, by encoder kind",
	}, []string{"encoder"})
)

func init() {
	prometheus.MustRegister(rowsIngestedTotal, epochsAdvancedTotal, stepLatencySeconds,
		outputVectorWidth, vocabularyWidth, encodeErrorsTotal)
}

// Enable configures the module. Safe to call multiple times.
func Enable(cfg Config) {
	modEnabled.Store(cfg.Enabled)
	if cfg.MetricsAddr != "" {
		startMetricsEndpoint(cfg.MetricsAddr)
	}
}

// Enabled reports whether telemetry is active.
func Enabled() bool { return modEnabled.Load() }

// ObserveIngest records n row mutations (insert or remove) fed to an
// InputSession.
func ObserveIngest(n int) {
	if !modEnabled.Load() || n <= 0 {
		return
	}
	rowsIngestedTotal.Add(float64(n))
}

// ObserveEpochAdvance records a single AdvanceTo call.
func ObserveEpochAdvance() {
	if !modEnabled.Load() {
		return
	}
	epochsAdvancedTotal.Inc()
}

// ObserveStep records the wall-clock duration of a Worker.Step call.
func ObserveStep(d time.Duration) {
	if !modEnabled.Load() {
		return
	}
	stepLatencySeconds.Observe(d.Seconds())
}

// ObserveOutputWidth records the width of the most recently emitted
// concatenated output vector.
func ObserveOutputWidth(width int) {
	if !modEnabled.Load() {
		return
	}
	outputVectorWidth.Set(float64(width))
}

// ObserveVocabularyWidth records a position-assigning encoder's current
// backing width for the given column index.
func ObserveVocabularyWidth(column int, width int) {
	if !modEnabled.Load() {
		return
	}
	vocabularyWidth.WithLabelValues(strconv.Itoa(column)).Set(float64(width))
}

// ObserveEncodeError increments the error counter for the given encoder
// kind (e.g. "StandardScaler", "OneHotEncoder").
func ObserveEncodeError(encoderKind string) {
	if !modEnabled.Load() {
		return
	}
	encodeErrorsTotal.WithLabelValues(encoderKind).Inc()
}

func startMetricsEndpoint(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = server.ListenAndServe()
	}()
}
