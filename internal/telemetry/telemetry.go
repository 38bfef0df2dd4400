// Package telemetry records per-operation response times for the live,
// batch, and serial update strategies and writes them out as the same four
// CSV files a plotting script expects: one response-time series per
// strategy plus a one-row run summary.
package telemetry

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Recorder accumulates response-time samples for a single run. It is safe
// for concurrent use: the live strategy's workers all record into the same
// Recorder from separate goroutines.
type Recorder struct {
	mu sync.Mutex

	runID uuid.UUID

	liveMicros   []int64
	batchMicros  []int64
	serialMicros []int64
}

// New creates a Recorder tagged with a fresh run id, available through
// RunID. The run id is not written into the CSV files, whose names are
// fixed: a later run into the same directory overwrites them.
func New() *Recorder {
	return &Recorder{runID: uuid.New()}
}

// RunID returns the recorder's run identifier.
func (r *Recorder) RunID() uuid.UUID { return r.runID }

// SampleCounts reports how many samples have been recorded for each
// strategy so far, mainly for tests asserting a dispatcher actually
// reported every processed operation.
func (r *Recorder) SampleCounts() (live, batch, serial int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.liveMicros), len(r.batchMicros), len(r.serialMicros)
}

// RecordLive appends one response-time sample, in microseconds, for the
// live updater.
func (r *Recorder) RecordLive(d time.Duration) {
	r.mu.Lock()
	r.liveMicros = append(r.liveMicros, d.Microseconds())
	r.mu.Unlock()
}

// RecordBatch appends one response-time sample for the batch updater.
func (r *Recorder) RecordBatch(d time.Duration) {
	r.mu.Lock()
	r.batchMicros = append(r.batchMicros, d.Microseconds())
	r.mu.Unlock()
}

// RecordSerial appends one response-time sample for the serial updater.
func (r *Recorder) RecordSerial(d time.Duration) {
	r.mu.Lock()
	r.serialMicros = append(r.serialMicros, d.Microseconds())
	r.mu.Unlock()
}

// Summary is the one-row aggregate written to summary_metrics.csv.
type Summary struct {
	Depth       int
	Threads     int
	Batch       int
	Ops         int
	AvgLiveUs   float64
	AvgBatchUs  float64
	AvgSerialUs float64
}

// Summary computes the current averages across whatever has been recorded
// so far.
func (r *Recorder) Summary(depth, threads, batch, ops int) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		Depth:       depth,
		Threads:     threads,
		Batch:       batch,
		Ops:         ops,
		AvgLiveUs:   meanInt64(r.liveMicros),
		AvgBatchUs:  meanInt64(r.batchMicros),
		AvgSerialUs: meanInt64(r.serialMicros),
	}
}

func meanInt64(xs []int64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum int64
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// WriteCSVs writes the four canonical files into dir:
// live_response_times.csv, angela_response_times.csv (the batch/
// conflict-prefix strategy's historical name, kept so downstream plotting
// scripts need no changes), serial_response_times.csv, and
// summary_metrics.csv.
func (r *Recorder) WriteCSVs(dir string, summary Summary) error {
	r.mu.Lock()
	live := append([]int64(nil), r.liveMicros...)
	batch := append([]int64(nil), r.batchMicros...)
	serial := append([]int64(nil), r.serialMicros...)
	r.mu.Unlock()

	if err := writeResponseTimes(dir+"/live_response_times.csv", live); err != nil {
		return err
	}
	if err := writeResponseTimes(dir+"/angela_response_times.csv", batch); err != nil {
		return err
	}
	if err := writeResponseTimes(dir+"/serial_response_times.csv", serial); err != nil {
		return err
	}
	return writeSummary(dir+"/summary_metrics.csv", summary)
}

// writeResponseTimes writes one sample per line, no header — matching
// original_source/utils.hpp's dump_csv, which dumps raw numbers only.
func writeResponseTimes(path string, samples []int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	for _, s := range samples {
		if err := w.Write([]string{fmt.Sprintf("%d", s)}); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"depth", "threads", "batch", "ops", "avg_live", "avg_angela", "avg_serial"}); err != nil {
		return err
	}
	return w.Write([]string{
		fmt.Sprintf("%d", s.Depth),
		fmt.Sprintf("%d", s.Threads),
		fmt.Sprintf("%d", s.Batch),
		fmt.Sprintf("%d", s.Ops),
		fmt.Sprintf("%.2f", s.AvgLiveUs),
		fmt.Sprintf("%.2f", s.AvgBatchUs),
		fmt.Sprintf("%.2f", s.AvgSerialUs),
	})
}

// Percentiles returns p50/p95/p99 of a response-time series, picking the
// sample at index int(p*(n-1)) of the sorted series.
func Percentiles(samples []int64) (p50, p95, p99 float64) {
	if len(samples) == 0 {
		return 0, 0, 0
	}
	sorted := append([]int64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	pick := func(p float64) float64 {
		idx := int(p * float64(len(sorted)-1))
		return float64(sorted[idx])
	}
	return pick(0.50), pick(0.95), pick(0.99)
}
