// Package dispatch runs a fixed pool of writer goroutines that drain a
// channel of workload events against a tree, minting the per-thread
// WriterTag sequence the live updater requires and recording response
// times as each operation completes. Start and Stop are idempotent, and
// Stop waits on a WaitGroup for the workers to finish.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/jpcruz/ptree/internal/smt"
	"github.com/jpcruz/ptree/internal/telemetry"
	"github.com/jpcruz/ptree/internal/workload"
)

// Metrics is the minimal hook dispatch needs to report progress without
// depending on any particular metrics backend; the CLI layer supplies
// PromMetrics (metrics.go), a no-op one for tests, or anything else
// satisfying this interface.
type Metrics interface {
	ObserveOpLatency(opType string, d time.Duration)
	IncOpsProcessed(opType string)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) ObserveOpLatency(string, time.Duration) {}
func (NoopMetrics) IncOpsProcessed(string)                 {}

// Pool is a fixed-size set of writer goroutines, one per live-updater
// thread id, draining a shared job channel in arrival order.
type Pool struct {
	tree     *smt.Tree
	recorder *telemetry.Recorder
	metrics  Metrics

	threadCount int
	jobs        chan workload.Event

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup

	seqMu   sync.Mutex
	nextSeq []int
}

// New builds a Pool of threadCount workers over tree. threadCount must be
// in [1, smt.MaxThreads]; callers validate that bound before construction
// (internal/cliconfig reports ErrCapacityExceeded); New does not check it.
func New(tree *smt.Tree, recorder *telemetry.Recorder, metrics Metrics, threadCount int) *Pool {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Pool{
		tree:        tree,
		recorder:    recorder,
		metrics:     metrics,
		threadCount: threadCount,
		jobs:        make(chan workload.Event, 1024),
		nextSeq:     make([]int, threadCount),
	}
}

// Start launches the worker goroutines. Idempotent.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		for tid := 0; tid < p.threadCount; tid++ {
			p.wg.Add(1)
			go p.worker(ctx, tid)
		}
	})
}

// Enqueue submits one workload event for processing. It blocks if the
// internal queue is full, providing backpressure to the playback loop
// rather than silently dropping an event.
func (p *Pool) Enqueue(ev workload.Event) {
	p.jobs <- ev
}

// Stop closes the job queue and waits for every in-flight operation to
// finish. Idempotent.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobs)
		p.wg.Wait()
	})
}

func (p *Pool) worker(ctx context.Context, tid int) {
	defer p.wg.Done()
	for {
		select {
		case ev, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handle(tid, ev)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pool) handle(tid int, ev workload.Event) {
	start := time.Now()

	switch ev.Op.Type {
	case workload.Update:
		tag := smt.WriterTag{ThreadID: tid, Seq: p.nextSeqFor(tid)}
		_ = p.tree.UpdateLive(ev.Op.Key, ev.Op.Value, tag)
	case workload.ReadRoot:
		_ = p.tree.ReadRoot()
	case workload.ReadLeaf:
		_, _ = p.tree.ReadLeaf(ev.Op.Key)
	}

	elapsed := time.Since(start)
	p.metrics.ObserveOpLatency(ev.Op.Type.String(), elapsed)
	p.metrics.IncOpsProcessed(ev.Op.Type.String())
	if p.recorder != nil {
		p.recorder.RecordLive(elapsed)
	}
}

func (p *Pool) nextSeqFor(tid int) int {
	p.seqMu.Lock()
	defer p.seqMu.Unlock()
	p.nextSeq[tid]++
	return p.nextSeq[tid]
}
