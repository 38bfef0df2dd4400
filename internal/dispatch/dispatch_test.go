package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jpcruz/ptree/internal/dispatch"
	"github.com/jpcruz/ptree/internal/smt"
	"github.com/jpcruz/ptree/internal/telemetry"
	"github.com/jpcruz/ptree/internal/workload"
)

func TestPool_DrainsQueueAndRecordsTelemetry(t *testing.T) {
	tree, err := smt.New(4)
	require.NoError(t, err)

	rec := telemetry.New()
	pool := dispatch.New(tree, rec, nil, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	stream, err := workload.Generate(workload.Config{Depth: 4, TotalOps: 100})
	require.NoError(t, err)
	for _, ev := range stream {
		pool.Enqueue(ev)
	}
	pool.Stop()

	live, _, _ := rec.SampleCounts()
	require.Equal(t, 100, live)

	summary := rec.Summary(4, 4, 0, 100)
	require.Equal(t, 100, summary.Ops)
}

func TestPool_StopIsIdempotent(t *testing.T) {
	tree, _ := smt.New(2)
	pool := dispatch.New(tree, nil, nil, 2)
	ctx := context.Background()
	pool.Start(ctx)
	pool.Enqueue(workload.Event{Op: workload.Operation{Type: workload.ReadRoot}})

	done := make(chan struct{})
	go func() {
		pool.Stop()
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return; idempotent Stop likely deadlocked")
	}
}
