// Command benchmark runs the same generated workload through the live,
// batch, and serial updaters and reports response-time statistics plus a
// root-hash cross-check, writing the results as CSV files for plotting.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/jpcruz/ptree/internal/cliconfig"
	"github.com/jpcruz/ptree/internal/dispatch"
	"github.com/jpcruz/ptree/internal/smt"
	"github.com/jpcruz/ptree/internal/telemetry"
	"github.com/jpcruz/ptree/internal/workload"
)

func main() {
	app := &cli.App{
		Name:  "benchmark",
		Usage: "compare live, batch, and serial Merkle tree update strategies",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: ".", Usage: "directory to write the CSV result files into"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "if set, serve Prometheus /metrics on this address while the live run is in flight (e.g. :2112)"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "benchmark:", err)
		os.Exit(1)
	}
}

// startMetricsServer, when addr is non-empty, registers a PromMetrics on its
// own registry and serves it at /metrics in the background, mirroring the
// pack's metrics-sidecar pattern (bluesky-social-indigo's cmd/sonar). It
// returns the Metrics implementation the live run should report into; the
// server is never stopped, since the process exits when the benchmark ends.
func startMetricsServer(addr string) dispatch.Metrics {
	if addr == "" {
		return dispatch.NoopMetrics{}
	}

	reg := prometheus.NewRegistry()
	m := dispatch.NewPromMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	return m
}

func run(c *cli.Context) error {
	outDir := c.String("out")
	metrics := startMetricsServer(c.String("metrics-addr"))

	fmt.Println("Benchmark Merkle Trees (Live vs Batch vs Serial)")
	fmt.Print("Enter depth, batch_size, threads, total_ops: ")
	params, err := cliconfig.ReadBenchmarkRunParams(os.Stdin)
	if err != nil {
		return err
	}
	fmt.Printf("Depth=%d Threads=%d Ops=%d\n", params.Depth, params.ThreadCount, params.TotalOps)

	fmt.Println("\nGenerating workload...")
	stream, err := workload.Generate(workload.Config{
		Depth:    params.Depth,
		TotalOps: params.TotalOps,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	})
	if err != nil {
		return err
	}
	fmt.Println("Workload generated.")

	rec := telemetry.New()

	fmt.Println("\nRunning Live Algorithm...")
	liveTree, err := smt.New(params.Depth)
	if err != nil {
		return err
	}
	liveElapsed, err := runLive(liveTree, stream, params.ThreadCount, rec, metrics)
	if err != nil {
		return err
	}
	fmt.Printf("Live finished in %s\n", liveElapsed)

	fmt.Println("\nRunning Batch Algorithm...")
	batchTree, err := smt.New(params.Depth)
	if err != nil {
		return err
	}
	batchCount, err := runBatches(batchTree, stream, params.BatchSize, params.ThreadCount, rec)
	if err != nil {
		return err
	}
	fmt.Printf("Batch processed %d updates.\n", batchCount)

	fmt.Println("\nRunning Serial Algorithm...")
	serialTree, err := smt.New(params.Depth)
	if err != nil {
		return err
	}
	runSerial(serialTree, stream, rec)
	fmt.Println("Serial done.")

	fmt.Println("\n==== RESULTS ====")
	summary := rec.Summary(params.Depth, params.ThreadCount, params.BatchSize, params.TotalOps)
	fmt.Printf("Live Avg    : %.2f us\n", summary.AvgLiveUs)
	fmt.Printf("Batch Avg   : %.2f us\n", summary.AvgBatchUs)
	fmt.Printf("Serial Avg  : %.2f us\n", summary.AvgSerialUs)

	if err := rec.WriteCSVs(outDir, summary); err != nil {
		return fmt.Errorf("writing CSV output: %w", err)
	}
	fmt.Println("Wrote summary_metrics.csv")

	fmt.Println("\n=============================================")
	fmt.Println("            ROOT HASH VERIFICATION           ")
	fmt.Println("=============================================")
	liveRoot := liveTree.ReadRoot()
	batchRoot := batchTree.ReadRoot()
	serialRoot := serialTree.ReadRoot()
	fmt.Printf("Live Root   : %s\n", hex.EncodeToString(liveRoot[:]))
	fmt.Printf("Batch Root  : %s\n", hex.EncodeToString(batchRoot[:]))
	fmt.Printf("Serial Root : %s\n", hex.EncodeToString(serialRoot[:]))
	fmt.Println("=============================================")

	fmt.Println("\nCSV files written:")
	fmt.Println("   live_response_times.csv")
	fmt.Println("   angela_response_times.csv")
	fmt.Println("   serial_response_times.csv")
	fmt.Println("   summary_metrics.csv")
	fmt.Println("\nDone.")

	return nil
}

func runLive(tree *smt.Tree, stream []workload.Event, threadCount int, rec *telemetry.Recorder, metrics dispatch.Metrics) (time.Duration, error) {
	pool := dispatch.New(tree, rec, metrics, threadCount)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	pool.Start(ctx)
	for _, ev := range stream {
		pool.Enqueue(ev)
	}
	pool.Stop()
	return time.Since(start), nil
}

func runBatches(tree *smt.Tree, stream []workload.Event, batchSize, workerCount int, rec *telemetry.Recorder) (int, error) {
	var pending []smt.Update
	processed := 0

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		d, err := tree.UpdateBatch(pending, workerCount)
		if err != nil {
			return err
		}
		for range pending {
			rec.RecordBatch(d / time.Duration(len(pending)))
		}
		processed += len(pending)
		pending = pending[:0]
		return nil
	}

	for _, ev := range stream {
		if ev.Op.Type != workload.Update {
			continue
		}
		pending = append(pending, smt.Update{Key: ev.Op.Key, Value: ev.Op.Value})
		if len(pending) == batchSize {
			if err := flush(); err != nil {
				return processed, err
			}
		}
	}
	if err := flush(); err != nil {
		return processed, err
	}
	return processed, nil
}

func runSerial(tree *smt.Tree, stream []workload.Event, rec *telemetry.Recorder) {
	for _, ev := range stream {
		start := time.Now()
		switch ev.Op.Type {
		case workload.Update:
			_ = tree.UpdateSerial(ev.Op.Key, ev.Op.Value)
		case workload.ReadRoot:
			tree.ReadRoot()
		case workload.ReadLeaf:
			_, _ = tree.ReadLeaf(ev.Op.Key)
		}
		rec.RecordSerial(time.Since(start))
	}
}
