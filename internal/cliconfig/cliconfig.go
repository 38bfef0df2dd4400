// Package cliconfig holds the stdin-driven run parameters shared by
// cmd/parallelupdates and cmd/benchmark: both programs prompt for a line
// of whitespace-separated integers and must reject the same out-of-range
// values before touching a tree.
package cliconfig

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jpcruz/ptree/internal/smt"
)

// LiveRunParams are the parameters cmd/parallelupdates reads: depth,
// read_percentage, thread_count, total_ops.
type LiveRunParams struct {
	Depth          int
	ReadPercentage int
	ThreadCount    int
	TotalOps       int
}

// BenchmarkRunParams are the parameters cmd/benchmark reads: depth,
// batch_size, thread_count, total_ops.
type BenchmarkRunParams struct {
	Depth       int
	BatchSize   int
	ThreadCount int
	TotalOps    int
}

// ReadLiveRunParams reads "depth read_percentage thread_count total_ops"
// from r and validates it.
func ReadLiveRunParams(r io.Reader) (LiveRunParams, error) {
	var p LiveRunParams
	if err := scanInts(r, &p.Depth, &p.ReadPercentage, &p.ThreadCount, &p.TotalOps); err != nil {
		return p, err
	}
	if err := validateDepth(p.Depth); err != nil {
		return p, err
	}
	if p.ReadPercentage < 0 || p.ReadPercentage > 100 {
		return p, fmt.Errorf("cliconfig: read_percentage must be in [0,100], got %d", p.ReadPercentage)
	}
	if err := validateThreadCount(p.ThreadCount); err != nil {
		return p, err
	}
	if p.TotalOps <= 0 {
		return p, fmt.Errorf("cliconfig: total_ops must be positive, got %d", p.TotalOps)
	}
	return p, nil
}

// ReadBenchmarkRunParams reads "depth batch_size thread_count total_ops"
// from r and validates it.
func ReadBenchmarkRunParams(r io.Reader) (BenchmarkRunParams, error) {
	var p BenchmarkRunParams
	if err := scanInts(r, &p.Depth, &p.BatchSize, &p.ThreadCount, &p.TotalOps); err != nil {
		return p, err
	}
	if err := validateDepth(p.Depth); err != nil {
		return p, err
	}
	if p.BatchSize <= 0 {
		return p, fmt.Errorf("cliconfig: batch_size must be positive, got %d", p.BatchSize)
	}
	if err := validateThreadCount(p.ThreadCount); err != nil {
		return p, err
	}
	if p.TotalOps <= 0 {
		return p, fmt.Errorf("cliconfig: total_ops must be positive, got %d", p.TotalOps)
	}
	return p, nil
}

func validateDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("cliconfig: depth must be non-negative, got %d", depth)
	}
	return nil
}

func validateThreadCount(threadCount int) error {
	if threadCount > smt.MaxThreads {
		return fmt.Errorf("cliconfig: thread_count must be in [1,%d], got %d: %w", smt.MaxThreads, threadCount, smt.ErrCapacityExceeded)
	}
	if threadCount < 1 {
		return fmt.Errorf("cliconfig: thread_count must be in [1,%d], got %d", smt.MaxThreads, threadCount)
	}
	return nil
}

func scanInts(r io.Reader, dst ...*int) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return fmt.Errorf("cliconfig: reading input: %w", err)
		}
		return fmt.Errorf("cliconfig: expected a line of %d integers, got EOF", len(dst))
	}
	args := make([]any, len(dst))
	for i, d := range dst {
		args[i] = d
	}
	n, err := fmt.Sscan(sc.Text(), args...)
	if err != nil {
		return fmt.Errorf("cliconfig: parsing input line %q: %w", sc.Text(), err)
	}
	if n != len(dst) {
		return fmt.Errorf("cliconfig: expected %d integers, got %d", len(dst), n)
	}
	return nil
}
