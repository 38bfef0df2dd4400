package cliconfig_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jpcruz/ptree/internal/cliconfig"
)

func TestReadLiveRunParams_Valid(t *testing.T) {
	p, err := cliconfig.ReadLiveRunParams(strings.NewReader("10 20 8 50000\n"))
	require.NoError(t, err)
	require.Equal(t, cliconfig.LiveRunParams{Depth: 10, ReadPercentage: 20, ThreadCount: 8, TotalOps: 50000}, p)
}

func TestReadLiveRunParams_RejectsBadReadPercentage(t *testing.T) {
	_, err := cliconfig.ReadLiveRunParams(strings.NewReader("10 150 8 50000\n"))
	require.ErrorContains(t, err, "read_percentage")
}

func TestReadLiveRunParams_RejectsThreadCountOutOfRange(t *testing.T) {
	_, err := cliconfig.ReadLiveRunParams(strings.NewReader("10 0 65 50000\n"))
	require.ErrorContains(t, err, "thread_count")

	_, err = cliconfig.ReadLiveRunParams(strings.NewReader("10 0 0 50000\n"))
	require.ErrorContains(t, err, "thread_count")
}

func TestReadLiveRunParams_RejectsNonPositiveTotalOps(t *testing.T) {
	_, err := cliconfig.ReadLiveRunParams(strings.NewReader("10 0 4 0\n"))
	require.ErrorContains(t, err, "total_ops")
}

func TestReadLiveRunParams_RejectsMalformedLine(t *testing.T) {
	_, err := cliconfig.ReadLiveRunParams(strings.NewReader("not a number\n"))
	require.Error(t, err)
}

func TestReadBenchmarkRunParams_Valid(t *testing.T) {
	p, err := cliconfig.ReadBenchmarkRunParams(strings.NewReader("10 200 8 50000\n"))
	require.NoError(t, err)
	require.Equal(t, cliconfig.BenchmarkRunParams{Depth: 10, BatchSize: 200, ThreadCount: 8, TotalOps: 50000}, p)
}

func TestReadBenchmarkRunParams_RejectsNonPositiveBatchSize(t *testing.T) {
	_, err := cliconfig.ReadBenchmarkRunParams(strings.NewReader("10 0 8 50000\n"))
	require.ErrorContains(t, err, "batch_size")
}
