package workload

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate_ValidatesBounds(t *testing.T) {
	_, err := Generate(Config{Depth: -1, TotalOps: 10})
	require.ErrorContains(t, err, "depth")

	_, err = Generate(Config{Depth: 3, TotalOps: 10, ReadPercentage: 101})
	require.ErrorContains(t, err, "read_percentage")

	_, err = Generate(Config{Depth: 3, TotalOps: 0})
	require.ErrorContains(t, err, "total_ops")
}

func TestGenerate_ArrivalsAreMonotonic(t *testing.T) {
	stream, err := Generate(Config{
		Depth:    4,
		TotalOps: 500,
		Rand:     rand.New(rand.NewSource(7)),
	})
	require.NoError(t, err)
	require.Len(t, stream, 500)

	for i := 1; i < len(stream); i++ {
		require.GreaterOrEqual(t, stream[i].Arrival, stream[i-1].Arrival)
	}
}

func TestGenerate_UpdateKeysMatchDepth(t *testing.T) {
	const depth = 6
	stream, err := Generate(Config{
		Depth:    depth,
		TotalOps: 300,
		Rand:     rand.New(rand.NewSource(3)),
	})
	require.NoError(t, err)

	for _, ev := range stream {
		if ev.Op.Type == Update {
			require.Len(t, ev.Op.Key, depth)
		}
	}
}

func TestGenerate_ReadPercentageZeroProducesNoReads(t *testing.T) {
	stream, err := Generate(Config{
		Depth:          3,
		TotalOps:       200,
		ReadPercentage: 0,
		Rand:           rand.New(rand.NewSource(9)),
	})
	require.NoError(t, err)
	for _, ev := range stream {
		require.Equal(t, Update, ev.Op.Type)
	}
}
