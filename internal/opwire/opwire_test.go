package opwire_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jpcruz/ptree/internal/opwire"
	"github.com/jpcruz/ptree/internal/workload"
)

func TestRoundTrip(t *testing.T) {
	cases := []workload.Operation{
		{Type: workload.Update, Key: "0110", Value: "42"},
		{Type: workload.ReadRoot},
		{Type: workload.ReadLeaf, Key: "1111"},
		{Type: workload.Update, Key: "", Value: ""},
	}
	for _, op := range cases {
		frame := opwire.Encode(op)
		got, err := opwire.Decode(frame)
		require.NoError(t, err)
		require.Equal(t, op, got)
	}
}

func TestDecode_ShortFrame(t *testing.T) {
	_, err := opwire.Decode(nil)
	require.Error(t, err)
}

func TestDecode_UnknownType(t *testing.T) {
	frame := []byte{0xFF, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err := opwire.Decode(frame)
	require.Error(t, err)
}
