// Package workload generates timed streams of tree operations for driving
// the live, batch, and serial updaters under comparable synthetic load.
package workload

import (
	"fmt"
	"math/rand"
	"time"
)

// OpType distinguishes the three operation kinds a generated event can
// carry.
type OpType int

const (
	Update OpType = iota
	ReadRoot
	ReadLeaf
)

func (t OpType) String() string {
	switch t {
	case Update:
		return "update"
	case ReadRoot:
		return "read_root"
	case ReadLeaf:
		return "read_leaf"
	default:
		return "unknown"
	}
}

// Operation is a single generated request: an update carries both Key and
// Value, ReadLeaf carries only Key, ReadRoot carries neither.
type Operation struct {
	Type  OpType
	Key   string
	Value string
}

// Event pairs an Operation with the simulated arrival time it was minted
// at, measured from the start of the generated stream.
type Event struct {
	Arrival time.Duration
	Op      Operation
}

// Config parameterizes a generated stream.
type Config struct {
	Depth          int
	TotalOps       int
	ReadPercentage float64 // 0-100
	MeanGapMicros  float64 // mean of the exponential inter-arrival distribution
	Rand           *rand.Rand
}

// Validate checks the bounds the CLI layer is required to enforce before
// calling Generate (spec: depth >= 0, 0 <= read_percentage <= 100,
// total_ops > 0).
func (c Config) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("workload: depth must be non-negative, got %d", c.Depth)
	}
	if c.ReadPercentage < 0 || c.ReadPercentage > 100 {
		return fmt.Errorf("workload: read_percentage must be in [0,100], got %g", c.ReadPercentage)
	}
	if c.TotalOps <= 0 {
		return fmt.Errorf("workload: total_ops must be positive, got %d", c.TotalOps)
	}
	return nil
}

// leafKeys enumerates every key in a depth-D tree as a bitstring, in
// ascending numeric order — the same enumeration generate_workload used
// against bitset<32>.
func leafKeys(depth int) []string {
	n := 1 << uint(depth)
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("%0*b", depth, i)
	}
	return keys
}

// Generate produces a fixed-length stream of timestamped operations. Each
// event's arrival time is the cumulative sum of draws from an exponential
// distribution with mean cfg.MeanGapMicros, mirroring a Poisson arrival
// process; it does not sleep in real time, leaving that to the caller.
func Generate(cfg Config) ([]Event, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	mean := cfg.MeanGapMicros
	if mean <= 0 {
		mean = 20
	}

	keys := leafKeys(cfg.Depth)
	stream := make([]Event, cfg.TotalOps)

	var clock time.Duration
	for i := 0; i < cfg.TotalOps; i++ {
		op := randomOperation(rng, cfg.Depth, cfg.ReadPercentage, keys)
		stream[i] = Event{Arrival: clock, Op: op}
		gap := rng.ExpFloat64() * mean
		clock += time.Duration(gap * float64(time.Microsecond))
	}
	return stream, nil
}

func randomOperation(rng *rand.Rand, depth int, readPercentage float64, keys []string) Operation {
	p := rng.Float64() * 100
	if p < readPercentage {
		if rng.Intn(2) == 0 {
			return Operation{Type: ReadRoot}
		}
		return Operation{Type: ReadLeaf, Key: keys[rng.Intn(len(keys))]}
	}

	key := make([]byte, depth)
	for i := range key {
		if rng.Intn(2) == 0 {
			key[i] = '0'
		} else {
			key[i] = '1'
		}
	}
	return Operation{Type: Update, Key: string(key), Value: fmt.Sprintf("%d", rng.Intn(1000))}
}
