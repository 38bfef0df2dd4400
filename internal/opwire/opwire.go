// Package opwire gives operations a fixed binary encoding so a stream of
// them can be logged, replayed, or shipped over any transport — not just
// held in memory as the workload package's generated events. It follows
// the project's established frame shape: a one-byte type tag, then
// big-endian length-prefixed fields, in struct order.
package opwire

import (
	"bytes"
	"errors"

	"github.com/jpcruz/ptree/internal/binutil"
	"github.com/jpcruz/ptree/internal/workload"
)

// Message type tags, one per workload.OpType.
const (
	MTUpdate   byte = 0x01
	MTReadRoot byte = 0x02
	MTReadLeaf byte = 0x03
)

var errUnknownType = errors.New("opwire: unknown message type")
var errTrailingBytes = errors.New("opwire: trailing bytes after decode")

// Encode serializes one operation as:
//
//	| 1B type | 4B key length | key | 4B value length | value |
//
// Every frame carries both length-prefixed fields. Decode keeps neither
// for ReadRoot, only the key for ReadLeaf, and both for Update.
func Encode(op workload.Operation) []byte {
	var buf bytes.Buffer

	switch op.Type {
	case workload.Update:
		buf.WriteByte(MTUpdate)
	case workload.ReadRoot:
		buf.WriteByte(MTReadRoot)
	case workload.ReadLeaf:
		buf.WriteByte(MTReadLeaf)
	}

	_ = binutil.PutBytes(&buf, []byte(op.Key))
	_ = binutil.PutBytes(&buf, []byte(op.Value))

	return buf.Bytes()
}

// Decode parses a frame produced by Encode back into an Operation.
func Decode(frame []byte) (workload.Operation, error) {
	if len(frame) < 1 {
		return workload.Operation{}, errors.New("opwire: empty frame")
	}
	mt := frame[0]
	r := bytes.NewReader(frame[1:])

	key, err := binutil.GetBytes(r)
	if err != nil {
		return workload.Operation{}, err
	}
	value, err := binutil.GetBytes(r)
	if err != nil {
		return workload.Operation{}, err
	}
	if r.Len() != 0 {
		return workload.Operation{}, errTrailingBytes
	}

	switch mt {
	case MTUpdate:
		return workload.Operation{Type: workload.Update, Key: string(key), Value: string(value)}, nil
	case MTReadRoot:
		return workload.Operation{Type: workload.ReadRoot}, nil
	case MTReadLeaf:
		return workload.Operation{Type: workload.ReadLeaf, Key: string(key)}, nil
	default:
		return workload.Operation{}, errUnknownType
	}
}
