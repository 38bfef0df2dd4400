package binutil_test

import (
	"bytes"
	"testing"

	"github.com/jpcruz/ptree/internal/binutil"
)

func TestBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := binutil.PutBytes(&buf, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	r := bytes.NewReader(buf.Bytes())
	got, err := binutil.GetBytes(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestGetBytes_TruncatedInput(t *testing.T) {
	var buf bytes.Buffer
	_ = binutil.PutU32(&buf, 100)
	r := bytes.NewReader(buf.Bytes())
	if _, err := binutil.GetBytes(r); err == nil {
		t.Fatal("expected an error reading a truncated length-prefixed field")
	}
}

func TestU16U64RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_ = binutil.PutU16(&buf, 0xBEEF)
	_ = binutil.PutU64(&buf, 0x1122334455667788)
	r := bytes.NewReader(buf.Bytes())
	u16, err := binutil.GetU16(r)
	if err != nil || u16 != 0xBEEF {
		t.Fatalf("GetU16 = %x, %v", u16, err)
	}
	u64, err := binutil.GetU64(r)
	if err != nil || u64 != 0x1122334455667788 {
		t.Fatalf("GetU64 = %x, %v", u64, err)
	}
}
