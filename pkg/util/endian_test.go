package util

import "testing"

func TestUint24RoundTrip(t *testing.T) {
	buf := make([]byte, 3)
	for _, v := range []uint32{0, 1, 0x00ABCDEF, 0x00FFFFFF} {
		BigEndian.PutUint24(buf, v)
		if got := BigEndian.Uint24(buf); got != v {
			t.Fatalf("uint24 round trip: got %#x, want %#x", got, v)
		}
	}
}

func TestUint48RoundTrip(t *testing.T) {
	buf := make([]byte, 6)
	for _, v := range []uint64{0, 1, 0x0000123456789ABC, 0x0000FFFFFFFFFFFF} {
		BigEndian.PutUint48(buf, v)
		if got := BigEndian.Uint48(buf); got != v {
			t.Fatalf("uint48 round trip: got %#x, want %#x", got, v)
		}
	}
}

func TestAppendUint24(t *testing.T) {
	out := BigEndian.AppendUint24([]byte{0xFF}, 0x010203)
	want := []byte{0xFF, 0x01, 0x02, 0x03}
	if len(out) != len(want) {
		t.Fatalf("length = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, out[i], want[i])
		}
	}
}
