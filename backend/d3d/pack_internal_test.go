package d3d

import "testing"

func TestPackDXBCRoundTrip(t *testing.T) {
	in := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	words := packDXBC(in)
	if len(words) != 2 {
		t.Fatalf("expected 2 words for 5 bytes, got %d", len(words))
	}
	if words[0] != 0x04030201 {
		t.Fatalf("word 0 = %#x, want 0x04030201", words[0])
	}
	if words[1] != 0x00000005 {
		t.Fatalf("word 1 = %#x, want 0x00000005 (zero-padded)", words[1])
	}
}
