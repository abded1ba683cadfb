package common

import (
	"testing"
)

func TestGenerateRandByteArray_Length(t *testing.T) {
	const size = 32
	a := GenerateRandByteArray(size)
	b := GenerateRandByteArray(size)
	if len(a) != size || len(b) != size {
		t.Fatalf("expected length %d, got %d and %d", size, len(a), len(b))
	}
	if string(a) == string(b) {
		t.Logf("warning: two random arrays are identical; extremely unlikely")
	}
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_Nil(t *testing.T) {
	WipeByteArray(nil)
}
