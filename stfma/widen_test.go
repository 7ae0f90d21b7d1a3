package stfma

import (
	"math/rand"
	"testing"
)

func TestWidenExhaustive(t *testing.T) {
	src := make([]int8, 256)
	for i := range src {
		src[i] = int8(i - 128)
	}
	dst := Widen(nil, src)
	if len(dst) != len(src) {
		t.Fatalf("Widen length = %d, want %d", len(dst), len(src))
	}
	for i, v := range src {
		if dst[i] != int32(v) {
			t.Errorf("Widen[%d] = %d, want %d", i, dst[i], int32(v))
		}
	}
}

func TestWidenOddLengths(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, n := range []int{0, 1, 3, 15, 17, 33, 100} {
		src := make([]int8, n)
		for i := range src {
			src[i] = int8(rng.Intn(256) - 128)
		}
		dst := Widen(nil, src)
		if len(dst) != n {
			t.Fatalf("Widen(n=%d) length = %d", n, len(dst))
		}
		for i, v := range src {
			if dst[i] != int32(v) {
				t.Errorf("Widen(n=%d)[%d] = %d, want %d", n, i, dst[i], int32(v))
			}
		}
	}
}

func TestWidenReusesBuffer(t *testing.T) {
	big := Widen(nil, make([]int8, 100))
	if cap(big) < 100 {
		t.Fatalf("cap = %d, want >= 100", cap(big))
	}

	// A shorter request must reuse the grown buffer, not shrink it.
	small := Widen(big, make([]int8, 10))
	if len(small) != 10 {
		t.Fatalf("len = %d, want 10", len(small))
	}
	if cap(small) != cap(big) {
		t.Errorf("cap after shorter Widen = %d, want %d", cap(small), cap(big))
	}
	if &small[0] != &big[0] {
		t.Error("shorter Widen did not reuse the existing buffer")
	}

	// A longer request grows to exactly the new size.
	grown := Widen(small, make([]int8, 500))
	if len(grown) != 500 || cap(grown) < 500 {
		t.Errorf("grown len/cap = %d/%d, want 500/>=500", len(grown), cap(grown))
	}
}
