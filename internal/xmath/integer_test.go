package xmath

import "testing"

func TestSafeAdd(t *testing.T) {
	if sum, overflow := SafeAdd(1, 2); sum != 3 || overflow {
		t.Fatalf("SafeAdd(1,2) = %d, %v", sum, overflow)
	}
	if _, overflow := SafeAdd(MaxUint32, MaxUint32); overflow {
		t.Fatalf("expected no overflow adding two uint32-range values in uint64 space")
	}
	maxU64 := uint64(1<<64 - 1)
	if _, overflow := SafeAdd(maxU64, 1); !overflow {
		t.Fatalf("expected overflow")
	}
}

func TestCeilDiv(t *testing.T) {
	cases := []struct{ x, y, want int }{
		{10, 3, 4},
		{9, 3, 3},
		{0, 3, 0},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := CeilDiv(c.x, c.y); got != c.want {
			t.Fatalf("CeilDiv(%d,%d) = %d, want %d", c.x, c.y, got, c.want)
		}
	}
}
