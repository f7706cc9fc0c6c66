package ctcp

import "testing"

func TestValueLessThan(t *testing.T) {
	cases := []struct {
		v, w Value
		want bool
	}{
		{0, 1, true},
		{1, 0, false},
		{0, 0, false},
		{0xffffffff, 0, true},  // wraparound: -1 precedes 0
		{0, 0xffffffff, false},
	}
	for _, c := range cases {
		if got := c.v.LessThan(c.w); got != c.want {
			t.Errorf("Value(%d).LessThan(%d) = %v, want %v", c.v, c.w, got, c.want)
		}
	}
}

func TestValueLessThanEq(t *testing.T) {
	if !Value(5).LessThanEq(5) {
		t.Fatal("want v.LessThanEq(v) == true")
	}
	if Value(6).LessThanEq(5) {
		t.Fatal("want 6.LessThanEq(5) == false")
	}
}

func TestAddSizeof(t *testing.T) {
	v := Add(10, 5)
	if v != 15 {
		t.Fatalf("Add(10,5) = %d, want 15", v)
	}
	if got := Sizeof(10, 15); got != 5 {
		t.Fatalf("Sizeof(10,15) = %d, want 5", got)
	}
	// Wraparound: a newer value just past the 32-bit boundary.
	wrapped := Add(0xfffffffe, 4)
	if got := Sizeof(0xfffffffe, wrapped); got != 4 {
		t.Fatalf("Sizeof across wraparound = %d, want 4", got)
	}
}

func TestValueInWindow(t *testing.T) {
	if Value(100).InWindow(100, 0) {
		t.Fatal("zero-size window should contain nothing")
	}
	if !Value(100).InWindow(100, 10) {
		t.Fatal("want nxt itself inside [nxt, nxt+wnd)")
	}
	if Value(110).InWindow(100, 10) {
		t.Fatal("want nxt+wnd excluded from window")
	}
	if !Value(109).InWindow(100, 10) {
		t.Fatal("want nxt+wnd-1 included in window")
	}
}
