package ctcp

import "testing"

func TestFlagsString(t *testing.T) {
	cases := []struct {
		f    Flags
		want string
	}{
		{0, "[]"},
		{FlagACK, "[ACK]"},
		{FlagFIN, "[FIN]"},
		{FlagFIN | FlagACK, "[FIN,ACK]"},
	}
	for _, c := range cases {
		if got := c.f.String(); got != c.want {
			t.Errorf("Flags(%#x).String() = %q, want %q", uint32(c.f), got, c.want)
		}
	}
}

func TestFlagsHasAllHasAny(t *testing.T) {
	f := FlagFIN | FlagACK
	if !f.HasAll(FlagFIN | FlagACK) {
		t.Fatal("want HasAll(FIN|ACK) true")
	}
	if !f.HasAny(FlagFIN) {
		t.Fatal("want HasAny(FIN) true")
	}
	if FlagACK.HasAny(FlagFIN) {
		t.Fatal("want ACK-only HasAny(FIN) false")
	}
}

func TestFlagsMask(t *testing.T) {
	f := Flags(0xff) // high garbage bits outside flagMask
	if got := f.Mask(); got != (FlagFIN | FlagACK) {
		t.Fatalf("Mask() = %#x, want %#x", uint32(got), uint32(FlagFIN|FlagACK))
	}
}
