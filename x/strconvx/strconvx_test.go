package strconvx

import "testing"

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 7: "7", -40: "-40", -100: "-100", 12345: "12345"}
	for in, want := range cases {
		if got := Itoa(in); got != want {
			t.Fatalf("Itoa(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatBases(t *testing.T) {
	type C struct {
		u    uint64
		base int
		want string
	}
	for _, c := range []C{
		{0, 2, "0"},
		{5, 2, "101"},
		{255, 16, "ff"},
		{35, 36, "z"},
	} {
		if got := FormatUint(c.u, c.base); got != c.want {
			t.Fatalf("FormatUint(%d,%d) = %q, want %q", c.u, c.base, got, c.want)
		}
	}
	if got := FormatInt(-15, 10); got != "-15" {
		t.Fatalf("FormatInt(-15,10) = %q, want -15", got)
	}
}
