package slug

import (
	"regexp"
	"testing"
)

func TestMake(t *testing.T) {
	cases := []struct {
		title string
		re    string
	}{
		{"Hello World", `^hello-world-[0-9a-z]{6}$`},
		{"  How to   train your DRAGON!  ", `^how-to-train-your-dragon-[0-9a-z]{6}$`},
		{"!!!", `^[0-9a-z]{6}$`},
	}
	for _, tc := range cases {
		got := Make(tc.title)
		if !regexp.MustCompile(tc.re).MatchString(got) {
			t.Errorf("Make(%q) = %q, want match %s", tc.title, got, tc.re)
		}
	}
}

func TestMakeIsRandomized(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[Make("same title")] = true
	}
	if len(seen) < 45 {
		t.Errorf("only %d distinct slugs out of 50", len(seen))
	}
}
