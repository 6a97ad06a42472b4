package dfs

import "testing"

func testContext() Context {
	return Context{CurrentVolume: VolumeSelector{Surface: 0}, CurrentDirectory: '$'}
}

// TestQualifyIdempotent checks qualify(qualify(x)) = qualify(x).
func TestQualifyIdempotent(t *testing.T) {
	ctx := testContext()
	for _, name := range []string{"PROG", "$.PROG", "Price"} {
		once, err := Qualify(ctx, name)
		if err != nil {
			t.Fatalf("Qualify(%q): %v", name, err)
		}
		twice, err := Qualify(ctx, once)
		if err != nil {
			t.Fatalf("Qualify(%q) (second pass): %v", once, err)
		}
		if once != twice {
			t.Errorf("Qualify not idempotent: Qualify(%q)=%q, Qualify(%q)=%q", name, once, once, twice)
		}
	}
}

// TestWildcardMatch is the "P*" scenario: it matches entries named
// Price/price in the current directory but not one filed elsewhere.
func TestWildcardMatch(t *testing.T) {
	ctx := testContext()
	m, err := NewMatcher(ctx, "P*")
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}

	cases := []struct {
		vol  VolumeSelector
		dir  byte
		name string
		want bool
	}{
		{VolumeSelector{Surface: 0}, '$', "Price", true},
		{VolumeSelector{Surface: 0}, '$', "price", true},
		{VolumeSelector{Surface: 0}, 'Q', "Price", false},
	}
	for _, c := range cases {
		got := m.Matches(c.vol, c.dir, c.name)
		if got != c.want {
			t.Errorf("Matches(%v, %c, %q) = %v, want %v", c.vol, c.dir, c.name, got, c.want)
		}
	}
}
