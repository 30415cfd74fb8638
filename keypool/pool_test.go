package keypool

import "testing"

func TestCurrentPrefersPrimaryOverride(t *testing.T) {
	p := New([]string{"a", "b"}, "primary")
	if got := p.Current(); got != "primary" {
		t.Fatalf("Current() = %q, want primary override", got)
	}
	p.Rotate()
	if got := p.Current(); got != "primary" {
		t.Fatalf("Current() after Rotate = %q, want primary override", got)
	}
}

func TestRotateAdvancesAndWraps(t *testing.T) {
	p := New([]string{"a", "b", "c"}, "")

	want := []string{"a", "b", "c", "a", "b"}
	for i, w := range want {
		if got := p.Current(); got != w {
			t.Fatalf("step %d: Current() = %q, want %q", i, got, w)
		}
		p.Rotate()
	}
}

func TestRotateChangesCurrentUnlessSingleKey(t *testing.T) {
	multi := New([]string{"a", "b"}, "")
	before := multi.Current()
	multi.Rotate()
	if after := multi.Current(); after == before {
		t.Fatalf("rotation did not change credential: %q", after)
	}

	single := New([]string{"only"}, "")
	single.Rotate()
	if got := single.Current(); got != "only" {
		t.Fatalf("single-key pool returned %q after rotate", got)
	}
}

func TestEmptyPoolIsSafe(t *testing.T) {
	p := New(nil, "")
	if got := p.Current(); got != "" {
		t.Fatalf("empty pool Current() = %q, want empty", got)
	}
	// Must not panic.
	p.Rotate()
	if got := p.Current(); got != "" {
		t.Fatalf("empty pool Current() after Rotate = %q, want empty", got)
	}
}

func TestBlankKeysAreDropped(t *testing.T) {
	p := New([]string{"", "a", ""}, "")
	if p.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", p.Size())
	}
	if got := p.Current(); got != "a" {
		t.Fatalf("Current() = %q, want a", got)
	}
}
