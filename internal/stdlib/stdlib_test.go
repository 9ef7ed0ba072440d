// SPDX-License-Identifier: MPL-2.0

package stdlib

import "testing"

func TestDefaultContains(t *testing.T) {
	t.Parallel()

	set := Default()

	tests := []struct {
		name string
		want bool
	}{
		{"os", true},
		{"sys", true},
		{"json", true},
		{"typing", true},
		{"datetime", true},
		{"__future__", true},
		{"os.path", true},
		{"urllib.request", true},
		{"requests", false},
		{"numpy", false},
		{"sklearn", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := set.Contains(tt.name); got != tt.want {
			t.Errorf("Default().Contains(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDefaultIsSharedAndSized(t *testing.T) {
	t.Parallel()

	a := Default()
	b := Default()
	if a != b {
		t.Error("Default() should return the same set on every call")
	}
	if a.Len() < 100 {
		t.Errorf("Default().Len() = %d, want at least 100 entries", a.Len())
	}
}

func TestExtendDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := New("os", "sys")
	extended := base.Extend("internal_tooling", "")

	if !extended.Contains("internal_tooling") {
		t.Error("extended set should contain the added name")
	}
	if !extended.Contains("os") {
		t.Error("extended set should keep the original names")
	}
	if base.Contains("internal_tooling") {
		t.Error("Extend must not mutate the receiver")
	}
	if extended.Len() != 3 {
		t.Errorf("extended.Len() = %d, want 3 (empty names dropped)", extended.Len())
	}
}

func TestNewSkipsEmptyNames(t *testing.T) {
	t.Parallel()

	s := New("", "os", "")
	if s.Len() != 1 {
		t.Errorf("New with empty names: Len() = %d, want 1", s.Len())
	}
}
