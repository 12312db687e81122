package caseins

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"Health", "health"},
		{"HEALTH", "health"},
		{"health", "health"},
		{"_Under_Score9", "_under_score9"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldNoAlloc(t *testing.T) {
	// уже-нижний регистр не должен копироваться
	s := "already_lower_123"
	if got := Fold(s); string(got) != s {
		t.Fatalf("Fold changed lowercase input: %q", got)
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Bar", "bAR") {
		t.Error("Bar should equal bAR")
	}
	if Equal("Bar", "Baz") {
		t.Error("Bar should not equal Baz")
	}
	if Equal("Bar", "Barr") {
		t.Error("length mismatch should not be equal")
	}
}

func TestNamePreservesSpelling(t *testing.T) {
	n := NewName("DefaultProperties")
	if n.String() != "DefaultProperties" {
		t.Errorf("display = %q", n.String())
	}
	if n.Key() != "defaultproperties" {
		t.Errorf("key = %q", n.Key())
	}
	if !n.Eq(NewName("DEFAULTPROPERTIES")) {
		t.Error("names differing only in case must be equal")
	}
}
