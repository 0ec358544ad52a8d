package pitch

import (
	"errors"
	"testing"
)

func TestNormalizeCanonical(t *testing.T) {
	for i, name := range []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"} {
		c, err := Normalize(name)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", name, err)
		}
		if int(c) != i {
			t.Errorf("Normalize(%q) = %d, want %d", name, c, i)
		}
		if c.Name() != name {
			t.Errorf("Class(%d).Name() = %q, want %q", i, c.Name(), name)
		}
	}
}

func TestNormalizeEnharmonic(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"E#", "F"},
		{"B#", "C"},
		{"C-", "B"},
		{"F-", "E"},
		{"D-", "C#"},
		{"Db", "C#"},
		{"E-", "D#"},
		{"A-", "G#"},
		{"B-", "A#"},
		{"G-", "F#"},
		{"C##", "D"},
		{"B--", "A"},
		{"c#", "C#"},
		{"f", "F"},
		{"G4", "G"},
		{"Bb3", "A#"},
	}
	for _, tc := range cases {
		c, err := Normalize(tc.token)
		if err != nil {
			t.Errorf("Normalize(%q): %v", tc.token, err)
			continue
		}
		if c.Name() != tc.want {
			t.Errorf("Normalize(%q) = %s, want %s", tc.token, c.Name(), tc.want)
		}
	}
}

func TestNormalizeInvalid(t *testing.T) {
	for _, token := range []string{"", "H", "C#b#", "Cx", "4", "C#4x", "  "} {
		_, err := Normalize(token)
		if err == nil {
			t.Errorf("Normalize(%q): expected error", token)
			continue
		}
		var perr *InvalidPitchNameError
		if !errors.As(err, &perr) {
			t.Errorf("Normalize(%q): error type %T, want *InvalidPitchNameError", token, err)
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	classes, err := NormalizeAll([]string{"C", "E#", "G-"})
	if err != nil {
		t.Fatalf("NormalizeAll: %v", err)
	}
	want := []string{"C", "F", "F#"}
	for i, c := range classes {
		if c.Name() != want[i] {
			t.Errorf("position %d: got %s, want %s", i, c.Name(), want[i])
		}
	}

	if _, err := NormalizeAll([]string{"C", "Q"}); err == nil {
		t.Fatal("expected error for invalid token")
	}
}

func TestCatalog(t *testing.T) {
	roots := Catalog()
	if len(roots) != 12 {
		t.Fatalf("catalog size = %d, want 12", len(roots))
	}
	seen := map[Class]bool{}
	for _, r := range roots {
		if seen[r] {
			t.Errorf("duplicate root %s", r.Name())
		}
		seen[r] = true
	}
}

func TestTransposeWraps(t *testing.T) {
	c, _ := Normalize("B")
	if got := c.Transpose(1); got.Name() != "C" {
		t.Errorf("B+1 = %s, want C", got.Name())
	}
	d, _ := Normalize("C")
	if got := d.Transpose(-1); got.Name() != "B" {
		t.Errorf("C-1 = %s, want B", got.Name())
	}
}
