// Package scale maps the 26-letter alphabet onto the degrees of a musical
// scale, which is what turns a scale into a substitution cipher.
package scale

import (
	"fmt"

	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/pitch"
)

// Mode is a named 7-degree interval pattern. Offsets are semitones above the
// root for degrees 1..7.
type Mode struct {
	Name    string
	Offsets [7]int
}

// Modes is the fixed catalog the decoder enumerates. Order matters: it fixes
// the enumeration order of work items and therefore first-seen tie-breaks.
var Modes = []Mode{
	{"Major", [7]int{0, 2, 4, 5, 7, 9, 11}},
	{"Dorian", [7]int{0, 2, 3, 5, 7, 9, 10}},
	{"Phrygian", [7]int{0, 1, 3, 5, 7, 8, 10}},
	{"Lydian", [7]int{0, 2, 4, 6, 7, 9, 11}},
	{"Mixolydian", [7]int{0, 2, 4, 5, 7, 9, 10}},
	{"Minor", [7]int{0, 2, 3, 5, 7, 8, 10}},
	{"Locrian", [7]int{0, 1, 3, 5, 6, 8, 10}},
	{"Harmonic Minor", [7]int{0, 2, 3, 5, 7, 8, 11}},
}

// Scale is a root pitch class plus a mode.
type Scale struct {
	Root pitch.Class
	Mode Mode
}

func (s Scale) String() string {
	return fmt.Sprintf("%s %s", s.Root.Name(), s.Mode.Name)
}

// InvalidScaleError reports a scale whose mode table cannot produce a
// complete letter mapping. The orchestrator skips such scales.
type InvalidScaleError struct {
	Scale  Scale
	Reason string
}

func (e *InvalidScaleError) Error() string {
	return fmt.Sprintf("invalid scale %s: %s", e.Scale, e.Reason)
}

// LetterMapping assigns each lowercase letter (index 0 = 'a') a pitch class.
type LetterMapping [26]pitch.Class

// InverseMapping lists, per pitch class, the letters that decode to it,
// in alphabetical order. Classes outside the scale have empty lists.
type InverseMapping [12][]byte

// BuildLetterMapping walks degrees 1..7 cyclically and assigns successive
// letters, so 'a' lands on the root, 'b' on degree 2, and 'h' back on the
// root. Five of the seven scale classes end up with four letters, two with
// three.
func BuildLetterMapping(s Scale) (LetterMapping, error) {
	var m LetterMapping
	for i := range s.Mode.Offsets {
		off := s.Mode.Offsets[i]
		if off < 0 || off > 11 {
			return m, &InvalidScaleError{Scale: s, Reason: fmt.Sprintf("degree %d offset %d out of range", i+1, off)}
		}
	}
	for idx := 0; idx < 26; idx++ {
		m[idx] = s.Root.Transpose(s.Mode.Offsets[idx%7])
	}
	return m, nil
}

// Invert groups letters by pitch class. Letters stay in alphabetical order
// because they are assigned in alphabetical order.
func Invert(m LetterMapping) InverseMapping {
	var inv InverseMapping
	for idx := 0; idx < 26; idx++ {
		pc := m[idx]
		inv[pc] = append(inv[pc], byte('a'+idx))
	}
	return inv
}
