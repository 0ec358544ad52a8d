// Package pitch defines the twelve canonical pitch classes and the
// normalization of arbitrary note-name spellings onto them.
package pitch

import (
	"fmt"
	"strings"
)

// Class is a pitch class in 0..11, where 0 is C and each step is a semitone.
// Octaves are irrelevant to the cipher.
type Class int

// Canonical sharp-preferring spellings, indexed by Class.
var names = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// Semitone offset of each natural letter from C.
var naturals = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// InvalidPitchNameError reports a token that cannot be resolved to any pitch
// class, even via enharmonic substitution.
type InvalidPitchNameError struct {
	Token string
}

func (e *InvalidPitchNameError) Error() string {
	return fmt.Sprintf("invalid pitch name %q", e.Token)
}

// Name returns the canonical spelling of the class.
func (c Class) Name() string {
	return names[((int(c)%12)+12)%12]
}

// Transpose shifts the class by n semitones, wrapping the octave.
func (c Class) Transpose(n int) Class {
	return Class((((int(c) + n) % 12) + 12) % 12)
}

// Normalize resolves a note-name token to its pitch class. Canonical sharp
// spellings match directly; everything else (flats written as "-" or "b",
// double accidentals, white-key aliases like E# or C-) is repaired
// enharmonically. A trailing octave digit is ignored. Unresolvable tokens
// yield *InvalidPitchNameError.
func Normalize(token string) (Class, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, &InvalidPitchNameError{Token: token}
	}

	letter := s[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	base, ok := naturals[letter]
	if !ok {
		return 0, &InvalidPitchNameError{Token: token}
	}

	sharps, flats := 0, 0
	for i := 1; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == '#':
			sharps++
		case ch == '-' || ch == 'b':
			flats++
		case ch >= '0' && ch <= '9':
			// Octave digit; anything after it is garbage.
			if i != len(s)-1 {
				return 0, &InvalidPitchNameError{Token: token}
			}
		default:
			return 0, &InvalidPitchNameError{Token: token}
		}
	}
	// Mixed accidentals or more than a double are not spellings anyone writes.
	if sharps > 0 && flats > 0 || sharps > 2 || flats > 2 {
		return 0, &InvalidPitchNameError{Token: token}
	}

	return Class(base).Transpose(sharps - flats), nil
}

// NormalizeAll canonicalizes every token of a tone row, failing on the first
// unresolvable name.
func NormalizeAll(tokens []string) ([]Class, error) {
	out := make([]Class, len(tokens))
	for i, tok := range tokens {
		c, err := Normalize(tok)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Catalog returns the 12 enharmonic-collapsed root pitch classes in ascending
// order. The decoder enumerates scales over this set.
func Catalog() []Class {
	roots := make([]Class, 12)
	for i := range roots {
		roots[i] = Class(i)
	}
	return roots
}
