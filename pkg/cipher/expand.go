// Package cipher turns melodies into candidate letter strings and segments
// those strings into dictionary phrases.
package cipher

import (
	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/pitch"
	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/scale"
)

// Candidates enumerates every letter string a melody can decode to under one
// scale: the Cartesian product, in melody order, of each note's letter set.
// Strings come out in lexicographic order because the per-position sets are
// alphabetical. The iterator is restartable via Reset and never materializes
// the whole product (worst case 4^N strings).
type Candidates struct {
	sets [][]byte
	cur  []int
	buf  []byte
	done bool
}

// Expand builds the candidate iterator for a normalized melody. A note whose
// pitch class lies outside the scale's seven classes makes the melody
// unresolvable for this scale: the iterator yields nothing. An empty melody
// also yields nothing; the orchestrator rejects it before ever getting here.
func Expand(inv scale.InverseMapping, melody []pitch.Class) *Candidates {
	c := &Candidates{}
	if len(melody) == 0 {
		c.done = true
		return c
	}
	c.sets = make([][]byte, len(melody))
	for i, pc := range melody {
		letters := inv[pc]
		if len(letters) == 0 {
			c.done = true
			return c
		}
		c.sets[i] = letters
	}
	c.cur = make([]int, len(melody))
	c.buf = make([]byte, len(melody))
	return c
}

// Resolvable reports whether the melody maps onto the scale at all.
func (c *Candidates) Resolvable() bool {
	return c.sets != nil && c.cur != nil
}

// Count returns the total number of candidate strings.
func (c *Candidates) Count() int {
	if !c.Resolvable() {
		return 0
	}
	n := 1
	for _, set := range c.sets {
		n *= len(set)
	}
	return n
}

// Next returns the next candidate string, or false when exhausted.
func (c *Candidates) Next() (string, bool) {
	if c.done {
		return "", false
	}
	for i, idx := range c.cur {
		c.buf[i] = c.sets[i][idx]
	}
	s := string(c.buf)

	// Odometer: last position ticks fastest.
	for i := len(c.cur) - 1; i >= 0; i-- {
		c.cur[i]++
		if c.cur[i] < len(c.sets[i]) {
			return s, true
		}
		c.cur[i] = 0
	}
	c.done = true
	return s, true
}

// Reset rewinds the iterator to the first candidate.
func (c *Candidates) Reset() {
	if !c.Resolvable() {
		return
	}
	for i := range c.cur {
		c.cur[i] = 0
	}
	c.done = false
}
