package cipher

import (
	"strings"

	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/lexicon"
)

// Phrase is an ordered decomposition of a candidate string into lexicon
// entries.
type Phrase []string

func (p Phrase) String() string {
	return strings.Join(p, " ")
}

// WordCount returns the number of words in the phrase.
func (p Phrase) WordCount() int {
	return len(p)
}

// Segment computes a minimal-word-count decomposition of candidate into
// lexicon entries, or nil when none exists. The dynamic program keeps the
// first minimal decomposition found per end-index; tied alternatives are not
// enumerated.
func Segment(candidate string, lex *lexicon.Lexicon) Phrase {
	n := len(candidate)
	if n == 0 {
		return nil
	}
	maxLen := lex.MaxWordLength()
	if maxLen == 0 {
		return nil
	}

	best := make([]Phrase, n+1)
	best[0] = Phrase{}
	reachable := make([]bool, n+1)
	reachable[0] = true

	// dead[j] marks a start index whose substring has outgrown every entry:
	// once candidate[j:i] is neither a word nor a proper prefix of one, no
	// longer i can produce a word from j either.
	dead := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		lo := 0
		if i > maxLen {
			lo = i - maxLen
		}
		for j := lo; j < i; j++ {
			if !reachable[j] || dead[j] {
				continue
			}
			w := candidate[j:i]
			if !lex.Contains(w) {
				if !lex.IsPrefix(w) {
					dead[j] = true
				}
				continue
			}
			if !reachable[i] || len(best[j])+1 < len(best[i]) {
				decomp := make(Phrase, len(best[j])+1)
				copy(decomp, best[j])
				decomp[len(best[j])] = w
				best[i] = decomp
				reachable[i] = true
			}
		}
	}

	if !reachable[n] {
		return nil
	}
	return best[n]
}

// IsValidPhrase reports whether every word of the phrase is a lexicon entry,
// with the usual single-letter exception: only "a" and "i" stand alone. An
// empty phrase is invalid.
func IsValidPhrase(p Phrase, lex *lexicon.Lexicon) bool {
	if len(p) == 0 {
		return false
	}
	for _, w := range p {
		lw := strings.ToLower(w)
		if len(lw) == 1 && lw != "a" && lw != "i" {
			return false
		}
		if !lex.Contains(lw) {
			return false
		}
	}
	return true
}
