// Package lexicon loads and holds the word and name sets the decoder
// segments against, plus the derived prefix index used for pruning.
package lexicon

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// ErrEmptyLexicon is returned when neither words nor names are available.
// Decoding cannot produce anything without a lexicon, so this is fatal.
var ErrEmptyLexicon = errors.New("lexicon: no words or names loaded")

// The only English one-letter words. Everything else of length 1 is noise
// from wordlist files and gets dropped at load time.
var validSingleLetters = map[string]bool{"a": true, "i": true}

// Lexicon is an immutable snapshot of the dictionary and proper-name sets.
// It is built once per run and shared read-only across all workers.
type Lexicon struct {
	words    map[string]struct{}
	names    map[string]struct{}
	prefixes map[string]struct{}
	maxLen   int
}

// New builds a Lexicon from word and name lists. Entries are lowercased and
// trimmed; invalid single-letter entries are dropped. Fails with
// ErrEmptyLexicon when nothing survives.
func New(words, names []string) (*Lexicon, error) {
	lex := &Lexicon{
		words:    make(map[string]struct{}, len(words)),
		names:    make(map[string]struct{}, len(names)),
		prefixes: make(map[string]struct{}),
	}
	for _, w := range words {
		lex.add(lex.words, w)
	}
	for _, n := range names {
		lex.add(lex.names, n)
	}
	if len(lex.words) == 0 && len(lex.names) == 0 {
		return nil, ErrEmptyLexicon
	}
	return lex, nil
}

func (l *Lexicon) add(set map[string]struct{}, entry string) {
	entry = strings.ToLower(strings.TrimSpace(entry))
	if entry == "" {
		return
	}
	if len(entry) == 1 && !validSingleLetters[entry] {
		return
	}
	if _, dup := set[entry]; dup {
		return
	}
	set[entry] = struct{}{}
	if len(entry) > l.maxLen {
		l.maxLen = len(entry)
	}
	// Proper prefixes only; the entry itself is found via Contains.
	for i := 1; i < len(entry); i++ {
		l.prefixes[entry[:i]] = struct{}{}
	}
}

// Contains reports whether s is a dictionary word or a proper name.
func (l *Lexicon) Contains(s string) bool {
	if _, ok := l.words[s]; ok {
		return true
	}
	_, ok := l.names[s]
	return ok
}

// IsWord reports whether s is in the dictionary set.
func (l *Lexicon) IsWord(s string) bool {
	_, ok := l.words[s]
	return ok
}

// IsName reports whether s is in the proper-name set.
func (l *Lexicon) IsName(s string) bool {
	_, ok := l.names[s]
	return ok
}

// IsPrefix reports whether s is a proper prefix of some entry.
func (l *Lexicon) IsPrefix(s string) bool {
	_, ok := l.prefixes[s]
	return ok
}

// MaxWordLength is the length of the longest entry, bounding the DP window
// in the segmenter.
func (l *Lexicon) MaxWordLength() int {
	return l.maxLen
}

// Size returns the word and name counts.
func (l *Lexicon) Size() (words, names int) {
	return len(l.words), len(l.names)
}

// LoadWordFile reads one entry per line from path, skipping blanks. The
// caller decides whether the result feeds the word or the name set.
func LoadWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
