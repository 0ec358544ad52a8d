// Package search runs the full decode: every root and mode combination is
// evaluated in parallel and the minimal-word-count phrases are reported.
package search

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sort"
	"strings"

	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/cipher"
	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/lexicon"
	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/pitch"
	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/scale"
)

// ErrEmptyMelody is returned when the tone row has no notes. Decoding an
// empty melody is a caller bug, not a "no results" outcome.
var ErrEmptyMelody = errors.New("search: empty melody")

// Result is one decoded phrase with the scale that produced it.
type Result struct {
	Phrase    string
	Root      string
	Mode      string
	WordCount int
}

// Report is the outcome of a full decode run.
type Report struct {
	// Results holds every deduplicated phrase whose word count equals the
	// global minimum, sorted by phrase text (case-insensitive).
	Results []Result
	// SingleWords lists the distinct single-word phrases discovered across
	// all scales, sorted, regardless of whether they made Results.
	SingleWords []string
	// Scales is the number of (root, mode) work items evaluated; Skipped
	// counts the ones dropped because their mapping could not be built.
	Scales  int
	Skipped int
}

// Decoder drives the cipher engine across the root and mode catalogs.
type Decoder struct {
	Lexicon *lexicon.Lexicon
	// Workers is the pool size; defaults to the hardware parallelism.
	Workers int
	// Logger receives skip notices. nil means no logging.
	Logger *log.Logger
}

// NewDecoder creates a Decoder over a lexicon with default settings.
func NewDecoder(lex *lexicon.Lexicon) *Decoder {
	return &Decoder{
		Lexicon: lex,
		Workers: runtime.NumCPU(),
	}
}

type workItem struct {
	scale scale.Scale
}

// Decode normalizes the tone row, evaluates every scale in the catalogs, and
// ranks the surviving phrases. The ranked output is independent of worker
// scheduling: each work item writes into its own result slot and merging
// happens only after every worker has finished.
func (d *Decoder) Decode(ctx context.Context, toneRow []string) (*Report, error) {
	if len(toneRow) == 0 {
		return nil, ErrEmptyMelody
	}
	if d.Lexicon == nil {
		return nil, lexicon.ErrEmptyLexicon
	}

	// Validate the raw melody once, before any scale-specific work. A bad
	// token here aborts the whole run.
	melody, err := pitch.NormalizeAll(toneRow)
	if err != nil {
		return nil, err
	}

	var items []workItem
	for _, root := range pitch.Catalog() {
		for _, mode := range scale.Modes {
			items = append(items, workItem{scale: scale.Scale{Root: root, Mode: mode}})
		}
	}

	// One slot per work item; nil distinguishes "skipped" from "no results"
	// only via the skipped slice, since both leave the slot empty.
	slots := make([][]Result, len(items))
	skipped := make([]bool, len(items))

	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := NewWorkerPool(workers, workers*2)
	pool.Start(ctx)

	for i := range items {
		idx := i
		item := items[i]
		job := func(ctx context.Context) error {
			records, err := d.decodeScale(ctx, item.scale, melody)
			if err != nil {
				skipped[idx] = true
				if d.Logger != nil {
					d.Logger.Printf("skipping %s: %v", item.scale, err)
				}
				return err
			}
			slots[idx] = records
			return nil
		}
		if err := pool.SubmitCtx(ctx, job); err != nil {
			break
		}
	}
	pool.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Scales: len(items)}
	var all []Result
	for i, records := range slots {
		if skipped[i] {
			report.Skipped++
			continue
		}
		all = append(all, records...)
	}
	report.Results, report.SingleWords = rank(all)
	return report, nil
}

// decodeScale evaluates one (root, mode) pair: build the letter mapping,
// expand the melody, segment and validate every candidate string.
func (d *Decoder) decodeScale(ctx context.Context, s scale.Scale, melody []pitch.Class) ([]Result, error) {
	mapping, err := scale.BuildLetterMapping(s)
	if err != nil {
		return nil, err
	}
	inv := scale.Invert(mapping)

	candidates := cipher.Expand(inv, melody)
	if !candidates.Resolvable() {
		return nil, nil
	}

	var records []Result
	for {
		if ctx.Err() != nil {
			return records, nil
		}
		candidate, ok := candidates.Next()
		if !ok {
			return records, nil
		}
		phrase := cipher.Segment(candidate, d.Lexicon)
		if phrase == nil || !cipher.IsValidPhrase(phrase, d.Lexicon) {
			continue
		}
		records = append(records, Result{
			Phrase:    phrase.String(),
			Root:      s.Root.Name(),
			Mode:      s.Mode.Name,
			WordCount: phrase.WordCount(),
		})
	}
}

// rank deduplicates by phrase text (lowest word count wins, first seen kept
// on ties), then keeps only the phrases at the global minimum word count,
// sorted case-insensitively. Single-word phrases are summarized separately
// before the minimum cut.
func rank(all []Result) ([]Result, []string) {
	best := make(map[string]Result)
	var order []string
	singles := make(map[string]struct{})

	for _, r := range all {
		if r.WordCount == 1 {
			singles[r.Phrase] = struct{}{}
		}
		prev, seen := best[r.Phrase]
		if !seen {
			best[r.Phrase] = r
			order = append(order, r.Phrase)
			continue
		}
		if r.WordCount < prev.WordCount {
			best[r.Phrase] = r
		}
	}

	if len(order) == 0 {
		return nil, nil
	}

	minWords := 0
	for i, phrase := range order {
		if wc := best[phrase].WordCount; i == 0 || wc < minWords {
			minWords = wc
		}
	}

	var ranked []Result
	for _, phrase := range order {
		if r := best[phrase]; r.WordCount == minWords {
			ranked = append(ranked, r)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return strings.ToLower(ranked[i].Phrase) < strings.ToLower(ranked[j].Phrase)
	})

	singleWords := make([]string, 0, len(singles))
	for w := range singles {
		singleWords = append(singleWords, w)
	}
	sort.Strings(singleWords)
	return ranked, singleWords
}
