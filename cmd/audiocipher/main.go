package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"

	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/lexicon"
	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/midi"
	"github.com/ezrasandzerbell/audiocipher-decoder/pkg/search"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	tonesFlag := flag.String("tones", "", `Tone row to decode, e.g. "C# A F#"`)
	midiFlag := flag.String("midi", "", "MIDI file to extract a tone row from")
	midiDirFlag := flag.String("midi-dir", "", "Directory of MIDI files to decode")
	dbFlag := flag.String("db", "audiocipher.db", "Path to the SQLite lexicon store")
	importWordsFlag := flag.String("import-words", "", "Wordlist file to import into the store")
	importNamesFlag := flag.String("import-names", "", "Name list file to import into the store")
	importURLFlag := flag.String("import-url", "", "Web page to harvest dictionary words from")
	downloadFlag := flag.Bool("download", false, "Download the default wordlist when the store is empty")
	wordlistFlag := flag.String("wordlist", "wordlist.txt", "Local cache path for the downloaded wordlist")
	workersFlag := flag.Int("workers", runtime.NumCPU(), "Decode worker count")
	flag.Parse()

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := sql.Open("sqlite3", *dbFlag)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := lexicon.InitDB(conn); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	importer := lexicon.NewImporter(conn)

	// Import modes run and exit, mirroring how the store is usually seeded
	// once and decoded against many times.
	if *importWordsFlag != "" || *importNamesFlag != "" || *importURLFlag != "" {
		if *importWordsFlag != "" {
			n, err := importer.ImportFile(*importWordsFlag, lexicon.KindWord)
			if err != nil {
				log.Fatalf("Failed to import words: %v", err)
			}
			fmt.Printf("Imported %d words from %s\n", n, *importWordsFlag)
		}
		if *importNamesFlag != "" {
			n, err := importer.ImportFile(*importNamesFlag, lexicon.KindName)
			if err != nil {
				log.Fatalf("Failed to import names: %v", err)
			}
			fmt.Printf("Imported %d names from %s\n", n, *importNamesFlag)
		}
		if *importURLFlag != "" {
			n, err := importer.ImportFromURL(ctx, *importURLFlag)
			if err != nil {
				log.Fatalf("Failed to import from URL: %v", err)
			}
			fmt.Printf("Imported %d words from %s\n", n, *importURLFlag)
		}
		return
	}

	if empty, err := storeIsEmpty(conn); err != nil {
		log.Fatalf("Failed to inspect store: %v", err)
	} else if empty && *downloadFlag {
		if err := lexicon.EnsureWordlist(ctx, *wordlistFlag, ""); err != nil {
			log.Fatalf("Failed to download wordlist: %v", err)
		}
		n, err := importer.ImportFile(*wordlistFlag, lexicon.KindWord)
		if err != nil {
			log.Fatalf("Failed to import downloaded wordlist: %v", err)
		}
		fmt.Printf("Imported %d words from %s\n", n, *wordlistFlag)
	}

	lex, err := lexicon.LoadFromStore(conn)
	if err != nil {
		if err == lexicon.ErrEmptyLexicon {
			log.Fatal("Lexicon store is empty. Seed it with -import-words/-import-names, -import-url or -download.")
		}
		log.Fatalf("Failed to load lexicon: %v", err)
	}
	words, names := lex.Size()
	fmt.Printf("Loaded %d words and %d names from %s\n", words, names, *dbFlag)

	decoder := search.NewDecoder(lex)
	decoder.Workers = *workersFlag
	decoder.Logger = log.New(os.Stderr, "", log.LstdFlags)

	rows, err := collectToneRows(*tonesFlag, *midiFlag, *midiDirFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}

	for _, tr := range rows {
		fmt.Printf("\nDecoding tone row: %s\n", strings.Join(tr.notes, " "))
		report, err := decoder.Decode(ctx, tr.notes)
		if err != nil {
			log.Fatalf("Decode failed for %s: %v", tr.label, err)
		}
		printReport(report)
	}
}

type toneRow struct {
	label string
	notes []string
}

// collectToneRows resolves the input adapters in priority order: explicit
// tones, a single MIDI file, a MIDI directory, or the interactive prompt.
func collectToneRows(tones, midiFile, midiDir string) ([]toneRow, error) {
	switch {
	case tones != "":
		return []toneRow{{label: "command line", notes: strings.Fields(tones)}}, nil

	case midiFile != "":
		notes, err := midi.ToneRowFile(midiFile)
		if err != nil {
			return nil, err
		}
		fmt.Printf("Extracted tone row from %s: %s\n", filepath.Base(midiFile), strings.Join(notes, " "))
		return []toneRow{{label: midiFile, notes: notes}}, nil

	case midiDir != "":
		entries, err := os.ReadDir(midiDir)
		if err != nil {
			return nil, err
		}
		var rows []toneRow
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if ext != ".mid" && ext != ".midi" {
				continue
			}
			path := filepath.Join(midiDir, e.Name())
			notes, err := midi.ToneRowFile(path)
			if err != nil {
				// A bad file should not sink the rest of the directory.
				log.Printf("Skipping %s: %v", path, err)
				continue
			}
			fmt.Printf("Extracted tone row from %s: %s\n", e.Name(), strings.Join(notes, " "))
			rows = append(rows, toneRow{label: path, notes: notes})
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("no MIDI files found in %s", midiDir)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].label < rows[j].label })
		return rows, nil

	default:
		fmt.Println("Enter a tone row to decipher.")
		fmt.Println("Format: note names separated by spaces (e.g., C# A F#)")
		fmt.Print("Tone row: ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return nil, fmt.Errorf("no input provided")
		}
		notes := strings.Fields(scanner.Text())
		if len(notes) == 0 {
			return nil, fmt.Errorf("no input provided")
		}
		return []toneRow{{label: "interactive", notes: notes}}, nil
	}
}

func storeIsEmpty(conn *sql.DB) (bool, error) {
	n, err := lexicon.CountEntries(conn)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func printReport(report *search.Report) {
	if report.Skipped > 0 {
		fmt.Printf("Skipped %d of %d scales.\n", report.Skipped, report.Scales)
	}
	if len(report.Results) == 0 {
		fmt.Println("No valid phrases found for the given tone row.")
	} else {
		fmt.Println("\nBest phrases with the fewest number of words:")
		for _, r := range report.Results {
			fmt.Printf("Phrase: %q, Decoded in: %s %s\n", r.Phrase, r.Root, r.Mode)
		}
	}
	if len(report.SingleWords) > 0 {
		fmt.Println("\nSummary of single words:")
		for _, w := range report.SingleWords {
			fmt.Printf("Single Word: %q\n", w)
		}
	}
}
