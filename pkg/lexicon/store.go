package lexicon

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Entry kinds in the store.
const (
	KindWord = "word"
	KindName = "name"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	entry TEXT NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('word', 'name')),
	source TEXT NOT NULL DEFAULT '',
	added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (entry, kind)
);

CREATE INDEX IF NOT EXISTS idx_entries_kind ON entries (kind)
`

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// UpsertEntry inserts a lexicon entry or leaves an existing one untouched,
// returning its id. Entries are normalized the same way Lexicon.New
// normalizes them; entries that would be dropped there return id 0.
func UpsertEntry(db DBExecutor, entry, kind, source string) (int64, error) {
	if kind != KindWord && kind != KindName {
		return 0, fmt.Errorf("unknown entry kind %q", kind)
	}
	entry = strings.ToLower(strings.TrimSpace(entry))
	if entry == "" || (len(entry) == 1 && !validSingleLetters[entry]) {
		return 0, nil
	}

	var id int64
	query := `INSERT INTO entries (entry, kind, source)
			  VALUES (?, ?, ?)
			  ON CONFLICT(entry, kind)
			  DO UPDATE SET source = entries.source
			  RETURNING id`
	if err := db.QueryRow(query, entry, kind, source).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert entry %q: %w", entry, err)
	}
	return id, nil
}

// LoadEntries reads the full store back as word and name lists.
func LoadEntries(db DBExecutor) (words, names []string, err error) {
	rows, err := db.Query(`SELECT entry, kind FROM entries ORDER BY entry`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry, kind string
		if err := rows.Scan(&entry, &kind); err != nil {
			return nil, nil, err
		}
		switch kind {
		case KindName:
			names = append(names, entry)
		default:
			words = append(words, entry)
		}
	}
	return words, names, rows.Err()
}

// CountEntries returns the number of stored entries of any kind.
func CountEntries(db DBExecutor) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// LoadFromStore builds a Lexicon from everything in the store.
func LoadFromStore(db DBExecutor) (*Lexicon, error) {
	words, names, err := LoadEntries(db)
	if err != nil {
		return nil, err
	}
	return New(words, names)
}
