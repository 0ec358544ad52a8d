package lexicon

import (
	"context"
	"database/sql"
	"fmt"
)

// Importer moves entries into the sqlite store in transactional batches.
type Importer struct {
	conn      *sql.DB
	BatchSize int
}

// NewImporter creates an importer over the given store connection.
func NewImporter(conn *sql.DB) *Importer {
	return &Importer{conn: conn, BatchSize: 500}
}

// ImportEntries upserts the given entries under one kind, tagged with a
// source label. Returns the number of entries submitted (not the number
// newly inserted; duplicates upsert silently).
func (im *Importer) ImportEntries(entries []string, kind, source string) (int, error) {
	bw := NewBatchWriter(im.conn, im.BatchSize)
	count := 0
	for _, e := range entries {
		entry := e
		err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
			if _, err := UpsertEntry(tx, entry, kind, source); err != nil {
				return fmt.Errorf("import %q: %w", entry, err)
			}
			return nil
		})
		if err != nil {
			_ = bw.Close()
			return count, err
		}
		count++
	}
	if err := bw.Close(); err != nil {
		return count, err
	}
	return count, nil
}

// ImportFile reads a one-entry-per-line file and imports it under kind.
func (im *Importer) ImportFile(path, kind string) (int, error) {
	entries, err := LoadWordFile(path)
	if err != nil {
		return 0, err
	}
	return im.ImportEntries(entries, kind, path)
}
