// The fetch log, a little sqlite table next to the cached files.
// It says what we have, where it came from and when. The cache
// would work from the filenames alone, but then nothing could ever
// tell you when an entry was last refreshed.

package pdb

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type fetchIndex struct {
	db *sql.DB
}

const fetchSchema = `
CREATE TABLE IF NOT EXISTS fetches (
	code    TEXT PRIMARY KEY,
	path    TEXT NOT NULL,
	nbyte   INTEGER NOT NULL,
	fetched TIMESTAMP NOT NULL
);`

func newFetchIndex(path string) (*fetchIndex, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(fetchSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &fetchIndex{db: db}, nil
}

// record notes that we hold code at path, nbyte compressed bytes.
// Fetching again just overwrites the row.
func (ix *fetchIndex) record(code, path string, nbyte int64) error {
	_, err := ix.db.Exec(
		`INSERT OR REPLACE INTO fetches (code, path, nbyte, fetched)
		 VALUES (?, ?, ?, ?)`, code, path, nbyte, time.Now().UTC())
	return err
}

// lookup asks if we hold an entry and where.
func (ix *fetchIndex) lookup(code string) (string, bool) {
	var p string
	err := ix.db.QueryRow(
		`SELECT path FROM fetches WHERE code = ?`, code).Scan(&p)
	return p, err == nil
}

func (ix *fetchIndex) close() error { return ix.db.Close() }
