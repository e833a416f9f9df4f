package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SQLiteSource reads NXT-style caches: one sqlite database per table, named
// js5-{table}.jcache, with a cache(KEY, DATA) table holding container blobs.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this source.
type SQLiteSource struct {
	dir  string
	keys Keyring

	mu  sync.Mutex
	dbs map[uint32]*sql.DB
}

// NewSQLiteSource creates a SQLiteSource over a directory of jcache files.
// Databases are opened lazily per table. The returned source must be closed
// after use to release database resources.
func NewSQLiteSource(dir string, keys Keyring) *SQLiteSource {
	return &SQLiteSource{dir: dir, keys: keys, dbs: make(map[uint32]*sql.DB)}
}

func (s *SQLiteSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, db := range s.dbs {
		errs = append(errs, db.Close())
	}
	clear(s.dbs)
	return errors.Join(errs...)
}

func (s *SQLiteSource) db(table uint32) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[table]; ok {
		return db, nil
	}

	// only a missing database means the table is absent; a present but
	// unreadable one is a real failure and must not look like emptiness
	filePath := filepath.Join(s.dir, fmt.Sprintf("js5-%d.jcache", table))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: table %d", ErrNotFound, table)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, fmt.Errorf("cache: table %d: %w", table, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: table %d: %w", table, err)
	}

	s.dbs[table] = db
	return db, nil
}

func (s *SQLiteSource) Fetch(table, file uint32) ([]byte, error) {
	db, err := s.db(table)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = db.QueryRow("SELECT DATA FROM cache WHERE KEY = ?", file).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: table %d file %d", ErrNotFound, table, file)
	}
	if err != nil {
		return nil, err
	}

	return DecodeContainer(data, s.keys.Lookup(table, file))
}

func (s *SQLiteSource) FileIDs(table uint32) ([]uint32, error) {
	db, err := s.db(table)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT KEY FROM cache ORDER BY KEY")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint32, 0)
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
