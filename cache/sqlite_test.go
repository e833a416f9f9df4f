package cache_test

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/averr/go-worldcache/cache"
	"github.com/averr/go-worldcache/internal/testenc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func writeJcache(t *testing.T, dir string, table uint32, files map[uint32][]byte) {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(dir, fmt.Sprintf("js5-%d.jcache", table)))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE cache (KEY INTEGER PRIMARY KEY, DATA BLOB, VERSION INTEGER, CRC INTEGER)")
	require.NoError(t, err)

	for file, data := range files {
		_, err := db.Exec("INSERT INTO cache (KEY, DATA, VERSION, CRC) VALUES (?, ?, 0, 0)", file, data)
		require.NoError(t, err)
	}
}

func TestSQLiteSource(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("sqlite payload")
	writeJcache(t, dir, 2, map[uint32][]byte{
		10:   testenc.NoneContainer(payload),
		6560: testenc.GzipContainer(payload),
	})

	src := cache.NewSQLiteSource(dir, nil)
	defer src.Close()

	for _, file := range []uint32{10, 6560} {
		data, err := src.Fetch(2, file)
		require.NoError(t, err)
		if diff := cmp.Diff(payload, data); diff != "" {
			t.Errorf("Fetch(2, %d) mismatch (-want+got):\n%v", file, diff)
		}
	}

	_, err := src.Fetch(2, 11)
	require.Truef(t, errors.Is(err, cache.ErrNotFound), "%v", err)

	ids, err := src.FileIDs(2)
	require.NoError(t, err)
	if diff := cmp.Diff([]uint32{10, 6560}, ids); diff != "" {
		t.Errorf("FileIDs mismatch (-want+got):\n%v", diff)
	}

	_, err = src.Fetch(5, 1)
	require.Truef(t, errors.Is(err, cache.ErrNotFound), "%v", err)
}

func TestSQLiteSourceUnreadableDatabase(t *testing.T) {
	// a damaged database is a failure, not an empty table
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js5-5.jcache"), []byte("not a database"), 0o644))

	src := cache.NewSQLiteSource(dir, nil)
	defer src.Close()

	_, err := src.Fetch(5, 1)
	require.Error(t, err)
	require.Falsef(t, errors.Is(err, cache.ErrNotFound), "%v", err)

	_, err = src.FileIDs(5)
	require.Error(t, err)
	require.Falsef(t, errors.Is(err, cache.ErrNotFound), "%v", err)
}
