package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// FlatSource reads a dumped cache laid out as one container file per record:
// {root}/{table}/{file}.dat. Containers are decompressed (and decrypted via
// the keyring where applicable) on every fetch.
type FlatSource struct {
	rootDir string
	keys    Keyring
}

// NewFlatSource creates a FlatSource over rootDir. keys may be nil for
// caches without encrypted map archives.
func NewFlatSource(rootDir string, keys Keyring) (*FlatSource, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cache: %s is not a directory", rootDir)
	}
	return &FlatSource{rootDir: rootDir, keys: keys}, nil
}

func (s *FlatSource) filePath(table, file uint32) string {
	return filepath.Join(s.rootDir, strconv.FormatUint(uint64(table), 10), strconv.FormatUint(uint64(file), 10)+".dat")
}

func (s *FlatSource) Fetch(table, file uint32) ([]byte, error) {
	data, err := os.ReadFile(s.filePath(table, file))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: table %d file %d", ErrNotFound, table, file)
	}
	if err != nil {
		return nil, err
	}
	return DecodeContainer(data, s.keys.Lookup(table, file))
}

func (s *FlatSource) FileIDs(table uint32) ([]uint32, error) {
	tableDir := filepath.Join(s.rootDir, strconv.FormatUint(uint64(table), 10))
	entries, err := os.ReadDir(tableDir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: table %d", ErrNotFound, table)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint32, 0, len(entries))
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".dat")
		if !ok || entry.IsDir() {
			continue
		}
		id, err := strconv.ParseUint(name, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint32(id))
	}
	slices.Sort(ids)
	return ids, nil
}
