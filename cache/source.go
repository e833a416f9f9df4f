// Package cache provides the byte-fetch boundary over compiled world caches:
// a (table, file) keyed Source interface, js5 container decompression and a
// few Source implementations for common cache layouts.
package cache

import (
	"errors"
	"fmt"
	"slices"
)

// Well-known table indexes of the js5 cache.
const (
	TableConfigs uint32 = 2
	TableMaps    uint32 = 5
)

// ErrNotFound reports that a (table, file) key has no record. It is the
// expected outcome for keys that were never packed, not a failure.
var ErrNotFound = errors.New("cache: file not found")

// Source fetches decoded cache files. Implementations own decompression and
// decryption; Fetch returns plaintext payloads. A payload returned for a key
// never changes and callers must not modify it. Implementations must be safe
// for concurrent fetches of different keys.
type Source interface {
	// Fetch returns the payload of one cache file, or an error wrapping
	// ErrNotFound when the key has no record.
	Fetch(table, file uint32) ([]byte, error)

	// FileIDs lists the file ids present in a table in ascending order.
	// A table the source does not carry yields an error wrapping
	// ErrNotFound, or an empty list when the layout cannot tell an
	// absent table from an empty one.
	FileIDs(table uint32) ([]uint32, error)
}

// MemSource is a map-backed Source holding already-decoded payloads, useful
// for tests and tools that assemble caches in memory.
type MemSource map[[2]uint32][]byte

func (m MemSource) Put(table, file uint32, data []byte) {
	m[[2]uint32{table, file}] = data
}

func (m MemSource) Fetch(table, file uint32) ([]byte, error) {
	data, ok := m[[2]uint32{table, file}]
	if !ok {
		return nil, fmt.Errorf("%w: table %d file %d", ErrNotFound, table, file)
	}
	return data, nil
}

func (m MemSource) FileIDs(table uint32) ([]uint32, error) {
	ids := make([]uint32, 0)
	for key := range m {
		if key[0] == table {
			ids = append(ids, key[1])
		}
	}
	slices.Sort(ids)
	return ids, nil
}
