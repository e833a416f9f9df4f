package cache

import (
	"encoding/json"
	"fmt"
	"os"
)

// Keyring maps map square file ids to their XTEA keys. Map location archives
// are the only encrypted part of the cache; other tables never consult the
// keyring.
type Keyring map[uint32]XTEAKey

// Lookup returns the key for a maps-table file, or nil when the fetch needs
// no decryption.
func (r Keyring) Lookup(table, file uint32) *XTEAKey {
	if r == nil || table != TableMaps {
		return nil
	}
	key, ok := r[file]
	if !ok || key.IsZero() {
		return nil
	}
	return &key
}

// LoadKeyring reads keys from the conventional xteas.json dump format:
// a list of {"mapsquare": id, "key": [k0, k1, k2, k3]} entries.
func LoadKeyring(filePath string) (Keyring, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var entries []struct {
		MapSquare uint32  `json:"mapsquare"`
		Key       XTEAKey `json:"key"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("keyring %s: %w", filePath, err)
	}

	ring := make(Keyring, len(entries))
	for _, entry := range entries {
		ring[entry.MapSquare] = entry.Key
	}
	return ring, nil
}
