package locconfig

import (
	"fmt"
	"iter"

	"github.com/averr/go-worldcache/cache"
)

// Table is the global id-keyed map of location configs. It is immutable once
// loaded and safe for concurrent lookups without locking.
type Table struct {
	configs map[uint32]*Config
	ids     []uint32 // ascending
}

// Load decodes every config in the cache's config table. It fails entirely
// on the first unreadable or malformed record; a Table is never partially
// visible.
func Load(src cache.Source) (*Table, error) {
	ids, err := src.FileIDs(cache.TableConfigs)
	if err != nil {
		return nil, fmt.Errorf("locconfig: %w", err)
	}

	configs := make(map[uint32]*Config, len(ids))
	for _, id := range ids {
		data, err := src.Fetch(cache.TableConfigs, id)
		if err != nil {
			return nil, fmt.Errorf("locconfig: id %d: %w", id, err)
		}
		config, err := Decode(id, data)
		if err != nil {
			return nil, err
		}
		configs[id] = config
	}

	return &Table{configs: configs, ids: ids}, nil
}

// Get returns the config for id. An absent id is not an error.
func (t *Table) Get(id uint32) (*Config, bool) {
	config, ok := t.configs[id]
	return config, ok
}

func (t *Table) Len() int {
	return len(t.ids)
}

// All iterates configs in ascending id order. The sequence is restartable.
func (t *Table) All() iter.Seq[*Config] {
	return func(yield func(*Config) bool) {
		for _, id := range t.ids {
			if !yield(t.configs[id]) {
				return
			}
		}
	}
}
