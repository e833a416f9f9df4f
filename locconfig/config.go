// Package locconfig decodes location (placeable object) configurations from
// the cache's config table.
package locconfig

import (
	"errors"
	"fmt"

	"github.com/averr/go-worldcache/buf"
)

// ErrMalformed reports a structurally inconsistent config record. It is
// fatal to that single record and retrying will not change the bytes.
var ErrMalformed = errors.New("locconfig: malformed config")

// Config holds the decoded properties of one location. Configs are immutable
// once decoded; callers must not modify the pointers handed out by a Table.
//
// A Name of "" marks an unnamed placeholder entry; the cache is full of
// those.
type Config struct {
	ID      uint32    `json:"id"`
	Name    string    `json:"name,omitempty"`
	Models  []uint16  `json:"models,omitempty"`
	Kinds   []uint8   `json:"kinds,omitempty"`
	Actions [5]string `json:"actions"`

	Width     uint8  `json:"width"`
	Length    uint8  `json:"length"`
	Animation int32  `json:"animation"`
	Category  uint16 `json:"category,omitempty"`

	MapSceneID   int32 `json:"map_scene_id"`
	MapAreaID    int32 `json:"map_area_id"`
	BlockingMask uint8 `json:"blocking_mask,omitempty"`

	Interactive      bool `json:"interactive,omitempty"`
	Solid            bool `json:"solid,omitempty"`
	BlocksProjectile bool `json:"blocks_projectile,omitempty"`
	Rotated          bool `json:"rotated,omitempty"`
	ObstructsGround  bool `json:"obstructs_ground,omitempty"`
	Hollow           bool `json:"hollow,omitempty"`
}

// Decode parses one opcode-tagged attribute block: repeated "tag byte,
// tag-specific payload" until terminator tag 0, which must leave the buffer
// exhausted. Tags whose attributes this library does not retain are consumed
// by width and ignored, so newer cache revisions keep decoding; only a tag
// outside the known table or a payload running past the end of the buffer
// fails.
func Decode(id uint32, data []byte) (*Config, error) {
	config := &Config{
		ID:               id,
		Width:            1,
		Length:           1,
		Animation:        -1,
		MapSceneID:       -1,
		MapAreaID:        -1,
		Solid:            true,
		BlocksProjectile: true,
	}

	cur := buf.NewCursor(data)
	for {
		tag, err := cur.Uint8()
		if err != nil {
			return nil, malformed(id, err)
		}
		if tag == 0 {
			if !cur.AtEnd() {
				return nil, fmt.Errorf("%w: id %d: %d bytes after terminator", ErrMalformed, id, cur.Remaining())
			}
			return config, nil
		}
		if err := decodeTag(cur, tag, config); err != nil {
			return nil, malformed(id, err)
		}
	}
}

func malformed(id uint32, err error) error {
	if errors.Is(err, ErrMalformed) {
		return err
	}
	return fmt.Errorf("%w: id %d: %w", ErrMalformed, id, err)
}

func decodeTag(cur *buf.Cursor, tag uint8, config *Config) error {
	switch tag {
	case 1: // models with per-entry kinds
		count, err := cur.Uint8()
		if err != nil {
			return err
		}
		config.Models = make([]uint16, count)
		config.Kinds = make([]uint8, count)
		for i := range count {
			if config.Models[i], err = cur.Uint16(); err != nil {
				return err
			}
			if config.Kinds[i], err = cur.Uint8(); err != nil {
				return err
			}
		}
		return nil

	case 2:
		name, err := cur.CString()
		if err != nil {
			return err
		}
		config.Name = name
		return nil

	case 5: // models without kinds
		count, err := cur.Uint8()
		if err != nil {
			return err
		}
		config.Models = make([]uint16, count)
		config.Kinds = nil
		for i := range count {
			if config.Models[i], err = cur.Uint16(); err != nil {
				return err
			}
		}
		return nil

	case 14:
		v, err := cur.Uint8()
		config.Width = v
		return err

	case 15:
		v, err := cur.Uint8()
		config.Length = v
		return err

	case 17:
		config.Solid = false
		config.BlocksProjectile = false
		return nil

	case 18:
		config.BlocksProjectile = false
		return nil

	case 19:
		v, err := cur.Uint8()
		config.Interactive = v == 1
		return err

	case 24:
		v, err := cur.Uint16()
		if v == 0xFFFF {
			config.Animation = -1
		} else {
			config.Animation = int32(v)
		}
		return err

	case 27:
		config.Solid = true
		return nil

	case 30, 31, 32, 33, 34:
		action, err := cur.CString()
		config.Actions[tag-30] = action
		return err

	case 61:
		v, err := cur.Uint16()
		config.Category = v
		return err

	case 62:
		config.Rotated = true
		return nil

	case 68:
		v, err := cur.Uint16()
		config.MapSceneID = int32(v)
		return err

	case 69:
		v, err := cur.Uint8()
		config.BlockingMask = v
		return err

	case 73:
		config.ObstructsGround = true
		return nil

	case 74:
		config.Hollow = true
		return nil

	case 82:
		v, err := cur.Uint16()
		if v == 0xFFFF {
			config.MapAreaID = -1
		} else {
			config.MapAreaID = int32(v)
		}
		return err

	default:
		return skipTag(cur, tag)
	}
}

// skipTag consumes the payload of a tag whose attribute is not retained.
// Widths are fixed per tag; the counted forms read their count first.
func skipTag(cur *buf.Cursor, tag uint8) error {
	switch tag {
	case 21, 22, 23, 64: // boolean markers
		return nil

	case 28, 29, 39, 75, 81: // one-byte scalars
		return cur.Skip(1)

	case 65, 66, 67, 70, 71, 72, 78: // two- and three-byte scalars
		if tag == 78 {
			return cur.Skip(3) // sound id + range
		}
		return cur.Skip(2)

	case 40, 41: // recolors / retextures: count x (u16, u16)
		count, err := cur.Uint8()
		if err != nil {
			return err
		}
		return cur.Skip(int(count) * 4)

	case 77, 92: // morph table: varbit, varp, [default,] count+1 x u16
		if err := cur.Skip(4); err != nil {
			return err
		}
		if tag == 92 {
			if err := cur.Skip(2); err != nil {
				return err
			}
		}
		count, err := cur.Uint8()
		if err != nil {
			return err
		}
		return cur.Skip((int(count) + 1) * 2)

	case 79: // ambient sounds: u16, u16, u8, count x u16
		if err := cur.Skip(5); err != nil {
			return err
		}
		count, err := cur.Uint8()
		if err != nil {
			return err
		}
		return cur.Skip(int(count) * 2)

	case 249: // params: count x (type u8, key u24, string or i32 value)
		count, err := cur.Uint8()
		if err != nil {
			return err
		}
		for range count {
			isString, err := cur.Uint8()
			if err != nil {
				return err
			}
			if err := cur.Skip(3); err != nil {
				return err
			}
			if isString == 1 {
				if _, err := cur.CString(); err != nil {
					return err
				}
			} else if err := cur.Skip(4); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown tag %d", ErrMalformed, tag)
	}
}
