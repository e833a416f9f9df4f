package mapsquare

import (
	"errors"
	"fmt"
	"math"

	"github.com/averr/go-worldcache/buf"
	"github.com/averr/go-worldcache/cache"
)

// ErrAbsent reports that a square has no location data. Many squares are
// empty; callers are expected to branch on this, not treat it as a failure.
var ErrAbsent = errors.New("mapsquare: no location data")

// ErrMalformed reports structurally inconsistent location data. It is fatal
// to that single square and never to the grid.
var ErrMalformed = errors.New("mapsquare: malformed location data")

// Locations decodes the square's placement records. Absence of the backing
// archive record (or a coordinate outside the grid extent) yields ErrAbsent;
// corrupt bytes yield ErrMalformed. The two are distinguished by sentinel,
// never by message. Decoding the same square twice yields identical results.
func (s Square) Locations() ([]PlacedLocation, error) {
	g := s.grid
	if !g.Contains(s.coord) {
		return nil, fmt.Errorf("%w: %v outside grid extent", ErrAbsent, s.coord)
	}

	data, err := g.src.Fetch(g.table, s.coord.FileID())
	if errors.Is(err, cache.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrAbsent, s.coord)
	}
	if err != nil {
		return nil, err
	}

	g.logger.Debug("decoding square", "coord", s.coord.String(), "bytes", len(data))

	locations, err := decodeLocations(data)
	if err != nil {
		return nil, fmt.Errorf("square %v: %w", s.coord, err)
	}
	return locations, nil
}

// decodeLocations parses the delta-coded placement stream. The outer loop
// advances a running config id by smart-run deltas, delta 0 terminating the
// stream; the inner loop advances a packed position accumulator by smart
// deltas minus one, delta 0 ending the group, each step followed by one
// attributes byte holding kind and orientation.
func decodeLocations(data []byte) ([]PlacedLocation, error) {
	cur := buf.NewCursor(data)
	locations := make([]PlacedLocation, 0)

	id := int64(-1)
	for {
		idDelta, err := cur.Smarts()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if idDelta == 0 {
			break
		}
		id += int64(idDelta)
		if id > math.MaxUint32 {
			return nil, fmt.Errorf("%w: id overflow", ErrMalformed)
		}

		position := uint32(0)
		for {
			posDelta, err := cur.USmart()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			if posDelta == 0 {
				break
			}
			position += uint32(posDelta) - 1
			if position >= Planes<<12 {
				return nil, fmt.Errorf("%w: position %d outside square", ErrMalformed, position)
			}

			attributes, err := cur.Uint8()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			kind := Kind(attributes >> 2)
			if kind >= kindCount {
				return nil, fmt.Errorf("%w: placement kind %d", ErrMalformed, kind)
			}

			locations = append(locations, PlacedLocation{
				ID:          uint32(id),
				X:           uint8(position>>6) & (Size - 1),
				Y:           uint8(position) & (Size - 1),
				Plane:       uint8(position >> 12),
				Kind:        kind,
				Orientation: attributes & 0x3,
			})
		}
	}

	if !cur.AtEnd() {
		return nil, fmt.Errorf("%w: %d bytes after terminator", ErrMalformed, cur.Remaining())
	}
	return locations, nil
}
