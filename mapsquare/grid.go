package mapsquare

import (
	"errors"
	"iter"
	"log/slog"

	"github.com/averr/go-worldcache/cache"
)

// Default grid extent: i counts squares eastward, j northward.
const (
	DefaultExtentI = 100
	DefaultExtentJ = 200
)

// Grid addresses the world's fixed 2-D arrangement of map squares over a
// cache source. It holds no decoded state and is safe for concurrent use.
type Grid struct {
	src    cache.Source
	table  uint32
	maxI   uint8
	maxJ   uint8
	logger *slog.Logger
}

type GridOption func(*Grid)

// WithExtent overrides the grid extent: valid coordinates are i < maxI,
// j < maxJ.
func WithExtent(maxI, maxJ uint8) GridOption {
	return func(g *Grid) {
		g.maxI = maxI
		g.maxJ = maxJ
	}
}

// WithTable overrides the cache table holding map square archives.
func WithTable(table uint32) GridOption {
	return func(g *Grid) {
		g.table = table
	}
}

func WithLogger(logger *slog.Logger) GridOption {
	return func(g *Grid) {
		g.logger = logger
	}
}

func NewGrid(src cache.Source, opts ...GridOption) *Grid {
	g := &Grid{
		src:    src,
		table:  cache.TableMaps,
		maxI:   DefaultExtentI,
		maxJ:   DefaultExtentJ,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Extent returns the exclusive coordinate bounds of the grid.
func (g *Grid) Extent() (maxI, maxJ uint8) {
	return g.maxI, g.maxJ
}

// Contains reports whether the coordinate lies within the grid extent.
func (g *Grid) Contains(c Coord) bool {
	return c.I < g.maxI && c.J < g.maxJ
}

// Get returns the handle for square (i, j). It always succeeds: a coordinate
// outside the extent, or one with no archive record, yields a handle whose
// Locations reports ErrAbsent. Cost is deferred to the point of decode.
func (g *Grid) Get(i, j uint8) Square {
	return Square{grid: g, coord: Coord{I: i, J: j}}
}

// VisitSquares calls visit for every square in the extent in row-major order
// (i outer, j inner), stopping at the first error. No decoding happens here.
func (g *Grid) VisitSquares(visit func(Square) error) error {
	for i := range g.maxI {
		for j := range g.maxJ {
			if err := visit(g.Get(i, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

var errVisitCancelled = errors.New("visit cancelled")

// Squares iterates every square handle in the extent in row-major order
// (i outer, j inner). The sequence is lazy, finite and restartable.
func (g *Grid) Squares() iter.Seq[Square] {
	return func(yield func(Square) bool) {
		_ = g.VisitSquares(func(s Square) error {
			if !yield(s) {
				return errVisitCancelled
			}
			return nil
		})
	}
}
