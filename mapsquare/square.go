// Package mapsquare exposes the world's spatial grid of map squares and
// lazily decodes the location placements packed into each square.
package mapsquare

import "fmt"

const (
	// Size is the tile extent of a square along each axis.
	Size = 64
	// Planes is the number of height levels in a square.
	Planes = 4
)

// Coord identifies a square in the world grid.
type Coord struct {
	I uint8
	J uint8
}

// FileID packs the coordinate into its archive key in the maps table.
func (c Coord) FileID() uint32 {
	return uint32(c.I) | uint32(c.J)<<7
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.I, c.J)
}

// Kind is the placement type of a location within a square: which shape slot
// it occupies and how it clips.
type Kind uint8

const (
	KindWallStraight Kind = iota
	KindWallDiagonalCorner
	KindWallL
	KindWallSquareCorner
	KindWallDecorStraight
	KindWallDecorStraightOffset
	KindWallDecorDiagonalOffset
	KindWallDecorDiagonal
	KindWallDecorDiagonalDouble
	KindWallDiagonal
	KindCentrepiece
	KindCentrepieceDiagonal
	KindRoofStraight
	KindRoofDiagonalWithEdge
	KindRoofDiagonal
	KindRoofLInside
	KindRoofLOutside
	KindRoofFlat
	KindRoofEdgeStraight
	KindRoofEdgeDiagonalCorner
	KindRoofEdgeL
	KindRoofEdgeSquareCorner
	KindGroundDecor

	kindCount
)

// IsWall reports whether the kind occupies a wall slot.
func (k Kind) IsWall() bool {
	return k <= KindWallSquareCorner || k == KindWallDiagonal
}

// IsWallDecor reports whether the kind decorates a wall.
func (k Kind) IsWallDecor() bool {
	return k >= KindWallDecorStraight && k <= KindWallDecorDiagonalDouble
}

// IsRoof reports whether the kind is a roof piece.
func (k Kind) IsRoof() bool {
	return k >= KindRoofStraight && k <= KindRoofEdgeSquareCorner
}

var kindNames = [kindCount]string{
	"wall", "wall diagonal corner", "wall L", "wall square corner",
	"wall decor", "wall decor offset", "wall decor diagonal offset",
	"wall decor diagonal", "wall decor diagonal double", "wall diagonal",
	"centrepiece", "centrepiece diagonal",
	"roof", "roof diagonal with edge", "roof diagonal", "roof L inside",
	"roof L outside", "roof flat", "roof edge", "roof edge diagonal corner",
	"roof edge L", "roof edge square corner",
	"ground decor",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// PlacedLocation is one placement record of a decoded square. ID refers to a
// location config; it is not validated against the config table, dangling
// ids are tolerated. Values are recreated on every decode.
type PlacedLocation struct {
	ID          uint32
	X           uint8 // tile position within the square, 0..Size-1
	Y           uint8
	Plane       uint8 // 0..Planes-1
	Kind        Kind
	Orientation uint8 // 0..3
}

func (l PlacedLocation) String() string {
	return fmt.Sprintf("loc %d at %d,%d plane %d (%v, orientation %d)", l.ID, l.X, l.Y, l.Plane, l.Kind, l.Orientation)
}

// Square is a cheap handle for one grid cell. Obtaining a Square never
// touches the cache; absence of location data surfaces from Locations.
type Square struct {
	grid  *Grid
	coord Coord
}

func (s Square) Coord() Coord {
	return s.coord
}
