package mapsquare_test

import (
	"cmp"
	"slices"
	"sync"
	"testing"

	"github.com/averr/go-worldcache/cache"
	"github.com/averr/go-worldcache/mapsquare"
	gcmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestGridIterationOrder(t *testing.T) {
	grid := mapsquare.NewGrid(cache.MemSource{}, mapsquare.WithExtent(3, 2))

	got := make([]mapsquare.Coord, 0)
	for square := range grid.Squares() {
		got = append(got, square.Coord())
	}

	want := []mapsquare.Coord{
		{I: 0, J: 0}, {I: 0, J: 1},
		{I: 1, J: 0}, {I: 1, J: 1},
		{I: 2, J: 0}, {I: 2, J: 1},
	}
	if diff := gcmp.Diff(want, got); diff != "" {
		t.Errorf("iteration order mismatch (-want+got):\n%v", diff)
	}
}

func TestGridIterationRestartable(t *testing.T) {
	grid := mapsquare.NewGrid(cache.MemSource{}, mapsquare.WithExtent(2, 2))
	squares := grid.Squares()

	count := 0
	for range squares {
		count++
		break // early exit must not exhaust the sequence
	}
	for range squares {
		count++
	}
	require.Equal(t, 5, count)
}

func TestGridDefaults(t *testing.T) {
	grid := mapsquare.NewGrid(cache.MemSource{})
	maxI, maxJ := grid.Extent()
	require.Equal(t, uint8(mapsquare.DefaultExtentI), maxI)
	require.Equal(t, uint8(mapsquare.DefaultExtentJ), maxJ)

	require.True(t, grid.Contains(mapsquare.Coord{I: 99, J: 199}))
	require.False(t, grid.Contains(mapsquare.Coord{I: 100, J: 0}))
	require.False(t, grid.Contains(mapsquare.Coord{I: 0, J: 200}))
}

func TestCoordFileID(t *testing.T) {
	require.Equal(t, uint32(0), mapsquare.Coord{}.FileID())
	require.Equal(t, uint32(50|50<<7), mapsquare.Coord{I: 50, J: 50}.FileID())
	require.Equal(t, uint32(12850), mapsquare.Coord{I: 50, J: 100}.FileID())
}

// filterPlacements decodes every square and keeps placements of one id.
type foundPlacement struct {
	Coord mapsquare.Coord
	Loc   mapsquare.PlacedLocation
}

func sortPlacements(placements []foundPlacement) {
	slices.SortFunc(placements, func(a, b foundPlacement) int {
		if c := cmp.Compare(a.Coord.I, b.Coord.I); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Coord.J, b.Coord.J); c != 0 {
			return c
		}
		return cmp.Compare(packPosition(uint32(a.Loc.X), uint32(a.Loc.Y), uint32(a.Loc.Plane)),
			packPosition(uint32(b.Loc.X), uint32(b.Loc.Y), uint32(b.Loc.Plane)))
	})
}

func TestFilterSequentialVsParallel(t *testing.T) {
	const wantedID = 6560

	src := cache.MemSource{}
	put := func(i, j uint8, groups map[uint32][]mapsquare.PlacedLocation, ids []uint32) {
		src.Put(cache.TableMaps, mapsquare.Coord{I: i, J: j}.FileID(), encodePlacements(groups, ids))
	}
	put(0, 1, map[uint32][]mapsquare.PlacedLocation{
		wantedID: {
			{ID: wantedID, X: 1, Y: 2, Kind: mapsquare.KindCentrepiece},
			{ID: wantedID, X: 1, Y: 3, Kind: mapsquare.KindCentrepiece},
		},
		9999: {{ID: 9999, X: 8, Y: 8, Kind: mapsquare.KindGroundDecor}},
	}, []uint32{wantedID, 9999})
	put(2, 0, map[uint32][]mapsquare.PlacedLocation{
		wantedID: {{ID: wantedID, X: 60, Y: 1, Plane: 1, Kind: mapsquare.KindWallStraight, Orientation: 2}},
	}, []uint32{wantedID})
	put(2, 2, map[uint32][]mapsquare.PlacedLocation{
		123: {{ID: 123, X: 0, Y: 0, Kind: mapsquare.KindWallStraight}},
	}, []uint32{123})

	grid := mapsquare.NewGrid(src, mapsquare.WithExtent(3, 3))

	sequential := make([]foundPlacement, 0)
	for square := range grid.Squares() {
		locations, err := square.Locations()
		if err != nil {
			continue // absent squares
		}
		for _, loc := range locations {
			if loc.ID == wantedID {
				sequential = append(sequential, foundPlacement{square.Coord(), loc})
			}
		}
	}
	require.Len(t, sequential, 3)

	var mu sync.Mutex
	var wg sync.WaitGroup
	parallel := make([]foundPlacement, 0)
	for square := range grid.Squares() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locations, err := square.Locations()
			if err != nil {
				return
			}
			for _, loc := range locations {
				if loc.ID == wantedID {
					mu.Lock()
					parallel = append(parallel, foundPlacement{square.Coord(), loc})
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	sortPlacements(sequential)
	sortPlacements(parallel)
	if diff := gcmp.Diff(sequential, parallel); diff != "" {
		t.Errorf("parallel filter mismatch (-sequential+parallel):\n%v", diff)
	}
}
