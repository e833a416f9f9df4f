package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/averr/go-worldcache/locconfig"
	"github.com/averr/go-worldcache/mapsquare"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type locateCmd struct {
	sourceFlags
	id uint
}

func (c *locateCmd) Name() string     { return "locate" }
func (c *locateCmd) Synopsis() string { return "find every placement of a location config id" }
func (c *locateCmd) Usage() string {
	return "worldcache locate -cache <path> -id <id> [-format <format> -xteas <path>]\n"
}
func (c *locateCmd) SetFlags(f *flag.FlagSet) {
	c.sourceFlags.SetFlags(f)
	f.UintVar(&c.id, "id", 0, "Location config id to locate")
}

func (c *locateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	src, closer, err := c.openSource()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer closer.Close()

	table, err := locconfig.Load(src)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	name := "?"
	if config, ok := table.Get(uint32(c.id)); ok {
		name = config.Name
	}

	grid := mapsquare.NewGrid(src)
	maxI, maxJ := grid.Extent()
	bar := progressbar.NewOptions(int(maxI)*int(maxJ), progressbar.OptionShowIts(), progressbar.OptionShowCount())

	found := 0
	err = grid.VisitSquares(func(sq mapsquare.Square) error {
		bar.Add(1)

		locations, err := sq.Locations()
		if errors.Is(err, mapsquare.ErrAbsent) {
			return nil
		}
		if errors.Is(err, mapsquare.ErrMalformed) {
			log.Printf("skipping %v: %v", sq.Coord(), err)
			return nil
		}
		if err != nil {
			return err
		}

		for _, loc := range locations {
			if loc.ID == uint32(c.id) {
				fmt.Printf("%v %q in square %v: %v\n", loc.ID, name, sq.Coord(), loc)
				found++
			}
		}
		return nil
	})
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%d placements of id %d\n", found, c.id)
	return subcommands.ExitSuccess
}
