package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"slices"

	"github.com/averr/go-worldcache/locconfig"
	"github.com/google/subcommands"
)

type dumpConfigsCmd struct {
	sourceFlags
	outputPath string
}

func (c *dumpConfigsCmd) Name() string     { return "dump-configs" }
func (c *dumpConfigsCmd) Synopsis() string { return "export the location config table as JSON" }
func (c *dumpConfigsCmd) Usage() string {
	return "worldcache dump-configs -cache <path> [-o <path> -format <format>]\n"
}
func (c *dumpConfigsCmd) SetFlags(f *flag.FlagSet) {
	c.sourceFlags.SetFlags(f)
	f.StringVar(&c.outputPath, "o", "", "Output file path (default stdout)")
}

func (c *dumpConfigsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
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

	data, err := json.MarshalIndent(slices.Collect(table.All()), "", "  ")
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	data = append(data, '\n')

	out := os.Stdout
	if c.outputPath != "" {
		if out, err = os.Create(c.outputPath); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}

	if _, err := out.Write(data); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
