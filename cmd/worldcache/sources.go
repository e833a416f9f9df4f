package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/averr/go-worldcache/cache"
)

type sourceFlags struct {
	cachePath string
	format    string
	xteasPath string
}

func (s *sourceFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.cachePath, "cache", "", "Cache directory path")
	f.StringVar(&s.format, "format", "", "Cache format (flat, sqlite)")
	f.StringVar(&s.xteasPath, "xteas", "", "Path to xteas.json key dump")
}

func deduceFormat(format, cachePath string) string {
	if format != "" {
		return format
	}
	if matches, _ := filepath.Glob(filepath.Join(cachePath, "js5-*.jcache")); len(matches) > 0 {
		return "sqlite"
	}
	return "flat"
}

// openSource builds a memoizing Source from the shared flags. The returned
// closer releases source resources and must be called after use.
func (s *sourceFlags) openSource() (cache.Source, io.Closer, error) {
	var keys cache.Keyring
	if s.xteasPath != "" {
		var err error
		if keys, err = cache.LoadKeyring(s.xteasPath); err != nil {
			return nil, nil, err
		}
	}

	var inner cache.Source
	closeInner := func() error { return nil }

	switch format := deduceFormat(s.format, s.cachePath); format {
	case "flat":
		src, err := cache.NewFlatSource(s.cachePath, keys)
		if err != nil {
			return nil, nil, err
		}
		inner = src
	case "sqlite":
		src := cache.NewSQLiteSource(s.cachePath, keys)
		inner = src
		closeInner = src.Close
	default:
		return nil, nil, fmt.Errorf("invalid cache format: %q", format)
	}

	cached, err := cache.NewCachedSource(inner, 256<<20)
	if err != nil {
		closeInner()
		return nil, nil, err
	}

	return cached, closerFunc(func() error {
		cached.Close()
		return closeInner()
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
