package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/b11005/blink-idl-diff/internal/domain/idl"
	"github.com/b11005/blink-idl-diff/internal/domain/record"
	"github.com/b11005/blink-idl-diff/internal/ports"
)

// Collector reads, parses and normalizes definition files and merges them
// into one record set.
//
// Files are processed by up to Workers goroutines; results are kept in the
// order of the given paths, so the output does not depend on scheduling.
// Merging is single-threaded.
type Collector struct {
	Fs         afero.Fs
	Parser     ports.Parser
	Cache      ports.RecordCache // optional
	Logger     *zap.Logger       // optional
	Workers    int               // <= 1 means sequential
	RelativeTo string            // FilePath base; empty means the working directory
	Indent     int               // JSON indent for Run; <= 0 is compact
}

// CollectResult holds statistics from a Collect call.
type CollectResult struct {
	Files      int
	Interfaces int
	Partials   int
	Inclusions int
	CacheHits  int
}

func (c *Collector) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Collect processes every file in paths and merges the result. If several
// files fail, the error of the earliest one in paths is returned.
func (c *Collector) Collect(ctx context.Context, paths []string) (record.Set, *CollectResult, error) {
	start := time.Now()
	files := make([]*record.FileRecords, len(paths))
	hits := make([]bool, len(paths))

	err := c.forEach(ctx, paths, func(i int, path string) error {
		fr, hit, err := c.collectFile(path)
		if err != nil {
			return err
		}
		files[i], hits[i] = fr, hit
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	set, err := record.Merge(files)
	if err != nil {
		return nil, nil, err
	}

	res := &CollectResult{Files: len(paths), Interfaces: len(set)}
	for i, fr := range files {
		res.Partials += len(fr.Partials)
		res.Inclusions += len(fr.Inclusions)
		if hits[i] {
			res.CacheHits++
		}
	}
	c.logger().Info("collected",
		zap.Int("files", res.Files),
		zap.Int("interfaces", res.Interfaces),
		zap.Int("partials", res.Partials),
		zap.Int("inclusions", res.Inclusions),
		zap.Int("cache_hits", res.CacheHits),
		zap.Duration("elapsed", time.Since(start)),
	)
	return set, res, nil
}

// Run collects paths and writes the encoded record set to out.
func (c *Collector) Run(ctx context.Context, paths []string, out string) (*CollectResult, error) {
	set, res, err := c.Collect(ctx, paths)
	if err != nil {
		return nil, err
	}
	data, err := record.Encode(set, c.Indent)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(c.Fs, out, data); err != nil {
		return nil, err
	}
	c.logger().Info("wrote output", zap.String("path", out), zap.Int("bytes", len(data)))
	return res, nil
}

// Nodes returns the paths, in order, of files that define at least one
// interface or partial interface.
func (c *Collector) Nodes(ctx context.Context, paths []string) ([]string, error) {
	defines := make([]bool, len(paths))
	err := c.forEach(ctx, paths, func(i int, path string) error {
		f, err := c.parse(path)
		if err != nil {
			return err
		}
		ex := idl.Extract(f)
		defines[i] = len(ex.Bases) > 0 || len(ex.Partials) > 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := []string{}
	for i, path := range paths {
		if defines[i] {
			out = append(out, path)
		}
	}
	return out, nil
}

// forEach runs fn for every path on a bounded pool. Once a path fails, paths
// after it are skipped while earlier ones still run, so the error reported is
// always the one of the earliest failing path.
func (c *Collector) forEach(ctx context.Context, paths []string, fn func(i int, path string) error) error {
	var (
		mu        sync.Mutex
		firstFail = len(paths)
		errs      = make([]error, len(paths))
	)
	skip := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return i > firstFail
	}

	var g errgroup.Group
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			break
		}
		if skip(i) {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil || skip(i) {
				return nil
			}
			if err := fn(i, path); err != nil {
				mu.Lock()
				errs[i] = err
				if i < firstFail {
					firstFail = i
				}
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) parse(path string) (*idl.File, error) {
	source, err := afero.ReadFile(c.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.Parser.Parse(path, source)
}

// collectFile returns the normalized records of one file, from the cache
// when the content is unchanged.
func (c *Collector) collectFile(path string) (*record.FileRecords, bool, error) {
	log := c.logger()
	source, err := afero.ReadFile(c.Fs, path)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	rel := c.relPath(path)

	var digest string
	if c.Cache != nil {
		digest = contentDigest(rel, source)
		cached, ok, err := c.Cache.Lookup(path, digest)
		if err != nil {
			log.Warn("cache lookup failed", zap.String("path", path), zap.Error(err))
		} else if ok {
			log.Debug("cache hit", zap.String("path", path))
			return cached, true, nil
		}
	}

	f, err := c.Parser.Parse(path, source)
	if err != nil {
		return nil, false, err
	}
	fr, err := record.NormalizeFile(rel, f)
	if err != nil {
		return nil, false, err
	}
	log.Debug("parsed",
		zap.String("path", path),
		zap.Int("bases", len(fr.Bases)),
		zap.Int("partials", len(fr.Partials)),
		zap.Int("inclusions", len(fr.Inclusions)),
	)

	if c.Cache != nil {
		if err := c.Cache.Store(path, digest, fr); err != nil {
			log.Warn("cache store failed", zap.String("path", path), zap.Error(err))
		}
	}
	return fr, false, nil
}

// relPath returns path relative to RelativeTo, or to the working directory
// when RelativeTo is empty, with forward slashes.
func (c *Collector) relPath(path string) string {
	base, target := c.RelativeTo, path
	if base == "" {
		base = "."
	}
	if filepath.IsAbs(base) != filepath.IsAbs(target) {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		if abs, err := filepath.Abs(target); err == nil {
			target = abs
		}
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// contentDigest keys a cache entry. The FilePath is part of the digest so a
// different RelativeTo does not reuse records carrying the old path.
func contentDigest(rel string, source []byte) string {
	h := sha256.New()
	h.Write([]byte(rel))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}
