package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// DefaultSuffix is the file name suffix of definition files.
const DefaultSuffix = ".idl"

// DefaultExclude lists file names that carry the suffix but are not WebIDL.
var DefaultExclude = []string{"InspectorInstrumentation.idl"}

// DiscoveryConfig controls Discover. The zero value of Suffix means
// DefaultSuffix; a nil Exclude means DefaultExclude.
type DiscoveryConfig struct {
	Root     string
	Suffix   string
	Exclude  []string
	SkipDirs []string
	Sort     bool
}

// Discover walks cfg.Root and returns the path of every definition file
// below it. Paths are cfg.Root joined with the path relative to it. Files
// are not opened. Any walk error aborts discovery.
func Discover(fs afero.Fs, cfg DiscoveryConfig) ([]string, error) {
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	exclude := cfg.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}
	skip := make(map[string]bool, len(cfg.SkipDirs))
	for _, name := range cfg.SkipDirs {
		skip[name] = true
	}

	info, err := fs.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discover %s: not a directory", cfg.Root)
	}

	paths := []string{}
	err = afero.Walk(fs, cfg.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("discover %s: %w", path, err)
		}
		if info.IsDir() {
			if path != cfg.Root && skip[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		name := info.Name()
		if !strings.HasSuffix(name, suffix) || excluded[name] {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cfg.Sort {
		sort.Strings(paths)
	}
	return paths, nil
}
