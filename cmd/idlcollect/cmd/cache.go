package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/b11005/blink-idl-diff/internal/adapters/bbolt"
)

func newCacheCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the parse cache",
		Long: `Operates on the parse cache database named by --cache or the cache:
config key. The cache only skips reparsing unchanged files; clearing it
never changes the output of a run.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show the number of cached files and their size",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCacheStats(cmd, st)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached entry",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCacheClear(cmd, st)
			},
		},
	)
	return cmd
}

// openCache opens the configured cache database. It returns nil when the
// database does not exist yet.
func (st *state) openCache() (*bbolt.Store, error) {
	path := st.cfg.Cache
	if path == "" {
		return nil, usageError(errors.New("no cache configured (set --cache or cache: in idlcollect.yaml)"))
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return bbolt.NewStore(path)
}

func runCacheStats(cmd *cobra.Command, st *state) error {
	store, err := st.openCache()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if store == nil {
		return st.printf(w, "cache:   %s (not created)\nentries: 0\nbytes:   0\n", st.cfg.Cache)
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("cache stats: %w", err)
	}
	return st.printf(w, "cache:   %s\nentries: %d\nbytes:   %d\n", st.cfg.Cache, stats.Entries, stats.Bytes)
}

func runCacheClear(cmd *cobra.Command, st *state) error {
	store, err := st.openCache()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if store == nil {
		return st.printf(w, "no cache to clear\n")
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	st.log.Info("cleared parse cache", zap.String("path", st.cfg.Cache))
	return st.printf(w, "cache cleared\n")
}
