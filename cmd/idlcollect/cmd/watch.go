package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/b11005/blink-idl-diff/internal/adapters/fsnotify"
	"github.com/b11005/blink-idl-diff/internal/app"
)

func newWatchCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "watch ROOT OUT",
		Short: "Run, then rerun whenever a definition file changes",
		Long: `Performs "run ROOT OUT" and keeps watching ROOT. Every burst of changes
to definition files triggers a new collection. A failing collection is
logged and OUT keeps its previous content. Stops on SIGINT or SIGTERM.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, st, args[0], args[1])
		},
	}
}

func runWatch(cmd *cobra.Command, st *state, root, out string) error {
	c, closeCache, err := st.collector(root)
	if err != nil {
		return err
	}
	defer closeCache()

	w, err := fsnotify.NewWatcher(st.cfg.Suffix, st.cfg.SkipDirs, st.log)
	if err != nil {
		return err
	}
	defer w.Stop()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := &app.WatchLoop{
		Collector: c,
		Watcher:   w,
		Discovery: st.cfg.Discovery(root),
		Out:       out,
	}
	return loop.Run(ctx)
}
