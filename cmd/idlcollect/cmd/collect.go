package cmd

import (
	"github.com/spf13/cobra"

	"github.com/b11005/blink-idl-diff/internal/app"
)

func newCollectCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "collect MANIFEST OUT",
		Short: "Collect the files listed in MANIFEST into one JSON document",
		Long: `Parses every file listed in MANIFEST, merges partial interfaces and
implements/includes statements into their base interfaces and writes the
result to OUT. OUT is replaced only when the whole collection succeeds.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd, st, args[0], args[1])
		},
	}
}

func runCollect(cmd *cobra.Command, st *state, manifest, out string) error {
	paths, err := app.ReadManifest(st.fs, manifest)
	if err != nil {
		return err
	}
	c, closeCache, err := st.collector("")
	if err != nil {
		return err
	}
	defer closeCache()

	_, err = c.Run(cmd.Context(), paths, out)
	return err
}
