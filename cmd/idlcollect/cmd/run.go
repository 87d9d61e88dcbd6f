package cmd

import (
	"github.com/spf13/cobra"
)

func newRunCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "run ROOT OUT",
		Short: "Discover and collect in one step",
		Long: `Equivalent to "manifest" followed by "collect" without the intermediate
file. FilePath values are relative to ROOT unless relative_to is set.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, st, args[0], args[1])
		},
	}
}

func runRun(cmd *cobra.Command, st *state, root, out string) error {
	paths, err := st.discover(root)
	if err != nil {
		return err
	}
	c, closeCache, err := st.collector(root)
	if err != nil {
		return err
	}
	defer closeCache()

	_, err = c.Run(cmd.Context(), paths, out)
	return err
}
