package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/b11005/blink-idl-diff/internal/adapters/webidl"
	"github.com/b11005/blink-idl-diff/internal/domain/idl"
)

func newDumpCmd(st *state) *cobra.Command {
	var rawAST bool
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the definition tree of one file",
		Long: `Parses FILE and prints the definitions the collector sees. With --ast the
raw syntax tree is printed instead, including declarations the collector
ignores.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, st, args[0], rawAST)
		},
	}
	cmd.Flags().BoolVar(&rawAST, "ast", false, "print the raw syntax tree")
	return cmd
}

func runDump(cmd *cobra.Command, st *state, path string, rawAST bool) error {
	source, err := afero.ReadFile(st.fs, path)
	if err != nil {
		return err
	}
	f, err := webidl.NewParser().Parse(path, source)
	if err != nil {
		return err
	}
	if rawAST {
		return webidl.Dump(cmd.OutOrStdout(), webidl.Parse(string(source)))
	}
	return idl.Fprint(cmd.OutOrStdout(), f)
}
