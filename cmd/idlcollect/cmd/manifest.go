package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/b11005/blink-idl-diff/internal/app"
)

func newManifestCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest ROOT OUT",
		Short: "Write the list of definition files under ROOT",
		Long: `Walks ROOT and writes every file ending in the configured suffix to OUT,
one path per line. Excluded file names are skipped.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifest(st, args[0], args[1])
		},
	}
}

func runManifest(st *state, root, out string) error {
	paths, err := st.discover(root)
	if err != nil {
		return err
	}
	if err := app.WriteManifest(st.fs, out, paths); err != nil {
		return err
	}
	st.log.Info("wrote manifest", zap.String("path", out), zap.Int("files", len(paths)))
	return nil
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(check(cmd, args))
	}
}
