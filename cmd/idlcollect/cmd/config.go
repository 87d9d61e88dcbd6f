package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Prints the configuration after merging defaults, idlcollect.yaml,
IDLCOLLECT_* environment variables and flags. The output is valid
idlcollect.yaml content.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(cmd, st)
		},
	}
}

func runConfig(cmd *cobra.Command, st *state) error {
	w := cmd.OutOrStdout()
	if used := st.v.ConfigFileUsed(); used != "" {
		if err := st.printf(w, "# from %s\n", used); err != nil {
			return err
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(st.cfg); err != nil {
		return err
	}
	return enc.Close()
}

func indentString(n int) string {
	return strings.Repeat(" ", n)
}
