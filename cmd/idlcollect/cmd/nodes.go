package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newNodesCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "nodes ROOT",
		Short: "List the files under ROOT that define interfaces",
		Long: `Prints a JSON array of the definition files that declare at least one
interface or partial interface, in discovery order.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodes(cmd, st, args[0])
		},
	}
}

func runNodes(cmd *cobra.Command, st *state, root string) error {
	paths, err := st.discover(root)
	if err != nil {
		return err
	}
	c, closeCache, err := st.collector(root)
	if err != nil {
		return err
	}
	defer closeCache()

	nodes, err := c.Nodes(cmd.Context(), paths)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if st.cfg.Indent > 0 {
		enc.SetIndent("", indentString(st.cfg.Indent))
	}
	return enc.Encode(nodes)
}
