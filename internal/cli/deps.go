package cli

import (
	"github.com/spf13/cobra"
)

// depsCommand creates the "deps" command: load the project manifest and
// print its dependency list in manifest order.
func (c *CLI) depsCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Show the project's manifest dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			if refresh {
				if err := eng.ResetCache(ctx); err != nil {
					return err
				}
			}
			eng.OnFileSwitch(ctx)

			snap := eng.Snapshot()
			if snap == nil {
				printWarning("No package.json found under the project directory")
				return nil
			}

			printKeyValue("manifest", snap.Path)
			printKeyValue("hash", snap.SourceHash[:12])
			for _, dep := range snap.Dependencies {
				printDetail("%s", dep)
			}
			printStats(len(snap.Dependencies), snap.FromCache)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "reparse the manifest, bypassing the cached hash")
	return cmd
}
