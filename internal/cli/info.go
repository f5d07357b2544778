package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvilhena/depsense/pkg/integrations/npm"
)

// infoCommand creates the "info" command: registry metadata for a package,
// through the same enrichment path method suggestions use.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <package>",
		Short: "Look up package metadata from the npm registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg := args[0]

			eng, cleanup, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Fetching %s", pkg))
			spinner.Start()
			details := eng.Metadata(cmd.Context(), pkg)
			spinner.Stop()

			if details.Version == npm.SentinelVersion {
				printWarning("Registry unreachable; showing placeholder record")
			}
			printKeyValue("package", details.Name)
			printKeyValue("version", details.Version)
			printKeyValue("about", details.Description)
			printKeyValue("homepage", StyleLink.Render(details.Homepage))
			return nil
		},
	}
}
