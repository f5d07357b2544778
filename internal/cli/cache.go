package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persisted dependency and metadata caches",
	}

	cmd.AddCommand(c.cacheResetCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheResetCommand creates the "cache reset" subcommand. It removes the
// persisted dependency list and manifest hash so the next load reparses,
// leaving package metadata in place.
func (c *CLI) cacheResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the dependency cache (keeps package metadata)",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.ResetCache(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Dependency cache reset")
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand, which wipes every
// persisted record including package metadata.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all persisted data",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.ClearData(cmd.Context()); err != nil {
				return err
			}
			printSuccess("All persisted data cleared")
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
