package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mvilhena/depsense/internal/server"
)

// serveCommand creates the "serve" command: run the engine as a local HTTP
// sidecar for editors without an in-process integration.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the completion engine over HTTP",
		Long: `Serve the completion engine over HTTP.

Configuration comes from DEPSENSE_* environment variables (host, port,
timeouts); --addr overrides the bind address. The manifest is watched and
refreshed in the background while the server runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				host, port, err := splitAddr(addr)
				if err != nil {
					return err
				}
				cfg.Host, cfg.Port = host, port
			}

			eng, cleanup, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := withLogger(cmd.Context(), c.Logger)
			printInfo("Serving on http://%s", cfg.Addr())
			return server.New(cfg, eng, loggerFromContext(ctx)).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "bind address (host:port), overrides DEPSENSE_HOST/PORT")
	return cmd
}

// splitAddr parses a host:port bind address.
func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("addr %q: want host:port", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("addr %q: invalid port", addr)
	}
	return host, port, nil
}
