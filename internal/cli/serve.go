package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dfdlayout/internal/server"
)

// serveCommand creates the serve command for the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Routes:
  GET  /health
  GET  /
  POST /api/layout              graph JSON in, layout JSON out
  POST /api/render?format=svg   graph JSON in, rendered artifact out

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sc := c.Config.Server
	srv := server.New(server.Config{
		Addr:         sc.Addr,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		MaxBodyBytes: sc.MaxBodyBytes,
		Layout:       c.Config.Layout.Options(),
		Runner:       runner,
		Logger:       c.Logger,
	})

	printInfo("Listening on %s", StyleHighlight.Render(sc.Addr))
	printDetail("cache: %s", c.Config.Cache.Backend)
	return srv.Serve(ctx)
}
