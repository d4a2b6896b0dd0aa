package cli

import (
	"github.com/spf13/cobra"

	"github.com/ru4ls/ComfyUI-Google-Fonts/internal/server"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/observability"
)

// serveCommand creates the serve command, which hosts the nodes over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		maxConcurrent int
		noCache       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the font nodes over HTTP",
		Long: `Host the font nodes over HTTP for a workflow host.

The catalog is fetched once when the server starts so that the node
definitions carry the full family list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if maxConcurrent == 0 {
				maxConcurrent = c.Config.Server.MaxConcurrent
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			families := runner.Families(ctx)
			prog.done("Catalog ready")
			c.Logger.Info("Serving font nodes", "addr", addr, "families", len(families), "max_concurrent", maxConcurrent)

			counters := &observability.Counters{}
			observability.Register(observability.Tee(logHooks{logger: c.Logger}, counters))

			srv := server.New(runner, c.Logger,
				server.WithMaxConcurrent(maxConcurrent),
				server.WithStats(counters))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "simultaneous renders (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
