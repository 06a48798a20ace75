package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/backend"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, seedPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory development backend",
		Long: `Run a development backend that serves every endpoint the viewer and the
edit commands use, from an in-memory store.

The store is seeded from --seed (a JSON file) or from the built-in demo
data. Changes are lost when the server stops.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config().Serve
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Addr
			}
			if !cmd.Flags().Changed("seed") {
				seedPath = cfg.Seed
			}

			seed := backend.DefaultSeed()
			if seedPath != "" {
				s, err := backend.LoadSeed(seedPath)
				if err != nil {
					return err
				}
				seed = s
			}
			store, err := backend.NewStore(seed)
			if err != nil {
				return fmt.Errorf("seed store: %w", err)
			}

			return c.runServer(cmd.Context(), addr, backend.NewServer(store, c.Logger))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&seedPath, "seed", "", "JSON seed file (default built-in demo data)")
	return cmd
}

// runServer serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func (c *CLI) runServer(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	printSuccess("Backend listening on %s", StyleLink.Render("http://"+ln.Addr().String()))
	printDetail("Point the viewer at it with --api-url http://%s", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
