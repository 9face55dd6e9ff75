package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"weeklog/internal/logger"
	"weeklog/web"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API for recording and reviewing weekly hours",
	Long: `Start an HTTP server exposing the entry operations and the weekly view.

Every /api route requires a bearer token created with "weeklog token". The signing
secret is read from server.jwt_secret.`,
	Example: `
  # Start on the configured port
  weeklog serve

  # Override the port
  weeklog serve --port 9090
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		auth, err := web.NewAuthenticator(a.cfg.Server.JWTSecret, a.cfg.Server.TokenTTL)
		if err != nil {
			return err
		}

		port := a.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return fmt.Errorf("listen on port %d: %w", port, err)
		}

		server := &http.Server{
			Handler:           web.NewServer(a.service, a.store, auth, a.log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Listening on http://localhost:%d\n", port)
		return runServer(ctx, server, listener, a.log)
	},
}

// runServer serves on listener until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, server *http.Server, listener net.Listener, log *logger.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "addr", listener.Addr().String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default: server.port from config)")
}
