package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/itsmostafa/regiontree/internal/api"
	"github.com/itsmostafa/regiontree/internal/config"
	"github.com/itsmostafa/regiontree/internal/outline"
	"github.com/spf13/cobra"
)

var serveAddr string
var serveRoot string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve region outlines over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("root") {
			cfg.Root = serveRoot
		}

		level, _ := config.ParseLevel(cfg.LogLevel)
		jsonLog := slog.New(slog.NewJSONHandler(cmd.OutOrStdout(), &slog.HandlerOptions{Level: level}))

		srv := api.NewServer(outline.NewSession(jsonLog), jsonLog, cfg)
		httpServer := &http.Server{
			Addr:         cfg.Addr,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			jsonLog.Info("shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		jsonLog.Info("starting regiontree api", "addr", cfg.Addr, "root", cfg.Root)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8091", "Listen address")
	serveCmd.Flags().StringVar(&serveRoot, "root", ".", "Directory files are served from")
	rootCmd.AddCommand(serveCmd)
}
