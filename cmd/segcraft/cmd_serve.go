package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/app"
	"github.com/kapu/segcraft-go/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if cfg.Logging.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		container, err := app.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		logger.Info("SegCraft API starting", zap.String("addr", cfg.Server.Addr))
		return server.New(cfg.Server.Addr, container.Handler(), logger).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default $SERVER_ADDR)")
}
