package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/config"
	"github.com/kapu/segcraft-go/internal/util"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "segcraft",
	Short: "SegCraft - audience-segmented ad copy generator",
	Long: `SegCraft turns one base ad text into copy variants for several audience
segments and an ad format.

  segcraft sync       parse the unified content source into derived files
  segcraft generate   run a generation from a sample input
  segcraft serve      start the JSON API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd, generateCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
