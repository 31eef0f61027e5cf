package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/service/ingest"
)

var (
	syncSource string
	syncOut    string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Parse the unified content source and write derived files",
	RunE: func(cmd *cobra.Command, args []string) error {
		source := firstNonEmpty(syncSource, cfg.Content.SourceFile)
		out := firstNonEmpty(syncOut, cfg.Content.OutputDir)

		report, err := ingest.NewSyncer(0, logger).Run(cmd.Context(), source, out)
		if err != nil {
			logger.Error("Sync failed", zap.String("source", source), zap.Error(err))
			return err
		}

		w := cmd.OutOrStdout()
		for _, f := range report.Files {
			fmt.Fprintf(w, "wrote %s\n", f)
		}
		for i, n := range report.Truncated {
			if n > 0 {
				fmt.Fprintf(w, "sample_output_%d: %d variant(s) shortened to the format limit\n", i+1, n)
			}
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncSource, "source", "", "unified content source (default $SEGCRAFT_CONTENT_FILE)")
	syncCmd.Flags().StringVar(&syncOut, "out", "", "output root (default $SEGCRAFT_OUTPUT_DIR)")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
