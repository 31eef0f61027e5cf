package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/app"
	"github.com/kapu/segcraft-go/internal/export"
	"github.com/kapu/segcraft-go/internal/service/generation"
)

var (
	genSample        int
	genMock          bool
	genExport        string
	genP0Only        bool
	genCustomSegment string
	genAllSamples    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate copy variants from a derived sample input",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(genExport)
		if err != nil {
			return err
		}
		if genMock {
			cfg.Generation.ForceMock = true
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		container, err := app.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		samples := []int{genSample}
		if genAllSamples {
			samples = []int{1, 2}
		}

		results, err := runSamples(ctx, container, samples)
		if err != nil {
			return err
		}

		for i, res := range results {
			if len(results) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "## sample %d (%s)\n\n", samples[i], res.Mode)
			}
			if err := printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, format); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.IntVar(&genSample, "sample", 1, "sample input to generate from (1 or 2)")
	f.BoolVar(&genMock, "mock", false, "use the canned sample output instead of the live model")
	f.StringVar(&genExport, "export", "json", "output format: csv, md, json or yaml")
	f.BoolVar(&genP0Only, "p0-only", false, "keep only P0 risk flags in csv/md output")
	f.StringVar(&genCustomSegment, "custom-segment", "", "free-text audience appended to the selection")
	f.BoolVar(&genAllSamples, "all-samples", false, "generate from both sample inputs concurrently")
}

// runSamples runs one independent generation per sample number, bounded by
// GENERATION_CONCURRENCY. Results keep the order of samples.
func runSamples(ctx context.Context, c *app.Container, samples []int) ([]*generation.Result, error) {
	results := make([]*generation.Result, len(samples))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(c.Config.Generation.Concurrency)

	for i, n := range samples {
		p.Go(func(ctx context.Context) error {
			fields, err := c.Catalog.SampleInput(n)
			if err != nil {
				return err
			}
			params, err := generation.ParamsFromSample(fields)
			if err != nil {
				return err
			}
			params.CustomSegment = genCustomSegment

			runCtx, cancel := context.WithTimeout(ctx, c.Config.Generation.Timeout)
			defer cancel()

			res, err := c.Service.Generate(runCtx, params)
			if err != nil {
				return fmt.Errorf("sample %d: %w", n, err)
			}
			logger.Info("Generation finished",
				zap.Int("sample", n),
				zap.String("mode", string(res.Mode)),
				zap.Int("model_calls", res.Calls),
				zap.Bool("repaired", res.Repaired),
			)
			results[i] = res
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printResult(out, errOut io.Writer, res *generation.Result, format export.Format) error {
	for _, w := range res.Warnings {
		fmt.Fprintf(errOut, "warning: %s\n", w)
	}
	data, err := export.Render(res.Response, format, export.Options{P0Only: genP0Only})
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = io.WriteString(out, "\n")
	}
	return err
}
