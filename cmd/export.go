package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/naka-gawa/merged-pr-export/internal/config"
	"github.com/naka-gawa/merged-pr-export/internal/exporter"
	"github.com/naka-gawa/merged-pr-export/internal/gateway"
	"github.com/naka-gawa/merged-pr-export/internal/usecase"
)

// runExport wires the gateway, collector and exporter for one run.
func runExport(ctx context.Context, cfg config.Config, logger *log.Logger, out io.Writer) error {
	githubGateway, err := gateway.NewGitHubGateway(cfg.Token, cfg.APIURL, cfg.Timeout, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	collector := usecase.NewCollector(githubGateway, logger)

	prs, err := collector.Collect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to collect pull requests: %w", err)
	}

	written, err := exporter.NewCSVExporter(logger).Export(prs, cfg.Output)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d merged pull requests to %s\n", written, cfg.Output)

	summary, err := usecase.Summarize(prs)
	if err != nil {
		// The CSV is already on disk; statistics are informational only.
		logger.Printf("Failed to summarize time to merge: %v", err)
		return nil
	}
	if summary.Count > 0 {
		fmt.Fprintf(out, "Time to merge (hours): mean %.2f, median %.2f, p90 %.2f\n",
			summary.MeanHours, summary.MedianHours, summary.P90Hours)
	}
	return nil
}
