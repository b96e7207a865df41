// Package exporter serializes collected pull requests into a CSV file.
package exporter

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/naka-gawa/merged-pr-export/internal/domain"
)

// Header is the fixed column order of every export.
var Header = []string{
	"PR Number",
	"Title",
	"Author Login",
	"Author Name",
	"Author Email",
	"Merger Login",
	"Merger Name",
	"Merger Email",
	"Additions",
	"Deletions",
	"Created At",
	"Merged At",
	"Time to Merge (hours)",
}

// CSVExporter writes one header row followed by one row per pull request.
type CSVExporter struct {
	logger *log.Logger
}

// NewCSVExporter creates a new CSVExporter instance.
func NewCSVExporter(logger *log.Logger) *CSVExporter {
	return &CSVExporter{logger: logger}
}

// Export creates (or truncates) path and writes records to it.
// It returns the number of data rows written. On failure the file may be left
// partially written.
func (e *CSVExporter) Export(records []*domain.PullRequest, path string) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, &domain.ExportError{Path: path, Err: err}
	}

	n, err := e.Write(file, records)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return n, &domain.ExportError{Path: path, Err: err}
	}
	e.logger.Printf("Exporter: Wrote %d rows to %s.", n, path)
	return n, nil
}

// Write streams the CSV document to w.
func (e *CSVExporter) Write(w io.Writer, records []*domain.PullRequest) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return 0, err
	}
	for i, pr := range records {
		if err := writer.Write(Row(pr)); err != nil {
			return i, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Row maps a pull request onto the Header columns.
func Row(pr *domain.PullRequest) []string {
	merger := pr.Merger()

	mergedAt, timeToMerge := "", ""
	if pr.IsMerged() {
		mergedAt = formatTime(*pr.MergedAt)
	}
	if hours, ok := pr.TimeToMergeHours(); ok {
		timeToMerge = strconv.FormatFloat(hours, 'f', -1, 64)
	}

	return []string{
		strconv.Itoa(pr.Number),
		pr.Title,
		pr.Author.Login,
		domain.ResolveDisplayName(pr.Author),
		domain.NotAvailable,
		merger.Login,
		domain.ResolveDisplayName(merger),
		domain.NotAvailable,
		strconv.Itoa(pr.Additions),
		strconv.Itoa(pr.Deletions),
		formatTime(pr.CreatedAt),
		mergedAt,
		timeToMerge,
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
