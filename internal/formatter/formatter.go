// package formatter provides functions to export playlist progress reports to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/playlist"
	"github.com/desertthunder/nisu/internal/shared"
)

// ProgressReport is a snapshot of one notebook's playlist and completion
// state, ready for export.
type ProgressReport struct {
	Notebook    string        `json:"notebook"`
	Tasks       []models.Task `json:"tasks"`
	Cursor      int           `json:"cursor"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// NewProgressReport builds a report over a merged playlist.
func NewProgressReport(notebook string, tasks []models.Task) *ProgressReport {
	return &ProgressReport{
		Notebook:    notebook,
		Tasks:       tasks,
		Cursor:      playlist.Cursor(tasks),
		GeneratedAt: time.Now(),
	}
}

// CompletedCount returns how many tasks are complete.
func (r *ProgressReport) CompletedCount() int {
	count := 0
	for _, task := range r.Tasks {
		if task.Complete() {
			count++
		}
	}
	return count
}

// PercentComplete returns completion as a percentage, 0 for an empty report.
func (r *ProgressReport) PercentComplete() float64 {
	if len(r.Tasks) == 0 {
		return 0
	}
	return float64(r.CompletedCount()) / float64(len(r.Tasks)) * 100
}

// ExportToCSV converts a report to CSV format with columns: Position, ID, Kind, Status, Payload
func ExportToCSV(report *ProgressReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Kind", "Status", "Payload"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, task := range report.Tasks {
		record := []string{
			strconv.Itoa(i + 1),
			task.ID,
			task.Kind.String(),
			string(task.Status),
			task.Payload,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a report to a Markdown checklist
func ExportToMarkdown(report *ProgressReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", report.Notebook))
	buf.WriteString(fmt.Sprintf("**Progress**: %d/%d tasks (%.0f%%)\n", report.CompletedCount(), len(report.Tasks), report.PercentComplete()))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n\n", report.GeneratedAt.Format(time.RFC3339)))

	buf.WriteString("## Tasks\n\n")
	for _, task := range report.Tasks {
		mark := " "
		if task.Complete() {
			mark = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %s: %s\n", mark, task.Kind, task.Payload))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a report to plain text format
func ExportToText(report *ProgressReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Notebook: %s\n", report.Notebook))
	buf.WriteString(fmt.Sprintf("Progress: %d/%d tasks\n\n", report.CompletedCount(), len(report.Tasks)))

	for i, task := range report.Tasks {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s (%s)\n", i+1, task.Status, task.Payload, task.Kind))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a report to indented JSON
func ExportToJSON(report *ProgressReport) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// WriteReport renders a report in the requested format and writes it to
// path. Unknown formats default to JSON. Returns the written path.
func WriteReport(report *ProgressReport, format, path string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(report)
	case "markdown", "md":
		data, err = ExportToMarkdown(report)
	case "txt", "text":
		data, err = ExportToText(report)
	case "json":
		fallthrough
	default:
		data, err = ExportToJSON(report)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if path == "" {
		path = fmt.Sprintf("%s_progress.%s", report.Notebook, extension(format))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}

func extension(format string) string {
	switch format {
	case "csv":
		return "csv"
	case "markdown", "md":
		return "md"
	case "txt", "text":
		return "txt"
	default:
		return "json"
	}
}
