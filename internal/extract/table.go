package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

// columnSplitRe splits a line into cells on tabs or runs of two-plus spaces,
// which is how column alignment survives PDF text extraction.
var columnSplitRe = regexp.MustCompile(`\t+| {2,}`)

// minTableRows is the smallest run of aligned lines treated as a table.
const minTableRows = 2

// TableExtractor detects aligned tabular regions in per-page text and renders
// each as a markdown-style string. Detected tables are also persisted as CSV
// files into outputDir as auxiliary artifacts.
type TableExtractor struct {
	outputDir string
	log       *zap.SugaredLogger
}

func NewTableExtractor(outputDir string, log *zap.SugaredLogger) *TableExtractor {
	return &TableExtractor{outputDir: outputDir, log: log}
}

// Extract returns one string per detected table, formatted as
// "Table {n} Data:\n" followed by a markdown rendering, falling back to a
// plain rendering for ragged tables.
func (e *TableExtractor) Extract(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create table output dir: %w", err)
	}

	pages, err := pageTexts(data)
	if err != nil {
		return nil, err
	}

	var out []string
	n := 0
	for _, page := range pages {
		for _, rows := range detectTables(page) {
			n++
			rendered := renderTable(n, rows)
			out = append(out, rendered)

			csvPath := filepath.Join(e.outputDir, fmt.Sprintf("table_%d.csv", n))
			if err := writeCSV(csvPath, rows); err != nil {
				e.log.Warnw("csv artifact write failed", "table", n, "err", err)
			}
		}
	}

	e.log.Infow("table extraction complete", "tables", n)
	return out, nil
}

// detectTables finds maximal runs of at least minTableRows consecutive lines
// that split into the same number (>=2) of columns.
func detectTables(pageText string) [][][]string {
	lines := strings.Split(pageText, "\n")

	var tables [][][]string
	var run [][]string
	runCols := 0

	flush := func() {
		if len(run) >= minTableRows {
			tables = append(tables, run)
		}
		run = nil
		runCols = 0
	}

	for _, line := range lines {
		cells := splitColumns(line)
		if len(cells) < 2 {
			flush()
			continue
		}
		if runCols != 0 && len(cells) != runCols {
			flush()
		}
		runCols = len(cells)
		run = append(run, cells)
	}
	flush()
	return tables
}

func splitColumns(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cells := columnSplitRe.Split(line, -1)
	out := cells[:0]
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// renderTable produces "Table {n} Data:" plus a markdown table; the first row
// is treated as the header. Ragged input falls back to a plain row dump.
func renderTable(n int, rows [][]string) string {
	header := fmt.Sprintf("Table %d Data:\n", n)

	if md, ok := renderMarkdown(rows); ok {
		return header + md
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, " | "))
		b.WriteByte('\n')
	}
	return header + strings.TrimRight(b.String(), "\n")
}

func renderMarkdown(rows [][]string) (string, bool) {
	if len(rows) < 2 {
		return "", false
	}
	width := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) != width {
			return "", false
		}
	}

	var buf bytes.Buffer
	t := tablewriter.NewWriter(&buf)
	t.SetHeader(rows[0])
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetCenterSeparator("|")
	t.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	t.AppendBulk(rows[1:])
	t.Render()
	return strings.TrimRight(buf.String(), "\n"), true
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
