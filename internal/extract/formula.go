package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// mathIndicators is the fixed heuristic symbol set: a line needs "=" plus at
// least one of these to count as a probable formula. Deliberately
// precision-low; a parser is out of scope.
var mathIndicators = []string{"(", ")", "sqrt", "/", "Q", "K", "V", "sin", "cos", "theta"}

// FormulaExtractor scans per-page text lines for probable mathematical
// expressions. Matches are also persisted to a text file in outputDir.
type FormulaExtractor struct {
	outputDir string
	log       *zap.SugaredLogger
}

func NewFormulaExtractor(outputDir string, log *zap.SugaredLogger) *FormulaExtractor {
	return &FormulaExtractor{outputDir: outputDir, log: log}
}

// Extract returns matching lines prefixed with their 1-indexed page number.
func (e *FormulaExtractor) Extract(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	pages, err := pageTexts(data)
	if err != nil {
		return nil, err
	}

	var formulas []string
	for pageIdx, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			if isProbableFormula(line) {
				formulas = append(formulas, fmt.Sprintf("Page %d: %s", pageIdx+1, strings.TrimSpace(line)))
			}
		}
	}

	if err := e.writeArtifact(formulas); err != nil {
		e.log.Warnw("formula artifact write failed", "err", err)
	}

	e.log.Infow("formula extraction complete", "formulas", len(formulas))
	return formulas, nil
}

func isProbableFormula(line string) bool {
	if !strings.Contains(line, "=") {
		return false
	}
	for _, ind := range mathIndicators {
		if strings.Contains(line, ind) {
			return true
		}
	}
	return false
}

func (e *FormulaExtractor) writeArtifact(formulas []string) error {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(e.outputDir, "extracted_formulas.txt")
	var b strings.Builder
	for _, f := range formulas {
		b.WriteString(f)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
