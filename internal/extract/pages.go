package extract

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// pageTexts returns the plain text of every page, index 0 = page 1. Pages
// whose text cannot be decoded come back empty rather than failing the whole
// document.
func pageTexts(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	texts := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, txt)
	}
	return texts, nil
}

// writeTempPDF persists raw bytes to a temporary file for libraries that need
// file-based input. The caller must invoke the returned cleanup func; it is
// safe on every exit path.
func writeTempPDF(data []byte) (path string, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", "multirag-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("create temp pdf: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("write temp pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close temp pdf: %w", err)
	}
	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}
