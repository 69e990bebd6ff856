package extract

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"
	"go.uber.org/zap"
)

// TextExtractor converts the full document to plain text and splits it into
// overlapping chunks.
type TextExtractor struct {
	splitter *Splitter
	log      *zap.SugaredLogger
}

func NewTextExtractor(chunkSize, overlap int, log *zap.SugaredLogger) *TextExtractor {
	return &TextExtractor{splitter: NewSplitter(chunkSize, overlap), log: log}
}

// Extract returns overlapping text chunks for the whole document. An empty
// document yields an empty result with no error; a conversion failure is
// reported to the caller so it can be distinguished from "no text found".
func (e *TextExtractor) Extract(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	res, err := docconv.Convert(bytes.NewReader(data), "application/pdf", false)
	if err != nil {
		return nil, fmt.Errorf("pdf text conversion: %w", err)
	}
	if res.Body == "" {
		return nil, nil
	}

	chunks := e.splitter.Split(res.Body)
	e.log.Infow("text extraction complete", "characters", len(res.Body), "chunks", len(chunks))
	return chunks, nil
}
