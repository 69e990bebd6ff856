package vector

import (
	"fmt"
	"unicode/utf8"

	"multirag/internal/models"
)

// maxStoredTextLen bounds the content persisted with each record so a single
// oversized chunk cannot blow up row size.
const maxStoredTextLen = 30000

// record is one row ready for upsert.
type record struct {
	ID        string
	Vector    []float32
	Modality  models.Modality
	SourceID  string
	ImagePath string
	Content   string
}

// buildRecords pairs content items with their vectors and derives stable IDs.
// The ID scheme is {modality}_{index}_{timestamp} with a single timestamp for
// the whole batch, so re-ingesting the same document overwrites the prior
// rows instead of accumulating duplicates.
//
// A length mismatch between items and vectors means the embedder and the
// normalizer disagree about what was processed; nothing is written in that
// case.
func buildRecords(items []models.ContentItem, vectors [][]float32, ts int64) ([]record, error) {
	if len(items) != len(vectors) {
		return nil, fmt.Errorf("content/vector count mismatch: %d items, %d vectors", len(items), len(vectors))
	}

	recs := make([]record, 0, len(items))
	for i, item := range items {
		content := truncateText(item.Text, maxStoredTextLen)
		recs = append(recs, record{
			ID:        fmt.Sprintf("%s_%d_%d", item.Modality, i, ts),
			Vector:    vectors[i],
			Modality:  item.Modality,
			SourceID:  item.SourceID,
			ImagePath: item.ImagePath,
			Content:   content,
		})
	}
	return recs, nil
}

// truncateText bounds s to at most max bytes without cutting through a
// multi-byte rune. Invalid UTF-8 in a text column fails the whole insert
// batch, so the cut point must land on a rune boundary.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
