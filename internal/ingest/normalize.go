package ingest

import (
	"multirag/internal/models"
)

const formulaPrefix = "Mathematical Formula: "

// Normalize merges the four extractors' outputs into one ordered content
// sequence: text, then tables, then formulas, then images. The order is
// stable and deterministic; it only feeds index-id derivation, retrieval does
// not depend on it.
func Normalize(b models.ExtractionBundle, sourceID string) []models.ContentItem {
	items := make([]models.ContentItem, 0,
		len(b.TextChunks)+len(b.Tables)+len(b.Formulas)+len(b.Captions))

	for _, t := range b.TextChunks {
		items = append(items, models.ContentItem{
			Text:     t,
			Modality: models.ModalityText,
			SourceID: sourceID,
		})
	}
	for _, t := range b.Tables {
		items = append(items, models.ContentItem{
			Text:     t,
			Modality: models.ModalityTable,
			SourceID: sourceID,
		})
	}
	for _, f := range b.Formulas {
		items = append(items, models.ContentItem{
			Text:     formulaPrefix + f,
			Modality: models.ModalityFormula,
			SourceID: sourceID,
		})
	}
	for i, caption := range b.Captions {
		item := models.ContentItem{
			Text:     caption,
			Modality: models.ModalityImage,
			SourceID: sourceID,
		}
		if i < len(b.ImagePaths) {
			item.ImagePath = b.ImagePaths[i]
		}
		items = append(items, item)
	}
	return items
}
