package core

import (
	"context"

	"multirag/internal/models"
)

// EmbeddingProvider maps texts to fixed-dimensionality vectors. Implementations
// must be deterministic for identical input and return exactly one vector per
// input string, in order.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// LLMProvider generates an answer from a system instruction and a user prompt.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Captioner describes an image with a short natural-language caption.
type Captioner interface {
	Caption(ctx context.Context, imagePath string) (string, error)
}

// ObjectFetcher retrieves the raw source document from blob storage.
type ObjectFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// VectorStore abstracts the vector database so higher layers never depend on
// a specific backend.
type VectorStore interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, items []models.ContentItem, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, topK int) ([]models.Match, error)
	Close() error
}
