package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"multirag/internal/core"
)

const (
	// Dimension is the default vector width; the configured value must match
	// the vector index, a mismatch there is fatal.
	Dimension = 384

	batchSize  = 10
	batchDelay = 200 * time.Millisecond
)

// LocalEmbedder is a deterministic, fully local embedding model: word and
// character-trigram features are hashed into a fixed-size signed bag and the
// result is L2-normalized. The same text always yields the same vector, which
// is what the index and the query path both rely on.
type LocalEmbedder struct {
	dim int
	log *zap.SugaredLogger
}

var _ core.EmbeddingProvider = (*LocalEmbedder)(nil)

func NewLocalEmbedder(dim int, log *zap.SugaredLogger) *LocalEmbedder {
	if dim <= 0 {
		dim = Dimension
	}
	return &LocalEmbedder{dim: dim, log: log}
}

func (e *LocalEmbedder) Dimension() int { return e.dim }

// EmbedTexts embeds in batches of 10 with a fixed delay between batches to
// keep batch timing consistent. Empty input yields empty output. Cancellation
// aborts the whole pass with no partial result.
func (e *LocalEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	e.log.Infow("generating embeddings", "texts", len(texts))

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		for _, t := range texts[start:end] {
			out = append(out, e.encode(t))
		}
		if end < len(texts) {
			select {
			case <-time.After(batchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	e.log.Infow("embeddings generated", "vectors", len(out))
	return out, nil
}

// encode hashes lowercase word unigrams and character trigrams into signed
// buckets, then normalizes. The sign bit comes from the hash itself so
// collisions partially cancel instead of compounding.
func (e *LocalEmbedder) encode(text string) []float32 {
	vec := make([]float32, e.dim)

	for _, feature := range features(text) {
		h := fnv.New64a()
		h.Write([]byte(feature))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dim))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

func features(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	feats := make([]string, 0, len(words)*3)
	for _, w := range words {
		feats = append(feats, "w:"+w)
		runes := []rune(w)
		for i := 0; i+3 <= len(runes); i++ {
			feats = append(feats, "t:"+string(runes[i:i+3]))
		}
	}
	return feats
}
