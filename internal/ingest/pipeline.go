package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"multirag/internal/core"
	"multirag/internal/extract"
	"multirag/internal/models"
)

// Pipeline runs the one-shot batch ingestion: fetch the source document,
// extract every modality, normalize, embed, and upsert into the vector store.
//
// Extraction is best-effort per modality: a failed extractor degrades its
// modality to empty and the run continues. Fetch, embed, and the
// content/vector pairing are fail-fast.
type Pipeline struct {
	fetcher  core.ObjectFetcher
	text     *extract.TextExtractor
	tables   *extract.TableExtractor
	formulas *extract.FormulaExtractor
	images   *extract.ImageExtractor
	embedder core.EmbeddingProvider
	store    core.VectorStore
	sourceID string
	log      *zap.SugaredLogger
}

func NewPipeline(
	fetcher core.ObjectFetcher,
	text *extract.TextExtractor,
	tables *extract.TableExtractor,
	formulas *extract.FormulaExtractor,
	images *extract.ImageExtractor,
	embedder core.EmbeddingProvider,
	store core.VectorStore,
	sourceID string,
	log *zap.SugaredLogger,
) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		text:     text,
		tables:   tables,
		formulas: formulas,
		images:   images,
		embedder: embedder,
		store:    store,
		sourceID: sourceID,
		log:      log,
	}
}

// Run executes the whole ingestion once. A failed fetch aborts; an empty
// content set after extraction is a clean no-op.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	p.log.Infow("multi-modal ingestion started (text + tables + formulas + images)",
		"run_id", runID, "source", p.sourceID)

	data, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch source document: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("fetch source document: empty object")
	}

	bundle := p.extractAll(ctx, data)

	items := Normalize(bundle, p.sourceID)
	p.log.Infow("content normalized",
		"total", len(items),
		"text_chunks", len(bundle.TextChunks),
		"tables", len(bundle.Tables),
		"formulas", len(bundle.Formulas),
		"images", len(bundle.Captions),
	)
	if len(items) == 0 {
		p.log.Warn("no content extracted, nothing to ingest")
		return nil
	}

	texts := make([]string, len(items))
	for i := range items {
		texts[i] = items[i].Text
	}
	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed content: %w", err)
	}
	if len(vectors) != len(items) {
		return fmt.Errorf("embedding count mismatch: %d items, %d vectors", len(items), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != p.embedder.Dimension() {
			return fmt.Errorf("vector %d has dimension %d, index expects %d", i, len(v), p.embedder.Dimension())
		}
	}

	if err := p.store.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure vector index: %w", err)
	}
	if err := p.store.Upsert(ctx, items, vectors); err != nil {
		return fmt.Errorf("upsert vectors: %w", err)
	}

	p.log.Infow("ingestion completed", "run_id", runID, "records", len(items))
	return nil
}

// extractAll runs the four extractors concurrently. They write to distinct
// output directories, so they are side-effect isolated. Failures are logged
// and leave that modality empty; the errgroup never receives an error so one
// bad modality cannot cancel the others.
func (p *Pipeline) extractAll(ctx context.Context, data []byte) models.ExtractionBundle {
	var bundle models.ExtractionBundle

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		chunks, err := p.text.Extract(data)
		if err != nil {
			p.log.Errorw("text extraction failed", "err", err)
			return nil
		}
		bundle.TextChunks = chunks
		return nil
	})

	g.Go(func() error {
		tables, err := p.tables.Extract(data)
		if err != nil {
			p.log.Errorw("table extraction failed", "err", err)
			return nil
		}
		bundle.Tables = tables
		return nil
	})

	g.Go(func() error {
		formulas, err := p.formulas.Extract(data)
		if err != nil {
			p.log.Errorw("formula extraction failed", "err", err)
			return nil
		}
		bundle.Formulas = formulas
		return nil
	})

	g.Go(func() error {
		paths, err := p.images.Extract(data)
		if err != nil {
			p.log.Errorw("image extraction failed", "err", err)
			return nil
		}
		if len(paths) == 0 {
			return nil
		}
		captions, validPaths, err := p.images.Caption(gctx, paths)
		if err != nil {
			p.log.Errorw("image captioning unavailable", "err", err)
			return nil
		}
		bundle.Captions = captions
		bundle.ImagePaths = validPaths
		return nil
	})

	_ = g.Wait()
	return bundle
}
