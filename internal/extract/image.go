package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"multirag/internal/core"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true, ".webp": true,
}

// ImageExtractor pulls embedded images out of the document into outputDir and
// captions each via a vision-capable model.
type ImageExtractor struct {
	outputDir string
	captioner core.Captioner
	log       *zap.SugaredLogger
}

func NewImageExtractor(outputDir string, captioner core.Captioner, log *zap.SugaredLogger) *ImageExtractor {
	return &ImageExtractor{outputDir: outputDir, captioner: captioner, log: log}
}

// Extract writes every embedded image to the output directory and returns
// their paths in deterministic (sorted) order.
func (e *ImageExtractor) Extract(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image output dir: %w", err)
	}

	tmpPath, cleanup, err := writeTempPDF(data)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	before, err := listImages(e.outputDir)
	if err != nil {
		return nil, err
	}

	if err := api.ExtractImagesFile(tmpPath, e.outputDir, nil, nil); err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	after, err := listImages(e.outputDir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(before))
	for _, p := range before {
		seen[p] = true
	}
	var paths []string
	for _, p := range after {
		if !seen[p] {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	e.log.Infow("image extraction complete", "images", len(paths))
	return paths, nil
}

// Caption produces one caption per image. Images whose captioning fails are
// excluded from both returned slices, so captions[i] always describes
// validPaths[i].
func (e *ImageExtractor) Caption(ctx context.Context, paths []string) ([]string, []string, error) {
	if e.captioner == nil {
		return nil, nil, fmt.Errorf("no captioner configured")
	}

	var captions, validPaths []string
	for _, p := range paths {
		caption, err := e.captioner.Caption(ctx, p)
		if err != nil {
			e.log.Warnw("captioning failed, skipping image", "path", p, "err", err)
			continue
		}
		captions = append(captions, caption)
		validPaths = append(validPaths, p)
	}
	return captions, validPaths, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}
	var out []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(ent.Name()))] {
			out = append(out, filepath.Join(dir, ent.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
