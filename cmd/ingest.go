package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"multirag/internal/config"
	"multirag/internal/core"
	"multirag/internal/embed"
	"multirag/internal/extract"
	"multirag/internal/ingest"
	"multirag/internal/llm"
	"multirag/internal/pkg/logger"
	"multirag/internal/store/object"
	"multirag/internal/store/vector"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the batch ingestion once",
	Long: `Fetches the configured document from object storage, extracts every
modality, embeds the content, and upserts it into the vector index. The run
is a one-shot batch: it exits non-zero on fatal errors and zero otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prod, _ := cmd.Flags().GetBool("prod")
		log := logger.New(prod)
		defer log.Sync()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.ValidateIngest(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fetcher, err := object.NewS3Fetcher(ctx, cfg, log)
		if err != nil {
			return err
		}

		store, err := vector.NewPgStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		var captioner core.Captioner
		if cfg.VisionAPIKey != "" {
			gemini, err := llm.NewGeminiCaptioner(ctx, cfg.VisionAPIKey, cfg.VisionModel)
			if err != nil {
				log.Warnw("vision model unavailable, image captions disabled", "err", err)
			} else {
				defer gemini.Close()
				captioner = gemini
			}
		} else {
			log.Warn("GEMINI_API_KEY not set, image captions disabled")
		}

		pipeline := ingest.NewPipeline(
			fetcher,
			extract.NewTextExtractor(cfg.ChunkSize, cfg.ChunkOverlap, log),
			extract.NewTableExtractor(cfg.TableOutputDir, log),
			extract.NewFormulaExtractor(cfg.FormulaOutputDir, log),
			extract.NewImageExtractor(cfg.ImageOutputDir, captioner, log),
			embed.NewLocalEmbedder(cfg.EmbedDim, log),
			store,
			cfg.BlobName,
			log,
		)

		return pipeline.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
