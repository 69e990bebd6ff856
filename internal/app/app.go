package app

import (
	"context"

	"go.uber.org/zap"

	"multirag/internal/chat"
	"multirag/internal/config"
	"multirag/internal/embed"
	"multirag/internal/llm"
	"multirag/internal/store/vector"
)

// App holds the serving-side dependency graph: vector store, embedder, model
// client, conversation memory, and the HTTP server on top of them.
type App struct {
	Store  *vector.PgStore
	Server *Server
}

func NewApp(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*App, error) {
	store, err := vector.NewPgStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("vector store initialized and ready")

	embedder := embed.NewLocalEmbedder(cfg.EmbedDim, log)
	provider := llm.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	memory := chat.NewMemory()
	svc := chat.NewService(embedder, store, provider, memory, cfg.TopK, log)

	server := NewServer(cfg, svc, log)

	return &App{Store: store, Server: server}, nil
}

func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
}
