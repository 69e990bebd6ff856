package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"multirag/internal/core"
	"multirag/internal/models"
)

// NotFoundAnswer is returned when retrieval yields no usable context. The
// request succeeds with this fixed message and records nothing into memory.
const NotFoundAnswer = "I couldn't find relevant information in the document."

const systemInstruction = "You are a helpful RAG AI Assistant. " +
	"Use only the provided document context to answer. " +
	`If the information is missing, say: "I don't know based on provided document."`

const contextDelimiter = "\n\n---\n\n"

// Service answers questions grounded in the vector store: embed the question,
// retrieve the nearest stored content, prompt the model with context plus the
// session's conversation so far, and record the exchange.
type Service struct {
	embedder core.EmbeddingProvider
	store    core.VectorStore
	llm      core.LLMProvider
	memory   *Memory
	topK     int
	log      *zap.SugaredLogger
}

func NewService(embedder core.EmbeddingProvider, store core.VectorStore, llm core.LLMProvider, memory *Memory, topK int, log *zap.SugaredLogger) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		embedder: embedder,
		store:    store,
		llm:      llm,
		memory:   memory,
		topK:     topK,
		log:      log,
	}
}

// Ask runs one question through the embed → retrieve → generate flow. The
// model is invoked at most once, with no streaming and no retries.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (models.Answer, error) {
	vecs, err := s.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return models.Answer{}, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return models.Answer{}, fmt.Errorf("embed query: expected 1 vector, got %d", len(vecs))
	}

	matches, err := s.store.Query(ctx, vecs[0], s.topK)
	if err != nil {
		return models.Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	contexts := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Content != "" {
			contexts = append(contexts, m.Content)
		}
	}
	if len(contexts) == 0 {
		s.log.Infow("no context retrieved", "session", sessionID)
		return models.Answer{Text: NotFoundAnswer, Sources: []string{}}, nil
	}

	prompt := s.buildPrompt(sessionID, question, contexts)
	answer, err := s.llm.Generate(ctx, systemInstruction, prompt)
	if err != nil {
		return models.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	s.memory.Append(sessionID, models.ConversationTurn{Question: question, Answer: answer})

	return models.Answer{Text: answer, Sources: contexts}, nil
}

// Reset clears the session's conversation memory.
func (s *Service) Reset(sessionID string) {
	s.memory.Reset(sessionID)
}

// buildPrompt assembles the grounding prompt: prior conversation first, then
// the retrieved contexts joined by a fixed delimiter, then the question.
func (s *Service) buildPrompt(sessionID, question string, contexts []string) string {
	var b strings.Builder

	if turns := s.memory.Turns(sessionID); len(turns) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", t.Question, t.Answer)
		}
		b.WriteString("\n")
	}

	b.WriteString("Context:\n")
	b.WriteString(strings.Join(contexts, contextDelimiter))
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
