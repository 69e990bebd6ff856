package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"multirag/internal/models"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.5, 0.5}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return 2 }

type fakeStore struct {
	matches []models.Match
	err     error
}

func (f *fakeStore) EnsureIndex(context.Context) error { return nil }
func (f *fakeStore) Upsert(context.Context, []models.ContentItem, [][]float32) error {
	return nil
}
func (f *fakeStore) Query(context.Context, []float32, int) ([]models.Match, error) {
	return f.matches, f.err
}
func (f *fakeStore) Close() error { return nil }

type fakeLLM struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, _, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestService(store *fakeStore, llm *fakeLLM) (*Service, *Memory) {
	mem := NewMemory()
	svc := NewService(&fakeEmbedder{}, store, llm, mem, 5, zap.NewNop().Sugar())
	return svc, mem
}

func TestAskNoContext(t *testing.T) {
	llm := &fakeLLM{answer: "should not be used"}
	svc, mem := newTestService(&fakeStore{}, llm)

	ans, err := svc.Ask(context.Background(), "s1", "what is this about?")
	require.NoError(t, err)

	assert.Equal(t, NotFoundAnswer, ans.Text)
	assert.NotNil(t, ans.Sources)
	assert.Empty(t, ans.Sources)
	assert.Empty(t, llm.prompts, "model must not be invoked without context")
	assert.Equal(t, 0, mem.Len("s1"), "no-context turns are not recorded")
}

func TestAskWithContext(t *testing.T) {
	store := &fakeStore{matches: []models.Match{
		{ID: "text_0_1", Content: "first passage"},
		{ID: "table_1_1", Content: "second passage"},
	}}
	llm := &fakeLLM{answer: "the document says so"}
	svc, mem := newTestService(store, llm)

	ans, err := svc.Ask(context.Background(), "s1", "what does it say?")
	require.NoError(t, err)

	assert.Equal(t, "the document says so", ans.Text)
	assert.Equal(t, []string{"first passage", "second passage"}, ans.Sources)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "first passage\n\n---\n\nsecond passage")
	assert.Contains(t, llm.prompts[0], "what does it say?")
	assert.NotContains(t, llm.prompts[0], "Previous conversation:")

	require.Equal(t, 1, mem.Len("s1"))
	turn := mem.Turns("s1")[0]
	assert.Equal(t, "what does it say?", turn.Question)
	assert.Equal(t, "the document says so", turn.Answer)
}

func TestAskIncludesConversationHistory(t *testing.T) {
	store := &fakeStore{matches: []models.Match{{ID: "text_0_1", Content: "a passage"}}}
	llm := &fakeLLM{answer: "an answer"}
	svc, _ := newTestService(store, llm)

	_, err := svc.Ask(context.Background(), "s1", "first question")
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), "s1", "second question")
	require.NoError(t, err)

	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1], "Previous conversation:")
	assert.Contains(t, llm.prompts[1], "User: first question")
	assert.Contains(t, llm.prompts[1], "Assistant: an answer")
}

func TestAskFiltersEmptyContent(t *testing.T) {
	store := &fakeStore{matches: []models.Match{
		{ID: "text_0_1", Content: ""},
		{ID: "text_1_1", Content: "real content"},
	}}
	llm := &fakeLLM{answer: "ok"}
	svc, _ := newTestService(store, llm)

	ans, err := svc.Ask(context.Background(), "s1", "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"real content"}, ans.Sources)
}

func TestAskStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc, mem := newTestService(store, &fakeLLM{})

	_, err := svc.Ask(context.Background(), "s1", "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieve context")
	assert.Equal(t, 0, mem.Len("s1"))
}

func TestAskGenerateError(t *testing.T) {
	store := &fakeStore{matches: []models.Match{{ID: "text_0_1", Content: "a passage"}}}
	llm := &fakeLLM{err: errors.New("model overloaded")}
	svc, mem := newTestService(store, llm)

	_, err := svc.Ask(context.Background(), "s1", "q")
	require.Error(t, err)
	assert.Equal(t, 0, mem.Len("s1"), "failed turns are not recorded")
}

func TestResetClearsOnlyThatSession(t *testing.T) {
	store := &fakeStore{matches: []models.Match{{ID: "text_0_1", Content: "a passage"}}}
	svc, mem := newTestService(store, &fakeLLM{answer: "ok"})

	_, err := svc.Ask(context.Background(), "s1", "q")
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), "s2", "q")
	require.NoError(t, err)

	svc.Reset("s1")
	assert.Equal(t, 0, mem.Len("s1"))
	assert.Equal(t, 1, mem.Len("s2"))
}
