package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"multirag/internal/chat"
	"multirag/internal/models"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func (stubEmbedder) Dimension() int { return 1 }

type stubStore struct {
	matches []models.Match
	err     error
}

func (s *stubStore) EnsureIndex(context.Context) error { return nil }
func (s *stubStore) Upsert(context.Context, []models.ContentItem, [][]float32) error {
	return nil
}
func (s *stubStore) Query(context.Context, []float32, int) ([]models.Match, error) {
	return s.matches, s.err
}
func (s *stubStore) Close() error { return nil }

type stubLLM struct{ answer string }

func (s *stubLLM) Generate(context.Context, string, string) (string, error) {
	return s.answer, nil
}

func newTestHandler(store *stubStore, answer string) *ChatHandler {
	log := zap.NewNop().Sugar()
	svc := chat.NewService(stubEmbedder{}, store, &stubLLM{answer: answer}, chat.NewMemory(), 5, log)
	return NewChatHandler(svc, log)
}

func TestAskReturnsAnswerAndSources(t *testing.T) {
	store := &stubStore{matches: []models.Match{{ID: "text_0_1", Content: "a passage"}}}
	h := newTestHandler(store, "grounded answer")

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"what?"}`))
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body models.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "grounded answer", body.Text)
	assert.Equal(t, []string{"a passage"}, body.Sources)
}

func TestAskRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(&stubStore{}, "")

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
}

func TestAskRejectsEmptyQuery(t *testing.T) {
	h := newTestHandler(&stubStore{}, "")

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":""}`))
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskStoreFailureIsServerError(t *testing.T) {
	store := &stubStore{err: errors.New("db unreachable")}
	h := newTestHandler(store, "")

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"q"}`))
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "db unreachable")
}

func TestAskNoContextStillSucceeds(t *testing.T) {
	h := newTestHandler(&stubStore{}, "unused")

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"q"}`))
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body models.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, chat.NotFoundAnswer, body.Text)
	assert.Empty(t, body.Sources)
}

func TestResetResponse(t *testing.T) {
	h := newTestHandler(&stubStore{}, "")

	req := httptest.NewRequest(http.MethodPost, "/reset-chat", strings.NewReader(`{"session_id":"s1"}`))
	rec := httptest.NewRecorder()
	h.Reset(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Chat memory cleared.", body["message"])
}

func TestResetWithoutBody(t *testing.T) {
	h := newTestHandler(&stubStore{}, "")

	req := httptest.NewRequest(http.MethodPost, "/reset-chat", nil)
	rec := httptest.NewRecorder()
	h.Reset(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthRootWithoutUI(t *testing.T) {
	h := NewHealthHandler("")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Root(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, "RAG API", body["service"])
}
