package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"multirag/internal/chat"
)

type ChatHandler struct {
	svc *chat.Service
	log *zap.SugaredLogger
}

func NewChatHandler(svc *chat.Service, log *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{svc: svc, log: log}
}

type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// Ask answers one question against the ingested document. Missing session_id
// falls back to the shared default session.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	answer, err := h.svc.Ask(r.Context(), req.SessionID, req.Query)
	if err != nil {
		h.log.Errorw("chat request failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

type ResetRequest struct {
	SessionID string `json:"session_id"`
}

// Reset clears the session's conversation memory. The body is optional; an
// empty or absent session_id resets the default session.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if r.Body != nil {
		// Ignore decode errors so a bare POST still resets the default session.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	h.svc.Reset(req.SessionID)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Chat memory cleared.",
	})
}
