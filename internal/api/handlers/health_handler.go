package handlers

import (
	"net/http"
	"os"
	"path/filepath"
)

type HealthHandler struct {
	uiDir string
}

func NewHealthHandler(uiDir string) *HealthHandler {
	return &HealthHandler{uiDir: uiDir}
}

// Root serves the chat UI when one is configured and present, otherwise a
// service liveness payload.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if h.uiDir != "" {
		index := filepath.Join(h.uiDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "active",
		"service": "RAG API",
	})
}
