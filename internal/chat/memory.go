package chat

import (
	"sync"

	"multirag/internal/models"
)

// DefaultSessionID is used when a client sends no session identifier. A
// single-user deployment then behaves like one shared conversation, but as an
// explicit choice rather than accidental global state.
const DefaultSessionID = "default"

// Memory is an in-process, session-keyed conversation log. Appends and reads
// are serialized by a lock, so concurrent chat requests cannot lose turns.
// Contents are unbounded within the process lifetime and are not persisted.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string][]models.ConversationTurn
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string][]models.ConversationTurn)}
}

func normalizeSession(id string) string {
	if id == "" {
		return DefaultSessionID
	}
	return id
}

// Append records a completed exchange at the end of the session's log.
func (m *Memory) Append(sessionID string, turn models.ConversationTurn) {
	id := normalizeSession(sessionID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = append(m.sessions[id], turn)
}

// Turns returns a copy of the session's log in append order.
func (m *Memory) Turns(sessionID string) []models.ConversationTurn {
	id := normalizeSession(sessionID)
	m.mu.RLock()
	defer m.mu.RUnlock()
	turns := m.sessions[id]
	out := make([]models.ConversationTurn, len(turns))
	copy(out, turns)
	return out
}

// Len reports the number of turns recorded for the session.
func (m *Memory) Len(sessionID string) int {
	id := normalizeSession(sessionID)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[id])
}

// Reset clears the session's log. Resetting an empty or unknown session is a
// no-op that still succeeds. The vector store is untouched.
func (m *Memory) Reset(sessionID string) {
	id := normalizeSession(sessionID)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
