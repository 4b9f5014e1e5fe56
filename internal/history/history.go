// Package history keeps a session's conversation transcript and the bounded
// window of it that may be fed back into generation.
package history

import (
	"sync"

	"yatra/internal/domain"
)

// DefaultWindow is the number of turns kept for generation context.
const DefaultWindow = 5

// History is an append-only transcript with a sliding window view.
type History struct {
	mu     sync.RWMutex
	window int
	turns  []domain.Turn
}

// New creates a history whose window holds the last k turns.
func New(k int) *History {
	if k <= 0 {
		k = DefaultWindow
	}
	return &History{window: k}
}

// Append records one turn.
func (h *History) Append(role domain.Role, content string) {
	h.mu.Lock()
	h.turns = append(h.turns, domain.Turn{Role: role, Content: content})
	h.mu.Unlock()
}

// Window returns a copy of the most recent turns, at most k of them.
func (h *History) Window() []domain.Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	start := len(h.turns) - h.window
	if start < 0 {
		start = 0
	}
	return clone(h.turns[start:])
}

// Transcript returns a copy of every turn ever appended.
func (h *History) Transcript() []domain.Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return clone(h.turns)
}

// Len returns the number of recorded turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Size returns the window bound k.
func (h *History) Size() int { return h.window }

func clone(turns []domain.Turn) []domain.Turn {
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}
