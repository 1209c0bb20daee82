// Package conversation keeps the per-session chat history the refiner uses to
// resolve follow-up answers. History is append-only, owned by the control
// loop, and lives only for the process lifetime.
package conversation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Roles of a conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one exchange half.
type Turn struct {
	Role    string
	Content string
}

// History is the ordered sequence of turns for one session. Unbounded growth
// is a known accepted limitation.
type History struct {
	sessionID uuid.UUID
	turns     []Turn
}

// NewHistory starts an empty session.
func NewHistory() *History {
	return &History{sessionID: uuid.New()}
}

// SessionID identifies this session in logs.
func (h *History) SessionID() uuid.UUID {
	return h.sessionID
}

// Append records one turn.
func (h *History) Append(role, content string) {
	h.turns = append(h.turns, Turn{Role: role, Content: content})
}

// AppendExchange records a user turn and the assistant's reply.
func (h *History) AppendExchange(userContent, assistantContent string) {
	h.Append(RoleUser, userContent)
	h.Append(RoleAssistant, assistantContent)
}

// Len returns the number of recorded turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Render formats the history as role-prefixed lines for prompt embedding.
func (h *History) Render() string {
	if len(h.turns) == 0 {
		return "No history yet."
	}

	var b strings.Builder
	for i, turn := range h.turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", turn.Role, turn.Content)
	}
	return b.String()
}
