// Package conversation holds the per-session turn log.
// The log is append-only: downstream consumers (clarification prompts,
// the archive store) rely on it being a faithful record of the session.
package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleTool  Role = "tool"
	RoleError Role = "error"
)

// Turn is one timestamped entry in the conversation log.
// Turns are immutable once appended.
type Turn struct {
	Role      Role
	Content   string
	Metadata  map[string]any
	Timestamp time.Time
}

// Context is the ordered turn log for one session.
// Each session owns exactly one Context; contexts are never shared
// between sessions. Safe for concurrent use.
type Context struct {
	mu    sync.RWMutex
	id    string
	turns []Turn
	now   func() time.Time
}

// New creates an empty context with a fresh session ID.
func New() *Context {
	return &Context{
		id:  uuid.NewString(),
		now: time.Now,
	}
}

// SessionID returns the stable identifier for this session.
func (c *Context) SessionID() string {
	return c.id
}

// Append adds a turn with the current timestamp.
// The metadata map is copied so callers cannot mutate history afterwards.
func (c *Context) Append(role Role, content string, metadata map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var meta map[string]any
	if len(metadata) > 0 {
		meta = make(map[string]any, len(metadata))
		for k, v := range metadata {
			meta[k] = v
		}
	}

	c.turns = append(c.turns, Turn{
		Role:      role,
		Content:   content,
		Metadata:  meta,
		Timestamp: c.now(),
	})
}

// Clear resets the log to empty. This is the only way history shrinks.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}

// Len returns the number of turns.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Turns returns a snapshot copy of the log in insertion order.
func (c *Context) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Last returns the most recent turn and true, or a zero turn and false
// when the log is empty.
func (c *Context) Last() (Turn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.turns) == 0 {
		return Turn{}, false
	}
	return c.turns[len(c.turns)-1], true
}

// Transcript renders the log as plain "role: content" lines for
// inclusion in model prompts.
func (c *Context) Transcript() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var b strings.Builder
	for _, t := range c.turns {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	return b.String()
}
