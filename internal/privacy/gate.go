package privacy

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ApprovalProvider answers yes/no approval questions for sensitive
// actions. Production wires a terminal prompt; tests wire a scripted
// responder.
type ApprovalProvider interface {
	// Approve blocks until the operator answers. Only an explicit
	// affirmative grants approval.
	Approve(action, category string) (bool, error)
}

// TerminalApprover asks on a line-based prompt/response channel.
// It blocks with no timeout: a sensitive action must never proceed
// without a human decision.
type TerminalApprover struct {
	In  io.Reader
	Out io.Writer
}

// Approve renders "Allow <action> for <category>? (yes/no):" and reads
// one line. "yes" and "y" (case-insensitive) approve; anything else,
// including EOF, refuses.
func (t *TerminalApprover) Approve(action, category string) (bool, error) {
	if _, err := fmt.Fprintf(t.Out, "Allow %s for %s? (yes/no): ", action, category); err != nil {
		return false, err
	}

	reader := bufio.NewReader(t.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "yes" || answer == "y", nil
}

// Gate is the process-wide privacy decision point.
// Reads are concurrent; Update is serialized behind the write lock so a
// reader never observes half-applied settings.
type Gate struct {
	mu       sync.RWMutex
	path     string
	settings Settings
	approver ApprovalProvider
	log      *zap.Logger
}

// NewGate loads settings from path (writing defaults on first run) and
// wires the approval provider.
func NewGate(path string, approver ApprovalProvider, log *zap.Logger) (*Gate, error) {
	if log == nil {
		log = zap.NewNop()
	}
	settings, err := loadSettings(path)
	if err != nil {
		return nil, err
	}
	return &Gate{
		path:     path,
		settings: settings,
		approver: approver,
		log:      log,
	}, nil
}

// Settings returns a copy of the current settings.
func (g *Gate) Settings() Settings {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.settings
}

// IsSensitive reports whether the data category is configured as
// sensitive. Pure read, no side effects.
func (g *Gate) IsSensitive(category string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.settings.sensitive(category)
}

// AskPermission asks the operator to approve an action on a category.
// When ask_permission_before_sharing is off the action auto-approves.
// Asking never mutates settings.
func (g *Gate) AskPermission(action, category string) (bool, error) {
	g.mu.RLock()
	ask := g.settings.AskPermissionBeforeSharing
	g.mu.RUnlock()

	if !ask {
		return true, nil
	}

	granted, err := g.approver.Approve(action, category)
	if err != nil {
		return false, fmt.Errorf("asking permission: %w", err)
	}
	g.log.Info("permission decision",
		zap.String("action", action),
		zap.String("category", category),
		zap.Bool("granted", granted))
	return granted, nil
}

// Update merges patch into the settings and persists synchronously.
// Either the merged settings are fully persisted or the call fails and
// the previous settings stay active.
func (g *Gate) Update(patch map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	merged := g.settings
	for key, value := range patch {
		if err := merged.apply(key, value); err != nil {
			return err
		}
	}

	if err := saveSettings(g.path, merged); err != nil {
		return err
	}
	g.settings = merged

	g.log.Info("privacy settings updated", zap.Int("keys", len(patch)))
	return nil
}

// RetentionDays returns the configured data retention window.
func (g *Gate) RetentionDays() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.settings.DataRetentionDays
}
