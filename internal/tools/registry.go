package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry maps tool identifiers to tool instances.
// Registration happens once at startup; after that the registry is a
// read-mostly shared structure, safe for concurrent sessions.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	log   *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		tools: make(map[string]*Tool),
		log:   log,
	}
}

// Register adds a tool under its name.
// A duplicate name fails with ErrToolAlreadyRegistered and the first
// registration is kept; duplicates are a configuration bug, never a
// silent overwrite.
func (r *Registry) Register(tool *Tool) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Name)
	}
	r.tools[tool.Name] = tool

	r.log.Debug("registered tool",
		zap.String("tool", tool.Name),
		zap.String("data_category", tool.DataCategory))
	return nil
}

// MustRegister registers a tool and panics on error.
// Use for static registration at startup, where a failure is fatal.
func (r *Registry) MustRegister(tool *Tool) {
	if err := r.Register(tool); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", tool.Name, err))
	}
}

// Lookup returns the tool registered under name.
// A miss is ErrToolNotFound, never a nil success.
func (r *Registry) Lookup(name string) (*Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool, nil
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Names returns all registered identifiers, sorted.
// The order is stable for the registry's lifetime.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute looks up a tool and runs it with the given parameters.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (*Result, error) {
	tool, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return r.ExecuteTool(ctx, tool, params)
}

// ExecuteTool runs a specific tool, validating required parameters first.
func (r *Registry) ExecuteTool(ctx context.Context, tool *Tool, params map[string]any) (*Result, error) {
	start := time.Now()

	if err := validateParams(tool, params); err != nil {
		return &Result{
			ToolName:   tool.Name,
			Err:        err,
			DurationMs: time.Since(start).Milliseconds(),
		}, err
	}

	r.log.Debug("executing tool", zap.String("tool", tool.Name))
	output, err := tool.Execute(ctx, params)
	duration := time.Since(start)
	r.log.Debug("tool finished",
		zap.String("tool", tool.Name),
		zap.Duration("duration", duration),
		zap.Bool("success", err == nil))

	return &Result{
		ToolName:   tool.Name,
		Output:     output,
		Err:        err,
		DurationMs: duration.Milliseconds(),
	}, err
}

func validateParams(tool *Tool, params map[string]any) error {
	for _, required := range tool.Schema.Required {
		if _, ok := params[required]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingRequiredArg, required)
		}
	}
	return nil
}
