// Package tools defines the tool contract and the registry the request
// router executes against. A tool is a string-keyed capability with an
// execute function; everything the assistant can actually do (send mail,
// schedule meetings, fetch pages, order pizza) lives behind this contract.
package tools

import "context"

// Property describes a single parameter for documentation and validation.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Schema declares a tool's expected parameters.
type Schema struct {
	// Required lists parameters that must be present in the envelope.
	Required []string `json:"required"`

	// Properties describes each parameter.
	Properties map[string]Property `json:"properties"`
}

// ExecuteFunc runs a tool against the request parameters.
// The returned string is the tool's user-facing result payload.
type ExecuteFunc func(ctx context.Context, params map[string]any) (string, error)

// Tool is one registered capability.
type Tool struct {
	// Name is the unique registry identifier, e.g. "calendar_tool".
	Name string

	// Description explains what the tool does.
	Description string

	// DataCategory names the class of data the tool touches ("emails",
	// "calendar", "documents", "payment"). Empty means not privacy-gated.
	DataCategory string

	// Schema declares expected parameters.
	Schema Schema

	// Execute runs the tool.
	Execute ExecuteFunc
}

// Validate checks the tool definition.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}

// Result wraps one tool execution with timing metadata.
type Result struct {
	ToolName   string
	Output     string
	Err        error
	DurationMs int64
}

// IsSuccess reports whether the execution completed without error.
func (r *Result) IsSuccess() bool {
	return r.Err == nil
}
