package tools

import "errors"

// Registry errors.
var (
	// ErrToolNotFound is returned by Lookup for an unregistered identifier.
	// The router only passes identifiers it produced itself (plus the
	// configured default), so hitting this means a wiring bug, not bad
	// user input.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolAlreadyRegistered is returned when registering a duplicate
	// identifier. The first registration is retained.
	ErrToolAlreadyRegistered = errors.New("tool already registered")

	// ErrToolNameEmpty is returned when a tool has no name.
	ErrToolNameEmpty = errors.New("tool name cannot be empty")

	// ErrToolExecuteNil is returned when a tool has no execute function.
	ErrToolExecuteNil = errors.New("tool execute function cannot be nil")

	// ErrMissingRequiredArg is returned when a required parameter is absent.
	ErrMissingRequiredArg = errors.New("missing required argument")
)
