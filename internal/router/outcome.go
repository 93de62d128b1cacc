package router

// Kind tags a routing outcome. Exactly one outcome is produced per
// HandleRequest call, and callers branch on the tag rather than on
// string contents.
type Kind string

const (
	// KindClarification means the router is asking a follow-up question
	// instead of executing a tool.
	KindClarification Kind = "clarification"

	// KindResult means a tool ran (or a permission gate declined it).
	KindResult Kind = "result"

	// KindError means the model call or the tool's execute failed.
	KindError Kind = "error"
)

// Outcome is the tagged result of one routed request.
type Outcome struct {
	Kind Kind

	// Question is set for KindClarification.
	Question string

	// Data is the tool's result payload for KindResult.
	Data any

	// Declined marks a KindResult produced by a refused permission
	// gate: the tool never ran, but that is not a failure.
	Declined bool

	// Err is set for KindError, message preserved verbatim from the
	// failing tool or model call.
	Err error
}

// Clarification builds a question outcome.
func Clarification(question string) Outcome {
	return Outcome{Kind: KindClarification, Question: question}
}

// Result builds a successful tool outcome.
func Result(data any) Outcome {
	return Outcome{Kind: KindResult, Data: data}
}

// PermissionDeclined builds the declined-permission outcome: an empty
// result, distinct from an error.
func PermissionDeclined() Outcome {
	return Outcome{Kind: KindResult, Declined: true}
}

// Failure builds an error outcome.
func Failure(err error) Outcome {
	return Outcome{Kind: KindError, Err: err}
}

// Request is the transient envelope for one incoming request. It is
// constructed per call and not retained past the routing cycle.
type Request struct {
	Input      string
	Parameters map[string]any
}
