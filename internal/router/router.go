// Package router turns one user request into exactly one outcome: a
// clarifying question, a tool result, or an error. It is the only
// component with real control flow; the registry, gate, detector, and
// selector it orchestrates are all straight-line code.
package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"majordomo/internal/conversation"
	"majordomo/internal/perception"
	"majordomo/internal/privacy"
	"majordomo/internal/tools"
)

// Options bound and tune the routing state machine.
type Options struct {
	// MaxClarificationTurns caps how many clarifying questions the
	// router asks per session before it force-routes to the default
	// tool. Zero means the default of 3.
	MaxClarificationTurns int

	// DefaultTool is the identifier executed when classification finds
	// nothing better and when the clarification budget runs out.
	// Empty means DefaultToolID.
	DefaultTool string

	// RequiredDetails maps a tool identifier to the detail kinds a
	// request for that tool must already contain. Tools absent from
	// the map require nothing. Replaces the original universal
	// "every kind required for every request" policy.
	RequiredDetails map[string][]perception.DetailKind
}

// DefaultRequiredDetails returns the built-in per-tool detail policy:
// an email needs an address, a meeting needs a date and a time, and
// everything else can proceed on free text alone.
func DefaultRequiredDetails() map[string][]perception.DetailKind {
	return map[string][]perception.DetailKind{
		"email_tool":    {perception.DetailEmail},
		"calendar_tool": {perception.DetailDate, perception.DetailTime},
	}
}

// Router routes requests for one session. The registry and gate it
// holds are process-wide and shared; the session context and the
// clarification counter are owned by this router alone, so independent
// sessions get independent routers.
type Router struct {
	registry *tools.Registry
	gate     *privacy.Gate
	detector *perception.Detector
	selector *Selector
	client   perception.Client
	session  *conversation.Context
	log      *zap.Logger

	maxClarifications int
	defaultTool       string
	requiredDetails   map[string][]perception.DetailKind

	clarifications int
}

// New builds a router for one session.
func New(registry *tools.Registry, gate *privacy.Gate, detector *perception.Detector,
	selector *Selector, client perception.Client, session *conversation.Context,
	opts Options, log *zap.Logger) *Router {

	if log == nil {
		log = zap.NewNop()
	}
	max := opts.MaxClarificationTurns
	if max <= 0 {
		max = 3
	}
	defaultTool := opts.DefaultTool
	if defaultTool == "" {
		defaultTool = DefaultToolID
	}
	required := opts.RequiredDetails
	if required == nil {
		required = DefaultRequiredDetails()
	}

	return &Router{
		registry:          registry,
		gate:              gate,
		detector:          detector,
		selector:          selector,
		client:            client,
		session:           session,
		log:               log,
		maxClarifications: max,
		defaultTool:       defaultTool,
		requiredDetails:   required,
	}
}

// Session returns the conversation context this router owns.
func (r *Router) Session() *conversation.Context {
	return r.session
}

// HandleRequest runs one request through the state machine:
//
//	Start -> CheckUncertainty -> CheckDetails -> SelectTool -> Execute
//
// with a Clarify branch out of the two check states. It always returns
// exactly one outcome and never hangs: a request that would clarify
// past the budget force-routes to the default tool instead, while
// complete requests keep routing normally however many clarification
// rounds the session has already spent.
func (r *Router) HandleRequest(ctx context.Context, req Request) Outcome {
	// Start: the raw input always lands in the log first.
	r.session.Append(conversation.RoleUser, req.Input, nil)

	// CheckUncertainty.
	if r.detector.IsUncertain(req.Input) {
		return r.clarify(ctx, req, nil)
	}

	// CheckDetails: a keyword pre-scan picks the candidate tool whose
	// required-detail policy applies; no keyword match means no
	// requirements, and the model path decides the tool instead.
	if missing := r.missingDetails(req.Input); len(missing) > 0 {
		return r.clarify(ctx, req, missing)
	}

	// SelectTool.
	toolID := r.selector.Classify(ctx, req.Input, r.session)

	// Execute.
	return r.execute(ctx, toolID, req)
}

// missingDetails returns the required detail kinds absent from input.
func (r *Router) missingDetails(input string) []perception.DetailKind {
	toolID, ok := r.selector.MatchKeyword(input)
	if !ok {
		return nil
	}
	var missing []perception.DetailKind
	for _, kind := range r.requiredDetails[toolID] {
		if !r.detector.Detail(input, kind).Found {
			missing = append(missing, kind)
		}
	}
	return missing
}

// clarify generates a question, logs it as a clarification turn, and
// counts the round against the budget. Once the budget is spent the
// request executes the default tool with whatever it has, so the
// session can never loop on questions forever.
func (r *Router) clarify(ctx context.Context, req Request, missing []perception.DetailKind) Outcome {
	if r.clarifications >= r.maxClarifications {
		r.log.Info("clarification budget exhausted, forcing default tool",
			zap.String("tool", r.defaultTool),
			zap.Int("rounds", r.clarifications))
		return r.execute(ctx, r.defaultTool, req)
	}

	question := r.generateQuestion(ctx, req.Input, missing)

	r.session.Append(conversation.RoleAgent, question, map[string]any{
		"type": "clarification",
	})
	r.clarifications++

	r.log.Debug("asking clarifying question",
		zap.Int("round", r.clarifications),
		zap.Int("budget", r.maxClarifications))
	return Clarification(question)
}

// execute is the single boundary where tool and permission failures are
// converted into outcomes. Nothing below it is retried here; retry
// policy belongs to the tool's own transport.
func (r *Router) execute(ctx context.Context, toolID string, req Request) Outcome {
	tool, err := r.registry.Lookup(toolID)
	if err != nil {
		// Only router-produced identifiers reach Lookup, so a miss is
		// a wiring bug surfaced loudly rather than handled softly.
		r.session.Append(conversation.RoleError, err.Error(), map[string]any{
			"tool_id": toolID,
		})
		return Failure(err)
	}

	if tool.DataCategory != "" && r.gate.IsSensitive(tool.DataCategory) {
		granted, err := r.gate.AskPermission("run "+tool.Name, tool.DataCategory)
		if err != nil {
			return Failure(fmt.Errorf("permission check failed: %w", err))
		}
		if !granted {
			r.session.Append(conversation.RoleAgent,
				fmt.Sprintf("Permission declined for %s; nothing was executed.", tool.Name),
				map[string]any{"type": "permission_denied", "tool_id": toolID})
			r.log.Info("permission declined", zap.String("tool", toolID))
			return PermissionDeclined()
		}
	}

	params := req.Parameters
	if params == nil {
		params = map[string]any{}
	}
	if _, ok := params["input"]; !ok {
		params["input"] = req.Input
	}

	result, err := r.registry.ExecuteTool(ctx, tool, params)
	meta := map[string]any{
		"tool_id":    toolID,
		"parameters": params,
	}
	if err != nil {
		r.session.Append(conversation.RoleError, err.Error(), meta)
		r.log.Warn("tool execution failed", zap.String("tool", toolID), zap.Error(err))
		return Failure(err)
	}

	r.session.Append(conversation.RoleTool, result.Output, meta)
	return Result(result.Output)
}
