package router

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"majordomo/internal/perception"
)

const clarifySystemPrompt = `You are a personal AI assistant. The user's request is ambiguous or
missing required details. Ask one short, specific clarifying question
that would let you proceed. Reply with the question only.`

// generateQuestion produces a clarifying question for input, using the
// model when available and a deterministic template otherwise. It never
// fails: a model error degrades to the template.
func (r *Router) generateQuestion(ctx context.Context, input string, missing []perception.DetailKind) string {
	if r.client != nil {
		var prompt strings.Builder
		if transcript := r.session.Transcript(); transcript != "" {
			prompt.WriteString("Conversation so far:\n")
			prompt.WriteString(transcript)
			prompt.WriteString("\n")
		}
		fmt.Fprintf(&prompt, "Request: %s\n", input)
		if len(missing) > 0 {
			fmt.Fprintf(&prompt, "Missing details: %s\n", joinKinds(missing))
		}

		question, err := r.client.CompleteWithSystem(ctx, clarifySystemPrompt, prompt.String())
		if err == nil {
			if q := strings.TrimSpace(question); q != "" {
				return q
			}
		} else {
			r.log.Warn("clarifying-question generation failed, using template", zap.Error(err))
		}
	}

	return fallbackQuestion(missing)
}

// fallbackQuestion is the canned clarifying question used when no model
// is available or the model call fails.
func fallbackQuestion(missing []perception.DetailKind) string {
	if len(missing) == 0 {
		return "Could you tell me more about what you'd like me to do?"
	}
	return fmt.Sprintf("To proceed I still need: %s. Could you provide %s?",
		joinKinds(missing), pluralThem(missing))
}

func joinKinds(kinds []perception.DetailKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func pluralThem(kinds []perception.DetailKind) string {
	if len(kinds) == 1 {
		return "it"
	}
	return "them"
}
