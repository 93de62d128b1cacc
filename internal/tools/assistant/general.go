package assistant

import (
	"context"
	"fmt"
	"strings"

	"majordomo/internal/perception"
	"majordomo/internal/tools"
)

const capabilitiesMessage = "I can help you with:\n" +
	"- Sending emails\n" +
	"- Answering questions about PDF documents\n" +
	"- Scheduling meetings\n" +
	"- Looking up webpages\n" +
	"- Ordering pizza\n" +
	"What would you like to do?"

const generalSystemPrompt = "You are a helpful personal assistant. " +
	"Answer the user's question directly and concisely."

// NewGeneralTool builds the fallback tool for requests no specialised
// tool covers. Without a model client it answers with the assistant's
// capabilities.
func NewGeneralTool(client perception.Client) *tools.Tool {
	return &tools.Tool{
		Name:        "general_query_tool",
		Description: "Answers general questions",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"input": {Type: "string", Description: "The user's request"},
			},
		},
		Execute: func(ctx context.Context, params map[string]any) (string, error) {
			input := stringParam(params, "input")
			if client == nil || strings.TrimSpace(input) == "" {
				return capabilitiesMessage, nil
			}
			answer, err := client.CompleteWithSystem(ctx, generalSystemPrompt, input)
			if err != nil {
				return "", fmt.Errorf("answering general query: %w", err)
			}
			return answer, nil
		},
	}
}
