package router

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"majordomo/internal/conversation"
	"majordomo/internal/perception"
)

// DefaultToolID is the backstop identifier classification falls back to
// when neither keywords nor the model produce a match.
const DefaultToolID = "general_query_tool"

// KeywordRule maps a keyword to a tool identifier. Rules are scanned in
// slice order and the first match wins, so ordering is part of the
// routing contract, not an implementation detail.
type KeywordRule struct {
	Keyword string
	ToolID  string
}

// DefaultKeywordRules returns the built-in keyword table.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{"email", "email_tool"},
		{"pdf", "pdf_tool"},
		{"schedule", "calendar_tool"},
		{"meeting", "calendar_tool"},
		{"search", "search_tool"},
		{"pizza", "order_tool"},
		{"order", "order_tool"},
	}
}

// Selector maps free text to a tool identifier: keywords first (cheap),
// a model call as enrichment, the default identifier as backstop.
// Classify always terminates with a valid identifier and never fails.
type Selector struct {
	rules  []KeywordRule
	client perception.Client
	log    *zap.Logger
}

// NewSelector builds a selector. client may be nil, in which case the
// model stage is skipped and classification is keywords-or-default.
func NewSelector(rules []KeywordRule, client perception.Client, log *zap.Logger) *Selector {
	if len(rules) == 0 {
		rules = DefaultKeywordRules()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{rules: rules, client: client, log: log}
}

// MatchKeyword scans text against the keyword table, first rule wins.
func (s *Selector) MatchKeyword(text string) (string, bool) {
	folded := strings.ToLower(text)
	for _, rule := range s.rules {
		if strings.Contains(folded, rule.Keyword) {
			return rule.ToolID, true
		}
	}
	return "", false
}

const selectorSystemPrompt = `You are a personal AI assistant that can help with various tasks:
1. Writing and sending emails
2. Reading and analyzing PDF files
3. Scheduling meetings
4. Searching the internet
5. Ordering pizzas

Name the single capability that best fits the user's request.`

// Classify maps input to a tool identifier. A model failure is not an
// error here: classification degrades to the default identifier.
func (s *Selector) Classify(ctx context.Context, input string, convo *conversation.Context) string {
	if id, ok := s.MatchKeyword(input); ok {
		s.log.Debug("classified by keyword", zap.String("tool", id))
		return id
	}

	if s.client != nil {
		var prompt strings.Builder
		if convo != nil {
			if transcript := convo.Transcript(); transcript != "" {
				prompt.WriteString("Conversation so far:\n")
				prompt.WriteString(transcript)
				prompt.WriteString("\n")
			}
		}
		prompt.WriteString("Request: ")
		prompt.WriteString(input)

		response, err := s.client.CompleteWithSystem(ctx, selectorSystemPrompt, prompt.String())
		if err != nil {
			s.log.Warn("model classification failed, using default tool", zap.Error(err))
			return DefaultToolID
		}
		if id, ok := s.MatchKeyword(response); ok {
			s.log.Debug("classified by model", zap.String("tool", id))
			return id
		}
	}

	return DefaultToolID
}
