package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/polok-dev98/agentpro/pkg/ai"
)

// ConversationTurn is one prior exchange of the chat.
type ConversationTurn struct {
	Human string
	AI    string
}

// CondenseQuestion rewrites a follow-up question into a standalone one
// using the conversation so far. With no usable history the question is
// returned verbatim and no model call is made.
func CondenseQuestion(ctx context.Context, client ai.Client, question string, history []ConversationTurn) (string, error) {
	transcript := formatHistory(history)
	if transcript == "" {
		return question, nil
	}

	prompt := fmt.Sprintf(ai.CondensePrompt, transcript, question)
	rewritten, err := client.GenerateCompletion(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("condense question: %w", err)
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question, nil
	}
	return rewritten, nil
}

func formatHistory(history []ConversationTurn) string {
	var b strings.Builder
	for _, turn := range history {
		human := strings.TrimSpace(turn.Human)
		assistant := strings.TrimSpace(turn.AI)
		if human == "" && assistant == "" {
			continue
		}
		if human != "" {
			fmt.Fprintf(&b, "Human: %s\n", human)
		}
		if assistant != "" {
			fmt.Fprintf(&b, "Assistant: %s\n", assistant)
		}
	}
	return strings.TrimSpace(b.String())
}
