package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/polok-dev98/agentpro/pkg/ai"
)

// fakeClient scripts the model responses for pipeline tests. When complete
// is set it overrides the fixed completion/completionErr pair per call.
type fakeClient struct {
	completion    string
	completionErr error
	complete      func(prompt string) (string, error)
	format        func(out any) error
	prompts       []string
}

func (f *fakeClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.complete != nil {
		return f.complete(prompt)
	}
	return f.completion, f.completionErr
}

func (f *fakeClient) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error {
	f.prompts = append(f.prompts, prompt)
	if f.format != nil {
		return f.format(out)
	}
	return nil
}

func TestCondenseQuestionEmptyHistory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		history []ConversationTurn
	}{
		{name: "nil history", history: nil},
		{name: "empty history", history: []ConversationTurn{}},
		{name: "blank turns only", history: []ConversationTurn{{Human: "  ", AI: ""}, {Human: "", AI: "\t"}}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{completion: "SHOULD NOT BE USED"}
			got, err := CondenseQuestion(context.Background(), client, "What is the refund policy?", tc.history)
			if err != nil {
				t.Fatalf("CondenseQuestion: %v", err)
			}
			if got != "What is the refund policy?" {
				t.Fatalf("question rewritten without history: %q", got)
			}
			if len(client.prompts) != 0 {
				t.Fatalf("model called %d times with empty history", len(client.prompts))
			}
		})
	}
}

func TestCondenseQuestionWithHistory(t *testing.T) {
	t.Parallel()

	client := &fakeClient{completion: "What is Acme Corp's refund policy?"}
	history := []ConversationTurn{
		{Human: "Tell me about Acme Corp", AI: "Acme Corp is a retailer."},
	}

	got, err := CondenseQuestion(context.Background(), client, "what about refunds?", history)
	if err != nil {
		t.Fatalf("CondenseQuestion: %v", err)
	}
	if got != "What is Acme Corp's refund policy?" {
		t.Fatalf("condensed question = %q", got)
	}

	if len(client.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(client.prompts))
	}
	prompt := client.prompts[0]
	if !strings.Contains(prompt, "Human: Tell me about Acme Corp") {
		t.Fatalf("prompt missing human turn: %q", prompt)
	}
	if !strings.Contains(prompt, "Assistant: Acme Corp is a retailer.") {
		t.Fatalf("prompt missing assistant turn: %q", prompt)
	}
	if !strings.Contains(prompt, "what about refunds?") {
		t.Fatalf("prompt missing follow-up question: %q", prompt)
	}
}

func TestCondenseQuestionModelError(t *testing.T) {
	t.Parallel()

	client := &fakeClient{completionErr: errors.New("boom")}
	history := []ConversationTurn{{Human: "hi", AI: "hello"}}

	_, err := CondenseQuestion(context.Background(), client, "follow up", history)
	if err == nil {
		t.Fatal("expected error from failed rewrite")
	}
}

func TestCondenseQuestionBlankModelOutput(t *testing.T) {
	t.Parallel()

	client := &fakeClient{completion: "   "}
	history := []ConversationTurn{{Human: "hi", AI: "hello"}}

	got, err := CondenseQuestion(context.Background(), client, "follow up", history)
	if err != nil {
		t.Fatalf("CondenseQuestion: %v", err)
	}
	if got != "follow up" {
		t.Fatalf("blank rewrite should fall back to the original question, got %q", got)
	}
}
