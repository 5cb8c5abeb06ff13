package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/polok-dev98/agentpro/pkg/chunk"
)

// fakeVectorStore serves scripted similarity matches.
type fakeVectorStore struct {
	matches   []string
	searchErr error
	queries   []string
	ks        []int
}

func (f *fakeVectorStore) Upsert(ctx context.Context, chunks []chunk.Chunk) error {
	return nil
}

func (f *fakeVectorStore) Rebuild(ctx context.Context, chunks []chunk.Chunk) error {
	return nil
}

func (f *fakeVectorStore) SimilaritySearch(ctx context.Context, query string, k int) ([]string, error) {
	f.queries = append(f.queries, query)
	f.ks = append(f.ks, k)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches, nil
}

func TestAnswerComplete(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		completion: "Acme Corp offers full refunds within 30 days.",
		format: func(out any) error {
			r := out.(*entityResponse)
			r.Names = []string{"Acme Corp"}
			return nil
		},
	}

	engine := NewEngine(NewEngineParams{
		Client:  client,
		Graph:   &fakeGraphStore{},
		Vectors: &fakeVectorStore{matches: []string{"refund policy text"}},
	})

	answer, err := engine.Answer(context.Background(), "What is the refund policy?", nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer.Status != StatusComplete {
		t.Fatalf("status = %q, want %q (reasons: %v)", answer.Status, StatusComplete, answer.Reasons)
	}
	if answer.Text != "Acme Corp offers full refunds within 30 days." {
		t.Fatalf("answer text = %q", answer.Text)
	}
	if answer.Question != "What is the refund policy?" {
		t.Fatalf("condensed question = %q", answer.Question)
	}
}

func TestAnswerPartialOnVectorFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		completion: "Based on the graph, Acme Corp partners with Globex.",
		format: func(out any) error {
			r := out.(*entityResponse)
			r.Names = []string{"Acme Corp"}
			return nil
		},
	}

	engine := NewEngine(NewEngineParams{
		Client:  client,
		Graph:   &fakeGraphStore{},
		Vectors: &fakeVectorStore{searchErr: errors.New("pg down")},
	})

	answer, err := engine.Answer(context.Background(), "Who does Acme Corp partner with?", nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer.Status != StatusPartial {
		t.Fatalf("status = %q, want %q", answer.Status, StatusPartial)
	}
	if len(answer.Reasons) != 1 || answer.Reasons[0] != ReasonVectorRetrieval {
		t.Fatalf("reasons = %v, want [%s]", answer.Reasons, ReasonVectorRetrieval)
	}
	if answer.Text == "" {
		t.Fatal("partial result must still carry an answer")
	}
}

func TestAnswerPartialOnRewriteFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	client := &fakeClient{
		complete: func(prompt string) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("rewrite model down")
			}
			return "Acme Corp ships within two days.", nil
		},
		format: func(out any) error {
			r := out.(*entityResponse)
			r.Names = []string{"Acme Corp"}
			return nil
		},
	}

	engine := NewEngine(NewEngineParams{
		Client:  client,
		Graph:   &fakeGraphStore{},
		Vectors: &fakeVectorStore{matches: []string{"shipping policy text"}},
	})

	history := []ConversationTurn{{Human: "Tell me about Acme Corp", AI: "Acme Corp is a retailer."}}
	answer, err := engine.Answer(context.Background(), "how fast do they ship?", history)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer.Status != StatusPartial {
		t.Fatalf("status = %q, want %q", answer.Status, StatusPartial)
	}
	if len(answer.Reasons) != 1 || answer.Reasons[0] != ReasonQuestionRewrite {
		t.Fatalf("reasons = %v, want [%s]", answer.Reasons, ReasonQuestionRewrite)
	}
	// The pipeline keeps running on the original question.
	if answer.Question != "how fast do they ship?" {
		t.Fatalf("question = %q, want the original follow-up", answer.Question)
	}
	if answer.Text == "" {
		t.Fatal("partial result must still carry an answer")
	}
}

func TestAnswerPartialOnEntityExtractionFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		completion: "Here is what the documents say.",
		format: func(out any) error {
			return errors.New("model returned garbage")
		},
	}
	graph := &fakeGraphStore{}

	engine := NewEngine(NewEngineParams{
		Client:  client,
		Graph:   graph,
		Vectors: &fakeVectorStore{matches: []string{"some chunk"}},
	})

	answer, err := engine.Answer(context.Background(), "Tell me about Initech", nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer.Status != StatusPartial {
		t.Fatalf("status = %q, want %q", answer.Status, StatusPartial)
	}
	if len(answer.Reasons) != 1 || answer.Reasons[0] != ReasonEntityExtraction {
		t.Fatalf("reasons = %v, want [%s]", answer.Reasons, ReasonEntityExtraction)
	}
	// No entities means the graph must not be queried at all.
	if len(graph.queries) != 0 {
		t.Fatalf("graph queried despite failed entity extraction: %v", graph.queries)
	}
}

func TestAnswerFailedOnSynthesisError(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		completionErr: errors.New("provider down"),
		format: func(out any) error {
			r := out.(*entityResponse)
			r.Names = nil
			return nil
		},
	}

	engine := NewEngine(NewEngineParams{
		Client:  client,
		Graph:   &fakeGraphStore{},
		Vectors: &fakeVectorStore{matches: []string{"chunk"}},
	})

	answer, err := engine.Answer(context.Background(), "Anything?", nil)
	if err == nil {
		t.Fatal("expected error when synthesis fails")
	}
	if answer.Status != StatusFailed {
		t.Fatalf("status = %q, want %q", answer.Status, StatusFailed)
	}
	if answer.Text != "" {
		t.Fatalf("failed answer must carry no text, got %q", answer.Text)
	}
}

func TestAnswerPromptContainsContext(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		completion: "answer",
		format: func(out any) error {
			r := out.(*entityResponse)
			r.Names = nil
			return nil
		},
	}

	engine := NewEngine(NewEngineParams{
		Client:  client,
		Graph:   &fakeGraphStore{},
		Vectors: &fakeVectorStore{matches: []string{"chunk A", "chunk B"}},
	})

	if _, err := engine.Answer(context.Background(), "question", nil); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	var final string
	for _, p := range client.prompts {
		if strings.Contains(p, "Structured data:") {
			final = p
		}
	}
	if final == "" {
		t.Fatalf("no synthesis prompt captured: %v", client.prompts)
	}
	if !strings.Contains(final, "chunk A#Document chunk B") {
		t.Fatalf("prompt missing joined chunks: %q", final)
	}
	if !strings.Contains(final, "Question: question") {
		t.Fatalf("prompt missing question: %q", final)
	}
}
