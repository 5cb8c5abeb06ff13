package query

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/polok-dev98/agentpro/pkg/ai"
	"github.com/polok-dev98/agentpro/pkg/logger"
	"github.com/polok-dev98/agentpro/pkg/store"
)

// Engine answers questions over the knowledge graph and vector index.
type Engine struct {
	client  ai.Client
	graph   store.GraphStore
	vectors store.VectorStore
	topK    int
}

// NewEngineParams configures an Engine.
type NewEngineParams struct {
	Client  ai.Client
	Graph   store.GraphStore
	Vectors store.VectorStore
	// TopK is how many chunks vector retrieval contributes; defaults to 4.
	TopK int
}

// NewEngine creates an Engine.
func NewEngine(params NewEngineParams) *Engine {
	return &Engine{
		client:  params.Client,
		graph:   params.Graph,
		vectors: params.Vectors,
		topK:    params.TopK,
	}
}

// Answer runs the full pipeline for one question. Retrieval failures do
// not abort the run: the answer is synthesized from whatever context was
// gathered and the result's Status and Reasons record what is missing. An
// error is returned only when no answer could be produced at all.
func (e *Engine) Answer(ctx context.Context, question string, history []ConversationTurn) (Answer, error) {
	var reasons []Reason

	condensed, err := CondenseQuestion(ctx, e.client, question, history)
	if err != nil {
		// A failed rewrite still leaves the original question usable.
		logger.Warn("question condensing failed, using original question", "error", err)
		reasons = append(reasons, ReasonQuestionRewrite)
		condensed = question
	}

	entities, err := ExtractEntities(ctx, e.client, condensed)
	if err != nil {
		logger.Warn("entity extraction failed, skipping graph retrieval", "error", err)
		reasons = append(reasons, ReasonEntityExtraction)
		entities = nil
	}

	var (
		structured   string
		unstructured []string
		graphErr     error
		vectorErr    error
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if len(entities) == 0 {
			return nil
		}
		structured, graphErr = StructuredRetrieval(groupCtx, e.graph, entities)
		return nil
	})
	group.Go(func() error {
		unstructured, vectorErr = VectorRetrieval(groupCtx, e.vectors, condensed, e.topK)
		return nil
	})
	if err := group.Wait(); err != nil {
		return Answer{Question: condensed, Status: StatusFailed, Reasons: reasons}, err
	}

	if graphErr != nil {
		reasons = append(reasons, ReasonGraphRetrieval)
	}
	if vectorErr != nil {
		logger.Warn("vector retrieval failed", "error", vectorErr)
		reasons = append(reasons, ReasonVectorRetrieval)
	}

	prompt := fmt.Sprintf(ai.AnswerPrompt, AssembleContext(structured, unstructured), condensed)
	text, err := e.client.GenerateCompletion(ctx, prompt)
	if err != nil {
		return Answer{Question: condensed, Status: StatusFailed, Reasons: reasons},
			fmt.Errorf("answer synthesis: %w", err)
	}

	status := StatusComplete
	if len(reasons) > 0 {
		status = StatusPartial
	}

	return Answer{
		Text:     strings.TrimSpace(text),
		Question: condensed,
		Status:   status,
		Reasons:  reasons,
	}, nil
}
