package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/polok-dev98/agentpro/pkg/ai"
	"github.com/polok-dev98/agentpro/pkg/chunk"
	"github.com/polok-dev98/agentpro/pkg/common"
	"github.com/polok-dev98/agentpro/pkg/logger"
	"github.com/polok-dev98/agentpro/pkg/store"
)

// ErrAllChunksFailed signals that ingestion produced no graph data at all.
var ErrAllChunksFailed = errors.New("graph: extraction failed for every chunk")

// ClientFactory creates a provider client bound to one API key. The builder
// calls it once per chunk with the credential picked by rotation.
type ClientFactory func(apiKey string) ai.Client

// Builder runs the ingestion pipeline: for each chunk it rotates to the
// next credential, waits out that credential's rate limit, extracts
// entities and relations, and persists graph and vector data. A chunk
// whose extraction fails is logged and skipped; ingestion as a whole
// fails only when no chunk succeeds.
type Builder struct {
	pool        *ai.CredentialPool
	limiter     *Limiter
	extractor   *Extractor
	graphStore  store.GraphStore
	vectorStore store.VectorStore
	newClient   ClientFactory
	throttled   func(error) bool
	retries     int
	clearCode   string
}

// NewBuilderParams configures a Builder.
type NewBuilderParams struct {
	Pool        *ai.CredentialPool
	Limiter     *Limiter
	Extractor   *Extractor
	GraphStore  store.GraphStore
	VectorStore store.VectorStore
	NewClient   ClientFactory
	// Throttled reports whether an extraction error was a provider
	// rate-limit rejection; optional.
	Throttled func(error) bool
	// Retries is the number of extraction attempts per chunk; defaults to 3.
	Retries int
	// ClearCode must be quoted verbatim for Clear to wipe the stores.
	ClearCode string
}

// NewBuilder creates a Builder. The credential pool is required: ingestion
// without credentials is rejected up front, not discovered mid-run.
func NewBuilder(params NewBuilderParams) (*Builder, error) {
	if params.Pool == nil || params.Pool.Size() == 0 {
		return nil, ai.ErrNoCredentials
	}
	if params.NewClient == nil {
		return nil, errors.New("graph: client factory is required")
	}

	limiter := params.Limiter
	if limiter == nil {
		limiter = NewLimiter(NewLimiterParams{})
	}
	extractor := params.Extractor
	if extractor == nil {
		extractor = NewExtractor(NewExtractorParams{})
	}
	throttled := params.Throttled
	if throttled == nil {
		throttled = func(error) bool { return false }
	}
	retries := params.Retries
	if retries <= 0 {
		retries = 3
	}

	return &Builder{
		pool:        params.Pool,
		limiter:     limiter,
		extractor:   extractor,
		graphStore:  params.GraphStore,
		vectorStore: params.VectorStore,
		newClient:   params.NewClient,
		throttled:   throttled,
		retries:     retries,
		clearCode:   params.ClearCode,
	}, nil
}

// RunReport summarizes one ingestion run.
type RunReport struct {
	Chunks    int
	Succeeded int
	Failed    int
	// FailedChunks holds the ids of chunks whose extraction never
	// succeeded. Their text is still absent from graph and vector index.
	FailedChunks []string
}

// Run ingests the chunks in order. Chunk i uses credential i modulo the
// pool size, so load spreads evenly across keys regardless of chunk count.
func (b *Builder) Run(ctx context.Context, chunks []chunk.Chunk) (RunReport, error) {
	report := RunReport{Chunks: len(chunks)}

	for i, c := range chunks {
		key := b.pool.At(i)

		doc, err := b.extractChunk(ctx, key, c)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			logger.Warn("skipping chunk after failed extraction", "chunk", c.ID, "error", err)
			report.Failed++
			report.FailedChunks = append(report.FailedChunks, c.ID)
			continue
		}

		if err := b.persist(ctx, doc, c); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			logger.Warn("skipping chunk after failed persist", "chunk", c.ID, "error", err)
			report.Failed++
			report.FailedChunks = append(report.FailedChunks, c.ID)
			continue
		}

		report.Succeeded++
		logger.Debug("ingested chunk", "chunk", c.ID, "entities", len(doc.Entities), "relations", len(doc.Relations))
	}

	if report.Succeeded == 0 && report.Chunks > 0 {
		return report, ErrAllChunksFailed
	}
	return report, nil
}

func (b *Builder) extractChunk(ctx context.Context, key string, c chunk.Chunk) (common.GraphDocument, error) {
	client := b.newClient(key)

	var lastErr error
	for attempt := 0; attempt < b.retries; attempt++ {
		if err := b.limiter.Wait(ctx, key); err != nil {
			return common.GraphDocument{}, err
		}

		doc, err := b.extractor.Extract(ctx, client, c)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if b.throttled(err) {
			logger.Warn("credential throttled, backing off", "chunk", c.ID, "error", err)
			b.limiter.Backoff(key)
		}
		if ctx.Err() != nil {
			return common.GraphDocument{}, ctx.Err()
		}
	}

	return common.GraphDocument{}, fmt.Errorf("extract chunk %s: %w", c.ID, lastErr)
}

func (b *Builder) persist(ctx context.Context, doc common.GraphDocument, c chunk.Chunk) error {
	if err := b.graphStore.AddDocuments(ctx, []common.GraphDocument{doc}); err != nil {
		return fmt.Errorf("graph write: %w", err)
	}
	if err := b.vectorStore.Upsert(ctx, []chunk.Chunk{c}); err != nil {
		return fmt.Errorf("vector write: %w", err)
	}
	return nil
}

// ClearResult reports the outcome of a Clear request.
type ClearResult struct {
	Cleared bool
	Reason  string
}

// Clear wipes graph and vector stores when code matches the configured
// confirmation code. A mismatch is not an error: the stores are left
// untouched and the result says why.
func (b *Builder) Clear(ctx context.Context, code string) (ClearResult, error) {
	if b.clearCode == "" || code != b.clearCode {
		logger.Warn("clear request rejected", "reason", "confirmation code mismatch")
		return ClearResult{Cleared: false, Reason: "confirmation code mismatch"}, nil
	}

	if err := b.graphStore.DeleteAll(ctx); err != nil {
		return ClearResult{}, fmt.Errorf("clear graph: %w", err)
	}
	if err := b.vectorStore.Rebuild(ctx, nil); err != nil {
		return ClearResult{}, fmt.Errorf("clear vectors: %w", err)
	}

	logger.Info("cleared graph and vector stores")
	return ClearResult{Cleared: true}, nil
}

// RebuildVectors re-derives the vector index from the chunks currently in
// the graph, dropping rows for chunks that no longer exist.
func (b *Builder) RebuildVectors(ctx context.Context) error {
	chunks, err := b.graphStore.ListChunks(ctx)
	if err != nil {
		return fmt.Errorf("rebuild vectors: list chunks: %w", err)
	}
	return b.vectorStore.Rebuild(ctx, chunks)
}
