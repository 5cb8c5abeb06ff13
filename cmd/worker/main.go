package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/polok-dev98/agentpro/internal/queue"
	"github.com/polok-dev98/agentpro/internal/storage"
	"github.com/polok-dev98/agentpro/internal/util"
	"github.com/polok-dev98/agentpro/pkg/ai"
	"github.com/polok-dev98/agentpro/pkg/ai/ollama"
	"github.com/polok-dev98/agentpro/pkg/ai/openai"
	"github.com/polok-dev98/agentpro/pkg/chunk"
	"github.com/polok-dev98/agentpro/pkg/graph"
	"github.com/polok-dev98/agentpro/pkg/logger"
	"github.com/polok-dev98/agentpro/pkg/store/neo4j"
	storepgx "github.com/polok-dev98/agentpro/pkg/store/pgx"
)

func main() {
	util.LoadEnv()

	logger.Init(logger.Options{
		Debug:  util.GetEnvBool("DEBUG", false),
		Prefix: "worker",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s3Client, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("failed to create s3 client", "err", err)
	}

	pgCfg, err := pgxpool.ParseConfig(util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("invalid database configuration", "err", err)
	}
	pgCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	pgConn, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		logger.Fatal("failed to connect to database", "err", err)
	}
	defer pgConn.Close()

	graphStore, err := neo4j.NewStore(ctx, neo4j.NewStoreParams{
		URI:      util.GetEnv("NEO4J_URI"),
		Username: util.GetEnv("NEO4J_USERNAME"),
		Password: util.GetEnv("NEO4J_PASSWORD"),
		Database: util.GetEnvString("NEO4J_DATABASE", "neo4j"),
	})
	if err != nil {
		logger.Fatal("failed to connect to neo4j", "err", err)
	}
	defer graphStore.Close(ctx)
	// Index creation can race a still-starting Neo4j container.
	if err := util.RetryErr(3, func() error { return graphStore.EnsureIndexes(ctx) }); err != nil {
		logger.Fatal("failed to ensure graph indexes", "err", err)
	}

	embedder, err := ollama.NewClient(ollama.NewClientParams{
		BaseURL:        util.GetEnvString("OLLAMA_URL", "http://localhost:11434"),
		EmbeddingModel: util.GetEnvString("AI_EMBED_MODEL", "mxbai-embed-large"),
		Dimensions:     util.GetEnvInt("AI_EMBED_DIMENSIONS", 1024),
	})
	if err != nil {
		logger.Fatal("failed to create embedding client", "err", err)
	}

	vectorStore := storepgx.NewVectorStorage(storepgx.NewVectorStorageParams{
		Conn:     pgConn,
		Embedder: embedder,
	})

	pool, err := ai.NewCredentialPool(strings.Split(util.GetEnv("AI_CHAT_KEYS"), ","))
	if err != nil {
		logger.Fatal("no usable API credentials configured", "err", err)
	}
	logger.Info("loaded API credentials", "count", pool.Size())

	chatModel := util.GetEnvString("AI_CHAT_MODEL", "llama-3.1-8b-instant")
	chatURL := util.GetEnvString("AI_CHAT_URL", "https://api.groq.com/openai/v1")

	splitter, err := chunk.NewSplitter(chunk.NewSplitterParams{
		Size:    util.GetEnvInt("CHUNK_SIZE", 512),
		Overlap: util.GetEnvInt("CHUNK_OVERLAP", 50),
	})
	if err != nil {
		logger.Fatal("invalid chunking configuration", "err", err)
	}

	builder, err := graph.NewBuilder(graph.NewBuilderParams{
		Pool: pool,
		Limiter: graph.NewLimiter(graph.NewLimiterParams{
			RequestsPerMinute: util.GetEnvFloat("AI_REQUESTS_PER_MINUTE", 12),
		}),
		Extractor:   graph.NewExtractor(graph.NewExtractorParams{Model: chatModel}),
		GraphStore:  graphStore,
		VectorStore: vectorStore,
		NewClient: func(apiKey string) ai.Client {
			return openai.NewClient(openai.NewClientParams{
				ChatModel: chatModel,
				BaseURL:   chatURL,
				APIKey:    apiKey,
			})
		},
		Throttled: openai.IsThrottled,
		ClearCode: util.GetEnv("CLEAR_CODE"),
	})
	if err != nil {
		logger.Fatal("failed to create graph builder", "err", err)
	}

	// Re-derives the vector index from the graph's chunks, for when the two
	// stores have drifted apart.
	if util.GetEnvBool("REBUILD_VECTORS_ON_START", false) {
		logger.Info("rebuilding vector index from graph chunks")
		if err := builder.RebuildVectors(ctx); err != nil {
			logger.Fatal("failed to rebuild vector index", "err", err)
		}
	}

	conn, err := queue.Init()
	if err != nil {
		logger.Fatal("failed to connect to rabbitmq", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("failed to set up queues", "err", err)
	}

	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	// One document at a time; graph extraction is the bottleneck and
	// parallel jobs would fight over the same credentials.
	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(queue.IngestQueue, "ingest_consumer", false, false, false, false, nil)
	if err != nil {
		logger.Fatal("failed to start consuming", "queue", queue.IngestQueue, "err", err)
	}

	logger.Info("listening for messages", "queue", queue.IngestQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("stopping message processor")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("message channel closed")
					return
				}

				start := time.Now()
				logger.Info("received message", "queue", queue.IngestQueue)

				err := queue.ProcessIngestMessage(ctx, s3Client, splitter, builder, msg.Body)
				if err != nil {
					logger.Error("error processing message", "err", err)
					queue.HandleProcessingError(consumerCh, msg, queue.IngestQueue)
				} else {
					if err := msg.Ack(false); err != nil {
						logger.Error("failed to ack message", "err", err)
					}
					logger.Info("message processed successfully", "duration", time.Since(start).Round(time.Second))
				}
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, exiting")
}
