// Package server hosts the HTTP API: auth, chat, and document ingestion.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/polok-dev98/agentpro/internal/queue"
	mid "github.com/polok-dev98/agentpro/internal/server/middleware"
	"github.com/polok-dev98/agentpro/internal/storage"
	"github.com/polok-dev98/agentpro/internal/util"
	"github.com/polok-dev98/agentpro/pkg/ai/ollama"
	"github.com/polok-dev98/agentpro/pkg/ai/openai"
	"github.com/polok-dev98/agentpro/pkg/logger"
	"github.com/polok-dev98/agentpro/pkg/query"
	"github.com/polok-dev98/agentpro/pkg/store/neo4j"
	storepgx "github.com/polok-dev98/agentpro/pkg/store/pgx"
)

// Init builds every dependency from the environment, runs database
// migrations, and serves until interrupted.
func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	runMigrations(databaseURL)

	pgCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		logger.Fatal("invalid database configuration", "err", err)
	}
	pgCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	conn, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		logger.Fatal("failed to connect to database", "err", err)
	}
	defer conn.Close()

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
		Conn:     conn,
		Embedder: embedder,
	})

	chatClient := openai.NewClient(openai.NewClientParams{
		ChatModel: util.GetEnvString("AI_CHAT_MODEL", "llama-3.1-8b-instant"),
		BaseURL:   util.GetEnvString("AI_CHAT_URL", "https://api.groq.com/openai/v1"),
		APIKey:    util.GetEnv("AI_CHAT_KEY"),
	})

	engine := query.NewEngine(query.NewEngineParams{
		Client:  chatClient,
		Graph:   graphStore,
		Vectors: vectorStore,
		TopK:    util.GetEnvInt("QUERY_TOP_K", 4),
	})

	que, err := queue.Init()
	if err != nil {
		logger.Fatal("failed to connect to rabbitmq", "err", err)
	}
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("failed to set up queues", "err", err)
	}

	s3, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("failed to create s3 client", "err", err)
	}

	jwtSecret := util.GetEnv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	app := &mid.App{
		DBConn:    conn,
		Queue:     ch,
		S3:        s3,
		Engine:    engine,
		JWTSecret: []byte(jwtSecret),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(mid.AppContextMiddleware(app))
	e.Use(echomw.CORS())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("64M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", "err", err)
	}
}

func runMigrations(databaseURL string) {
	migrationsPath := util.GetEnvString("MIGRATIONS_PATH", "migrations")

	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		logger.Fatal("failed to load migrations", "err", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("failed to run migrations", "err", err)
	}
	logger.Info("database migrations up to date")
}
