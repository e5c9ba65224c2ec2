package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Aria_AI/internal/agent"
	"Aria_AI/internal/api"
	"Aria_AI/internal/config"
	"Aria_AI/internal/conversation"
	"Aria_AI/internal/database/kafka"
	"Aria_AI/internal/database/minio"
	"Aria_AI/internal/database/mongo"
	"Aria_AI/internal/database/mysql"
	"Aria_AI/internal/database/redis"
	"Aria_AI/internal/embedding"
	"Aria_AI/internal/llm"
	"Aria_AI/internal/memory"
	"Aria_AI/internal/rag"
	"Aria_AI/internal/search"
	"Aria_AI/internal/storage"
	"Aria_AI/internal/user"
	"Aria_AI/pkg/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("aria_server", "", "")

	// Initialize database clients
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, err := mongo.NewClient(ctx, &cfg.Databases.MongoDB)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer mongoClient.Close(context.Background())

	redisClient, err := redis.NewClient(ctx, &cfg.Databases.Redis)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer redisClient.Close()

	mysqlDB, err := mysql.NewDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer mysql.Close(mysqlDB)

	minioClient, err := minio.NewClient(ctx, &cfg.Databases.MinIO)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	kafkaClient, err := kafka.NewClient(&cfg.Databases.Kafka)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer kafkaClient.Close()

	// Initialize embedding and LLM clients
	embedder, err := embedding.NewModel(&cfg.Embedding)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	llmClient, err := llm.NewClient(ctx, &cfg.LLM)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	// Memory: fact store, extraction pipeline and cleanup
	factDAL := memory.NewMongoFactDAL(mongoClient.Database)
	prefDAL := memory.NewMongoPreferenceDAL(mongoClient.Database)
	memoryService := memory.NewService(factDAL, prefDAL, &cfg.Memory, appLogger)
	publisher := memory.NewPublisher(kafkaClient)

	extractor := memory.NewLLMExtractor(llmClient, cfg.LLM.DefaultModel)
	consumer := memory.NewConsumer(kafkaClient, extractor, memoryService, appLogger)
	consumer.Start(ctx)

	janitor := memory.NewJanitor(factDAL, &cfg.Memory, appLogger)
	janitor.Start(ctx)

	// RAG: ingestion and retrieval
	blobStore := storage.NewMinIOBlobStore(minioClient, cfg.Databases.MinIO.Bucket)
	chunkDAL := rag.NewMongoChunkDAL(mongoClient.Database)
	docDAL := rag.NewMongoDocumentDAL(mongoClient.Database)
	chunker := rag.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	ingestor := rag.NewIngestor(chunker, embedder, docDAL, chunkDAL, blobStore, appLogger)
	index := rag.NewIndex(chunkDAL, embedder, &cfg.RAG, appLogger)

	// Conversations
	convStore := conversation.NewStore(mongoClient.Database)
	if err := convStore.EnsureIndexes(ctx); err != nil {
		appLogger.Warn(fmt.Sprintf("failed to ensure conversation indexes: %v", err))
	}
	convCache := conversation.NewCache(redisClient, time.Duration(cfg.Databases.Redis.ContextTTL)*time.Second, appLogger)
	convService := conversation.NewService(convStore, convCache, appLogger)

	// Users
	userStore, err := user.NewGormStore(mysqlDB)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	userService := user.NewService(userStore, memoryService, &cfg.Auth, appLogger)

	// Agent: search, context composition, chat
	searchClient := search.NewClient(&cfg.Search, appLogger)
	reader := search.NewReader()
	composer := agent.NewComposer(memoryService, searchClient, reader, index, int64(cfg.Memory.ContextLimit), cfg.Search.FetchTopPages, appLogger)
	agentService := agent.NewService(llmClient, composer, convService, publisher, &cfg.LLM, appLogger)

	// HTTP surface
	healthChecks := map[string]api.HealthCheckFunc{
		"mongodb": mongoClient.HealthCheck,
		"redis":   func(ctx context.Context) error { return redis.HealthCheck(ctx, redisClient) },
		"mysql":   func(ctx context.Context) error { return mysql.HealthCheck(ctx, mysqlDB) },
		"minio":   func(ctx context.Context) error { return minio.HealthCheck(ctx, minioClient) },
		"kafka":   kafkaClient.HealthCheck,
	}
	handler := api.NewHandler(userService, agentService, convService, memoryService, ingestor, blobStore, cfg.Server.MaxUploadBytes, healthChecks, appLogger)
	router := api.SetupRouter(handler, &cfg.Server, cfg.Auth.JwtSecret)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.Info(fmt.Sprintf("server listening on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err.Error())
		}
	}()

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("shutdown failed: %v", err))
	}

	appLogger.Info("server stopped")
}
