package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"rag-document-backend/internal/ai"
	"rag-document-backend/internal/config"
	"rag-document-backend/internal/database"
	"rag-document-backend/internal/logger"
	"rag-document-backend/internal/store"
	"rag-document-backend/internal/telemetry"
	"rag-document-backend/middleware"
	"rag-document-backend/routes"
	"rag-document-backend/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	if err := os.MkdirAll(cfg.FileStorageDir, 0o755); err != nil {
		log.Fatal("Failed to create storage directory:", err)
	}

	// Postgres pool: users table and the pgvector chunk table.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal("Failed to connect to Postgres:", err)
	}
	defer pool.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = database.EnsureSchema(ctx, pool, cfg.EmbeddingDimensions)
	cancel()
	if err != nil {
		log.Fatal("Failed to apply schema:", err)
	}

	db := store.New(pool)

	aiClient, err := ai.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to create Ollama client:", err)
	}

	chunker := services.NewChunker(cfg.MaxChunkSize, cfg.ChunkOverlap, cfg.MinChunkSize)
	ingest := services.NewIngestService(aiClient, db, chunker, cfg.MaxContentLength)

	var shutdownTracer func()
	if cfg.TracingEnabled {
		shutdownTracer, err = telemetry.InitTracer("rag-document-backend", cfg.OTLPEndpoint)
		if err != nil {
			log.Fatal("Failed to initialize tracer:", err)
		}
		defer shutdownTracer()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to initialize metrics:", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("rag-document-backend"))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Rate limiting is best-effort: a missing Redis degrades to
	// unthrottled, it never blocks startup.
	if rdb, err := config.NewRedisClient(cfg); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "error", err)
	} else {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			dbStatus = "unreachable"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":          "healthy",
			"database":        dbStatus,
			"embedding_model": aiClient.EmbeddingModel(),
			"llm_model":       aiClient.LLMModel(),
			"timestamp":       time.Now(),
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(cfg, db)

	routes.SetupAuthRoutes(router, cfg, db)
	routes.SetupPromptRoutes(router)
	routes.SetupDocumentRoutes(router, cfg, authMiddleware, ingest, db, metrics)
	routes.SetupQueryRoutes(router, authMiddleware, aiClient, db, metrics)
	routes.SetupChatRoutes(router, authMiddleware, aiClient, db, metrics)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("server exited")
}
