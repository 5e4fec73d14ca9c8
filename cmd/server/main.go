package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/karry12138/public-opinion-graph/internal/graph"
	"github.com/karry12138/public-opinion-graph/internal/report"
	"github.com/karry12138/public-opinion-graph/pkg/config"
	"github.com/karry12138/public-opinion-graph/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting opinion graph API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer driver.Close(context.Background())

	reader := graph.NewReader(driver)
	writer := graph.NewWriter(driver, graph.Caps{
		MaxComments:          cfg.MaxComments,
		MaxRepliesPerComment: cfg.MaxRepliesPerComment,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Plain-text analysis report
		api.GET("/report", func(c *gin.Context) {
			text, err := report.Generate(c.Request.Context(), reader)
			if err != nil {
				log.Error("Failed to generate report", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
				return
			}
			c.String(http.StatusOK, text)
		})

		// Structured export document
		api.GET("/export", func(c *gin.Context) {
			export, err := reader.Export(c.Request.Context(), graph.DefaultExportLimits)
			if err != nil {
				log.Error("Failed to export graph data", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export graph data"})
				return
			}
			c.JSON(http.StatusOK, export)
		})

		// Per-label node counts and relationship count
		api.GET("/stats", func(c *gin.Context) {
			stats, err := writer.Stats(c.Request.Context())
			if err != nil {
				log.Error("Failed to query stats", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query stats"})
				return
			}
			c.JSON(http.StatusOK, stats)
		})

		// Cypher reference catalog
		api.GET("/queries", func(c *gin.Context) {
			c.String(http.StatusOK, report.FormatQueryCatalog())
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
