// Package server assembles the HTTP API the dashboard pages consume.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trade-journal-go/internal/account"
	"trade-journal-go/internal/checklist"
	"trade-journal-go/internal/config"
	"trade-journal-go/internal/ingest"
	"trade-journal-go/internal/journal"
)

// New builds the gin engine with all routes mounted.
func New(cfg *config.Config, logger *zap.Logger, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	ingestor := ingest.NewIngestor(logger)
	fetcher := ingest.NewFetcher(cfg.Import.RateLimit, cfg.Import.RateLimitBurst, logger)
	journals := journal.NewService(db, logger)
	settings := account.NewService(db, logger)
	checklists := checklist.NewStore(db, logger)

	handlers := []interface{ Register(*gin.Engine) }{
		&HealthHandler{DB: db},
		&JournalHandler{
			Logger:   logger,
			Journals: journals,
			Ingestor: ingestor,
			Fetcher:  fetcher,
			Settings: settings,
		},
		&ChecklistHandler{Store: checklists},
		&SettingsHandler{Settings: settings},
	}
	for _, h := range handlers {
		h.Register(r)
	}
	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Handled request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
