// Package app wires configuration, storage and the sync engine together
// for the command binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"colortrainer/internal/auth"
	"colortrainer/internal/broadcast"
	"colortrainer/internal/hub"
	"colortrainer/internal/reconcile"
	"colortrainer/internal/subtype"
	"colortrainer/internal/vocabulary"
	"colortrainer/pkg/database"
	"colortrainer/pkg/logger"
	"colortrainer/pkg/utils"
)

// OpenDB opens the configured SQLite file and migrates it to the latest schema.
func OpenDB(cfg utils.DatabaseConfig, log *zap.Logger) (*sql.DB, string, error) {
	dbCfg := database.DefaultConfig()
	if cfg.Path != "" {
		dbCfg.Path = cfg.Path
	}
	if cfg.BusyTimeout > 0 {
		dbCfg.BusyTimeout = cfg.BusyTimeout
	}

	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, "", err
	}
	if err := database.Migrate(db, log); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db migrate: %w", err)
	}
	return db, dbCfg.Path, nil
}

func NewHubClient(cfg utils.HubConfig, log *zap.Logger) *hub.Client {
	return hub.New(cfg.BaseURL, cfg.Token, cfg.APIKey,
		hub.WithTimeout(cfg.Timeout),
		hub.WithRetries(cfg.MaxRetries, cfg.RetryBackoff),
		hub.WithLogger(log.Named("hub")),
	)
}

func NewTokens(cfg utils.AuthConfig) auth.TokenService {
	return auth.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTDuration,
	}
}

// Store bundles the SQL repositories behind the engine's Store interface.
func NewStore(db *sql.DB) reconcile.SQLStore {
	return reconcile.SQLStore{Subtypes: subtype.NewRepo(db), Terms: vocabulary.NewRepo(db)}
}

type RouterDeps struct {
	DB        *sql.DB
	DBPath    string
	Engine    *reconcile.Engine
	Broadcast *broadcast.Hub
	Tokens    auth.TokenService
	Logger    *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(logger.RequestID(), logger.GinMiddleware(d.Logger), logger.Recovery(d.Logger))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/ws", broadcast.WSHandler(d.Broadcast))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": d.DBPath})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := d.Broadcast.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := d.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	guard := auth.OperatorMiddleware(d.Tokens)

	reconcile.NewHandler(d.Engine, guard).RegisterRoutes(router.Group("/hub"))
	subtype.NewHandler(subtype.NewRepo(d.DB), guard).RegisterRoutes(router.Group("/subtypes"))
	vocabulary.NewHandler(vocabulary.NewRepo(d.DB)).RegisterRoutes(router.Group("/vocabulary"))

	return router
}
