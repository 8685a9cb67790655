// Package http wires the REST surface and the realtime endpoint onto gin.
package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/7cAT-0805/FastTransfer/internal/adapters/ws"
	"github.com/7cAT-0805/FastTransfer/internal/app/orch"
	"github.com/7cAT-0805/FastTransfer/internal/config"
	"github.com/7cAT-0805/FastTransfer/pkg/metrics"
	"github.com/7cAT-0805/FastTransfer/pkg/ratelimit"
)

// ClientTokenMiddleware gives every browser a stable opaque token in
// its session cookie; handlers use it for log correlation.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token, _ := sess.Get("ct").(string)
		if token == "" {
			token = uuid.NewString()
			sess.Set("ct", token)
			if err := sess.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// RateLimitMiddleware rejects clients that exceed the per-IP budget.
func RateLimitMiddleware(lim *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !lim.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(429, gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("FastTransferSession", store))
	r.Use(ClientTokenMiddleware())

	h := &Handlers{Orch: o}
	wsCtl := ws.NewController(o, cfg.PingPeriod, cfg.WriteTimeout)
	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow)

	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.Use(RateLimitMiddleware(limiter))

	api.GET("", h.APIInfo)
	api.GET("/health", h.Health)
	api.POST("/rooms", h.CreateRoom)
	api.POST("/rooms/:roomId/join", h.JoinRoom)
	api.POST("/rooms/:roomId/verify-host", h.VerifyHost)
	api.POST("/rooms/:roomId/upload", h.UploadFile)
	api.GET("/rooms/:roomId/files", h.ListFiles)
	api.GET("/rooms/:roomId/files/:fileId", h.GetFile)

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("ct", c.GetString("client_token")).Msg("ws endpoint hit")
		wsCtl.Handle(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
