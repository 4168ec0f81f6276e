// Package httpapi wires the operator HTTP API (Gin) to the document store and
// session service, along with the cross-cutting middleware: tracing,
// correlation ids, redacted access logs, panic recovery, metrics, rate
// limiting, CORS, security headers, compression and bearer auth.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/chatbot-docstore/docs"
	"github.com/tbourn/chatbot-docstore/internal/config"
	"github.com/tbourn/chatbot-docstore/internal/http/handlers"
	"github.com/tbourn/chatbot-docstore/internal/http/middleware"
)

// maxBodyBytes caps request bodies. Dialog rewrites carry whole message
// lists, so this is larger than a typical JSON API.
const maxBodyBytes = 4 << 20

// RegisterRoutes attaches middleware and endpoints to r.
//
// Middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. RedactingLogger
//  4. Recovery
//  5. Body size limit
//  6. Metrics (+ /metrics)
//  7. Rate limiter (per client IP)
//  8. CORS and security headers
//  9. gzip
//
// The API group additionally requires a bearer token when cfg.AdminToken is
// set. /health, /metrics and /swagger stay open.
func RegisterRoutes(r *gin.Engine, store handlers.DocumentStore, session handlers.SessionService, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-Telegram-Bot-Api-Secret-Token"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		NoStore:    true,
		CSPExempt:  []string{"/swagger/"},
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	docs.SwaggerInfo.BasePath = cfg.APIBasePath
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h := handlers.New(store, session, cfg.ChatModes)

	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.BearerAuth(cfg.AdminToken))
	{
		api.GET("/chat-modes", h.ListChatModes)

		// Users
		api.POST("/users", h.RegisterUser)
		api.GET("/users/:id", h.GetUser)
		api.GET("/users/:id/attributes/:key", h.GetUserAttribute)
		api.PUT("/users/:id/attributes/:key", h.SetUserAttribute)
		api.POST("/users/:id/touch", h.Touch)
		api.PUT("/users/:id/chat-mode", h.SetChatMode)

		// Dialogs
		api.POST("/users/:id/dialogs", h.StartDialog)
		api.GET("/users/:id/dialogs/:dialog_id", h.GetDialog)
		api.GET("/users/:id/dialogs/:dialog_id/messages", h.GetDialogMessages)
		api.PUT("/users/:id/dialogs/:dialog_id/messages", h.SetDialogMessages)
		api.POST("/users/:id/messages", h.AppendMessage)

		// Usage
		api.POST("/users/:id/tokens", h.AddUsedTokens)
		api.GET("/users/:id/usage", h.Usage)
	}
}

// corsMiddleware allows every origin when none are configured. Otherwise the
// request Origin is echoed only when it is on the allow-list.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		// ACAO even without an Origin header, for health checks and curl.
		force := func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		}
		return []gin.HandlerFunc{force, cors.New(base)}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	echo := func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{echo, cors.New(base)}
}

// limitBody caps request bodies at maxBytes; oversized reads fail downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
