package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"neuroscreen/internal/config"
	"neuroscreen/internal/handlers"
	"neuroscreen/internal/llm"
	"neuroscreen/internal/models"
	"neuroscreen/internal/realtime"
	"neuroscreen/internal/utils"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, cfg *config.Config, bank *models.ItemBank, gateway *llm.Gateway, hub *realtime.Hub) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	sessionSecret := cfg.Server.SessionSecret
	if sessionSecret == "" {
		// Ephemeral secret: existing screening-session cookies won't survive
		// a restart, which is acceptable for anonymous telemetry binding.
		generated, err := utils.GenerateSecureToken(32)
		if err != nil {
			log.Fatal("Failed to generate session secret", zap.Error(err))
		}
		sessionSecret = generated
		log.Warn("No session secret configured, using an ephemeral one")
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})
	router.Use(sessions.Sessions("neuroscreen", store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers and routes
	reportHandler := handlers.NewReportHandler(log, gateway, cfg.LLM)
	analysisHandler := handlers.NewAnalysisHandler(log, gateway, cfg.LLM)
	sessionsHandler := handlers.NewSessionsHandler(log)
	itemsHandler := handlers.NewItemsHandler(log, bank)
	chartsHandler := handlers.NewChartsHandler(log)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/items/emotions", itemsHandler.Emotions)
		api.GET("/items/patterns", itemsHandler.Patterns)
		api.POST("/sessions", sessionsHandler.Start)
		api.POST("/sessions/:id/telemetry", sessionsHandler.SaveTelemetry)

		authorized := api.Group("")
		authorized.Use(APIKeyRequired(cfg.Auth, log))
		{
			authorized.POST("/generate-report", limiter, reportHandler.GenerateReport)
			authorized.POST("/analyze", limiter, analysisHandler.Analyze)
			authorized.POST("/analyze/stream", analysisHandler.AnalyzeStream)
			authorized.GET("/sessions/chart", chartsHandler.SessionChart)
		}
	}

	router.GET("/ws/:sessionID", func(c *gin.Context) {
		realtime.ServeWS(hub, log, cfg.Server.AllowedOrigins, c.Writer, c.Request, c.Param("sessionID"))
	})

	return router
}
