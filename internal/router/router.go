package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/config"
	"github.com/stemsi/transfer-backend/internal/handler"
	"github.com/stemsi/transfer-backend/internal/middleware"
	"github.com/stemsi/transfer-backend/internal/response"
)

// catalogMaxAge is how long clients may reuse catalog responses before
// revalidating with the ETag.
const catalogMaxAge = 300

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student     *handler.StudentHandler
	Transcript  *handler.TranscriptHandler
	Eligibility *handler.EligibilityHandler
	Catalog     *handler.CatalogHandler
	WS          *handler.WSHandler
	System      *handler.SystemHandler
}

// Limiters holds the per-IP rate limiters applied to expensive routes.
type Limiters struct {
	Verify  *middleware.RateLimiter
	Advisor *middleware.RateLimiter
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	handlers *Handlers,
	limiters *Limiters,
	catalogVersion func() string,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "If-None-Match", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "ETag", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.System.Health)

	api := router.Group("/api/v1")

	// ─── 1. Catalog (static data, cacheable) ───────────────────────────
	catalog := api.Group("/catalog")
	catalog.Use(middleware.CacheControl(catalogMaxAge), middleware.ETag(catalogVersion))
	{
		catalog.GET("/colleges", handlers.Catalog.Colleges)
		catalog.GET("/campuses", handlers.Catalog.Campuses)
		catalog.GET("/:university/majors", handlers.Catalog.Majors)
		catalog.GET("/:university/majors/:major", handlers.Catalog.Profile)
	}

	// ─── 2. Students ───────────────────────────────────────────────────
	api.POST("/students", handlers.Student.Register)
	students := api.Group("/students/:email")
	{
		students.GET("", handlers.Student.Get)
		students.PUT("", handlers.Student.Update)
		students.POST("/target", handlers.Student.SelectTarget)

		students.GET("/transcript", handlers.Transcript.Get)
		students.PUT("/transcript", handlers.Transcript.Replace)
		students.POST("/transcript/import", handlers.Transcript.Import)

		students.POST("/verify", limiters.Verify.Middleware(), handlers.Eligibility.Verify)
		students.GET("/results", handlers.Eligibility.Results)
		students.GET("/results/history", handlers.Eligibility.History)
		students.POST("/results/receipt", handlers.Eligibility.IssueReceipt)
		students.POST("/advisor-summary", limiters.Advisor.Middleware(), handlers.Eligibility.AdvisorSummary)
	}

	// ─── 3. Receipts (counselor side) ──────────────────────────────────
	api.POST("/receipts/verify", handlers.Eligibility.VerifyReceipt)

	// ─── 4. System ─────────────────────────────────────────────────────
	api.GET("/system/metrics", handlers.System.SystemMetricsSSE)

	// ─── 5. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/students/:email/reports", handlers.WS.ReportStream)
	}

	return router
}
