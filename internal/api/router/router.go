package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/config"
	"github.com/Xtown-XT/va-erp-sub000/internal/api/handler"
	"github.com/Xtown-XT/va-erp-sub000/internal/api/middleware"
	"github.com/Xtown-XT/va-erp-sub000/pkg/jwt"
	"github.com/Xtown-XT/va-erp-sub000/pkg/metrics"
	"github.com/Xtown-XT/va-erp-sub000/pkg/redis"
)

// roles allowed to write to the ledger
var writerRoles = []string{"admin", "supervisor"}

// Setup builds the gin engine. rdb and m may be nil.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	verifier *jwt.Verifier,
	rdb *redis.Client,
	db *gorm.DB,
	m *metrics.Metrics,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	if cfg.Server.BodyLimit > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}

	// ── health ──
	r.GET("/health", healthCheck(db, rdb))

	if cfg.Metrics.Enabled && m != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(verifier, rdb))

	write := []gin.HandlerFunc{
		middleware.RoleAuth(writerRoles...),
		middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window),
	}
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), fn)
	}

	entries := v1.Group("/daily-entries")
	{
		entries.GET("", h.DailyEntry.List)
		entries.GET("/reference-code", h.DailyEntry.GenerateReferenceCode)
		entries.GET("/:id", h.DailyEntry.Get)
		entries.GET("/:id/events", h.DailyEntry.ListEvents)
		entries.POST("", guarded(h.DailyEntry.Create)...)
		entries.PUT("/:id", guarded(h.DailyEntry.Update)...)
	}

	fittings := v1.Group("/fittings")
	{
		fittings.GET("", h.Fitting.List)
		fittings.POST("", guarded(h.Fitting.FitItem)...)
		fittings.POST("/:id/remove", guarded(h.Fitting.RemoveItem)...)
	}

	attendance := v1.Group("/attendance")
	{
		attendance.POST("", guarded(h.Attendance.Upsert)...)
		attendance.POST("/batch", guarded(h.Attendance.UpsertBatch)...)
	}

	v1.GET("/maintenance/alerts", h.Maintenance.ListAlerts)

	assets := v1.Group("/assets")
	{
		assets.GET("/:id/alerts", h.Maintenance.AssetAlerts)
		assets.PUT("/:id/schedule", guarded(h.Maintenance.ReplaceSchedule)...)
	}

	return r
}

// healthCheck reports 503 when the database is unreachable.
// Redis is optional and only reported.
func healthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "up", "redis": "disabled"}
		code := http.StatusOK

		if db != nil {
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				status["status"] = "degraded"
				status["database"] = "down"
				code = http.StatusServiceUnavailable
			}
		}

		if rdb != nil {
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "down"
			} else {
				status["redis"] = "up"
			}
		}

		c.JSON(code, status)
	}
}
