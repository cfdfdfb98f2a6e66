package routes

import (
	"context"

	"hr-portal/internal/api/handlers"
	"hr-portal/internal/api/middleware"
	"hr-portal/internal/app"
	"hr-portal/internal/metrics"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions.
// allowOrigin is the CORS origin check, reused for websocket upgrades.
func RegisterRoutes(router *gin.Engine, app *app.Application, allowOrigin func(string) bool) {
	// --- Base API Group ---
	apiV1 := router.Group("/api/v1")

	maxUpload := app.Config.Blob.MaxUploadBytes
	jobHandler := handlers.NewJobHandler(app.JobService, app.Validator)
	applicationHandler := handlers.NewApplicationHandler(app.ApplicationService, app.Validator, maxUpload)
	candidateHandler := handlers.NewCandidateHandler(app.CandidateService, app.Validator, maxUpload)
	overviewHandler := handlers.NewOverviewHandler(app.OverviewService)
	notificationHandler := handlers.NewNotificationHandler(app.Hub, allowOrigin)
	fileHandler := handlers.NewFileHandler(app.Blobs)
	healthHandler := handlers.NewHealthHandler(healthChecks(app))

	// --- Middleware ---
	authMiddleware := middleware.JWTAuthMiddleware(app.Verifier)
	writeLimit := middleware.NewRateLimiter(app.Config.RateLimit.RPS, app.Config.RateLimit.Burst).Handler()

	// --- Register Resource Routes ---
	RegisterJobRoutes(apiV1, jobHandler, authMiddleware)
	RegisterApplicationRoutes(apiV1, applicationHandler, authMiddleware, writeLimit)
	RegisterCandidateRoutes(apiV1, candidateHandler, authMiddleware, writeLimit)
	RegisterOverviewRoutes(apiV1, overviewHandler, authMiddleware)
	apiV1.GET("/notifications/ws", authMiddleware, notificationHandler.StreamNotifications)
	apiV1.GET("/files/:bucket/*path", fileHandler.ServeFile) // public URLs of uploaded files

	// --- Health Check & Metrics ---
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	log.Println("Configuring Swagger UI handler")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func healthChecks(app *app.Application) map[string]handlers.HealthCheckFunc {
	checks := map[string]handlers.HealthCheckFunc{}
	if app.DBPool != nil {
		checks["database"] = app.DBPool.Ping
	}
	if app.RedisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return app.RedisClient.Ping(ctx).Err()
		}
	}
	return checks
}
