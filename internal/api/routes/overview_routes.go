package routes

import (
	"hr-portal/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterOverviewRoutes registers the dashboard routes.
func RegisterOverviewRoutes(rg *gin.RouterGroup, overviewHandler handlers.OverviewHandlerInterface, authMiddleware gin.HandlerFunc) {
	overview := rg.Group("/overview")
	overview.Use(authMiddleware)
	{
		overview.GET("/recruiter", overviewHandler.RecruiterOverview)
		overview.GET("/candidate", overviewHandler.CandidateSummary)
	}
}
