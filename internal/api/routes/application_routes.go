package routes

import (
	"hr-portal/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterApplicationRoutes registers all routes related to job applications.
// writeLimit throttles submissions.
func RegisterApplicationRoutes(
	rg *gin.RouterGroup,
	appHandler handlers.ApplicationHandlerInterface,
	authMiddleware gin.HandlerFunc,
	writeLimit gin.HandlerFunc,
) {
	// Group for actions related to a specific job
	jobsGroup := rg.Group("/jobs")
	jobsGroup.Use(authMiddleware)
	{
		jobsGroup.POST("/:id/apply", writeLimit, appHandler.ApplyToJob)
		jobsGroup.GET("/:id/applications", appHandler.ListJobApplications) // Recruiter view
	}

	// Group for actions related to applications themselves
	appsGroup := rg.Group("/applications")
	appsGroup.Use(authMiddleware)
	{
		appsGroup.POST("", writeLimit, appHandler.CreateApplication)
		appsGroup.GET("/mine", appHandler.ListMyApplications)           // Submitted by the current candidate
		appsGroup.GET("/received", appHandler.ListReceivedApplications) // Received on the current recruiter's jobs
		appsGroup.GET("/:id", appHandler.GetApplication)
		appsGroup.PATCH("/:id/status", appHandler.UpdateApplicationStatus)
	}
}
