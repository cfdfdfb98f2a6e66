package routes

import (
	"hr-portal/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes registers all routes related to jobs.
// Browsing the catalog is public; everything else requires authentication.
func RegisterJobRoutes(
	rg *gin.RouterGroup, // Base group (e.g., /api/v1)
	jobHandler handlers.JobHandlerInterface,
	authMiddleware gin.HandlerFunc,
) {
	public := rg.Group("/jobs")
	{
		public.GET("", jobHandler.BrowseJobs)        // Search, filter, sort and paginate open jobs
		public.GET("/facets", jobHandler.GetFacets) // Locations and companies for the filter dropdowns
	}

	jobs := rg.Group("/jobs")
	jobs.Use(authMiddleware)
	{
		jobs.POST("", jobHandler.CreateJob)
		jobs.GET("/mine", jobHandler.ListMyJobs) // Jobs posted by the authenticated recruiter
		jobs.GET("/:id", jobHandler.GetJobByID)
		jobs.PUT("/:id", jobHandler.UpdateJob)
		jobs.DELETE("/:id", jobHandler.DeleteJob)
	}
}
