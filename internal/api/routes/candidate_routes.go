package routes

import (
	"hr-portal/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterCandidateRoutes registers the profile and upload routes.
func RegisterCandidateRoutes(
	rg *gin.RouterGroup,
	candidateHandler handlers.CandidateHandlerInterface,
	authMiddleware gin.HandlerFunc,
	writeLimit gin.HandlerFunc,
) {
	candidates := rg.Group("/candidates")
	candidates.Use(authMiddleware)
	{
		candidates.GET("", candidateHandler.ListCandidates)
		candidates.GET("/me", candidateHandler.GetMyProfile)
		candidates.PUT("/me", candidateHandler.SaveMyProfile)
		candidates.GET("/me/completion", candidateHandler.GetMyCompletion)
		candidates.POST("/me/resume", writeLimit, candidateHandler.UploadResume)
		candidates.DELETE("/me/resume", candidateHandler.DeleteResume)
		candidates.POST("/me/avatar", writeLimit, candidateHandler.UploadAvatar)
		candidates.DELETE("/me/avatar", candidateHandler.DeleteAvatar)
		candidates.GET("/:id", candidateHandler.GetCandidate)
	}
}
