package handlers

import (
	"errors"
	"net/http"

	"hr-portal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// respondError maps a service error to its HTTP status. action describes the
// failed operation for 500 responses, e.g. "Failed to create job".
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		body := gin.H{"error": err.Error()}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			body = gin.H{"error": "Validation failed", "details": FormatValidationErrors(fieldErrs)}
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrJobClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": action})
	}
}
