package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"hr-portal/internal/api/middleware"
	"hr-portal/internal/blob"
	"hr-portal/internal/lifecycle"
	"hr-portal/internal/models"
	"hr-portal/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func FormatValidationErrors(err error) map[string]string {
	errorsMap := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorsMap["error"] = "Invalid validation error type"
		return errorsMap
	}
	for _, fieldError := range validationErrors {
		fieldName := fieldError.Field()
		errorsMap[fieldName] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fieldName, fieldError.Tag())
		switch fieldError.Tag() {
		case "required":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' is required", fieldName)
		case "email":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be a valid email address", fieldName)
		case "min":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be at least %s characters long", fieldName, fieldError.Param())
		case "max":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be at most %s characters long", fieldName, fieldError.Param())
		case "oneof":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be one of: %s", fieldName, fieldError.Param())
		}
	}
	return errorsMap
}

// bindJSON binds and validates the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, v *validator.Validate, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return false
	}
	if err := v.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return false
	}
	return true
}

// principal returns the authenticated principal or writes a 401.
func principal(c *gin.Context) (models.Principal, bool) {
	p, err := middleware.GetPrincipalFromContext(c)
	if err != nil {
		log.Printf("Error getting principal from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Principal{}, false
	}
	return p, true
}

// pathUUID parses a uuid path parameter or writes a 400.
func pathUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// formFile reads an optional multipart file. It returns nil when the field is
// absent or the body is not multipart. The caller must close the returned closer.
func formFile(c *gin.Context, field string, maxBytes int64) (*blob.File, func(), error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*blob.File, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &blob.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     f,
	}, func() { f.Close() }, nil
}

// MapJobModelToJobResponse converts a models.Job to a dto.JobResponse
func MapJobModelToJobResponse(job *models.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:             job.ID,
		RecruiterID:    job.RecruiterID,
		Title:          job.Title,
		Description:    job.Description,
		Requirements:   job.Requirements,
		Location:       job.Location,
		CompanyName:    job.CompanyName,
		SalaryRange:    job.SalaryRange,
		Status:         string(job.Status),
		ApplicantCount: job.ApplicantCount,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

func mapJobs(jobs []models.Job) []dto.JobResponse {
	out := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, MapJobModelToJobResponse(&jobs[i]))
	}
	return out
}

// MapApplicationModelToResponse converts a models.Application to a dto.ApplicationResponse
func MapApplicationModelToResponse(app *models.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:             app.ID,
		JobID:          app.JobID,
		CandidateID:    app.CandidateID,
		FullName:       app.FullName,
		Email:          app.Email,
		ResumeURL:      app.ResumeURL,
		ResumeName:     app.ResumeName,
		CoverLetterURL: app.CoverLetterURL,
		Status:         app.Status,
		ScheduledAt:    app.ScheduledAt,
		NextStatuses:   lifecycle.Next(app.Status),
		CreatedAt:      app.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      app.UpdatedAt.Format(time.RFC3339),
	}
}

// MapApplicationWithJobToResponse adds the job title to the mapped application.
func MapApplicationWithJobToResponse(app *models.ApplicationWithJob) dto.ApplicationResponse {
	resp := MapApplicationModelToResponse(&app.Application)
	resp.JobTitle = app.JobTitle
	return resp
}

func mapApplications(apps []models.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, MapApplicationModelToResponse(&apps[i]))
	}
	return out
}

func mapApplicationsWithJob(apps []models.ApplicationWithJob) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, MapApplicationWithJobToResponse(&apps[i]))
	}
	return out
}

// MapCandidateModelToResponse converts a models.Candidate to a dto.CandidateResponse
func MapCandidateModelToResponse(c *models.Candidate) dto.CandidateResponse {
	return dto.CandidateResponse{
		UserID:     c.UserID,
		FullName:   c.FullName,
		Email:      c.Email,
		Phone:      c.Phone,
		Education:  c.Education,
		Experience: c.Experience,
		Skills:     c.Skills,
		ResumeURL:  c.ResumeURL,
		ResumeName: c.ResumeName,
		AvatarURL:  c.AvatarURL,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
