package handlers

import (
	"net/http"

	"hr-portal/internal/services"
	"hr-portal/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// ApplicationHandler holds dependencies for application operations.
type ApplicationHandler struct {
	service        services.ApplicationService
	validator      *validator.Validate
	maxUploadBytes int64
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(service services.ApplicationService, validate *validator.Validate, maxUploadBytes int64) *ApplicationHandler {
	return &ApplicationHandler{
		service:        service,
		validator:      validate,
		maxUploadBytes: maxUploadBytes,
	}
}

// ApplyToJob godoc
// @Summary      Apply to a job
// @Description  Applies the authenticated candidate to an open job using their saved profile and resume.
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        id            path      string true  "Job ID" Format(uuid)
// @Param        cover_letter  formData  file   false "PDF, DOC or DOCX cover letter"
// @Success      201 {object}  dto.ApplicationResponse
// @Failure      400 {object}  map[string]string "Missing resume or invalid cover letter"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Only candidates can apply"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      409 {object}  map[string]string "Already applied or job closed"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id}/apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) ApplyToJob(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	coverLetter, closeFile, err := formFile(c, "cover_letter", h.maxUploadBytes)
	if err != nil {
		log.Printf("Error reading cover letter upload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cover letter upload"})
		return
	}
	defer closeFile()

	app, err := h.service.Apply(c.Request.Context(), p, jobID, coverLetter)
	if err != nil {
		respondError(c, err, "Failed to apply to job")
		return
	}

	c.JSON(http.StatusCreated, MapApplicationModelToResponse(app))
}

// CreateApplication godoc
// @Summary      Submit an application
// @Description  Stores an application from explicit fields. The candidate ID must be the caller.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application body      dto.NewApplicationRequest true "Application"
// @Success      201 {object}  dto.ApplicationResponse
// @Failure      400 {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      409 {object}  map[string]string "Already applied or job closed"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.NewApplicationRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	app, err := h.service.Create(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err, "Failed to create application")
		return
	}

	c.JSON(http.StatusCreated, MapApplicationModelToResponse(app))
}

// ListJobApplications godoc
// @Summary      List applicants for a job
// @Description  Lists the applications to a job owned by the authenticated recruiter, newest first.
// @Tags         applications
// @Produce      json
// @Param        id path      string true "Job ID" Format(uuid)
// @Success      200 {array}   dto.ApplicationResponse
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Not the job owner"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	apps, err := h.service.ListForJob(c.Request.Context(), p, jobID)
	if err != nil {
		respondError(c, err, "Failed to list job applications")
		return
	}
	c.JSON(http.StatusOK, mapApplications(apps))
}

// ListMyApplications godoc
// @Summary      List the candidate's applications
// @Tags         applications
// @Produce      json
// @Success      200 {array}   dto.ApplicationResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications/mine [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	apps, err := h.service.ListForCandidate(c.Request.Context(), p, p.ID)
	if err != nil {
		respondError(c, err, "Failed to list applications")
		return
	}
	c.JSON(http.StatusOK, mapApplicationsWithJob(apps))
}

// ListReceivedApplications godoc
// @Summary      List applications to the recruiter's jobs
// @Tags         applications
// @Produce      json
// @Success      200 {array}   dto.ApplicationResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications/received [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListReceivedApplications(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	apps, err := h.service.ListForRecruiterJobs(c.Request.Context(), p, p.ID)
	if err != nil {
		respondError(c, err, "Failed to list applications")
		return
	}
	c.JSON(http.StatusOK, mapApplicationsWithJob(apps))
}

// GetApplication godoc
// @Summary      Get an application
// @Description  Visible to the applicant and to the recruiter owning the job.
// @Tags         applications
// @Produce      json
// @Param        id path      string true "Application ID" Format(uuid)
// @Success      200 {object}  dto.ApplicationResponse
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Application Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appID, ok := pathUUID(c, "id", "application")
	if !ok {
		return
	}

	app, err := h.service.Get(c.Request.Context(), p, appID)
	if err != nil {
		respondError(c, err, "Failed to retrieve application")
		return
	}
	c.JSON(http.StatusOK, MapApplicationWithJobToResponse(app))
}

// UpdateApplicationStatus godoc
// @Summary      Move an application through its lifecycle
// @Description  Recruiters schedule interviews, hire and reject; candidates withdraw. Interview requires scheduled_at.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id     path      string                              true "Application ID" Format(uuid)
// @Param        status body      dto.UpdateApplicationStatusRequest  true "Target status"
// @Success      200 {object}  dto.ApplicationResponse
// @Failure      400 {object}  map[string]string "Invalid status or missing schedule"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Application Not Found"
// @Failure      409 {object}  map[string]string "Invalid transition"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateApplicationStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appID, ok := pathUUID(c, "id", "application")
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	app, err := h.service.UpdateStatus(c.Request.Context(), appID, &req, p)
	if err != nil {
		respondError(c, err, "Failed to update application status")
		return
	}
	c.JSON(http.StatusOK, MapApplicationModelToResponse(app))
}
