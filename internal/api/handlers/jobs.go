package handlers

import (
	"net/http"

	"hr-portal/internal/catalog"
	"hr-portal/internal/services"
	"hr-portal/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// JobHandler holds dependencies for job operations.
type JobHandler struct {
	service   services.JobService
	validator *validator.Validate
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(service services.JobService, validate *validator.Validate) *JobHandler {
	return &JobHandler{
		service:   service,
		validator: validate,
	}
}

// BrowseJobs godoc
// @Summary      Browse open jobs
// @Description  Searches, filters, sorts and paginates the open job catalog (9 per page).
// @Tags         jobs
// @Produce      json
// @Param        search   query     string false "Case-insensitive term matched against title, company and location"
// @Param        location query     string false "Exact location, or All"
// @Param        company  query     string false "Exact company name, or All"
// @Param        sort     query     string false "Newest, Oldest, HighestSalary or LowestSalary" default(Newest)
// @Param        page     query     int    false "1-indexed page" default(1)
// @Success      200 {object}  dto.JobPageResponse
// @Failure      400 {object}  map[string]string "Invalid query"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs [get]
func (h *JobHandler) BrowseJobs(c *gin.Context) {
	var req dto.BrowseJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.service.Browse(c.Request.Context(), catalog.Query{
		Search:   req.Search,
		Location: req.Location,
		Company:  req.Company,
		Sort:     catalog.ParseSort(req.Sort),
		Page:     req.Page,
	})
	if err != nil {
		respondError(c, err, "Failed to browse jobs")
		return
	}

	c.JSON(http.StatusOK, dto.JobPageResponse{
		Jobs:       mapJobs(page.Jobs),
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// GetFacets godoc
// @Summary      Catalog filter values
// @Description  Lists the distinct locations and companies among open jobs.
// @Tags         jobs
// @Produce      json
// @Success      200 {object}  catalog.Facets
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/facets [get]
func (h *JobHandler) GetFacets(c *gin.Context) {
	facets, err := h.service.Facets(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list job facets")
		return
	}
	c.JSON(http.StatusOK, facets)
}

// CreateJob godoc
// @Summary      Create a new job posting
// @Description  Adds a new job posting. Recruiter ID is taken from auth context.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job body      dto.CreateJobRequest true  "Job details"
// @Success      201 {object}  dto.JobResponse "Job created successfully"
// @Failure      400 {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Only recruiters can post jobs"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) CreateJob(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	req.RecruiterID = p.ID

	createdJob, err := h.service.Create(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err, "Failed to create job")
		return
	}

	c.JSON(http.StatusCreated, MapJobModelToJobResponse(createdJob))
}

// ListMyJobs godoc
// @Summary      List the recruiter's jobs
// @Description  Lists every job posted by the authenticated recruiter, newest first.
// @Tags         jobs
// @Produce      json
// @Success      200 {array}   dto.JobResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/mine [get]
// @Security     BearerAuth
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	jobs, err := h.service.ListByRecruiter(c.Request.Context(), p, p.ID)
	if err != nil {
		respondError(c, err, "Failed to list jobs")
		return
	}
	c.JSON(http.StatusOK, mapJobs(jobs))
}

// GetJobByID godoc
// @Summary      Get a job by ID
// @Description  Retrieves details for a specific job by its ID.
// @Tags         jobs
// @Produce      json
// @Param        id path      string true  "Job ID" Format(uuid)
// @Success      200 {object}  dto.JobResponse "Successfully retrieved job"
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) GetJobByID(c *gin.Context) {
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.service.Get(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err, "Failed to retrieve job")
		return
	}

	c.JSON(http.StatusOK, MapJobModelToJobResponse(job))
}

// UpdateJob godoc
// @Summary      Update a job posting
// @Description  Partially updates a job owned by the authenticated recruiter. An empty salary_range clears it.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      string               true "Job ID" Format(uuid)
// @Param        job  body      dto.UpdateJobRequest true "Fields to change"
// @Success      200 {object}  dto.JobResponse
// @Failure      400 {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Not the job owner"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) UpdateJob(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	updatedJob, err := h.service.Update(c.Request.Context(), p, jobID, &req)
	if err != nil {
		respondError(c, err, "Failed to update job")
		return
	}

	c.JSON(http.StatusOK, MapJobModelToJobResponse(updatedJob))
}

// DeleteJob godoc
// @Summary      Delete a job posting
// @Description  Deletes a job owned by the authenticated recruiter together with its applications.
// @Tags         jobs
// @Param        id path      string true "Job ID" Format(uuid)
// @Success      204 "Job deleted"
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Not the job owner"
// @Failure      404 {object}  map[string]string "Job Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) DeleteJob(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	jobID, ok := pathUUID(c, "id", "job")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), p, jobID); err != nil {
		respondError(c, err, "Failed to delete job")
		return
	}

	c.Status(http.StatusNoContent)
}
