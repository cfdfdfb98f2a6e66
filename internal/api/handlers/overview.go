package handlers

import (
	"net/http"

	"hr-portal/internal/services"
	"hr-portal/internal/transport/dto"

	"github.com/gin-gonic/gin"
)

// OverviewHandler serves the dashboard figures.
type OverviewHandler struct {
	service services.OverviewService
}

// NewOverviewHandler creates a new OverviewHandler.
func NewOverviewHandler(service services.OverviewService) *OverviewHandler {
	return &OverviewHandler{service: service}
}

// RecruiterOverview godoc
// @Summary      Recruiter dashboard
// @Description  Open jobs, total applicants, interviews and the five most recent applicants.
// @Tags         overview
// @Produce      json
// @Success      200 {object}  dto.RecruiterOverview
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Recruiters only"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /overview/recruiter [get]
// @Security     BearerAuth
func (h *OverviewHandler) RecruiterOverview(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	overview, err := h.service.Recruiter(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "Failed to load recruiter overview")
		return
	}
	c.JSON(http.StatusOK, dto.RecruiterOverview{
		ActiveJobs:       overview.ActiveJobs,
		TotalApplicants:  overview.TotalApplicants,
		Interviews:       overview.Interviews,
		RecentApplicants: mapApplicationsWithJob(overview.RecentApplicants),
	})
}

// CandidateSummary godoc
// @Summary      Candidate dashboard
// @Description  Counts the caller's applications per status.
// @Tags         overview
// @Produce      json
// @Success      200 {object}  dto.CandidateSummary
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Candidates only"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /overview/candidate [get]
// @Security     BearerAuth
func (h *OverviewHandler) CandidateSummary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	summary, err := h.service.Candidate(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "Failed to load application summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
