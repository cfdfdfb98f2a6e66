package dto

import "hr-portal/internal/models"

// RecruiterOverview backs the recruiter dashboard.
type RecruiterOverview struct {
	ActiveJobs       int                   `json:"active_jobs"`
	TotalApplicants  int                   `json:"total_applicants"`
	Interviews       int                   `json:"interviews"`
	RecentApplicants []ApplicationResponse `json:"recent_applicants"`
}

// CandidateSummary counts a candidate's applications per status.
type CandidateSummary struct {
	Total    int                              `json:"total"`
	ByStatus map[models.ApplicationStatus]int `json:"by_status"`
}
