// internal/transport/dto/job_dto.go
package dto

import (
	"time"

	"hr-portal/internal/models"

	"github.com/google/uuid"
)

// --- Job Request DTOs ---

// CreateJobRequest defines the structure for creating a new job posting.
type CreateJobRequest struct {
	Title        string            `json:"title" validate:"required,max=200"`
	Description  string            `json:"description" validate:"max=10000"`
	Requirements string            `json:"requirements" validate:"max=10000"`
	Location     string            `json:"location" validate:"max=200"`
	CompanyName  string            `json:"company_name" validate:"max=200"`
	SalaryRange  *string           `json:"salary_range,omitempty" validate:"omitempty,max=100"`
	Status       *models.JobStatus `json:"status,omitempty" validate:"omitempty,oneof=Open Closed"` // defaults to Open
	RecruiterID  uuid.UUID         `json:"-"`                                                       // Set internally by handler from auth context
}

// UpdateJobRequest defines a partial update; omitted fields are left unchanged.
// An empty salary_range clears it.
type UpdateJobRequest struct {
	Title        *string           `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string           `json:"description,omitempty" validate:"omitempty,max=10000"`
	Requirements *string           `json:"requirements,omitempty" validate:"omitempty,max=10000"`
	Location     *string           `json:"location,omitempty" validate:"omitempty,max=200"`
	CompanyName  *string           `json:"company_name,omitempty" validate:"omitempty,max=200"`
	SalaryRange  *string           `json:"salary_range,omitempty" validate:"omitempty,max=100"`
	Status       *models.JobStatus `json:"status,omitempty" validate:"omitempty,oneof=Open Closed"`
}

// BrowseJobsRequest binds the catalog query string.
type BrowseJobsRequest struct {
	Search   string `form:"search"`
	Location string `form:"location"`
	Company  string `form:"company"`
	Sort     string `form:"sort,default=Newest"`
	Page     int    `form:"page,default=1"`
}

// JobResponse defines the standard job data returned to the client.
type JobResponse struct {
	ID             uuid.UUID `json:"id"`
	RecruiterID    uuid.UUID `json:"recruiter_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Requirements   string    `json:"requirements"`
	Location       string    `json:"location"`
	CompanyName    string    `json:"company_name"`
	SalaryRange    *string   `json:"salary_range,omitempty"`
	Status         string    `json:"status"`
	ApplicantCount int       `json:"applicant_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// JobPageResponse is one page of the catalog.
type JobPageResponse struct {
	Jobs       []JobResponse `json:"jobs"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}
