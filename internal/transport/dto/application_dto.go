package dto

import (
	"time"

	"hr-portal/internal/models"

	"github.com/google/uuid"
)

// NewApplicationRequest carries everything needed to store an application.
type NewApplicationRequest struct {
	JobID          uuid.UUID `json:"job_id" validate:"required"`
	CandidateID    uuid.UUID `json:"candidate_id" validate:"required"`
	FullName       string    `json:"full_name" validate:"required,max=200"`
	Email          string    `json:"email" validate:"required,email"`
	ResumeURL      string    `json:"resume_url" validate:"required"`
	ResumeName     string    `json:"resume_name" validate:"max=255"`
	CoverLetterURL *string   `json:"cover_letter_url,omitempty"`
}

// UpdateApplicationStatusRequest is the body of PATCH /applications/:id/status.
type UpdateApplicationStatusRequest struct {
	Status      models.ApplicationStatus `json:"status" validate:"required,oneof=Pending Interview Hired Rejected Withdrawn"`
	ScheduledAt *time.Time               `json:"scheduled_at,omitempty"` // required when moving to Interview
}

// ApplicationResponse defines the application data returned to the client.
type ApplicationResponse struct {
	ID             uuid.UUID                  `json:"id"`
	JobID          uuid.UUID                  `json:"job_id"`
	JobTitle       string                     `json:"job_title,omitempty"`
	CandidateID    uuid.UUID                  `json:"candidate_id"`
	FullName       string                     `json:"full_name"`
	Email          string                     `json:"email"`
	ResumeURL      string                     `json:"resume_url"`
	ResumeName     string                     `json:"resume_name"`
	CoverLetterURL *string                    `json:"cover_letter_url,omitempty"`
	Status         models.ApplicationStatus   `json:"status"`
	ScheduledAt    *time.Time                 `json:"scheduled_at"`
	NextStatuses   []models.ApplicationStatus `json:"next_statuses"`
	CreatedAt      string                     `json:"created_at"`
	UpdatedAt      string                     `json:"updated_at"`
}
